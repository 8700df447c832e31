package domain

// The domination scale: when several records are linked together, the one
// with the highest rank owns the truth for date, amount and description.
// A physical receipt beats a reimbursement request, which beats a bank
// transaction row; user-entered values beat everything.
//
// The map is exhaustive over the closed enum. A kind missing here ranks 0,
// so new kinds must get an explicit entry or they silently lose every
// conflict.
var entityPriorities = map[EntityKind]int{
	KindManual:        4,
	KindReceipt:       3,
	KindReimbursement: 2,
	KindTransaction:   1,
	KindBudget:        0,
	KindInventory:     0,
	KindMinute:        0,
	KindNews:          0,
	KindFAQ:           0,
	KindPoll:          0,
	KindSocial:        0,
	KindEvent:         0,
	KindMail:          0,
	KindMailThread:    0,
}

// EntityPriority returns the kind's rank on the domination scale.
func EntityPriority(kind EntityKind) int {
	return entityPriorities[kind]
}

// ShouldOverride reports whether source outranks target. Ties never
// override: the first record seen at the current maximum keeps winning.
func ShouldOverride(source, target EntityKind) bool {
	return EntityPriority(source) > EntityPriority(target)
}
