package domain

import "strings"

// EntityKind identifies one of the record families the portal can link
// together. The set is closed: every consumer that dispatches on a kind
// does it through a table over AllEntityKinds, so adding a kind means
// adding it here and giving it an explicit priority entry.
type EntityKind string

const (
	KindReceipt       EntityKind = "receipt"
	KindTransaction   EntityKind = "transaction"
	KindReimbursement EntityKind = "reimbursement"
	KindBudget        EntityKind = "budget"
	KindInventory     EntityKind = "inventory"
	KindMinute        EntityKind = "minute"
	KindNews          EntityKind = "news"
	KindFAQ           EntityKind = "faq"
	KindPoll          EntityKind = "poll"
	KindSocial        EntityKind = "social"
	KindEvent         EntityKind = "event"
	KindMail          EntityKind = "mail"
	KindMailThread    EntityKind = "mail_thread"

	// KindManual is a pseudo-kind: it never appears on an edge, it only
	// ranks user-entered values on the domination scale.
	KindManual EntityKind = "manual"
)

// AllEntityKinds lists every linkable kind (KindManual excluded).
var AllEntityKinds = []EntityKind{
	KindReceipt,
	KindTransaction,
	KindReimbursement,
	KindBudget,
	KindInventory,
	KindMinute,
	KindNews,
	KindFAQ,
	KindPoll,
	KindSocial,
	KindEvent,
	KindMail,
	KindMailThread,
}

// kindAliases maps legacy and plural spellings still present in stored
// routes and old edge rows to the canonical kind.
var kindAliases = map[string]EntityKind{
	"purchase":       KindReimbursement,
	"purchases":      KindReimbursement,
	"minutes":        KindMinute,
	"receipts":       KindReceipt,
	"transactions":   KindTransaction,
	"reimbursements": KindReimbursement,
	"budgets":        KindBudget,
	"inventories":    KindInventory,
	"newsitem":       KindNews,
	"faqs":           KindFAQ,
	"polls":          KindPoll,
	"socials":        KindSocial,
	"events":         KindEvent,
	"mails":          KindMail,
	"mail_threads":   KindMailThread,
	"mailthread":     KindMailThread,
}

var canonicalKinds = func() map[string]EntityKind {
	m := make(map[string]EntityKind, len(AllEntityKinds))
	for _, kind := range AllEntityKinds {
		m[string(kind)] = kind
	}
	return m
}()

// NormalizeEntityKind resolves a raw kind string to the canonical enum.
// Unknown strings report ok=false and the caller drops the edge or rejects
// the request; they are never an error by themselves.
func NormalizeEntityKind(raw string) (EntityKind, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if kind, ok := canonicalKinds[name]; ok {
		return kind, true
	}
	if kind, ok := kindAliases[name]; ok {
		return kind, true
	}
	return "", false
}
