package domain

// PermissionSet captures what the calling member may read and link per
// kind. The loader silently omits unreadable kinds from its output and
// only computes "available" sets for writable ones.
type PermissionSet struct {
	read  map[EntityKind]bool
	write map[EntityKind]bool
}

func NewPermissionSet(read []EntityKind, write []EntityKind) *PermissionSet {
	ps := &PermissionSet{
		read:  make(map[EntityKind]bool, len(read)),
		write: make(map[EntityKind]bool, len(write)),
	}
	for _, kind := range read {
		ps.read[kind] = true
	}
	for _, kind := range write {
		// write implies read
		ps.read[kind] = true
		ps.write[kind] = true
	}
	return ps
}

// AllowAllPermissions is used for trusted in-process callers (background
// cleanup, internal service-to-service requests).
func AllowAllPermissions() *PermissionSet {
	return NewPermissionSet(nil, AllEntityKinds)
}

func (ps *PermissionSet) CanReadRelationType(kind EntityKind) bool {
	if ps == nil {
		return true
	}
	return ps.read[kind]
}

func (ps *PermissionSet) CanWriteRelationType(kind EntityKind) bool {
	if ps == nil {
		return true
	}
	return ps.write[kind]
}

var financeKinds = []EntityKind{KindReceipt, KindTransaction, KindReimbursement, KindBudget, KindInventory}

var communicationKinds = []EntityKind{KindMinute, KindNews, KindFAQ, KindPoll, KindSocial, KindEvent, KindMail, KindMailThread}

var memberKinds = []EntityKind{KindNews, KindFAQ, KindPoll, KindEvent, KindMinute, KindSocial}

// PermissionsForRoles maps portal roles to a merged permission set.
// Unknown roles contribute nothing.
func PermissionsForRoles(roles []string) *PermissionSet {
	read := make([]EntityKind, 0)
	write := make([]EntityKind, 0)

	for _, role := range roles {
		switch role {
		case "admin", "board":
			write = append(write, AllEntityKinds...)
		case "treasurer":
			write = append(write, financeKinds...)
			read = append(read, AllEntityKinds...)
		case "secretary":
			write = append(write, communicationKinds...)
			read = append(read, AllEntityKinds...)
		case "member":
			read = append(read, memberKinds...)
		}
	}

	return NewPermissionSet(read, write)
}
