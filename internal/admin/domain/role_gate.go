package domain

import "errors"

// MaxAdmins is the most accounts that may hold the admin role at once.
const MaxAdmins = 5

var (
	ErrAdminLimitReached = errors.New("admin limit reached")
	ErrSelfModification  = errors.New("admins cannot change their own role")
)

// Decision is the outcome of a role toggle. Changed is false for no-ops and
// AdminCount is the head count after the toggle.
type Decision struct {
	Admin      bool
	Changed    bool
	AdminCount int
}

// Promote decides whether target may become admin given the current count.
func Promote(actor, target string, currentIsAdmin bool, adminCount int) (Decision, error) {
	if actor == target {
		return Decision{Admin: currentIsAdmin, AdminCount: adminCount}, ErrSelfModification
	}
	if currentIsAdmin {
		return Decision{Admin: true, AdminCount: adminCount}, nil
	}
	if adminCount >= MaxAdmins {
		return Decision{Admin: false, AdminCount: adminCount}, ErrAdminLimitReached
	}
	return Decision{Admin: true, Changed: true, AdminCount: adminCount + 1}, nil
}

// Demote removes the role. Demotion is never limited by the quota.
func Demote(actor, target string, currentIsAdmin bool, adminCount int) (Decision, error) {
	if actor == target {
		return Decision{Admin: currentIsAdmin, AdminCount: adminCount}, ErrSelfModification
	}
	if !currentIsAdmin {
		return Decision{Admin: false, AdminCount: adminCount}, nil
	}
	return Decision{Admin: false, Changed: true, AdminCount: adminCount - 1}, nil
}

// Toggle flips the role: promote when not admin, demote otherwise.
func Toggle(actor, target string, currentIsAdmin bool, adminCount int) (Decision, error) {
	if currentIsAdmin {
		return Demote(actor, target, true, adminCount)
	}
	return Promote(actor, target, false, adminCount)
}
