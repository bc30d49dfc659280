package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromote(t *testing.T) {
	cases := []struct {
		name    string
		isAdmin bool
		count   int
		want    Decision
		err     error
	}{
		{"under quota", false, 4, Decision{Admin: true, Changed: true, AdminCount: 5}, nil},
		{"at quota", false, MaxAdmins, Decision{Admin: false, AdminCount: MaxAdmins}, ErrAdminLimitReached},
		{"over quota", false, MaxAdmins + 2, Decision{Admin: false, AdminCount: MaxAdmins + 2}, ErrAdminLimitReached},
		{"already admin at quota", true, MaxAdmins, Decision{Admin: true, AdminCount: MaxAdmins}, nil},
		{"first admin", false, 0, Decision{Admin: true, Changed: true, AdminCount: 1}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Promote("boss", "joe", tc.isAdmin, tc.count)
			assert.Equal(t, tc.err, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDemote(t *testing.T) {
	got, err := Demote("boss", "joe", true, 3)
	assert.NoError(t, err)
	assert.Equal(t, Decision{Admin: false, Changed: true, AdminCount: 2}, got)

	got, err = Demote("boss", "joe", false, 3)
	assert.NoError(t, err)
	assert.False(t, got.Changed)
	assert.Equal(t, 3, got.AdminCount)
}

func TestSelfModification(t *testing.T) {
	_, err := Toggle("boss", "boss", true, 1)
	assert.ErrorIs(t, err, ErrSelfModification)
	_, err = Toggle("boss", "boss", false, 0)
	assert.ErrorIs(t, err, ErrSelfModification)
}

// Promotions through the gate never push the count past the quota.
func TestToggle_QuotaNeverExceeded(t *testing.T) {
	admins := map[string]bool{}
	users := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	for round := 0; round < 3; round++ {
		for _, u := range users {
			d, err := Promote("root", u, admins[u], len(admins))
			if err != nil {
				assert.ErrorIs(t, err, ErrAdminLimitReached)
				assert.Equal(t, len(admins), d.AdminCount)
				continue
			}
			if d.Admin {
				admins[u] = true
			}
			assert.Equal(t, len(admins), d.AdminCount)
			assert.LessOrEqual(t, len(admins), MaxAdmins)
		}
		// demote one, freeing a slot
		for u := range admins {
			d, err := Demote("root", u, true, len(admins))
			assert.NoError(t, err)
			if !d.Admin {
				delete(admins, u)
			}
			assert.Equal(t, len(admins), d.AdminCount)
			break
		}
	}
	assert.LessOrEqual(t, len(admins), MaxAdmins)
}
