package domain

import authdomain "github.com/mensbreakfast/breakfast-backend/internal/auth/domain"

type Roster struct {
	Users      []authdomain.UserProfile `json:"users"`
	AdminCount int                      `json:"admin_count"`
	MaxAdmins  int                      `json:"max_admins"`
}

type Stats struct {
	Events           int `json:"events"`
	Users            int `json:"users"`
	PendingApprovals int `json:"pending_approvals"`
}
