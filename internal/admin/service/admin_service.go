package service

import (
	"context"

	"github.com/mensbreakfast/breakfast-backend/internal/admin/domain"
	"github.com/mensbreakfast/breakfast-backend/internal/admin/repository"
	authdomain "github.com/mensbreakfast/breakfast-backend/internal/auth/domain"
	"github.com/mensbreakfast/breakfast-backend/internal/logging"
	"github.com/mensbreakfast/breakfast-backend/internal/realtime"
)

// UserLister is implemented by the auth user repository.
type UserLister interface {
	List(ctx context.Context) ([]authdomain.UserProfile, error)
	Count(ctx context.Context) (int, error)
}

// RoleStore is implemented by repository.AdminRepository.
type RoleStore interface {
	ChangeRole(ctx context.Context, target string, decide repository.DecideFunc) (domain.Decision, error)
	CountPendingApprovals(ctx context.Context) (int, error)
}

type EventCounter interface {
	Count(ctx context.Context) (int, error)
}

type AdminService struct {
	users     UserLister
	roles     RoleStore
	events    EventCounter
	publisher realtime.Publisher
}

func NewAdminService(users UserLister, roles RoleStore, events EventCounter, publisher realtime.Publisher) *AdminService {
	return &AdminService{users: users, roles: roles, events: events, publisher: publisher}
}

// Roster lists every user newest first with the admin head count.
func (s *AdminService) Roster(ctx context.Context) (*domain.Roster, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	count := 0
	for _, u := range users {
		if u.Admin {
			count++
		}
	}
	return &domain.Roster{Users: users, AdminCount: count, MaxAdmins: domain.MaxAdmins}, nil
}

// ToggleAdmin flips target's admin role on behalf of actor.
func (s *AdminService) ToggleAdmin(ctx context.Context, actor, target string) (domain.Decision, error) {
	d, err := s.roles.ChangeRole(ctx, target, func(isAdmin bool, count int) (domain.Decision, error) {
		return domain.Toggle(actor, target, isAdmin, count)
	})
	if err != nil {
		return d, err
	}

	if d.Changed && s.publisher != nil {
		if err := s.publisher.Publish(ctx, realtime.TopicUsers, realtime.ActionUpdate, target, "", map[string]any{"admin": d.Admin}); err != nil {
			logging.New(ctx).Warnf("publish_role", "user=%s err=%v", target, err)
		}
	}
	return d, nil
}

func (s *AdminService) Stats(ctx context.Context) (*domain.Stats, error) {
	var (
		st  domain.Stats
		err error
	)
	if st.Events, err = s.events.Count(ctx); err != nil {
		return nil, err
	}
	if st.Users, err = s.users.Count(ctx); err != nil {
		return nil, err
	}
	if st.PendingApprovals, err = s.roles.CountPendingApprovals(ctx); err != nil {
		return nil, err
	}
	return &st, nil
}
