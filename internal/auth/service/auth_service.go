package service

import (
	"context"
	"strings"

	"github.com/mensbreakfast/breakfast-backend/internal/auth/domain"
)

// UserStore is implemented by repository.UserRepository.
type UserStore interface {
	GetByID(ctx context.Context, uid string) (*domain.UserProfile, error)
	Upsert(ctx context.Context, req domain.SyncProfileRequest) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, uid string, req domain.UpdateProfileRequest) (*domain.UserProfile, error)
}

type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

func (s *AuthService) GetProfile(ctx context.Context, uid string) (*domain.UserProfile, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.users.GetByID(ctx, uid)
}

// SyncProfile creates or refreshes the caller's profile after sign-in.
func (s *AuthService) SyncProfile(ctx context.Context, req domain.SyncProfileRequest) (*domain.UserProfile, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, domain.ErrUnauthenticated
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Name = trimmed(req.Name)
	req.Surname = trimmed(req.Surname)
	return s.users.Upsert(ctx, req)
}

func (s *AuthService) UpdateProfile(ctx context.Context, uid string, req domain.UpdateProfileRequest) (*domain.UserProfile, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, domain.ErrUnauthenticated
	}
	req.Name = trimmed(req.Name)
	req.Surname = trimmed(req.Surname)
	if req.Name != nil && *req.Name == "" {
		return nil, domain.ErrInvalidProfile
	}
	return s.users.UpdateProfile(ctx, uid, req)
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}
