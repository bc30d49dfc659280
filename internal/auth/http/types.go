package http

import "github.com/mensbreakfast/breakfast-backend/internal/auth/service"

type Handler struct {
	authService *service.AuthService
}

func New(authService *service.AuthService) *Handler {
	return &Handler{
		authService: authService,
	}
}

type syncRequest struct {
	Email   string  `json:"email"`
	Name    *string `json:"name"`
	Surname *string `json:"surname"`
	Image   *string `json:"image"`
}

type updateProfileRequest struct {
	Name    *string `json:"name"`
	Surname *string `json:"surname"`
	Image   *string `json:"image"`
}
