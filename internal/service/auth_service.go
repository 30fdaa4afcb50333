package service

import (
	"context"

	"retrosync/internal/domain"
	"retrosync/internal/dto"
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
}

type TokenService interface {
	Issue(ctx context.Context, user *domain.User) (*dto.TokenResponse, error)
	// VerifyAccess validates a bearer token and returns the subject user id.
	VerifyAccess(ctx context.Context, token string) (domain.UserID, error)
}
