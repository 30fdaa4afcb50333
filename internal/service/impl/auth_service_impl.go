package impl

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"retrosync/internal/domain"
	"retrosync/internal/dto"
	"retrosync/internal/service"
	"retrosync/internal/store"
)

const minPasswordLen = 8

var _ service.AuthService = (*AuthServiceImpl)(nil)

type AuthServiceImpl struct {
	store     *store.Store
	passwords *PasswordServiceImpl
	tokens    service.TokenService
}

func NewAuthServiceImpl(st *store.Store, pw *PasswordServiceImpl, tokens service.TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{store: st, passwords: pw, tokens: tokens}
}

func (a *AuthServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrInvalidRequest)
	}
	if len(req.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidRequest, minPasswordLen)
	}

	if _, err := a.store.Users().GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !store.IsNotFound(err) {
		return nil, err
	}

	hash, salt, paramsJSON, algo, ver, err := a.passwords.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:            email,
		Name:             strings.TrimSpace(req.Name),
		SubscriptionTier: domain.TierFree,
	}
	err = a.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		return tx.Credentials().Upsert(ctx, &domain.PasswordCredential{
			UserID:      user.ID,
			Algo:        algo,
			Hash:        hash,
			Salt:        salt,
			ParamsJSON:  paramsJSON,
			PasswordVer: ver,
		})
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID)
	return a.tokens.Issue(ctx, user)
}

func (a *AuthServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := a.store.Users().GetByEmail(ctx, req.Email)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	cred, err := a.store.Credentials().GetByUserID(ctx, user.ID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	rehashNeeded, ok := a.passwords.Verify(req.Password, cred)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	if rehashNeeded {
		if err := a.rehash(ctx, user.ID, req.Password); err != nil {
			// Login still succeeds on the old hash; the next one retries.
			slog.Warn("password rehash failed", "user_id", user.ID, "error", err)
		}
	}

	return a.tokens.Issue(ctx, user)
}

func (a *AuthServiceImpl) rehash(ctx context.Context, userID domain.UserID, password string) error {
	hash, salt, paramsJSON, algo, ver, err := a.passwords.Hash(password)
	if err != nil {
		return err
	}
	return a.store.Credentials().Upsert(ctx, &domain.PasswordCredential{
		UserID:      userID,
		Algo:        algo,
		Hash:        hash,
		Salt:        salt,
		ParamsJSON:  paramsJSON,
		PasswordVer: ver,
	})
}
