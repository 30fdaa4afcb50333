package impl

import (
	"context"
	"time"

	"retrosync/internal/domain"
	"retrosync/internal/dto"
	"retrosync/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenConfig struct {
	Issuer     string
	Audience   string
	AccessTTL  time.Duration // e.g. 24h; devices use API keys, the JWT only guards the web API
	SigningKey []byte        // HS256 secret
}

type AccessClaims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

var _ service.TokenService = (*TokenServiceImpl)(nil)

// TokenServiceImpl mints stateless HS256 access tokens. There is no session
// table and no refresh flow: tokens expire and the client logs in again.
type TokenServiceImpl struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenServiceHS256(cfg TokenConfig) *TokenServiceImpl {
	return &TokenServiceImpl{
		cfg: cfg,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (t *TokenServiceImpl) Issue(_ context.Context, user *domain.User) (*dto.TokenResponse, error) {
	now := t.now()
	claims := AccessClaims{
		Scope: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{t.cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.cfg.SigningKey)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken: signed,
		ExpiresIn:   int64(t.cfg.AccessTTL.Seconds()),
		UserID:      user.ID.String(),
	}, nil
}

func (t *TokenServiceImpl) VerifyAccess(_ context.Context, tokenStr string) (domain.UserID, error) {
	claims := &AccessClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	tok, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.cfg.SigningKey, nil
	})
	if err != nil || !tok.Valid {
		return uuid.Nil, domain.ErrInvalidCredentials
	}
	if claims.Issuer != t.cfg.Issuer {
		return uuid.Nil, domain.ErrInvalidCredentials
	}
	if !containsAudience(claims.Audience, t.cfg.Audience) {
		return uuid.Nil, domain.ErrInvalidCredentials
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidCredentials
	}
	return userID, nil
}

// containsAudience checks if the expected audience is present in the claim audience list.
func containsAudience(aud jwt.ClaimStrings, expected string) bool {
	for _, a := range aud {
		if a == expected {
			return true
		}
	}
	return false
}
