// Package auth implements the credential and token service: one-time
// registration secrets, credential verification, and the access/refresh
// token lifecycle backed by persisted session rows.
package auth

import (
	"context"
	"errors"

	"github.com/patchwork-body/the-booking-system/internal/config"
	"github.com/patchwork-body/the-booking-system/internal/model"
	"github.com/patchwork-body/the-booking-system/internal/repository"
	"github.com/patchwork-body/the-booking-system/internal/utils"
)

// Error marks a business-rule rejection: unknown user, wrong secret,
// invalid role, or an invalid/revoked refresh token.  Handlers map it to
// HTTP 400.  Any other failure out of this package is a system fault and
// propagates untyped so callers can tell the two apart.
type Error struct{ Reason string }

func (e *Error) Error() string { return e.Reason }

var (
	ErrUserNotFound        = &Error{Reason: "user not found"}
	ErrWrongSecret         = &Error{Reason: "wrong secret"}
	ErrInvalidRole         = &Error{Reason: "invalid role"}
	ErrInvalidRefreshToken = &Error{Reason: "invalid refresh token"}
)

// UserStore is the persistence surface the service needs for users and
// their role profiles.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	CreateOwnerProfile(ctx context.Context, userID string) (string, error)
	CreateGuestProfile(ctx context.Context, userID string) (string, error)
	GetByEmail(ctx context.Context, email string) (*repository.UserWithProfiles, error)
	GetByID(ctx context.Context, id string) (*repository.UserWithProfiles, error)
}

// TokenStore is the persistence surface for refresh-session rows.
type TokenStore interface {
	Create(ctx context.Context, userID string) (*model.Token, error)
	Exists(ctx context.Context, id, userID string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// TokenPair is what a successful login returns: a short-lived access token
// and a long-lived refresh token, signed with distinct secrets.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Service issues one-time secrets and signs, refreshes and revokes tokens.
// It is stateless; all session state lives in the token store.
type Service struct {
	cfg    config.Config
	users  UserStore
	tokens TokenStore
}

func NewService(cfg config.Config, users UserStore, tokens TokenStore) *Service {
	return &Service{cfg: cfg, users: users, tokens: tokens}
}

// secretLength is the size of the generated one-time secret.
const secretLength = 32

// Register creates a user with a freshly generated one-time secret and the
// profile row matching its role.  The plaintext secret is returned exactly
// once and is not retrievable afterwards.
//
// The user and profile inserts are two sequential statements, not one
// transaction; a failure between them leaves a user without a profile.
func (s *Service) Register(ctx context.Context, name, email string, phone *string, role string) (string, error) {
	if role != model.RoleOwner && role != model.RoleGuest {
		return "", ErrInvalidRole
	}

	secret, err := utils.GenerateSecret(secretLength)
	if err != nil {
		return "", err
	}
	hash, err := utils.HashSecret(secret, s.cfg.BcryptCost)
	if err != nil {
		return "", err
	}

	u := &model.User{Name: name, Email: email, Phone: phone, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		return "", err // ErrEmailExists propagates distinct from Error
	}

	switch role {
	case model.RoleOwner:
		_, err = s.users.CreateOwnerProfile(ctx, u.ID)
	case model.RoleGuest:
		_, err = s.users.CreateGuestProfile(ctx, u.ID)
	}
	if err != nil {
		return "", err
	}
	return secret, nil
}

// Login verifies the email/secret pair, starts a new refresh session and
// returns a freshly signed token pair.  Concurrent logins are fine; each
// produces an independent session row.
func (s *Service) Login(ctx context.Context, email, secret string) (*TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if !utils.VerifySecret(u.PasswordHash, secret) {
		return nil, ErrWrongSecret
	}

	session, err := s.tokens.Create(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	access, err := utils.NewAccessToken(s.cfg.JWTSecret, u.ID, u.OwnerID, u.GuestID, u.Role, s.cfg.AccessTTLMin)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.NewRefreshToken(s.cfg.JWTRefreshSecret, u.ID, session.ID, s.cfg.RefreshTTLDays)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh verifies a refresh token against its signing secret and its
// persisted session row, then mints a new access token.  The refresh token
// and its session are left untouched; only the access token is renewed.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := utils.ParseRefreshToken(s.cfg.JWTRefreshSecret, refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", err
	}

	live, err := s.tokens.Exists(ctx, claims.TokenID, claims.UserID)
	if err != nil {
		return "", err
	}
	if !live {
		// Covers revoked sessions as well as forged token ids.
		return "", ErrInvalidRefreshToken
	}

	return utils.NewAccessToken(s.cfg.JWTSecret, u.ID, u.OwnerID, u.GuestID, u.Role, s.cfg.AccessTTLMin)
}

// Revoke verifies a refresh token and deletes its session row, which
// invalidates any future refresh with that token.  Access tokens already
// issued stay valid until their own expiry.  Deleting an already-deleted
// session is not an error.
func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := utils.ParseRefreshToken(s.cfg.JWTRefreshSecret, refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	return s.tokens.Delete(ctx, claims.TokenID)
}
