package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-task-api/internal/model"
	"go-task-api/internal/token"
	"go-task-api/pkg/apierror"
)

// UserStore is the slice of the user repository the session layer needs.
type UserStore interface {
	Create(ctx context.Context, u model.User) error
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
}

// RevocationStore records refresh tokens invalidated before their natural
// expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenValue string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenValue string) (bool, error)
}

type AuthService struct {
	users   UserStore
	hasher  *PasswordHasher
	codec   *token.Codec
	revoked RevocationStore
}

func NewAuthService(users UserStore, hasher *PasswordHasher, codec *token.Codec, revoked RevocationStore) *AuthService {
	return &AuthService{users: users, hasher: hasher, codec: codec, revoked: revoked}
}

func (s *AuthService) Register(ctx context.Context, username string, email string, password string) (model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" || password == "" {
		return model.User{}, apierror.New("VALIDATION", "username, email and password are required", "", http.StatusUnprocessableEntity)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.User{}, apierror.New("VALIDATION", "email is not a valid address", email, http.StatusUnprocessableEntity)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return model.User{}, apierror.New("CONFLICT", "email registered already", "", http.StatusConflict)
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return model.User{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can still win the race past the
		// pre-check; the unique index has the final word.
		if errors.Is(err, model.ErrEmailTaken) {
			return model.User{}, apierror.New("CONFLICT", "email registered already", "", http.StatusConflict)
		}
		return model.User{}, err
	}

	return user, nil
}

// Authenticate returns the same UNAUTHORIZED failure for an unknown email and
// a wrong password, so callers cannot probe which emails are registered.
func (s *AuthService) Authenticate(ctx context.Context, email string, password string) (model.User, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, apierror.New("UNAUTHORIZED", "invalid credentials", "", http.StatusUnauthorized)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("authenticate: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return model.User{}, fmt.Errorf("authenticate: %w", err)
	}
	if !ok {
		return model.User{}, apierror.New("UNAUTHORIZED", "invalid credentials", "", http.StatusUnauthorized)
	}

	return user, nil
}

// IssueSession mints an access/refresh pair. Nothing is persisted; the tokens
// are self-contained.
func (s *AuthService) IssueSession(userID string) (model.TokenPair, error) {
	access, err := s.codec.Issue(userID, token.ClassAccess)
	if err != nil {
		return model.TokenPair{}, err
	}

	refresh, err := s.codec.Issue(userID, token.ClassRefresh)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.codec.TTL(token.ClassAccess).Seconds()),
	}, nil
}

func (s *AuthService) RefreshTTL() time.Duration {
	return s.codec.TTL(token.ClassRefresh)
}

// CurrentUser resolves an access token to its principal. The blacklist is not
// consulted here: access tokens are short-lived and checking Redis on every
// protected request would reintroduce the round trip stateless tokens avoid.
// Revocation is enforced on the refresh path instead.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (model.User, error) {
	claims, err := s.codec.Verify(accessToken, token.ClassAccess)
	if err != nil {
		return model.User{}, apierror.New("UNAUTHORIZED", "invalid or expired token", "", http.StatusUnauthorized)
	}

	user, err := s.users.FindByID(ctx, claims.SubjectID)
	if errors.Is(err, model.ErrUserNotFound) {
		// The token verified but its subject is gone: the principal was
		// deleted after issuance.
		return model.User{}, apierror.New("NOT_FOUND", "user not found", "", http.StatusNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("resolve current user: %w", err)
	}

	return user, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a fresh
// pair is issued. A revoked token can never be replayed into a new session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := s.codec.Verify(refreshToken, token.ClassRefresh)
	if err != nil {
		return model.TokenPair{}, apierror.New("UNAUTHORIZED", "invalid or expired refresh token", "", http.StatusUnauthorized)
	}

	revoked, err := s.revoked.IsRevoked(ctx, refreshToken)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("refresh: %w", err)
	}
	if revoked {
		return model.TokenPair{}, apierror.New("UNAUTHORIZED", "refresh token has been revoked", "", http.StatusUnauthorized)
	}

	if _, err := s.users.FindByID(ctx, claims.SubjectID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.TokenPair{}, apierror.New("UNAUTHORIZED", "user not found", "", http.StatusUnauthorized)
		}
		return model.TokenPair{}, fmt.Errorf("refresh: %w", err)
	}

	if err := s.revoked.Revoke(ctx, refreshToken, time.Until(claims.ExpiresAt)); err != nil {
		return model.TokenPair{}, fmt.Errorf("refresh: %w", err)
	}

	return s.IssueSession(claims.SubjectID)
}

// Logout blacklists the refresh token for its remaining lifetime. The token is
// revoked even when it no longer verifies; for an unparsable token the full
// refresh TTL is used since the remaining window is unknown.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return apierror.New("UNAUTHORIZED", "no refresh token provided, please login again", "", http.StatusUnauthorized)
	}

	ttl := s.codec.TTL(token.ClassRefresh)
	if claims, err := s.codec.Verify(refreshToken, token.ClassRefresh); err == nil {
		if remaining := time.Until(claims.ExpiresAt); remaining > 0 && remaining < ttl {
			ttl = remaining
		}
	}

	if err := s.revoked.Revoke(ctx, refreshToken, ttl); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
