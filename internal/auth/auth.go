package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/backend"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/domain"
	"github.com/sysu-ecnc-dev/inventory-console/backend/internal/session"
	"go.uber.org/zap"
)

var (
	ErrMissingCredentials = errors.New("username and password are required")
	ErrEmptyToken         = errors.New("login response carried no token")
)

// LoginAPI is the part of the backend client the authenticator needs.
type LoginAPI interface {
	Login(ctx context.Context, req backend.LoginRequest) (*backend.LoginResponse, error)
}

type Credentials struct {
	Username string
	Password string
	Role     string // optional hint forwarded to the backend
}

type Authenticator struct {
	store  session.Store
	api    LoginAPI
	logger *zap.Logger
}

func NewAuthenticator(store session.Store, api LoginAPI, logger *zap.Logger) *Authenticator {
	return &Authenticator{store: store, api: api, logger: logger}
}

// Login exchanges credentials for a backend token and stores the resulting
// session under sessionID. Nothing is written unless every step succeeds.
func (a *Authenticator) Login(ctx context.Context, sessionID string, cred Credentials) (*domain.Session, error) {
	username := strings.TrimSpace(cred.Username)
	if username == "" || cred.Password == "" {
		return nil, ErrMissingCredentials
	}

	req := backend.LoginRequest{Username: username, Password: cred.Password}
	if hint := strings.TrimSpace(cred.Role); hint != "" {
		role, err := domain.ParseRole(hint)
		if err != nil {
			return nil, fmt.Errorf("role hint %q: %w", hint, err)
		}
		req.Role = string(role)
	}

	resp, err := a.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrEmptyToken
	}

	role, err := domain.ParseRole(resp.Role)
	if err != nil {
		return nil, fmt.Errorf("login response role %q: %w", resp.Role, err)
	}

	sess := &domain.Session{
		Token: resp.Token,
		User: domain.UserProfile{
			Username:    username,
			Name:        resp.Name,
			Role:        role,
			StoreID:     resp.StoreID,
			Location:    resp.Location,
			PhoneNumber: resp.PhoneNumber,
		},
	}
	if err := a.store.Save(ctx, sessionID, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	a.logger.Info("user logged in", zap.String("username", username), zap.String("role", string(role)))
	return sess, nil
}

// Logout only forgets the session locally; the backend token is not revoked.
func (a *Authenticator) Logout(ctx context.Context, sessionID string) error {
	return a.store.Clear(ctx, sessionID)
}

func (a *Authenticator) Current(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, nil
	}
	return a.store.Read(ctx, sessionID)
}

// HasRole is false for a missing session and for any role outside the hierarchy.
func HasRole(s *domain.Session, required domain.Role) bool {
	if s == nil {
		return false
	}
	return s.User.Role.AtLeast(required)
}
