// internal/service/auth/auth.go
package auth

import (
	"context"
	"fmt"

	"bookdesk-service/internal/apiclient"
	"bookdesk-service/internal/domain/auth"
	xerrors "bookdesk-service/internal/pkg/errors"
	"bookdesk-service/internal/pkg/session"

	"go.uber.org/zap"
)

// AuthService performs the login / logout network calls and feeds the
// results into the session manager.
type AuthService struct {
	api     *apiclient.Client
	session *session.Manager
	logger  *zap.Logger
}

func NewAuthService(api *apiclient.Client, sessionManager *session.Manager, logger *zap.Logger) *AuthService {
	return &AuthService{api: api, session: sessionManager, logger: logger}
}

// Login exchanges credentials for a token and stores it with the profile.
func (s *AuthService) Login(ctx context.Context, req *auth.LoginRequest) (*auth.SessionView, error) {
	var resp auth.LoginResponse
	if err := s.api.Post(ctx, "/auth/login", req, &resp); err != nil {
		s.logger.Warn("login failed", zap.String("email", req.Email), zap.Error(err))
		return nil, xerrors.Normalize("Login", err)
	}
	if resp.Token == "" {
		return nil, xerrors.Normalize("Login", fmt.Errorf("backend returned no token"))
	}

	if err := s.session.SetToken(ctx, resp.Token); err != nil {
		s.logger.Error("failed to persist token", zap.Error(err))
		return nil, xerrors.Normalize("Login", err)
	}
	if resp.User != nil {
		s.session.SetUser(resp.User)
	}

	s.logger.Info("user logged in", zap.String("email", req.Email))
	view := s.session.View()
	return &view, nil
}

// LoadProfile fetches the current user and sets it on the session.
func (s *AuthService) LoadProfile(ctx context.Context) (*auth.UserProfile, error) {
	if !s.session.IsAuthenticated() {
		return nil, xerrors.ErrUnauthorized
	}

	var user auth.UserProfile
	if err := s.api.Get(ctx, "/auth/me", nil, &user); err != nil {
		s.logger.Error("failed to load profile", zap.Error(err))
		return nil, xerrors.Normalize("Load profile", err)
	}
	s.session.SetUser(&user)
	return &user, nil
}

// Logout tells the backend (best effort) and always clears the session.
func (s *AuthService) Logout(ctx context.Context) auth.LogoutResult {
	if s.session.IsAuthenticated() {
		if err := s.api.Post(ctx, "/auth/logout", nil, nil); err != nil {
			s.logger.Warn("backend logout failed, clearing local session anyway", zap.Error(err))
		}
	}
	return s.session.Logout(ctx)
}

// Session exposes the read model of the current session.
func (s *AuthService) Session() auth.SessionView {
	return s.session.View()
}
