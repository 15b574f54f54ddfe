// internal/pkg/session/manager.go
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bookdesk-service/internal/domain/auth"
	"bookdesk-service/internal/pkg/jwt"
	"bookdesk-service/internal/pkg/pubsub"
	"bookdesk-service/internal/pkg/storage"

	"go.uber.org/zap"
)

// Listener receives the session view after login, profile load and logout.
type Listener func(view auth.SessionView)

// Manager owns the bearer token and the signed in user. The token is kept in
// durable storage; the profile lives in memory only and is reloaded after a
// restart.
type Manager struct {
	// writeMu orders the writes that touch durable storage so memory and
	// storage settle on the same token.
	writeMu sync.Mutex

	mu      sync.RWMutex
	token   string
	user    *auth.UserProfile
	seq     uint64
	changes pubsub.Ordered[auth.SessionView]

	store  storage.Storage
	logger *zap.Logger
}

// NewManager restores the token from store. The user starts empty.
func NewManager(ctx context.Context, store storage.Storage, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	token, _, err := store.Get(ctx, storage.KeyAuthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to restore auth token: %w", err)
	}
	return &Manager{token: token, store: store, logger: logger}, nil
}

func (m *Manager) OnChange(l Listener) {
	m.changes.Subscribe(l)
}

// SetToken persists token and only then makes it the current one, so a
// failed write leaves the session as it was.
func (m *Manager) SetToken(ctx context.Context, token string) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if err := m.store.Set(ctx, storage.KeyAuthToken, token); err != nil {
		return fmt.Errorf("failed to persist auth token: %w", err)
	}

	m.mu.Lock()
	m.token = token
	view, seq := m.changedLocked()
	m.mu.Unlock()

	m.changes.Publish(seq, view)
	return nil
}

// SetUser replaces the in-memory profile. It is never persisted.
func (m *Manager) SetUser(user *auth.UserProfile) {
	if user != nil {
		u := *user
		user = &u
	}

	m.mu.Lock()
	m.user = user
	view, seq := m.changedLocked()
	m.mu.Unlock()

	m.changes.Publish(seq, view)
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) User() *auth.UserProfile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

// UserAvatar is the avatar reference of the current user, or "".
func (m *Manager) UserAvatar() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.avatarLocked()
}

// Roles are the profile roles, or the role claim of the token while the
// profile is not loaded yet.
func (m *Manager) Roles() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user != nil {
		return append([]string(nil), m.user.Roles...)
	}
	if m.token == "" {
		return nil
	}
	claims, err := jwt.Parse(m.token)
	if err != nil {
		return nil
	}
	return claims.Roles
}

// TokenInfo decodes the current token; nil when there is no token or the
// token is not a JWT.
func (m *Manager) TokenInfo() *auth.TokenInfo {
	return inspect(m.Token())
}

// View is the read model handed to the presentation layer.
func (m *Manager) View() auth.SessionView {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viewLocked()
}

// Logout forgets the credentials. If removing the stored keys fails the whole
// storage is wiped instead. It always completes.
func (m *Manager) Logout(ctx context.Context) auth.LogoutResult {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	m.token = ""
	m.user = nil
	view, seq := m.changedLocked()
	m.mu.Unlock()
	m.changes.Publish(seq, view)

	err := m.store.Delete(ctx, storage.KeyAuthToken, storage.KeyUserProfile)
	if err == nil {
		return auth.LogoutResult{Success: true, Message: "logged out"}
	}

	m.logger.Error("logout cleanup failed, clearing storage", zap.Error(err))
	if clearErr := m.store.Clear(ctx); clearErr != nil {
		m.logger.Error("failed to clear storage", zap.Error(clearErr))
	}
	return auth.LogoutResult{Success: false, Message: "logged out, storage was reset"}
}

func (m *Manager) avatarLocked() string {
	if m.user == nil {
		return ""
	}
	if m.user.Avatar != "" {
		return m.user.Avatar
	}
	return m.user.AvatarURL
}

func (m *Manager) viewLocked() auth.SessionView {
	view := auth.SessionView{
		IsAuthenticated: m.token != "",
		UserAvatar:      m.avatarLocked(),
		Token:           inspect(m.token),
	}
	if m.user != nil {
		u := *m.user
		view.User = &u
	}
	return view
}

func (m *Manager) changedLocked() (auth.SessionView, uint64) {
	m.seq++
	return m.viewLocked(), m.seq
}

func inspect(token string) *auth.TokenInfo {
	if token == "" {
		return nil
	}
	info, err := jwt.Inspect(token, time.Now())
	if err != nil {
		return nil
	}
	return info
}
