// Package session owns the client's authentication state: who is logged in,
// with what credential, and how that survives across process restarts.
package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/me/walletctl/internal/store"
	"github.com/me/walletctl/pkg/model"
)

// minTokenLength is the plausibility floor for a persisted credential.
// Anything shorter is treated as garbage and discarded during restore.
const minTokenLength = 10

// AuthAPI is the authentication collaborator consumed by the Manager.
type AuthAPI interface {
	Login(ctx context.Context, creds model.Credentials) (string, *model.User, error)
}

// Manager is the single source of truth for the session. UI code reads its
// state through the accessors and mutates it only through Restore, SignIn
// and SignOut.
type Manager struct {
	store  store.Store
	auth   AuthAPI
	logger *slog.Logger

	mu      sync.RWMutex
	user    *model.User
	token   string
	loading bool
}

// NewManager creates a Manager in the restoring state. Call Restore once
// before reading session state.
func NewManager(st store.Store, auth AuthAPI, logger *slog.Logger) *Manager {
	return &Manager{
		store:   st,
		auth:    auth,
		logger:  logger.With("component", "session"),
		loading: true,
	}
}

// Restore populates the session from the persisted token and cached profile.
//
// The cached profile is trusted as-is when the token looks plausible; the
// token is not revalidated against the gateway. That is a deliberate trust
// boundary: a stale or revoked token surfaces on the first authenticated
// call instead. Corrupt or implausible persisted state is erased and the
// session ends unauthenticated. Always ends with loading false.
func (m *Manager) Restore(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.loading = false }()

	token, err := m.store.Get(ctx, store.KeyToken)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	if len(token) < minTokenLength {
		m.logger.Debug("discarding implausible persisted token")
		m.clearPersisted(ctx)
		return nil
	}

	raw, err := m.store.Get(ctx, store.KeyUser)
	if err != nil {
		return err
	}

	var user model.User
	if raw == "" || json.Unmarshal([]byte(raw), &user) != nil || user.Document == "" {
		m.logger.Debug("discarding corrupt cached profile")
		m.clearPersisted(ctx)
		return nil
	}

	m.user = &user
	m.token = token
	return nil
}

// SignIn authenticates against the gateway and, on success, persists the
// credential and profile before updating in-memory state. On failure the
// prior state and persisted entries are left untouched.
func (m *Manager) SignIn(ctx context.Context, creds model.Credentials) error {
	if creds.Email == "" {
		return model.NewValidationError("email", "email is required")
	}
	if creds.Password == "" {
		return model.NewValidationError("password", "password is required")
	}

	token, user, err := m.auth.Login(ctx, creds)
	if err != nil {
		return err
	}

	profile, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := m.store.Set(ctx, store.KeyToken, token); err != nil {
		return err
	}
	if err := m.store.Set(ctx, store.KeyUser, string(profile)); err != nil {
		return err
	}

	m.mu.Lock()
	m.user = user
	m.token = token
	m.mu.Unlock()

	m.logger.Debug("signed in", "document", user.Document)
	return nil
}

// SignOut clears the session and its persisted entries. No network call is
// made; calling it on an already signed-out session is a no-op.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clearPersisted(ctx)
	m.user = nil
	m.token = ""
	return nil
}

// IsAuthenticated reports whether both a user and a credential are present.
// Recomputed on every call, never cached.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil && m.token != ""
}

// CurrentUser returns a copy of the signed-in profile, or nil.
func (m *Manager) CurrentUser() *model.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Token returns the current bearer credential, or "". This makes the
// Manager the gateway client's token source.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Loading reports whether startup restoration is still in progress.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// clearPersisted removes both persisted entries. Callers hold the lock.
func (m *Manager) clearPersisted(ctx context.Context) {
	if err := m.store.Delete(ctx, store.KeyToken); err != nil {
		m.logger.Warn("clear persisted token", "error", err)
	}
	if err := m.store.Delete(ctx, store.KeyUser); err != nil {
		m.logger.Warn("clear persisted profile", "error", err)
	}
}
