// Package session holds the authentication state for the whole client: one
// Manager as the single source of truth for "is a user logged in, and as
// whom", and one Refresher keeping the access token alive.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/brickbid/brickbid-go/credstore"
	"github.com/brickbid/brickbid-go/models"
	"github.com/brickbid/brickbid-go/token"
)

// ErrNotLoggedIn reports an operation that requires an authenticated session.
var ErrNotLoggedIn = errors.New("session: not logged in")

// Manager is the session store. Only Initialize, Login and Logout mutate it;
// every other method is a read. Safe for concurrent use.
type Manager struct {
	store credstore.Store

	mu         sync.RWMutex
	loggedIn   bool
	credential *models.Credential
	identity   *models.Identity
}

// NewManager returns a logged-out manager persisting through store.
func NewManager(store credstore.Store) *Manager {
	return &Manager{store: store}
}

// Initialize restores the session from durable storage. It fails soft: a
// missing, unreadable or undecodable record leaves the manager logged out
// rather than failing startup.
func (m *Manager) Initialize(ctx context.Context) {
	cred, err := m.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, credstore.ErrNotFound) {
			zap.L().Warn("discarding unreadable stored credential", zap.Error(err))
		}
		return
	}

	id, err := token.Decode(cred.Access)
	if err != nil {
		zap.L().Warn("discarding stored credential with undecodable access token", zap.Error(err))
		return
	}

	m.set(cred, id)
	zap.L().Info("session restored", zap.Int64("user_id", id.UserID))
}

// Login installs a credential as the current session and persists it before
// returning. A credential whose access token cannot be decoded is rejected
// and leaves the session untouched.
func (m *Manager) Login(ctx context.Context, cred models.Credential) error {
	id, err := token.Decode(cred.Access)
	if err != nil {
		return err
	}

	if err := m.store.Save(ctx, cred); err != nil {
		return fmt.Errorf("session: persist credential: %w", err)
	}

	m.set(cred, id)
	return nil
}

// Logout clears the session and deletes the persisted record. Idempotent:
// logging out a logged-out manager is a no-op.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	wasLoggedIn := m.loggedIn
	m.loggedIn = false
	m.credential = nil
	m.identity = nil
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		zap.L().Warn("clearing stored credential", zap.Error(err))
	}
	if wasLoggedIn {
		zap.L().Info("logged out")
	}
}

// LoggedIn reports whether a credential is currently held.
func (m *Manager) LoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loggedIn
}

// Credential returns the current token pair, if logged in.
func (m *Manager) Credential() (models.Credential, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.credential == nil {
		return models.Credential{}, false
	}
	return *m.credential, true
}

// Identity returns the identity derived from the current access token, if
// logged in.
func (m *Manager) Identity() (models.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return models.Identity{}, false
	}
	return *m.identity, true
}

// Snapshot returns a copy of the full session state.
func (m *Manager) Snapshot() models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := models.Session{LoggedIn: m.loggedIn}
	if m.credential != nil {
		cred := *m.credential
		s.Credential = &cred
	}
	if m.identity != nil {
		id := *m.identity
		s.Identity = &id
	}
	return s
}

func (m *Manager) set(cred models.Credential, id models.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loggedIn = true
	m.credential = &cred
	m.identity = &id
}
