package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/brickbid/brickbid-go/models"
)

// DefaultRefreshInterval matches the platform's access token lifetime
// headroom: refresh twice a minute.
const DefaultRefreshInterval = 30 * time.Second

// TokenRefresher exchanges a refresh token for a fresh credential. The API
// client implements it.
type TokenRefresher interface {
	RefreshToken(ctx context.Context, refresh string) (models.Credential, error)
}

// Refresher keeps the session's access token from expiring. It attempts one
// refresh immediately when started (the token may have expired while the
// client was closed), then one per interval while logged in. Attempts are
// serialized: a timer tick never starts a refresh while one is in flight.
//
// Any refresh failure is fatal to the session: the manager is logged out
// exactly once and the loop stops. There is no retry.
type Refresher struct {
	manager  *Manager
	api      TokenRefresher
	interval time.Duration

	mu sync.Mutex // serializes refresh attempts
}

// NewRefresher wires a refresher to its session manager and API. A
// non-positive interval selects DefaultRefreshInterval.
func NewRefresher(manager *Manager, api TokenRefresher, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{manager: manager, api: api, interval: interval}
}

// Run blocks until ctx is cancelled, the session is logged out, or a
// refresh fails. Cancelling ctx stops the loop without touching the session.
func (r *Refresher) Run(ctx context.Context) {
	if _, ok := r.manager.Credential(); !ok {
		return
	}
	if !r.RefreshNow(ctx) {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !r.manager.LoggedIn() {
				return
			}
			if !r.RefreshNow(ctx) {
				return
			}
		}
	}
}

// RefreshNow performs a single serialized refresh attempt. It reports
// whether the loop should keep running: false on logout, refresh failure or
// context cancellation.
func (r *Refresher) RefreshNow(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cred, ok := r.manager.Credential()
	if !ok {
		return false
	}

	fresh, err := r.api.RefreshToken(ctx, cred.Refresh)
	if err != nil {
		if ctx.Err() != nil {
			// Shutdown, not an auth failure: keep the stored credential.
			return false
		}
		zap.L().Warn("token refresh failed, forcing logout", zap.Error(err))
		r.manager.Logout(ctx)
		return false
	}

	if err := r.manager.Login(ctx, fresh); err != nil {
		zap.L().Warn("refreshed credential rejected, forcing logout", zap.Error(err))
		r.manager.Logout(ctx)
		return false
	}

	zap.L().Debug("access token refreshed")
	return true
}
