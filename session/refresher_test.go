package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/brickbid/brickbid-go/models"
)

// scriptedRefresher answers RefreshToken with a counter-stamped credential,
// or a fixed error.
type scriptedRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *scriptedRefresher) RefreshToken(_ context.Context, _ string) (models.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return models.Credential{}, f.err
	}
	return models.Credential{Access: accessToken(int64(f.calls)), Refresh: "refresh"}, nil
}

func (f *scriptedRefresher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func loggedInManager(t *testing.T, store *memStore) *Manager {
	t.Helper()
	m := NewManager(store)
	require.NoError(t, m.Login(context.Background(), models.Credential{Access: accessToken(100), Refresh: "refresh"}))
	return m
}

func TestRefresherFailureLogsOutOnce(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	original := zap.L()
	zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(func() { zap.ReplaceGlobals(original) })

	store := &memStore{}
	m := loggedInManager(t, store)
	api := &scriptedRefresher{err: errors.New("refresh rejected")}

	done := make(chan struct{})
	go func() {
		defer close(done)
		NewRefresher(m, api, 5*time.Millisecond).Run(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not stop after failed refresh")
	}

	// Give any stray reschedule a chance to fire, then check nothing did.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, api.callCount())
	assert.Equal(t, 1, store.clearCount())
	assert.False(t, m.LoggedIn())
	assert.Equal(t, 1, logs.FilterMessage("token refresh failed, forcing logout").Len())
}

func TestRefresherHoldsLatestToken(t *testing.T) {
	store := &memStore{}
	m := loggedInManager(t, store)
	api := &scriptedRefresher{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		NewRefresher(m, api, 5*time.Millisecond).Run(ctx)
	}()

	require.Eventually(t, func() bool { return api.callCount() >= 4 }, time.Second, time.Millisecond)
	cancel()
	<-done

	// Attempts are serialized, so the held token is the last call's result.
	n := api.callCount()
	cred, ok := m.Credential()
	require.True(t, ok)
	assert.Equal(t, accessToken(int64(n)), cred.Access)

	id, ok := m.Identity()
	require.True(t, ok)
	assert.Equal(t, int64(n), id.UserID)
}

func TestRefresherImmediateAttemptOnStart(t *testing.T) {
	m := loggedInManager(t, &memStore{})
	api := &scriptedRefresher{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		// Interval far beyond the test horizon: only the startup attempt runs.
		NewRefresher(m, api, time.Hour).Run(ctx)
	}()

	require.Eventually(t, func() bool { return api.callCount() == 1 }, time.Second, time.Millisecond)
	cancel()
	<-done
	assert.Equal(t, 1, api.callCount())
}

func TestRefresherNoAttemptWhenLoggedOut(t *testing.T) {
	m := NewManager(&memStore{})
	api := &scriptedRefresher{}

	done := make(chan struct{})
	go func() {
		defer close(done)
		NewRefresher(m, api, time.Hour).Run(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher did not exit for a logged-out session")
	}
	assert.Zero(t, api.callCount())
}

func TestRefresherStopsAfterLogout(t *testing.T) {
	store := &memStore{}
	m := loggedInManager(t, store)
	api := &scriptedRefresher{}

	done := make(chan struct{})
	go func() {
		defer close(done)
		NewRefresher(m, api, 5*time.Millisecond).Run(context.Background())
	}()

	require.Eventually(t, func() bool { return api.callCount() >= 1 }, time.Second, time.Millisecond)
	m.Logout(context.Background())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("refresher kept running after logout")
	}
}

func TestRefreshNowCancelledContextKeepsSession(t *testing.T) {
	store := &memStore{}
	m := loggedInManager(t, store)
	api := &scriptedRefresher{err: context.Canceled}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, NewRefresher(m, api, time.Hour).RefreshNow(ctx))
	// Shutdown must not wipe the persisted credential.
	assert.True(t, m.LoggedIn())
	assert.Zero(t, store.clearCount())
}
