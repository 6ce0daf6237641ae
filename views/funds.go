// Package views drives the terminal-facing screens: each view keeps its
// slice of server state fresh through a polling subscription scoped to the
// view's lifetime and exposes the user actions available on that screen.
package views

import (
	"context"
	"sync"
	"time"

	"github.com/brickbid/brickbid-go/api"
	"github.com/brickbid/brickbid-go/models"
	"github.com/brickbid/brickbid-go/poll"
	"github.com/brickbid/brickbid-go/session"
	"github.com/brickbid/brickbid-go/trading"
)

// DefaultFundsInterval is how often the funds view re-reads the balance.
const DefaultFundsInterval = 5 * time.Second

// FundsAPI is the slice of the gateway the funds view consumes.
type FundsAPI interface {
	Balance(ctx context.Context, userID int64, cred models.Credential) (float64, error)
	DisplayName(ctx context.Context, userID int64, cred models.Credential) (string, error)
	AdjustBalance(ctx context.Context, userID int64, cred models.Credential, action api.FundsAction, amount float64) (float64, error)
}

// FundsSnapshot is the funds screen state after one update round.
type FundsSnapshot struct {
	DisplayName  string
	Balance      float64
	BalanceKnown bool
	// Err is the failure of the round that produced this snapshot, if any;
	// the last good values are kept alongside it.
	Err error
}

// FundsView mirrors the funds page: current balance and display name, plus
// add/withdraw actions validated before they touch the network.
type FundsView struct {
	api      FundsAPI
	session  *session.Manager
	interval time.Duration

	mu           sync.Mutex
	balance      float64
	balanceKnown bool
	displayName  string
}

// NewFundsView builds the view. A non-positive interval selects
// DefaultFundsInterval.
func NewFundsView(gateway FundsAPI, sess *session.Manager, interval time.Duration) *FundsView {
	if interval <= 0 {
		interval = DefaultFundsInterval
	}
	return &FundsView{api: gateway, session: sess, interval: interval}
}

// Watch starts polling the balance and display name independently and
// returns a stream of snapshots, one per completed fetch. The stream closes
// when ctx ends. Requires a logged-in session.
func (v *FundsView) Watch(ctx context.Context) (<-chan FundsSnapshot, error) {
	if _, ok := v.session.Identity(); !ok {
		return nil, session.ErrNotLoggedIn
	}

	// The two endpoints race independently, as the original page fired
	// them; each updates only its own field.
	balances := poll.New(v.interval, v.fetchBalance).Start(ctx)
	names := poll.New(v.interval, v.fetchDisplayName).Start(ctx)

	out := make(chan FundsSnapshot, 1)
	go func() {
		defer close(out)
		for balances != nil || names != nil {
			var snap FundsSnapshot
			select {
			case r, ok := <-balances:
				if !ok {
					balances = nil
					continue
				}
				v.mu.Lock()
				if r.Err == nil {
					v.balance = r.Value
					v.balanceKnown = true
				}
				snap = v.snapshotLocked(r.Err)
				v.mu.Unlock()
			case r, ok := <-names:
				if !ok {
					names = nil
					continue
				}
				v.mu.Lock()
				if r.Err == nil {
					v.displayName = r.Value
				}
				snap = v.snapshotLocked(r.Err)
				v.mu.Unlock()
			}

			select {
			case out <- snap:
			case <-ctx.Done():
			}
		}
	}()
	return out, nil
}

// Add deposits funds. The raw amount is validated locally first; on success
// the balance is replaced with the server's authoritative value.
func (v *FundsView) Add(ctx context.Context, rawAmount string) (float64, error) {
	amount, err := trading.ParseAmount(rawAmount)
	if err != nil {
		return 0, err
	}
	return v.adjust(ctx, api.FundsAdd, amount)
}

// Withdraw removes funds. Rejected locally when the amount is invalid or
// exceeds the current balance.
func (v *FundsView) Withdraw(ctx context.Context, rawAmount string) (float64, error) {
	balance, known := v.Balance()
	if !known {
		id, cred, err := v.authed()
		if err != nil {
			return 0, err
		}
		balance, err = v.api.Balance(ctx, id.UserID, cred)
		if err != nil {
			return 0, err
		}
		v.setBalance(balance)
	}

	amount, err := trading.ParseWithdrawal(rawAmount, balance)
	if err != nil {
		return 0, err
	}
	return v.adjust(ctx, api.FundsWithdraw, amount)
}

// Balance returns the last known balance, if one has been fetched.
func (v *FundsView) Balance() (float64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.balance, v.balanceKnown
}

func (v *FundsView) adjust(ctx context.Context, action api.FundsAction, amount float64) (float64, error) {
	id, cred, err := v.authed()
	if err != nil {
		return 0, err
	}

	funds, err := v.api.AdjustBalance(ctx, id.UserID, cred, action, amount)
	if err != nil {
		return 0, err
	}
	v.setBalance(funds)
	return funds, nil
}

func (v *FundsView) fetchBalance(ctx context.Context) (float64, error) {
	id, cred, err := v.authed()
	if err != nil {
		return 0, err
	}
	return v.api.Balance(ctx, id.UserID, cred)
}

func (v *FundsView) fetchDisplayName(ctx context.Context) (string, error) {
	id, cred, err := v.authed()
	if err != nil {
		return "", err
	}
	return v.api.DisplayName(ctx, id.UserID, cred)
}

// authed reads the session per call so a refreshed token is picked up by
// the next request.
func (v *FundsView) authed() (models.Identity, models.Credential, error) {
	id, ok := v.session.Identity()
	cred, ok2 := v.session.Credential()
	if !ok || !ok2 {
		return models.Identity{}, models.Credential{}, session.ErrNotLoggedIn
	}
	return id, cred, nil
}

func (v *FundsView) setBalance(balance float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.balance = balance
	v.balanceKnown = true
}

func (v *FundsView) snapshotLocked(err error) FundsSnapshot {
	return FundsSnapshot{
		DisplayName:  v.displayName,
		Balance:      v.balance,
		BalanceKnown: v.balanceKnown,
		Err:          err,
	}
}
