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

// DefaultPropertyInterval is how often the property view refreshes the
// listing and its order book.
const DefaultPropertyInterval = 2 * time.Second

// PropertyAPI is the slice of the gateway the property view consumes.
type PropertyAPI interface {
	Property(ctx context.Context, propertyID int64) (models.Property, error)
	OrderBook(ctx context.Context, propertyID int64) (models.OrderBook, error)
	PlaceOrder(ctx context.Context, cred models.Credential, order api.Order) error
	UpdateWatchlist(ctx context.Context, userID int64, cred models.Credential, action api.WatchAction, propertyID int64) ([]int64, error)
}

// PropertySnapshot is the property screen state after one refresh round.
type PropertySnapshot struct {
	Property models.Property
	Book     models.OrderBook
	Err      error
}

// PropertyView mirrors the property page for one listing: the record and
// both order-book sides kept fresh, with order placement and watchlist
// actions. Reading is public; acting requires a logged-in session.
type PropertyView struct {
	api        PropertyAPI
	session    *session.Manager
	propertyID int64
	interval   time.Duration

	mu        sync.Mutex
	property  models.Property
	book      models.OrderBook
	bookKnown bool
}

// NewPropertyView builds the view for one property. A non-positive interval
// selects DefaultPropertyInterval.
func NewPropertyView(gateway PropertyAPI, sess *session.Manager, propertyID int64, interval time.Duration) *PropertyView {
	if interval <= 0 {
		interval = DefaultPropertyInterval
	}
	return &PropertyView{api: gateway, session: sess, propertyID: propertyID, interval: interval}
}

type propertyPage struct {
	property models.Property
	book     models.OrderBook
}

// Watch starts refreshing the listing and order book and returns a stream
// of snapshots. The stream closes when ctx ends.
func (v *PropertyView) Watch(ctx context.Context) <-chan PropertySnapshot {
	pages := poll.New(v.interval, v.fetchPage).Start(ctx)

	out := make(chan PropertySnapshot, 1)
	go func() {
		defer close(out)
		for r := range pages {
			v.mu.Lock()
			if r.Err == nil {
				v.property = r.Value.property
				v.book = r.Value.book
				v.bookKnown = true
			}
			snap := PropertySnapshot{Property: v.property, Book: v.book, Err: r.Err}
			v.mu.Unlock()

			select {
			case out <- snap:
			case <-ctx.Done():
			}
		}
	}()
	return out
}

// PlaceMarketOrder resolves the price from the best opposing bid at this
// moment and submits a market order. Returns the submitted price.
func (v *PropertyView) PlaceMarketOrder(ctx context.Context, side models.OrderSide) (float64, error) {
	id, cred, err := v.authed()
	if err != nil {
		return 0, err
	}

	book, err := v.currentBook(ctx)
	if err != nil {
		return 0, err
	}
	price, err := trading.ResolveMarketPrice(book, side)
	if err != nil {
		return 0, err
	}

	order := api.Order{
		Kind:       models.OrderMarket,
		Side:       side,
		UserID:     id.UserID,
		PropertyID: v.propertyID,
		Price:      price,
	}
	if err := v.api.PlaceOrder(ctx, cred, order); err != nil {
		return 0, err
	}
	return price, nil
}

// PlaceLimitOrder validates the user's price and submits a limit order.
func (v *PropertyView) PlaceLimitOrder(ctx context.Context, side models.OrderSide, rawPrice string) (float64, error) {
	price, err := trading.ParseAmount(rawPrice)
	if err != nil {
		return 0, err
	}

	id, cred, err := v.authed()
	if err != nil {
		return 0, err
	}

	order := api.Order{
		Kind:       models.OrderLimit,
		Side:       side,
		UserID:     id.UserID,
		PropertyID: v.propertyID,
		Price:      price,
	}
	if err := v.api.PlaceOrder(ctx, cred, order); err != nil {
		return 0, err
	}
	return price, nil
}

// AddToWatchlist puts this property on the user's watchlist and returns the
// resulting list.
func (v *PropertyView) AddToWatchlist(ctx context.Context) ([]int64, error) {
	return v.updateWatchlist(ctx, api.WatchAdd)
}

// RemoveFromWatchlist takes this property off the user's watchlist.
func (v *PropertyView) RemoveFromWatchlist(ctx context.Context) ([]int64, error) {
	return v.updateWatchlist(ctx, api.WatchRemove)
}

// Book returns the last fetched order book, if any round has completed.
func (v *PropertyView) Book() (models.OrderBook, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.book, v.bookKnown
}

func (v *PropertyView) updateWatchlist(ctx context.Context, action api.WatchAction) ([]int64, error) {
	id, cred, err := v.authed()
	if err != nil {
		return nil, err
	}
	return v.api.UpdateWatchlist(ctx, id.UserID, cred, action, v.propertyID)
}

// currentBook serves the latest polled book, or fetches one when the view
// is acting before its first refresh completed.
func (v *PropertyView) currentBook(ctx context.Context) (models.OrderBook, error) {
	if book, ok := v.Book(); ok {
		return book, nil
	}
	book, err := v.api.OrderBook(ctx, v.propertyID)
	if err != nil {
		return models.OrderBook{}, err
	}

	v.mu.Lock()
	v.book = book
	v.bookKnown = true
	v.mu.Unlock()
	return book, nil
}

func (v *PropertyView) fetchPage(ctx context.Context) (propertyPage, error) {
	property, err := v.api.Property(ctx, v.propertyID)
	if err != nil {
		return propertyPage{}, err
	}
	book, err := v.api.OrderBook(ctx, v.propertyID)
	if err != nil {
		return propertyPage{}, err
	}
	return propertyPage{property: property, book: book}, nil
}

func (v *PropertyView) authed() (models.Identity, models.Credential, error) {
	id, ok := v.session.Identity()
	cred, ok2 := v.session.Credential()
	if !ok || !ok2 {
		return models.Identity{}, models.Credential{}, session.ErrNotLoggedIn
	}
	return id, cred, nil
}
