package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/brickbid/brickbid-go/models"
)

// WatchAction selects how a property's watchlist membership changes.
type WatchAction string

const (
	WatchAdd    WatchAction = "add"
	WatchRemove WatchAction = "remove"
)

// Watchlist fetches the user's watched property ids.
func (c *Client) Watchlist(ctx context.Context, userID int64, cred models.Credential) ([]int64, error) {
	path := fmt.Sprintf("/watchlist/%d", userID)
	resp, err := c.execute(ctx, "Watchlist", http.MethodGet, path, func(req *resty.Request) *resty.Request {
		return bearer(req, cred)
	})
	if err != nil {
		return nil, err
	}
	return idList(resp.Body(), "watchlist"), nil
}

// UpdateWatchlist adds or removes one property and returns the resulting
// watchlist as the platform reports it.
func (c *Client) UpdateWatchlist(ctx context.Context, userID int64, cred models.Credential, action WatchAction, propertyID int64) ([]int64, error) {
	path := fmt.Sprintf("/watchlist/%d", userID)
	resp, err := c.execute(ctx, "UpdateWatchlist", http.MethodPut, path, func(req *resty.Request) *resty.Request {
		return bearer(req, cred).SetBody(map[string]interface{}{
			"action":      action,
			"property_id": propertyID,
		})
	})
	if err != nil {
		return nil, err
	}
	return idList(resp.Body(), "watchlist"), nil
}

// Portfolio fetches the property ids the user holds positions in.
func (c *Client) Portfolio(ctx context.Context, userID int64, cred models.Credential) ([]int64, error) {
	path := fmt.Sprintf("/portfolio/%d", userID)
	resp, err := c.execute(ctx, "Portfolio", http.MethodGet, path, func(req *resty.Request) *resty.Request {
		return bearer(req, cred)
	})
	if err != nil {
		return nil, err
	}
	return idList(resp.Body(), "portfolio"), nil
}

func idList(body []byte, field string) []int64 {
	ids := []int64{}
	for _, v := range gjson.GetBytes(body, field).Array() {
		ids = append(ids, v.Int())
	}
	return ids
}
