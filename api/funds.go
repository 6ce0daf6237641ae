package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/brickbid/brickbid-go/models"
)

// FundsAction selects the direction of a balance adjustment.
type FundsAction string

const (
	FundsAdd      FundsAction = "add"
	FundsWithdraw FundsAction = "withdraw"
)

// Balance fetches the user's current funds.
func (c *Client) Balance(ctx context.Context, userID int64, cred models.Credential) (float64, error) {
	path := fmt.Sprintf("/funds/%d", userID)
	resp, err := c.execute(ctx, "Balance", http.MethodGet, path, func(req *resty.Request) *resty.Request {
		return bearer(req, cred)
	})
	if err != nil {
		return 0, err
	}
	return gjson.GetBytes(resp.Body(), "funds").Float(), nil
}

// DisplayName fetches the user's display name.
func (c *Client) DisplayName(ctx context.Context, userID int64, cred models.Credential) (string, error) {
	path := fmt.Sprintf("/users/%d", userID)
	resp, err := c.execute(ctx, "DisplayName", http.MethodGet, path, func(req *resty.Request) *resty.Request {
		return bearer(req, cred)
	})
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(resp.Body(), "name").String(), nil
}

// AdjustBalance adds or withdraws funds and returns the authoritative new
// balance. Amount validation (positive, numeric, covered by the balance for
// withdrawals) is the caller's job before this call; see package trading.
func (c *Client) AdjustBalance(ctx context.Context, userID int64, cred models.Credential, action FundsAction, amount float64) (float64, error) {
	path := fmt.Sprintf("/funds/%d", userID)
	resp, err := c.execute(ctx, "AdjustBalance", http.MethodPut, path, func(req *resty.Request) *resty.Request {
		return bearer(req, cred).SetBody(map[string]interface{}{
			"action": action,
			"amount": amount,
		})
	})
	if err != nil {
		return 0, err
	}
	return gjson.GetBytes(resp.Body(), "funds").Float(), nil
}
