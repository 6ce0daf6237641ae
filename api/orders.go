package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/brickbid/brickbid-go/models"
)

// Order is a buy or sell order to submit. Price carries the resolved market
// price for market orders and the user's chosen price for limit orders.
type Order struct {
	Kind       models.OrderKind
	Side       models.OrderSide
	UserID     int64
	PropertyID int64
	Price      float64
}

// PlaceOrder submits an order. Market orders go to the market endpoint with
// PUT, limit orders to the limit endpoint with POST; the platform reports
// nothing meaningful beyond success.
func (c *Client) PlaceOrder(ctx context.Context, cred models.Credential, order Order) error {
	var method, path string
	switch order.Kind {
	case models.OrderLimit:
		method, path = http.MethodPost, "/limitorder"
	case models.OrderMarket:
		method, path = http.MethodPut, "/marketorder"
	default:
		return fmt.Errorf("api: unknown order kind %q", order.Kind)
	}

	_, err := c.execute(ctx, "PlaceOrder", method, path, func(req *resty.Request) *resty.Request {
		return bearer(req, cred).SetBody(map[string]interface{}{
			"action":      order.Side,
			"user_id":     order.UserID,
			"property_id": order.PropertyID,
			"price":       order.Price,
		})
	})
	return err
}
