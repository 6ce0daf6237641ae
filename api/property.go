package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	"github.com/brickbid/brickbid-go/models"
)

// Property fetches one listing by id. Public: no credential required.
func (c *Client) Property(ctx context.Context, propertyID int64) (models.Property, error) {
	path := fmt.Sprintf("/getproperties/%d", propertyID)
	resp, err := c.execute(ctx, "Property", http.MethodGet, path, nil)
	if err != nil {
		return models.Property{}, err
	}

	var p models.Property
	if err := json.Unmarshal(resp.Body(), &p); err != nil {
		return models.Property{}, fmt.Errorf("api: decode property response: %w", err)
	}
	return p, nil
}

// Properties fetches the full listing catalogue. Public.
func (c *Client) Properties(ctx context.Context) ([]models.Property, error) {
	resp, err := c.execute(ctx, "Properties", http.MethodGet, "/properties", nil)
	if err != nil {
		return nil, err
	}

	var list []models.Property
	if err := json.Unmarshal(resp.Body(), &list); err != nil {
		return nil, fmt.Errorf("api: decode properties response: %w", err)
	}
	return list, nil
}

// OrderBids fetches one side of a property's order book as a price list,
// most favorable first. Public.
func (c *Client) OrderBids(ctx context.Context, side models.OrderSide, propertyID int64) ([]float64, error) {
	path := fmt.Sprintf("/orders/%s/%d", side, propertyID)
	resp, err := c.execute(ctx, "OrderBids", http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	// The endpoint returns full order records; only the prices matter here.
	prices := []float64{}
	for _, p := range gjson.GetBytes(resp.Body(), "#.price").Array() {
		prices = append(prices, p.Float())
	}
	return prices, nil
}

// OrderBook fetches both sides of a property's book.
func (c *Client) OrderBook(ctx context.Context, propertyID int64) (models.OrderBook, error) {
	buy, err := c.OrderBids(ctx, models.SideBuy, propertyID)
	if err != nil {
		return models.OrderBook{}, err
	}
	sell, err := c.OrderBids(ctx, models.SideSell, propertyID)
	if err != nil {
		return models.OrderBook{}, err
	}
	return models.OrderBook{Buy: buy, Sell: sell}, nil
}
