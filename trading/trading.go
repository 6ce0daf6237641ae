// Package trading holds the order-entry logic that runs before any network
// call: amount validation and market-order price resolution.
package trading

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/brickbid/brickbid-go/models"
)

var (
	// ErrInvalidAmount rejects input that is not a positive decimal number.
	ErrInvalidAmount = errors.New("trading: enter a valid amount")
	// ErrInsufficientFunds rejects a withdrawal larger than the balance.
	ErrInsufficientFunds = errors.New("trading: insufficient funds")
	// ErrNoOpposingBids means a market order has nothing to match against.
	ErrNoOpposingBids = errors.New("trading: no opposing bids available")
)

var validate = validator.New()

type amountInput struct {
	Amount float64 `validate:"gt=0"`
}

// ParseAmount converts user input into a positive decimal amount. Anything
// non-numeric (including NaN and Inf spellings) or not strictly positive is
// rejected; no network call may happen on rejected input.
func ParseAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if err := validate.Struct(amountInput{Amount: v}); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return v, nil
}

// ParseWithdrawal validates a withdrawal amount against the current balance.
func ParseWithdrawal(raw string, balance float64) (float64, error) {
	v, err := ParseAmount(raw)
	if err != nil {
		return 0, err
	}
	if v > balance {
		return 0, ErrInsufficientFunds
	}
	return v, nil
}

// ResolveMarketPrice picks the price a market order submits at: a buy takes
// the best sell bid, a sell takes the best buy bid. The resolution reflects
// the book at this moment only; server-side matching is not atomic with it.
func ResolveMarketPrice(book models.OrderBook, side models.OrderSide) (float64, error) {
	switch side {
	case models.SideBuy:
		if price, ok := book.BestSell(); ok {
			return price, nil
		}
	case models.SideSell:
		if price, ok := book.BestBuy(); ok {
			return price, nil
		}
	}
	return 0, ErrNoOpposingBids
}
