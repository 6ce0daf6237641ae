package models

// OrderKind selects how an order is priced: market orders take the best
// opposing bid at submission, limit orders carry a user-chosen price.
type OrderKind string

const (
	OrderMarket OrderKind = "market"
	OrderLimit  OrderKind = "limit"
)

// OrderSide is the direction of an order.
type OrderSide string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

// OrderBook holds both sides of a property's book, most favorable price
// first on each side, exactly as the orders endpoint returns them.
type OrderBook struct {
	Buy  []float64 `json:"buy"`
	Sell []float64 `json:"sell"`
}

// BestBuy returns the top buy bid, if any.
func (b OrderBook) BestBuy() (float64, bool) {
	if len(b.Buy) == 0 {
		return 0, false
	}
	return b.Buy[0], true
}

// BestSell returns the top sell bid, if any.
func (b OrderBook) BestSell() (float64, bool) {
	if len(b.Sell) == 0 {
		return 0, false
	}
	return b.Sell[0], true
}
