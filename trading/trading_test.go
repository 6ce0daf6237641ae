package trading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brickbid/brickbid-go/models"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"50", 50},
		{"0.01", 0.01},
		{" 12.5 ", 12.5},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseAmountRejects(t *testing.T) {
	for _, raw := range []string{"-5", "abc", "", "0", "-0.01", "NaN", "Inf", "1e999", "5,5"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParseAmount(raw)
			assert.ErrorIs(t, err, ErrInvalidAmount)
		})
	}
}

func TestParseWithdrawal(t *testing.T) {
	got, err := ParseWithdrawal("100", 100)
	require.NoError(t, err)
	assert.Equal(t, float64(100), got)

	_, err = ParseWithdrawal("150", 100)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = ParseWithdrawal("-5", 100)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ParseWithdrawal("abc", 100)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestResolveMarketPrice(t *testing.T) {
	book := models.OrderBook{Buy: []float64{10, 9, 8}, Sell: []float64{11, 12}}

	price, err := ResolveMarketPrice(book, models.SideBuy)
	require.NoError(t, err)
	assert.Equal(t, float64(11), price, "market buy takes the best sell bid")

	price, err = ResolveMarketPrice(book, models.SideSell)
	require.NoError(t, err)
	assert.Equal(t, float64(10), price, "market sell takes the best buy bid")
}

func TestResolveMarketPriceEmptyBook(t *testing.T) {
	_, err := ResolveMarketPrice(models.OrderBook{Buy: []float64{10}}, models.SideBuy)
	assert.ErrorIs(t, err, ErrNoOpposingBids)

	_, err = ResolveMarketPrice(models.OrderBook{Sell: []float64{11}}, models.SideSell)
	assert.ErrorIs(t, err, ErrNoOpposingBids)

	_, err = ResolveMarketPrice(models.OrderBook{}, "sideways")
	assert.ErrorIs(t, err, ErrNoOpposingBids)
}
