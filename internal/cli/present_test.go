package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/georgemunganga/wegmans2/internal/modules/cart"
	"github.com/georgemunganga/wegmans2/internal/modules/product"
	"github.com/georgemunganga/wegmans2/internal/modules/reorder"
	"github.com/georgemunganga/wegmans2/internal/modules/sales"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoneyRoundsHalfToEven(t *testing.T) {
	tests := map[string]string{
		"2.5":   "$2.50",
		"0.125": "$0.12",
		"0.135": "$0.14",
		"10":    "$10.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, money(decimal.RequireFromString(in)), in)
	}
}

func TestPrintCart(t *testing.T) {
	var buf bytes.Buffer
	printCart(&buf, nil, decimal.Zero)
	assert.Equal(t, "Your cart is empty.\n", buf.String())

	buf.Reset()
	lines := []cart.Line{{Product: product.Product{UPC: "00001", Name: "P1", Price: decimal.RequireFromString("2.50")}, Quantity: 3}}
	printCart(&buf, lines, decimal.RequireFromString("7.5"))
	assert.Contains(t, buf.String(), "P1    3    $2.50  $7.50")
	assert.Contains(t, buf.String(), "Total: $7.50")
}

func TestPrintRanked(t *testing.T) {
	ranked := []*sales.Ranked{
		{UPC: "00001", Name: "P1", Total: decimal.NewFromInt(12)},
		{UPC: "00002", Name: "P2", Total: decimal.NewFromInt(4)},
	}
	var buf bytes.Buffer
	printRanked(&buf, ranked, sales.Units)
	assert.Contains(t, buf.String(), "UNITS")
	assert.Contains(t, buf.String(), "1     00001  P1    12")

	buf.Reset()
	printRanked(&buf, ranked, sales.Revenue)
	assert.Contains(t, buf.String(), "$12.00")

	buf.Reset()
	printRanked(&buf, nil, sales.Units)
	assert.Equal(t, "No sales recorded.\n", buf.String())
}

func TestPrintPriceChange(t *testing.T) {
	var buf bytes.Buffer
	printPriceChange(&buf, &product.PriceChange{Key: "Milk", Price: decimal.RequireFromString("3"), Rows: 2})
	assert.Equal(t, "Price of Milk set to $3.00.\nNote: 2 products share that name and were all updated.\n", buf.String())
}

func TestPrintFulfillment(t *testing.T) {
	var buf bytes.Buffer
	printFulfillment(&buf, &reorder.FulfillReport{})
	assert.Equal(t, "No unfulfilled reorders.\n", buf.String())

	buf.Reset()
	printFulfillment(&buf, &reorder.FulfillReport{
		Pending: 2,
		Fulfilled: []*reorder.Fulfillment{{
			OrderNumber: "12345678", Product: "00002", Store: "S1", Restocked: 5,
			Vendor: "Acme Foods", DeliveryDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		}},
		Skipped:       1,
		Undistributed: []string{"87654321"},
	})
	assert.Equal(t, "Reorder 12345678: 5 of 00002 delivered to store S1 by Acme Foods on 2024-03-01.\n"+
		"1 reorder(s) were already fulfilled elsewhere.\n"+
		"Reorder 87654321 left pending: no vendor distributes its brand.\n", buf.String())
}
