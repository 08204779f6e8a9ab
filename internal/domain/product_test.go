package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductValidate(t *testing.T) {
	cases := []struct {
		name    string
		product Product
		wantErr bool
	}{
		{name: "ok", product: Product{ID: "lamp", Price: decimal.RequireFromString("25.75")}},
		{name: "free", product: Product{ID: "sample", Price: decimal.Zero}},
		{name: "blank id", product: Product{ID: "  ", Price: decimal.RequireFromString("1")}, wantErr: true},
		{name: "negative price", product: Product{ID: "lamp", Price: decimal.RequireFromString("-0.01")}, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.product.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidProduct)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCartLineTotal(t *testing.T) {
	line := NewCartLine(Product{ID: "lamp", Price: decimal.RequireFromString("25.75")})
	line.Quantity = 2
	assert.Equal(t, "51.50", line.LineTotal().StringFixed(2))
}

func TestCartLineJSONKeepsNumericPrice(t *testing.T) {
	line := NewCartLine(Product{ID: "lamp", Title: "Lamp", Price: decimal.RequireFromString("25.75")})

	raw, err := json.Marshal(line)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"lamp","title":"Lamp","price":25.75,"image":"","description":"","quantity":1}`, string(raw))

	var fromString CartLine
	require.NoError(t, json.Unmarshal([]byte(`{"id":"lamp","price":"25.75","quantity":3}`), &fromString))
	assert.True(t, fromString.Price.Equal(decimal.RequireFromString("25.75")))
}
