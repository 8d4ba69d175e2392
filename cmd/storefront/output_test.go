package main

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/storefront/internal/models"
	"github.com/GTDGit/storefront/internal/notify"
)

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"101", "7"})
	require.NoError(t, err)
	assert.Equal(t, []int64{101, 7}, ids)

	_, err = parseIDs([]string{"101", "0"})
	assert.EqualError(t, err, `invalid id "0"`)
}

func TestProductFromFlags(t *testing.T) {
	productTitle, productPrice = "Dune", "19.90"
	t.Cleanup(func() { productTitle, productPrice = "", "" })

	p, err := productFromFlags("4")
	require.NoError(t, err)
	assert.Equal(t, int64(4), p.ID)
	assert.Equal(t, "Dune", p.Title)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("19.90")))

	productPrice = "cheap"
	_, err = productFromFlags("4")
	assert.ErrorContains(t, err, "invalid --price")
}

func TestLabels(t *testing.T) {
	sale := decimal.NewFromInt(80)
	p := models.Product{Price: decimal.NewFromInt(100), SalePrice: &sale, Stock: 0}

	assert.Equal(t, "80.00 (was 100.00)", priceLabel(p))
	assert.Equal(t, "out of stock", stockLabel(p))

	p.SalePrice, p.Stock = nil, 4
	assert.Equal(t, "100.00", priceLabel(p))
	assert.Equal(t, "4", stockLabel(p))
}

func TestPrintToasts(t *testing.T) {
	var buf bytes.Buffer
	printToasts(&buf, []notify.Toast{
		{Level: notify.LevelSuccess, Message: "Added to wishlist"},
		{Level: notify.LevelError, Message: "Failed to load cart"},
	})

	out := buf.String()
	assert.Contains(t, out, "Added to wishlist")
	assert.Contains(t, out, "Failed to load cart")
}

func TestPrintTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, "Your wishlist is empty", []string{"ID"}, nil)

	assert.Contains(t, buf.String(), "Your wishlist is empty")
}
