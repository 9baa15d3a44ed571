package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"No rounding needed", 7.5, 7.5},
		{"Round down", 7.494, 7.49},
		{"Round up", 7.495, 7.5},
		{"Repeating fraction", 3.333333, 3.33},
		{"Zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Round2(tt.input), 1e-9)
		})
	}
}

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		name               string
		originalPrice      float64
		discountPercentage float64
		expected           float64
	}{
		{"Quarter off", 10.00, 25, 7.50},
		{"Half off", 10.00, 50, 5.00},
		{"Thirty percent off", 5.00, 30, 3.50},
		{"Full discount", 8.00, 100, 0},
		{"Rounding applies", 9.99, 33, 6.69},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, DiscountedPrice(tt.originalPrice, tt.discountPercentage), 1e-9)
		})
	}
}

func TestListing_ApplyDiscount(t *testing.T) {
	price := func(v float64) *float64 { return &v }

	tests := []struct {
		name               string
		price              float64
		originalPrice      *float64
		discountPercentage *float64
		wantApplied        bool
		wantPrice          float64
	}{
		{"Both set", 99.0, price(10.00), price(25), true, 7.50},
		{"Original price missing", 4.20, nil, price(25), false, 4.20},
		{"Discount missing", 4.20, price(10.00), nil, false, 4.20},
		{"Both missing", 4.20, nil, nil, false, 4.20},
		{"Zero original price", 4.20, price(0), price(25), false, 4.20},
		{"Zero discount", 4.20, price(10.00), price(0), false, 4.20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing := &Listing{
				Price:              tt.price,
				OriginalPrice:      tt.originalPrice,
				DiscountPercentage: tt.discountPercentage,
			}

			applied := listing.ApplyDiscount()
			assert.Equal(t, tt.wantApplied, applied)
			assert.InDelta(t, tt.wantPrice, listing.Price, 1e-9)
		})
	}
}

func TestListing_MarkSold(t *testing.T) {
	listing := &Listing{Name: "Pasta Primavera"}
	require.False(t, listing.Sold)
	require.Nil(t, listing.SoldAt)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	listing.MarkSold(at)

	assert.True(t, listing.Sold)
	require.NotNil(t, listing.SoldAt)
	assert.Equal(t, at, *listing.SoldAt)
}

func TestSession_RoleChecks(t *testing.T) {
	admin := &Session{AccountID: "a-1", Role: RoleAdmin}
	customer := &Session{AccountID: "c-1", Role: RoleCustomer}
	var missing *Session

	assert.True(t, admin.IsAdmin())
	assert.False(t, admin.IsCustomer())
	assert.True(t, customer.IsCustomer())
	assert.False(t, customer.IsAdmin())
	assert.False(t, missing.IsAdmin())
	assert.False(t, missing.IsCustomer())
}

func TestRoleFromString(t *testing.T) {
	assert.Equal(t, RoleAdmin, RoleFromString("admin"))
	assert.Equal(t, RoleCustomer, RoleFromString("customer"))
	assert.Equal(t, RoleCustomer, RoleFromString("unknown"))
	assert.Equal(t, RoleCustomer, RoleFromString(""))
}
