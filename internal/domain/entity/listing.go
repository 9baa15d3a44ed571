// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Listing is a surplus food item offered for sale. It starts available and is
// either edited by an administrator or transitioned to sold exactly once by a
// purchasing customer.
type Listing struct {
	ID                 uuid.UUID  // The unique identifier of this listing.
	Name               string     // Short display name, e.g. "Pasta Primavera".
	Description        string     // Free-form description of the item.
	Price              float64    // Current asking price, non-negative, two decimal places.
	OriginalPrice      *float64   // Pre-discount price. Nil when the item was never discounted.
	DiscountPercentage *float64   // Discount in percent (0-100). Nil when not discounted.
	ImageURL           string     // Reference to the item's image.
	CreatedAt          time.Time  // Timestamp of when the listing was created.
	Sold               bool       // True once the item has been purchased.
	SoldAt             *time.Time // Purchase timestamp. Set iff Sold is true.
}

// Round2 rounds a currency amount to two decimal places. All price math in the
// system goes through this one rule so rounding stays consistent.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DiscountedPrice derives the current price from an original price and a
// discount percentage, rounded to two decimal places.
func DiscountedPrice(originalPrice, discountPercentage float64) float64 {
	return Round2(originalPrice * (1 - discountPercentage/100))
}

// ApplyDiscount recomputes Price from OriginalPrice and DiscountPercentage
// when both are set. Returns true when a derived price was applied, overriding
// whatever Price held before.
func (l *Listing) ApplyDiscount() bool {
	if l.OriginalPrice == nil || l.DiscountPercentage == nil {
		return false
	}
	if *l.OriginalPrice == 0 || *l.DiscountPercentage == 0 {
		// A zero on either side leaves the caller-supplied price untouched.
		return false
	}

	l.Price = DiscountedPrice(*l.OriginalPrice, *l.DiscountPercentage)

	return true
}

// MarkSold transitions the listing to sold at the given time.
func (l *Listing) MarkSold(at time.Time) {
	l.Sold = true
	l.SoldAt = &at
}
