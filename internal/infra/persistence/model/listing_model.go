package model

import (
	"time"

	"surplus/internal/domain/entity"

	"github.com/google/uuid"
)

// ListingModel mirrors one element of the 'listings' snapshot. Field names
// follow the stored JSON format, so existing snapshots stay readable.
type ListingModel struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	Price              float64    `json:"price"`
	OriginalPrice      *float64   `json:"originalPrice,omitempty"`
	DiscountPercentage *float64   `json:"discountPercentage,omitempty"`
	ImageURL           string     `json:"imageUrl"`
	CreatedAt          time.Time  `json:"createdAt"`
	SoldAt             *time.Time `json:"soldAt,omitempty"`
	Sold               bool       `json:"sold"`
}

// FromListing maps a domain listing to its persistence shape.
func FromListing(l *entity.Listing) *ListingModel {
	return &ListingModel{
		ID:                 l.ID,
		Name:               l.Name,
		Description:        l.Description,
		Price:              l.Price,
		OriginalPrice:      l.OriginalPrice,
		DiscountPercentage: l.DiscountPercentage,
		ImageURL:           l.ImageURL,
		CreatedAt:          l.CreatedAt,
		SoldAt:             l.SoldAt,
		Sold:               l.Sold,
	}
}

// ToListing maps a persistence shape back to a pure domain entity.
func (m *ListingModel) ToListing() *entity.Listing {
	return &entity.Listing{
		ID:                 m.ID,
		Name:               m.Name,
		Description:        m.Description,
		Price:              m.Price,
		OriginalPrice:      m.OriginalPrice,
		DiscountPercentage: m.DiscountPercentage,
		ImageURL:           m.ImageURL,
		CreatedAt:          m.CreatedAt,
		SoldAt:             m.SoldAt,
		Sold:               m.Sold,
	}
}
