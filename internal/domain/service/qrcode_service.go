package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GenerateListingQR generates a share QR code for a listing
	GenerateListingQR(listingID uuid.UUID) ([]byte, error)

	// ParseListingQR parses QR code data and returns the listing ID
	ParseListingQR(qrData string) (uuid.UUID, error)
}
