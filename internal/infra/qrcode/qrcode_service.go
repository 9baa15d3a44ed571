package qrcode

import (
	"encoding/json"
	"fmt"

	"surplus/internal/domain/service"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// QRCodeData is the payload encoded into listing share codes.
type QRCodeData struct {
	ListingID string `json:"listing_id"`
	Type      string `json:"type"`
}

// qrTypeListing marks a share code that points at a listing.
const qrTypeListing = "listing"

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GenerateListingQR generates a share QR code for a listing
func (s *qrcodeService) GenerateListingQR(listingID uuid.UUID) ([]byte, error) {
	data := QRCodeData{
		ListingID: listingID.String(),
		Type:      qrTypeListing,
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal QR code data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	// Generate PNG image
	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParseListingQR parses QR code data and returns the listing ID
func (s *qrcodeService) ParseListingQR(qrData string) (uuid.UUID, error) {
	var data QRCodeData
	if err := json.Unmarshal([]byte(qrData), &data); err != nil {
		return uuid.Nil, fmt.Errorf("failed to unmarshal QR code data: %w", err)
	}

	if data.Type != qrTypeListing {
		return uuid.Nil, fmt.Errorf("invalid QR code type: %s", data.Type)
	}

	listingID, err := uuid.Parse(data.ListingID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse listing ID: %w", err)
	}

	return listingID, nil
}
