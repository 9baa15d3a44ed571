package handler

import (
	"log/slog"
	"net/http"
	"time"

	"surplus/internal/delivery/http/middleware"
	"surplus/internal/delivery/http/response"
	"surplus/internal/domain/entity"
	"surplus/internal/domain/service"
	"surplus/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ListingHandlerParams holds dependencies for ListingHandler, injected by Fx.
type ListingHandlerParams struct {
	fx.In

	ListingUC usecase.ListingUsecase
	QRCodeSvc service.QRCodeService
	Logger    *slog.Logger
}

// ListingHandler holds dependencies for listing-related handlers.
type ListingHandler struct {
	listingUC usecase.ListingUsecase
	qrcodeSvc service.QRCodeService
	logger    *slog.Logger
}

// NewListingHandler is the constructor for ListingHandler.
func NewListingHandler(params ListingHandlerParams) *ListingHandler {
	return &ListingHandler{
		listingUC: params.ListingUC,
		qrcodeSvc: params.QRCodeSvc,
		logger:    params.Logger,
	}
}

// CreateListingRequest represents the request body for creating a listing.
type CreateListingRequest struct {
	Name               string   `json:"name" validate:"required"`
	Description        string   `json:"description"`
	Price              float64  `json:"price" validate:"gte=0"`
	OriginalPrice      *float64 `json:"originalPrice" validate:"omitempty,gte=0"`
	DiscountPercentage *float64 `json:"discountPercentage" validate:"omitempty,gte=0,lte=100"`
	ImageURL           string   `json:"imageUrl"`
}

// UpdateListingRequest represents a partial listing patch. Absent fields are
// left unchanged.
type UpdateListingRequest struct {
	Name               *string  `json:"name"`
	Description        *string  `json:"description"`
	Price              *float64 `json:"price" validate:"omitempty,gte=0"`
	OriginalPrice      *float64 `json:"originalPrice" validate:"omitempty,gte=0"`
	DiscountPercentage *float64 `json:"discountPercentage" validate:"omitempty,gte=0,lte=100"`
	ImageURL           *string  `json:"imageUrl"`
}

// ListingResponse is the JSON shape a listing is served as.
type ListingResponse struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	Price              float64    `json:"price"`
	OriginalPrice      *float64   `json:"originalPrice,omitempty"`
	DiscountPercentage *float64   `json:"discountPercentage,omitempty"`
	ImageURL           string     `json:"imageUrl"`
	CreatedAt          time.Time  `json:"createdAt"`
	Sold               bool       `json:"sold"`
	SoldAt             *time.Time `json:"soldAt,omitempty"`
}

// Create handles creating a new listing.
func (h *ListingHandler) Create(c echo.Context) error {
	session, ok := middleware.GetSession(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid session in token")
	}

	var req CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid listing input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", err.Error())
	}

	listing, err := h.listingUC.Create(c.Request().Context(), session, &usecase.CreateListingInput{
		Name:               req.Name,
		Description:        req.Description,
		Price:              req.Price,
		OriginalPrice:      req.OriginalPrice,
		DiscountPercentage: req.DiscountPercentage,
		ImageURL:           req.ImageURL,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, listingResponse(listing), "Listing created successfully")
}

// Update handles patching an existing listing.
func (h *ListingHandler) Update(c echo.Context) error {
	session, ok := middleware.GetSession(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid session in token")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid listing ID")
	}

	var req UpdateListingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid listing input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_FAILED", err.Error())
	}

	err = h.listingUC.Update(c.Request().Context(), session, id, &usecase.UpdateListingInput{
		Name:               req.Name,
		Description:        req.Description,
		Price:              req.Price,
		OriginalPrice:      req.OriginalPrice,
		DiscountPercentage: req.DiscountPercentage,
		ImageURL:           req.ImageURL,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Listing updated"}, "Listing updated successfully")
}

// Delete handles removing a listing.
func (h *ListingHandler) Delete(c echo.Context) error {
	session, ok := middleware.GetSession(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid session in token")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid listing ID")
	}

	if err := h.listingUC.Delete(c.Request().Context(), session, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Listing deleted"}, "Listing deleted successfully")
}

// Purchase handles buying a listing.
func (h *ListingHandler) Purchase(c echo.Context) error {
	session, ok := middleware.GetSession(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid session in token")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid listing ID")
	}

	if err := h.listingUC.Purchase(c.Request().Context(), session, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Purchase complete"}, "Listing purchased successfully")
}

// Get handles retrieving a single listing.
func (h *ListingHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid listing ID")
	}

	listing, err := h.listingUC.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, listingResponse(listing), "Listing retrieved successfully")
}

// Available handles listing all unsold listings.
func (h *ListingHandler) Available(c echo.Context) error {
	listings, err := h.listingUC.Available(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, listingResponses(listings), "Available listings retrieved successfully")
}

// Sold handles listing all sold listings.
func (h *ListingHandler) Sold(c echo.Context) error {
	listings, err := h.listingUC.SoldListings(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, listingResponses(listings), "Sold listings retrieved successfully")
}

// ShareQR serves a PNG QR code pointing at a listing.
func (h *ListingHandler) ShareQR(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid listing ID")
	}

	// Only existing listings get a share code.
	if _, err := h.listingUC.Get(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	qrCode, err := h.qrcodeSvc.GenerateListingQR(id)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", qrCode)
}

func listingResponse(listing *entity.Listing) ListingResponse {
	return ListingResponse{
		ID:                 listing.ID.String(),
		Name:               listing.Name,
		Description:        listing.Description,
		Price:              listing.Price,
		OriginalPrice:      listing.OriginalPrice,
		DiscountPercentage: listing.DiscountPercentage,
		ImageURL:           listing.ImageURL,
		CreatedAt:          listing.CreatedAt,
		Sold:               listing.Sold,
		SoldAt:             listing.SoldAt,
	}
}

func listingResponses(listings []*entity.Listing) []ListingResponse {
	out := make([]ListingResponse, 0, len(listings))
	for _, listing := range listings {
		out = append(out, listingResponse(listing))
	}

	return out
}
