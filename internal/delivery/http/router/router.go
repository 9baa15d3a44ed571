// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"surplus/internal/delivery/http/middleware"
	"surplus/internal/delivery/http/router/handler"
	"surplus/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	IdentityHandler *handler.IdentityHandler
	ListingHandler  *handler.ListingHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	identityHandler *handler.IdentityHandler
	listingHandler  *handler.ListingHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		identityHandler: params.IdentityHandler,
		listingHandler:  params.ListingHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.identityHandler.Register)
		authGroup.POST("/login", r.identityHandler.Login)
		authGroup.POST("/logout", r.identityHandler.Logout)
		authGroup.GET("/session", r.identityHandler.CurrentSession)
	}

	// Public listing reads
	listingGroup := e.Group("/listings")
	{
		listingGroup.GET("", r.listingHandler.Available)
		listingGroup.GET("/sold", r.listingHandler.Sold)
		listingGroup.GET("/:id", r.listingHandler.Get)
		listingGroup.GET("/:id/qr", r.listingHandler.ShareQR)
	}

	// Listing management requires authentication and the "admin" role
	adminGroup := e.Group("/listings")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin))
	{
		adminGroup.POST("", r.listingHandler.Create)
		adminGroup.PUT("/:id", r.listingHandler.Update)
		adminGroup.DELETE("/:id", r.listingHandler.Delete)
	}

	// Purchasing requires authentication and the "customer" role
	purchaseGroup := e.Group("/listings")
	purchaseGroup.Use(r.authMiddleware.Authenticate)
	purchaseGroup.Use(r.authMiddleware.RequireRole(entity.RoleCustomer))
	{
		purchaseGroup.POST("/:id/purchase", r.listingHandler.Purchase)
	}
}
