package router

import (
	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/handler"
	"roomlink/internal/adapter/api/middleware"
)

func SetupDashboardRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	dashboardHandler := handler.GetDashboardHandler()

	myListings := e.Group("/v1/my-listings")
	myListings.Use(authMiddleware.Authenticate)
	myListings.GET("", dashboardHandler.ListMine)
	myListings.POST("", dashboardHandler.CreateListing)
	myListings.PUT("/:id", dashboardHandler.UpdateListing)
	myListings.DELETE("/:id", dashboardHandler.DeleteListing)
}
