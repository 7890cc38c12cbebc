package router

import (
	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, authLimiter *middleware.RateLimiter) {
	SetupAuthRouter(e, authMiddleware, authLimiter)
	SetupBrowseRouter(e)
	SetupDashboardRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
