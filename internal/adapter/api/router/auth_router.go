package router

import (
	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/handler"
	"roomlink/internal/adapter/api/middleware"
)

func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, authLimiter *middleware.RateLimiter) {
	authHandler := handler.GetAuthHandler()

	public := e.Group("/v1/auth")
	public.Use(authLimiter.Middleware())
	public.POST("/register", authHandler.Register)
	public.POST("/login", authHandler.Login)
	public.POST("/oauth", authHandler.OAuthLogin)
	public.POST("/refresh", authHandler.Refresh)
	public.POST("/forgot-password", authHandler.ForgotPassword)
	public.POST("/resend-confirmation", authHandler.ResendConfirmation)

	protected := e.Group("/v1/auth")
	protected.Use(authMiddleware.Authenticate)
	protected.GET("/me", authHandler.Me)
	protected.PUT("/password", authHandler.UpdatePassword)
	protected.POST("/logout", authHandler.Logout)
}
