package handler

import (
	"roomlink/internal/usecase"
)

var (
	authHandler      *AuthHandler
	browseHandler    *BrowseHandler
	dashboardHandler *DashboardHandler
	healthHandler    *HealthHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	browseRegistry *usecase.BrowseRegistry,
	listingUseCase *usecase.ListingUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	browseHandler = NewBrowseHandler(browseRegistry, listingUseCase)
	dashboardHandler = NewDashboardHandler(listingUseCase)
	healthHandler = NewHealthHandler()
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetBrowseHandler() *BrowseHandler {
	return browseHandler
}

func GetDashboardHandler() *DashboardHandler {
	return dashboardHandler
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}
