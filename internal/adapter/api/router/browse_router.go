package router

import (
	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/handler"
	"roomlink/internal/adapter/api/middleware"
)

func SetupBrowseRouter(e *echo.Echo) {
	browseHandler := handler.GetBrowseHandler()

	houses := e.Group("/v1/houses")
	houses.Use(middleware.BrowseSession)
	houses.GET("", browseHandler.ListHouses)
	houses.GET("/:id", browseHandler.GetHouse)

	roommates := e.Group("/v1/roommates")
	roommates.Use(middleware.BrowseSession)
	roommates.GET("", browseHandler.ListRoommates)
	roommates.GET("/:id", browseHandler.GetRoommate)
}
