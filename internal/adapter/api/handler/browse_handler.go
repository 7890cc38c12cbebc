package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"roomlink/internal/adapter/api/middleware"
	"roomlink/internal/domain/entity"
	"roomlink/internal/usecase"
	"roomlink/pkg/response"
)

// BrowseHandler serves the house and roommate browse pages and their detail
// views. Filter state lives server-side per browsing session, so a request
// only needs to carry what changed.
type BrowseHandler struct {
	registry       *usecase.BrowseRegistry
	listingUseCase *usecase.ListingUseCase
}

func NewBrowseHandler(registry *usecase.BrowseRegistry, listingUseCase *usecase.ListingUseCase) *BrowseHandler {
	return &BrowseHandler{
		registry:       registry,
		listingUseCase: listingUseCase,
	}
}

func (h *BrowseHandler) ListHouses(c echo.Context) error {
	return h.list(c, entity.CollectionHouses)
}

func (h *BrowseHandler) ListRoommates(c echo.Context) error {
	return h.list(c, entity.CollectionRoommates)
}

func (h *BrowseHandler) GetHouse(c echo.Context) error {
	return h.detail(c, entity.CollectionHouses)
}

func (h *BrowseHandler) GetRoommate(c echo.Context) error {
	return h.detail(c, entity.CollectionRoommates)
}

func (h *BrowseHandler) list(c echo.Context, collection string) error {
	sessionID, _ := c.Get(middleware.BrowseSessionKey).(string)
	controller := h.registry.Get(sessionID, collection)
	ctx := c.Request().Context()

	if c.QueryParams().Has("reset") {
		return renderSnapshot(c, controller.Reset(ctx))
	}

	update := usecase.FilterUpdate{}
	changed := false
	if v := c.QueryParam("location"); c.QueryParams().Has("location") {
		update.Location = &v
		changed = true
	}
	if v := c.QueryParam("gender"); collection == entity.CollectionRoommates && c.QueryParams().Has("gender") {
		update.Gender = &v
		changed = true
	}
	if v := c.QueryParam("sort"); c.QueryParams().Has("sort") {
		update.Sort = &v
		changed = true
	}
	if v := c.QueryParam("q"); c.QueryParams().Has("q") {
		update.Search = &v
		changed = true
	}

	snapshot := usecase.BrowseSnapshot{}
	switch {
	case changed:
		snapshot = controller.SetFilter(ctx, update)
		// A page given alongside a filter change applies after the reset to
		// page 1, matching the stale-controls clamp.
		if c.QueryParams().Has("page") {
			snapshot = controller.SetPage(ctx, pageParam(c))
		}
	case c.QueryParams().Has("page"):
		snapshot = controller.SetPage(ctx, pageParam(c))
	default:
		snapshot = controller.Refresh(ctx)
	}

	return renderSnapshot(c, snapshot)
}

func (h *BrowseHandler) detail(c echo.Context, collection string) error {
	sessionID, _ := c.Get(middleware.BrowseSessionKey).(string)

	listing, err := h.listingUseCase.GetListing(c.Request().Context(), collection, c.Param("id"), sessionID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil {
		return 1
	}
	return page
}

func renderSnapshot(c echo.Context, snapshot usecase.BrowseSnapshot) error {
	if snapshot.State == usecase.BrowseFailed {
		return response.Error(c, snapshot.Err)
	}

	items := snapshot.Listings
	if items == nil {
		items = []*entity.Listing{}
	}

	return response.Paginated(c, items, snapshot.Total, snapshot.Page, snapshot.PageSize)
}
