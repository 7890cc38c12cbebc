package handler

import (
	"mime/multipart"
	"strconv"

	"github.com/labstack/echo/v4"

	"roomlink/internal/domain/entity"
	"roomlink/internal/usecase"
	"roomlink/pkg/errors"
	"roomlink/pkg/response"
)

const maxPhotoSize = 5 * 1024 * 1024

// DashboardHandler owns the authenticated create/edit/delete surface.
type DashboardHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewDashboardHandler(listingUseCase *usecase.ListingUseCase) *DashboardHandler {
	return &DashboardHandler{
		listingUseCase: listingUseCase,
	}
}

type submitListingRequest struct {
	Category    string  `validate:"required,oneof=house roommate"`
	Name        string  `validate:"required"`
	Price       float64 `validate:"gte=0"`
	Location    string  `validate:"required"`
	PhoneNumber string
	Description string
	GenderPref  string `validate:"omitempty,oneof=Any Male Female"`
}

func (h *DashboardHandler) ListMine(c echo.Context) error {
	ownerID := c.Get("uid").(string)

	listings, err := h.listingUseCase.ListMine(c.Request().Context(), ownerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listings)
}

func (h *DashboardHandler) CreateListing(c echo.Context) error {
	return h.submit(c, "")
}

func (h *DashboardHandler) UpdateListing(c echo.Context) error {
	return h.submit(c, c.Param("id"))
}

func (h *DashboardHandler) submit(c echo.Context, editingID string) error {
	ownerID := c.Get("uid").(string)

	req, err := parseSubmitForm(c)
	if err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(req); err != nil {
		return response.Error(c, err)
	}

	photos, closers, err := openPhotos(c)
	if err != nil {
		return response.Error(c, err)
	}
	defer func() {
		for _, closer := range closers {
			closer.Close()
		}
	}()

	collection := entity.CollectionHouses
	if req.Category == "roommate" {
		collection = entity.CollectionRoommates
	}

	listing, err := h.listingUseCase.Submit(c.Request().Context(), ownerID, usecase.SubmitInput{
		Collection:  collection,
		Name:        req.Name,
		Price:       req.Price,
		Location:    req.Location,
		PhoneNumber: req.PhoneNumber,
		Description: req.Description,
		GenderPref:  req.GenderPref,
	}, editingID, photos)
	if err != nil {
		return response.Error(c, err)
	}

	if editingID == "" {
		return response.Created(c, listing)
	}
	return response.Success(c, listing)
}

func (h *DashboardHandler) DeleteListing(c echo.Context) error {
	ownerID := c.Get("uid").(string)
	collection := c.QueryParam("collection")

	armed, err := h.listingUseCase.Delete(c.Request().Context(), ownerID, collection, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	if armed {
		return response.Success(c, map[string]interface{}{
			"armed":   true,
			"message": "Tap delete again to confirm",
		})
	}

	return response.Success(c, map[string]interface{}{
		"armed":   false,
		"message": "Listing deleted",
	})
}

func parseSubmitForm(c echo.Context) (*submitListingRequest, error) {
	req := &submitListingRequest{
		Category:    c.FormValue("category"),
		Name:        c.FormValue("name"),
		Location:    c.FormValue("location"),
		PhoneNumber: c.FormValue("phone_number"),
		Description: c.FormValue("description"),
		GenderPref:  c.FormValue("gender_pref"),
	}

	if raw := c.FormValue("price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.Validation("price must be a number", err)
		}
		req.Price = price
	}

	return req, nil
}

func openPhotos(c echo.Context) ([]usecase.PhotoInput, []multipart.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		// No multipart body at all still allows an edit without new photos.
		return nil, nil, nil
	}

	var photos []usecase.PhotoInput
	var closers []multipart.File
	for _, header := range form.File["photos"] {
		if header.Size > maxPhotoSize {
			for _, closer := range closers {
				closer.Close()
			}
			return nil, nil, errors.Validation("Photo exceeds the 5MB limit: "+header.Filename, nil)
		}

		file, err := header.Open()
		if err != nil {
			for _, closer := range closers {
				closer.Close()
			}
			return nil, nil, errors.Internal("Unable to read uploaded photo", err)
		}

		closers = append(closers, file)
		photos = append(photos, usecase.PhotoInput{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Reader:      file,
		})
	}

	return photos, closers, nil
}
