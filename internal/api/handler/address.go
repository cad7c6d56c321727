package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/moodwalk/moodwalk/internal/api/response"
	"github.com/moodwalk/moodwalk/internal/geocode"
)

// AddressHandler handles address lookup endpoints.
type AddressHandler struct {
	service *geocode.Service
}

// NewAddressHandler creates a new AddressHandler.
func NewAddressHandler(service *geocode.Service) *AddressHandler {
	return &AddressHandler{service: service}
}

// SearchAddress handles GET /api/search-address?q=&limit=.
func (h *AddressHandler) SearchAddress(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, r, "limit must be a number")
			return
		}
		limit = parsed
	}

	suggestions, err := h.service.Search(r.Context(), query, limit)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, suggestions)
}

// ReverseGeocode handles GET /api/reverse-geocode?lat=&lon=.
func (h *AddressHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		response.BadRequest(w, r, "lat must be a number")
		return
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		response.BadRequest(w, r, "lon must be a number")
		return
	}

	address, err := h.service.Reverse(r.Context(), lat, lon)
	if err != nil {
		writeLookupError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, address)
}

// writeLookupError maps lookup failures onto status codes.
func writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	var lookupErr *geocode.Error
	if errors.As(err, &lookupErr) {
		status := http.StatusInternalServerError
		message := "Could not find addresses. Please try again."
		switch lookupErr.Category {
		case geocode.CategoryTimeout:
			status = http.StatusGatewayTimeout
			message = "The address search timed out. Please try again."
		case geocode.CategoryRateLimited:
			status = http.StatusTooManyRequests
			message = "Too many requests. Please wait a few seconds."
		case geocode.CategoryForbidden:
			status = http.StatusForbidden
			message = "Access denied. Please try again later."
		}
		response.Error(w, r, status, "Address search failed", message)
		return
	}

	response.InternalError(w, r, "Address search failed",
		"Could not find addresses. Please try again.")
}
