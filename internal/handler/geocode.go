package handler

import (
	"context"
	"errors"
	"net/http"

	"geocoding-gateway/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// GeoCodeHandler handles geocoding requests
type GeoCodeHandler struct {
	service GeoCodeService
	logger  zerolog.Logger
}

// GeoCodeService interface for dependency injection
type GeoCodeService interface {
	Geocode(ctx context.Context, address, outputFormat string) (models.Document, error)
}

// AddressDetailsRequest is the body of POST /getAddressDetails
type AddressDetailsRequest struct {
	Address      string `json:"address" example:"1600 Amphitheatre Parkway, Mountain View, CA"`
	OutputFormat string `json:"output_format" example:"json" enums:"json,xml"`
}

// ErrorResponse is returned for every non-200 outcome
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// NewGeoCodeHandler creates a new geocode handler
func NewGeoCodeHandler(svc GeoCodeService, logger zerolog.Logger) *GeoCodeHandler {
	return &GeoCodeHandler{service: svc, logger: logger.With().Str("component", "handler").Logger()}
}

// GetAddressDetails handles POST /getAddressDetails requests
//
//	@Summary		Geocode an address
//	@Description	Resolves an address to latitude/longitude and returns it as JSON or XML.
//	@Tags			geocoding
//	@Accept			json
//	@Produce		json,xml
//	@Param			request	body		AddressDetailsRequest	true	"Address and output format"
//	@Success		200		{string}	string					"JSON or XML document with the address and coordinates"
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/getAddressDetails [post]
func (h *GeoCodeHandler) GetAddressDetails(c *gin.Context) {
	var req AddressDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Detail: "invalid request body"})
		return
	}

	doc, err := h.service.Geocode(c.Request.Context(), req.Address, req.OutputFormat)
	if err != nil {
		var invalid *models.InvalidInputError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Detail: invalid.Message})
			return
		}

		h.logger.Error().Err(err).Str("address", req.Address).Msg("geocoding failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Detail: "Internal Server Error"})
		return
	}

	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}
