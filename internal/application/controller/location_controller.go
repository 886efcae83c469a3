package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"weather-api/internal/domain/entity"
	"weather-api/internal/domain/model"
	"weather-api/internal/domain/reconciler"
	"weather-api/internal/domain/usecase/location"
	"weather-api/pkg/log"
	"weather-api/pkg/msg"
	"weather-api/pkg/util/numberutils"
)

type LocationController struct {
	api     *echo.Group
	useCase location.UseCase
}

func NewLocationController(api *echo.Group, useCase location.UseCase) *LocationController {
	return &LocationController{api: api, useCase: useCase}
}

// InitLocationRoutes initializes location routes
func (controller *LocationController) InitLocationRoutes() {
	controller.api.GET("/search", controller.Search)
	controller.api.GET("/location", controller.GetByID)
}

// Search godoc
// @Summary Search locations
// @Description Find locations by name, or the location nearest to a coordinate pair. Name wins when both are given.
// @Tags location
// @Produce json
// @Param name query string false "Place name, accents and case are ignored"
// @Param lat query number false "Latitude, required with long"
// @Param long query number false "Longitude, required with lat"
// @Success 200 {array} model.LocationResponse "Matching locations, a single object for a coordinate search"
// @Failure 400 {object} model.ErrorResponse "Missing or malformed parameters"
// @Failure 404 {object} model.ErrorResponse "No location found"
// @Router /search [get]
func (controller *LocationController) Search(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.QueryParam("name")
	lat, long := c.QueryParam("lat"), c.QueryParam("long")

	switch {
	case name != "":
		locations, err := controller.useCase.GetByName(ctx, name)
		if err != nil {
			return errorResponse(c, err)
		}

		response := make([]model.LocationResponse, 0, len(locations))
		for _, found := range locations {
			response = append(response, toLocationResponse(found, false))
		}
		return c.JSON(http.StatusOK, response)

	case lat != "" && long != "":
		latitude, err := numberutils.ToFloatWithError(lat)
		if err != nil {
			return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: msg.GetMessage("location.error.invalid-coordinates")})
		}
		longitude, err := numberutils.ToFloatWithError(long)
		if err != nil {
			return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: msg.GetMessage("location.error.invalid-coordinates")})
		}

		found, err := controller.useCase.GetByCoords(ctx, latitude, longitude)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, toLocationResponse(found, false))
	}

	return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: msg.GetMessage("location.error.search-params")})
}

// GetByID godoc
// @Summary Get location weather
// @Description Get a cached location with its current conditions and seven day forecast, refreshing stale data first
// @Tags location
// @Produce json
// @Param id query int true "Location id"
// @Success 200 {object} model.LocationResponse "Location with weather data"
// @Failure 400 {object} model.ErrorResponse "Missing or malformed id"
// @Failure 404 {object} model.ErrorResponse "Location not cached"
// @Router /location [get]
func (controller *LocationController) GetByID(c echo.Context) error {
	raw := strings.TrimSpace(c.QueryParam("id"))
	if !numberutils.IsDigits(raw) {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: msg.GetMessage("location.error.invalid-id")})
	}
	id, err := numberutils.ToIntWithError(raw)
	if err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: msg.GetMessage("location.error.invalid-id")})
	}

	found, err := controller.useCase.GetByID(c.Request().Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, toLocationResponse(found, true))
}

func errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, location.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
	case errors.Is(err, location.ErrLocationNotFound):
		return c.JSON(http.StatusNotFound, model.ErrorResponse{Error: err.Error()})
	}

	log.Error("Location request failed", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)})
}

// toLocationResponse maps a location to its read shape. Weather is only
// serialized when requested and present.
func toLocationResponse(found *entity.Location, withWeather bool) model.LocationResponse {
	snapshot := found.Snapshot()

	response := model.LocationResponse{
		ID:          snapshot.ID,
		Name:        snapshot.Name,
		Latitude:    snapshot.Latitude,
		Longitude:   snapshot.Longitude,
		Country:     snapshot.Country.Ptr(),
		CountryCode: snapshot.CountryCode.Ptr(),
		LastUpdated: snapshot.Weather.LastUpdated.UnixMilli(),
		Admin1:      snapshot.Admin1.Ptr(),
		Population:  snapshot.Population.Ptr(),
	}

	if tz, ok := snapshot.Timezone.Get(); ok {
		response.Timezone = &tz.Name
		response.TimezoneShort = &tz.Short
		response.TimezoneLong = &tz.Long
		response.TimezoneOffset = &tz.Offset
	}

	if withWeather {
		blob, err := reconciler.EncodeWeather(snapshot.Weather.Current, snapshot.Weather.Days)
		if err != nil {
			log.Warn(msg.GetMessage("location.store.encode-failed", snapshot.ID), zap.Error(err))
		} else if strings.TrimSpace(string(blob)) != "{}" {
			response.WeatherData = blob
		}
	}
	return response
}
