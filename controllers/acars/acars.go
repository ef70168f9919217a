package acars

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"virtual-airline/config"
	"virtual-airline/logger"
	acarsService "virtual-airline/services/acars"
	geoService "virtual-airline/services/geo"
	"virtual-airline/store"
	"virtual-airline/types"
	acarsTypes "virtual-airline/types/acars"
)

// AcarsController handles telemetry ingestion and live-map HTTP requests
type AcarsController struct {
	Acars    *acarsService.Service
	Geo      *geoService.Service
	Store    *store.Store
	Settings config.Settings
}

// NewAcarsController creates a new acars controller
func NewAcarsController(acars *acarsService.Service, geo *geoService.Service, st *store.Store, settings config.Settings) *AcarsController {
	return &AcarsController{
		Acars:    acars,
		Geo:      geo,
		Store:    st,
		Settings: settings,
	}
}

// PostPositions ingests a FLIGHT_PATH batch
func (ac *AcarsController) PostPositions(c *fiber.Ctx) error {
	id, err := pirepID(c)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "Invalid pirep id", nil)
	}

	var req acarsTypes.PositionBatch
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse position batch", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	count, err := ac.Acars.PostPositions(id, req.Positions)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Positions added", acarsTypes.BatchResponse{Count: count})
}

// PostLogs ingests a LOG batch
func (ac *AcarsController) PostLogs(c *fiber.Ctx) error {
	return ac.postTexts(c, ac.Acars.PostLogs, "Logs added")
}

// PostEvents ingests an EVENT batch
func (ac *AcarsController) PostEvents(c *fiber.Ctx) error {
	return ac.postTexts(c, ac.Acars.PostEvents, "Events added")
}

func (ac *AcarsController) postTexts(c *fiber.Ctx, op func(uint, []acarsTypes.LogRequest) (int, error), msg string) error {
	id, err := pirepID(c)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "Invalid pirep id", nil)
	}

	var req acarsTypes.LogBatch
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse log batch", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	count, err := op(id, req.Logs)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, msg, acarsTypes.BatchResponse{Count: count})
}

// PostRoute replaces the planned route. Zero points is a valid post that
// clears the existing set.
func (ac *AcarsController) PostRoute(c *fiber.Ctx) error {
	id, err := pirepID(c)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "Invalid pirep id", nil)
	}

	var req acarsTypes.RouteBatch
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse route batch", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	count, err := ac.Acars.PostRoute(id, req.Route)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, strconv.Itoa(count)+" points added", acarsTypes.BatchResponse{Count: count})
}

// DeleteRoute clears the planned route
func (ac *AcarsController) DeleteRoute(c *fiber.Ctx) error {
	id, err := pirepID(c)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "Invalid pirep id", nil)
	}

	if err := ac.Acars.DeleteRoute(id); err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "Route deleted", nil)
}

// GetRoute returns the planned route points
func (ac *AcarsController) GetRoute(c *fiber.Ctx) error {
	id, err := pirepID(c)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "Invalid pirep id", nil)
	}

	points, err := ac.Acars.GetRoute(id)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, "OK", points)
}

// Live returns the live-map FeatureCollection of all in-flight PIREPs
func (ac *AcarsController) Live(c *fiber.Ctx) error {
	pireps, err := ac.Store.Pireps.LiveFlights(ac.Settings.LiveTrackingWindow)
	if err != nil {
		return respondError(c, err)
	}

	fc, err := ac.Geo.LiveFlights(pireps)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fc)
}

// FlightGeoJSON returns the flown track of one PIREP
func (ac *AcarsController) FlightGeoJSON(c *fiber.Ctx) error {
	id, err := pirepID(c)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "Invalid pirep id", nil)
	}

	p, err := ac.Store.Pireps.Get(id)
	if err != nil {
		return respondError(c, err)
	}

	fc, err := ac.Geo.FlightTrack(p)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fc)
}

func pirepID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(types.ApiResponse{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, types.ErrPirepCancelled):
		status = fiber.StatusConflict
	case errors.Is(err, types.ErrValidationFailed):
		status = fiber.StatusBadRequest
	}
	if status == fiber.StatusInternalServerError {
		logger.Error("ACARS request failed", err)
	}
	return c.Status(status).JSON(types.ApiResponse{
		Status:  status,
		Message: err.Error(),
	})
}
