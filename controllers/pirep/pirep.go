package pirep

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"virtual-airline/logger"
	pirepModel "virtual-airline/models/pirep"
	financeService "virtual-airline/services/finance"
	pirepService "virtual-airline/services/pirep"
	"virtual-airline/types"
	pirepTypes "virtual-airline/types/pirep"
)

// PirepController handles PIREP lifecycle HTTP requests
type PirepController struct {
	Pireps  *pirepService.Service
	Finance *financeService.Service
}

// NewPirepController creates a new pirep controller
func NewPirepController(pireps *pirepService.Service, finance *financeService.Service) *PirepController {
	return &PirepController{
		Pireps:  pireps,
		Finance: finance,
	}
}

// Prefile creates or reuses a PIREP
func (pc *PirepController) Prefile(c *fiber.Ctx) error {
	var req pirepTypes.PrefileRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse prefile request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	p, err := pc.Pireps.Prefile(req)
	if err != nil {
		return respondError(c, "Prefile failed", err)
	}
	return respond(c, fiber.StatusOK, "Prefiled", p)
}

// Show returns one PIREP
func (pc *PirepController) Show(c *fiber.Ctx) error {
	id, err := pirepID(c)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "Invalid pirep id", nil)
	}

	p, err := pc.Pireps.Get(id)
	if err != nil {
		return respondError(c, "Lookup failed", err)
	}
	return respond(c, fiber.StatusOK, "OK", p)
}

// Update mutates an unfiled PIREP
func (pc *PirepController) Update(c *fiber.Ctx) error {
	id, err := pirepID(c)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "Invalid pirep id", nil)
	}

	var req pirepTypes.UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse update request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	p, err := pc.Pireps.Update(id, req)
	if err != nil {
		return respondError(c, "Update failed", err)
	}
	return respond(c, fiber.StatusOK, "Updated", p)
}

// File submits the PIREP for review. Warnings from downstream updates are
// returned alongside the transitioned PIREP.
func (pc *PirepController) File(c *fiber.Ctx) error {
	id, err := pirepID(c)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "Invalid pirep id", nil)
	}

	var req pirepTypes.FileRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse file request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	result, err := pc.Pireps.File(id, req)
	if err != nil {
		return respondError(c, "File failed", err)
	}
	return respond(c, fiber.StatusOK, "Filed", result)
}

// Cancel marks the PIREP cancelled
func (pc *PirepController) Cancel(c *fiber.Ctx) error {
	id, err := pirepID(c)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "Invalid pirep id", nil)
	}

	p, err := pc.Pireps.Cancel(id, callerName(c))
	if err != nil {
		return respondError(c, "Cancel failed", err)
	}
	return respond(c, fiber.StatusOK, "Cancelled", p)
}

// Accept dispositions a pending PIREP
func (pc *PirepController) Accept(c *fiber.Ctx) error {
	return pc.disposition(c, pc.Pireps.Accept, "Accepted")
}

// Reject dispositions a pending PIREP
func (pc *PirepController) Reject(c *fiber.Ctx) error {
	return pc.disposition(c, pc.Pireps.Reject, "Rejected")
}

// SaveFares replaces the PIREP's fare selections
func (pc *PirepController) SaveFares(c *fiber.Ctx) error {
	id, err := pirepID(c)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "Invalid pirep id", nil)
	}

	var req struct {
		Fares []pirepTypes.FareSelection `json:"fares"`
	}
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse fares request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	if err := pc.Pireps.SaveFaresForPirep(id, req.Fares); err != nil {
		return respondError(c, "Saving fares failed", err)
	}
	return respond(c, fiber.StatusOK, "Fares saved", nil)
}

// UpdateFields writes custom field values
func (pc *PirepController) UpdateFields(c *fiber.Ctx) error {
	id, err := pirepID(c)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "Invalid pirep id", nil)
	}

	var req struct {
		Fields map[string]string `json:"fields"`
	}
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse fields request body", err)
		return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}

	if err := pc.Pireps.UpdateCustomFields(id, req.Fields); err != nil {
		return respondError(c, "Updating fields failed", err)
	}
	return respond(c, fiber.StatusOK, "Fields updated", nil)
}

// RecalculateFinance manually re-runs the finance computation
func (pc *PirepController) RecalculateFinance(c *fiber.Ctx) error {
	id, err := pirepID(c)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "Invalid pirep id", nil)
	}

	txns, err := pc.Pireps.RecalculateFinance(id)
	if err != nil {
		return respondError(c, "Finance recalculation failed", err)
	}
	return respond(c, fiber.StatusOK, "Recalculated", txns)
}

// Transactions returns the PIREP's current journal entries
func (pc *PirepController) Transactions(c *fiber.Ctx) error {
	id, err := pirepID(c)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "Invalid pirep id", nil)
	}

	if _, err := pc.Pireps.Get(id); err != nil {
		return respondError(c, "Lookup failed", err)
	}

	txns, err := pc.Finance.TransactionsForPirep(id)
	if err != nil {
		return respondError(c, "Transaction lookup failed", err)
	}
	return respond(c, fiber.StatusOK, "OK", txns)
}

func (pc *PirepController) disposition(c *fiber.Ctx, op func(uint, string) (*pirepModel.Pirep, error), msg string) error {
	id, err := pirepID(c)
	if err != nil {
		return respond(c, fiber.StatusBadRequest, "Invalid pirep id", nil)
	}

	p, err := op(id, callerName(c))
	if err != nil {
		return respondError(c, msg+" failed", err)
	}
	return respond(c, fiber.StatusOK, msg, p)
}

func pirepID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// callerName resolves the authenticated pilot for the audit trail
func callerName(c *fiber.Ctx) string {
	name, _ := c.Locals("username").(string)
	return name
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(types.ApiResponse{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

func respondError(c *fiber.Ctx, message string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, types.ErrPirepCancelled):
		status = fiber.StatusConflict
	case errors.Is(err, types.ErrValidationFailed),
		errors.Is(err, types.ErrUserNotAtDepartureAirport),
		errors.Is(err, types.ErrAircraftPermissionDenied),
		errors.Is(err, types.ErrAircraftNotAtDepartureAirport):
		status = fiber.StatusBadRequest
	}
	if status == fiber.StatusInternalServerError {
		logger.Error(message, err)
	}
	return c.Status(status).JSON(types.ApiResponse{
		Status:  status,
		Message: err.Error(),
	})
}
