package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"virtual-airline/config"
	"virtual-airline/constants"
	acarsController "virtual-airline/controllers/acars"
	pirepController "virtual-airline/controllers/pirep"
	"virtual-airline/logger"
	"virtual-airline/middleware"
	acarsService "virtual-airline/services/acars"
	financeService "virtual-airline/services/finance"
	geoService "virtual-airline/services/geo"
	pirepService "virtual-airline/services/pirep"
	"virtual-airline/store"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, settings config.Settings) {
	st := store.NewGormStore(db)

	asyncLogger := logger.NewAsyncLogger(st.Pireps)
	finance := financeService.New(st, settings)
	pireps := pirepService.New(st, finance, settings, asyncLogger)
	acars := acarsService.New(st, pireps)
	geo := geoService.New(st)

	pirepCtl := pirepController.NewPirepController(pireps, finance)
	acarsCtl := acarsController.NewAcarsController(acars, geo, st, settings)

	// Start the async audit logger processing goroutine
	go asyncLogger.ProcessEvents()

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("virtual-airline operations API")
	})

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Get("/acars", acarsCtl.Live)

	/*=============================================================================
	| PIREP Lifecycle Routes
	===============================================================================*/
	pirepGroup := api.Group("/pireps")

	pirepGroup.Post("/prefile", middleware.RequirePermissions(
		constants.PermPilotFull,
		constants.PermAcarsFull,
	), pirepCtl.Prefile)

	pirepGroup.Get("/:id", middleware.RequireAuthentication(), pirepCtl.Show)

	pirepGroup.Put("/:id", middleware.RequirePermissions(
		constants.PermPilotFull,
		constants.PermAcarsFull,
	), pirepCtl.Update)

	pirepGroup.Post("/:id/file", middleware.RequirePermissions(
		constants.PermPilotFull,
		constants.PermAcarsFull,
	), pirepCtl.File)

	pirepGroup.Post("/:id/cancel", middleware.RequirePermissions(
		constants.PermPilotFull,
		constants.PermAcarsFull,
	), pirepCtl.Cancel)

	pirepGroup.Post("/:id/accept", middleware.RequirePermissions(
		constants.FlightOpsPermissions...,
	), pirepCtl.Accept)

	pirepGroup.Post("/:id/reject", middleware.RequirePermissions(
		constants.FlightOpsPermissions...,
	), pirepCtl.Reject)

	pirepGroup.Post("/:id/fares", middleware.RequirePermissions(
		constants.PermPilotFull,
		constants.PermAcarsFull,
	), pirepCtl.SaveFares)

	pirepGroup.Post("/:id/fields", middleware.RequirePermissions(
		constants.PermPilotFull,
		constants.PermAcarsFull,
	), pirepCtl.UpdateFields)

	/*=============================================================================
	| Finance Routes
	===============================================================================*/
	pirepGroup.Post("/:id/finance/recalculate", middleware.RequirePermissions(
		constants.PermAdminFull,
	), pirepCtl.RecalculateFinance)

	pirepGroup.Get("/:id/finance", middleware.RequireAuthentication(), pirepCtl.Transactions)

	/*=============================================================================
	| ACARS Telemetry Routes
	===============================================================================*/
	pirepGroup.Post("/:id/route", middleware.RequirePermissions(
		constants.PermAcarsFull,
		constants.PermPilotFull,
	), acarsCtl.PostRoute)

	pirepGroup.Delete("/:id/route", middleware.RequirePermissions(
		constants.PermAcarsFull,
		constants.PermPilotFull,
	), acarsCtl.DeleteRoute)

	pirepGroup.Get("/:id/route", middleware.RequireAuthentication(), acarsCtl.GetRoute)

	pirepGroup.Post("/:id/acars/position", middleware.RequirePermissions(
		constants.PermAcarsFull,
	), acarsCtl.PostPositions)

	pirepGroup.Post("/:id/acars/logs", middleware.RequirePermissions(
		constants.PermAcarsFull,
	), acarsCtl.PostLogs)

	pirepGroup.Post("/:id/acars/events", middleware.RequirePermissions(
		constants.PermAcarsFull,
	), acarsCtl.PostEvents)

	pirepGroup.Get("/:id/acars/geojson", middleware.RequireAuthentication(), acarsCtl.FlightGeoJSON)
}
