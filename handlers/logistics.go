package handlers

import (
	"camera-logistics-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLogisticsRoutes(app *fiber.App,
	shipmentService *services.ShipmentService,
	historyService *services.HistoryService,
	statsService *services.StatsService,
) {
	// Shipment CRUD
	app.Get("/shipments", shipmentService.GetAllShipments)
	app.Get("/shipments/:id", shipmentService.GetShipmentByID)
	app.Post("/shipments", shipmentService.CreateShipment)
	app.Put("/shipments/:id", shipmentService.UpdateShipment)
	app.Delete("/shipments/:id", shipmentService.DeleteShipment)

	// Camera history (append-only journal; supports ?cameraId= filtering)
	app.Get("/camera-history", historyService.ListHistory)
	app.Get("/camera-history/:id", historyService.GetHistoryByID)
	app.Post("/camera-history", historyService.CreateHistory)
	app.Put("/camera-history/:id", historyService.UpdateHistory)
	app.Delete("/camera-history/:id", historyService.DeleteHistory)

	// Dashboard aggregates
	app.Get("/stats/overview", statsService.GetOverview)
	app.Get("/stats/tournaments", statsService.GetTournamentCharts)
	app.Get("/stats/map", statsService.GetMapMarkers)
}
