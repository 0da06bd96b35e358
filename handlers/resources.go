package handlers

import (
	"camera-logistics-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupResourceRoutes(app *fiber.App,
	tournamentService *services.TournamentService,
	workerService *services.WorkerService,
	cameraService *services.CameraService,
) {
	// Tournament CRUD
	app.Get("/tournaments", tournamentService.GetAllTournaments)
	app.Get("/tournaments/:id", tournamentService.GetTournamentByID)
	app.Post("/tournaments", tournamentService.CreateTournament)
	app.Put("/tournaments/:id", tournamentService.UpdateTournament)
	app.Delete("/tournaments/:id", tournamentService.DeleteTournament)

	// Field worker CRUD
	app.Get("/workers", workerService.GetAllWorkers)
	app.Get("/workers/:id", workerService.GetWorkerByID)
	app.Post("/workers", workerService.CreateWorker)
	app.Put("/workers/:id", workerService.UpdateWorker)
	app.Delete("/workers/:id", workerService.DeleteWorker)

	// Camera CRUD
	app.Get("/cameras", cameraService.GetAllCameras)
	app.Get("/cameras/:id", cameraService.GetCameraByID)
	app.Post("/cameras", cameraService.CreateCamera)
	app.Put("/cameras/:id", cameraService.UpdateCamera)
	app.Delete("/cameras/:id", cameraService.DeleteCamera)
}
