package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"camera-logistics-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Tournament{}, &models.Worker{}, &models.Camera{},
		&models.Shipment{}, &models.CameraHistory{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	history := NewHistoryService(db)
	app := fiber.New()

	tournamentService := NewTournamentService(db, history, nil)
	workerService := NewWorkerService(db)
	cameraService := NewCameraService(db, history)
	shipmentService := NewShipmentService(db, history)

	app.Get("/tournaments/:id", tournamentService.GetTournamentByID)
	app.Post("/tournaments", tournamentService.CreateTournament)
	app.Put("/tournaments/:id", tournamentService.UpdateTournament)
	app.Delete("/tournaments/:id", tournamentService.DeleteTournament)

	app.Post("/workers", workerService.CreateWorker)
	app.Put("/workers/:id", workerService.UpdateWorker)
	app.Delete("/workers/:id", workerService.DeleteWorker)

	app.Post("/cameras", cameraService.CreateCamera)
	app.Put("/cameras/:id", cameraService.UpdateCamera)
	app.Delete("/cameras/:id", cameraService.DeleteCamera)

	app.Post("/shipments", shipmentService.CreateShipment)
	app.Put("/shipments/:id", shipmentService.UpdateShipment)
	app.Delete("/shipments/:id", shipmentService.DeleteShipment)

	app.Get("/camera-history", history.ListHistory)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, wantStatus int) []byte {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: expected status %d, got %d (body: %s)",
			method, path, wantStatus, resp.StatusCode, buf.String())
	}
	return buf.Bytes()
}

func getCamera(t *testing.T, db *gorm.DB, id string) models.Camera {
	t.Helper()
	var cam models.Camera
	if err := db.First(&cam, "id = ?", id).Error; err != nil {
		t.Fatalf("camera %s not found: %v", id, err)
	}
	return cam
}

func getWorker(t *testing.T, db *gorm.DB, id string) models.Worker {
	t.Helper()
	var w models.Worker
	if err := db.First(&w, "id = ?", id).Error; err != nil {
		t.Fatalf("worker %s not found: %v", id, err)
	}
	return w
}

func cameraHistory(t *testing.T, db *gorm.DB, cameraID string) []models.CameraHistory {
	t.Helper()
	var entries []models.CameraHistory
	if err := db.Where("camera_id = ?", cameraID).Order("id ASC").Find(&entries).Error; err != nil {
		t.Fatalf("failed to load history for %s: %v", cameraID, err)
	}
	return entries
}

func TestCreateWorkerAssignsListedCameras(t *testing.T) {
	app, db := newTestApp(t)

	doJSON(t, app, http.MethodPost, "/cameras", fiber.Map{"id": "CS1", "model": "GolfCam Pro"}, 201)
	doJSON(t, app, http.MethodPost, "/workers", fiber.Map{
		"id": "1", "name": "Juan Pérez", "state": "Jalisco",
		"camerasAssigned": []string{"CS1"},
	}, 201)

	cam := getCamera(t, db, "CS1")
	if cam.AssignedTo != "Juan Pérez" {
		t.Errorf("expected camera assigned to Juan Pérez, got %q", cam.AssignedTo)
	}
	if cam.Location != "Jalisco" {
		t.Errorf("expected camera located in Jalisco, got %q", cam.Location)
	}
}

func TestCameraReassignmentMovesRosters(t *testing.T) {
	app, db := newTestApp(t)

	doJSON(t, app, http.MethodPost, "/cameras", fiber.Map{"id": "CS1", "model": "GolfCam Pro"}, 201)
	doJSON(t, app, http.MethodPost, "/workers", fiber.Map{
		"id": "1", "name": "Ana Torres", "state": "Jalisco",
		"camerasAssigned": []string{"CS1"},
	}, 201)
	doJSON(t, app, http.MethodPost, "/workers", fiber.Map{
		"id": "2", "name": "Carlos López", "state": "Nuevo León",
	}, 201)

	doJSON(t, app, http.MethodPut, "/cameras/CS1", fiber.Map{
		"model": "GolfCam Pro", "status": models.CameraEnUso, "assignedTo": "Carlos López",
	}, 200)

	cam := getCamera(t, db, "CS1")
	if cam.AssignedTo != "Carlos López" {
		t.Errorf("expected camera reassigned to Carlos López, got %q", cam.AssignedTo)
	}
	if cam.Location != "Nuevo León" {
		t.Errorf("expected camera to follow the new worker's state, got %q", cam.Location)
	}

	if getWorker(t, db, "1").CamerasAssigned.Contains("CS1") {
		t.Error("previous worker must lose the camera from its roster")
	}
	if !getWorker(t, db, "2").CamerasAssigned.Contains("CS1") {
		t.Error("new worker must gain the camera on its roster")
	}
}

func TestCameraReassignToUnknownWorkerWarns(t *testing.T) {
	app, db := newTestApp(t)

	doJSON(t, app, http.MethodPost, "/cameras", fiber.Map{"id": "CS1"}, 201)
	body := doJSON(t, app, http.MethodPut, "/cameras/CS1", fiber.Map{
		"status": models.CameraDisponible, "assignedTo": "Nadie Conocido",
	}, 200)

	var resp struct {
		Warnings []string `json:"warnings"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Warnings) == 0 {
		t.Error("assigning to an unknown worker must surface a warning")
	}

	// The primary write still lands.
	if got := getCamera(t, db, "CS1").AssignedTo; got != "Nadie Conocido" {
		t.Errorf("expected assignment saved despite warning, got %q", got)
	}
}

func TestWorkerDeleteClearsCameraAssignments(t *testing.T) {
	app, db := newTestApp(t)

	doJSON(t, app, http.MethodPost, "/cameras", fiber.Map{"id": "CS1"}, 201)
	doJSON(t, app, http.MethodPost, "/workers", fiber.Map{
		"id": "1", "name": "Juan Pérez", "state": "Jalisco",
		"camerasAssigned": []string{"CS1"},
	}, 201)

	doJSON(t, app, http.MethodDelete, "/workers/1", nil, 204)

	if got := getCamera(t, db, "CS1").AssignedTo; got != "" {
		t.Errorf("expected assignment cleared after worker delete, got %q", got)
	}
}

func TestWorkerUpdateTakesCameraFromPreviousHolder(t *testing.T) {
	app, db := newTestApp(t)

	doJSON(t, app, http.MethodPost, "/cameras", fiber.Map{"id": "CS1"}, 201)
	doJSON(t, app, http.MethodPost, "/workers", fiber.Map{
		"id": "1", "name": "Ana Torres", "state": "Jalisco",
		"camerasAssigned": []string{"CS1"},
	}, 201)
	doJSON(t, app, http.MethodPost, "/workers", fiber.Map{
		"id": "2", "name": "Carlos López", "state": "Nuevo León",
	}, 201)

	// Claiming the camera from the worker side must update both rosters,
	// not just the camera row.
	doJSON(t, app, http.MethodPut, "/workers/2", fiber.Map{
		"name": "Carlos López", "state": "Nuevo León",
		"camerasAssigned": []string{"CS1"},
	}, 200)

	cam := getCamera(t, db, "CS1")
	if cam.AssignedTo != "Carlos López" || cam.Location != "Nuevo León" {
		t.Errorf("camera must follow the claiming worker, got assignedTo=%q location=%q", cam.AssignedTo, cam.Location)
	}
	if getWorker(t, db, "1").CamerasAssigned.Contains("CS1") {
		t.Error("previous holder's roster must drop the claimed camera")
	}
	if !getWorker(t, db, "2").CamerasAssigned.Contains("CS1") {
		t.Error("claiming worker's roster must list the camera")
	}
}

func TestShipmentRevertAfterDeliverySyncsRoster(t *testing.T) {
	app, db := newTestApp(t)

	doJSON(t, app, http.MethodPost, "/cameras", fiber.Map{"id": "CS1"}, 201)
	doJSON(t, app, http.MethodPost, "/workers", fiber.Map{
		"id": "1", "name": "Ana Torres", "state": "Jalisco",
	}, 201)

	shipment := fiber.Map{
		"id":          "ENV-001",
		"cameras":     []string{"CS1"},
		"destination": "Guadalajara, Jalisco",
		"recipient":   "Ana Torres",
		"status":      models.ShipmentEntregado,
	}
	doJSON(t, app, http.MethodPost, "/shipments", shipment, 201)

	if !getWorker(t, db, "1").CamerasAssigned.Contains("CS1") {
		t.Fatal("delivery to a worker must put the camera on their roster")
	}

	shipment["status"] = models.ShipmentCancelado
	doJSON(t, app, http.MethodPut, "/shipments/ENV-001", shipment, 200)

	cam := getCamera(t, db, "CS1")
	if cam.AssignedTo != "" || cam.Location != models.WarehouseLocation {
		t.Errorf("revert must reset the camera, got assignedTo=%q location=%q", cam.AssignedTo, cam.Location)
	}
	if getWorker(t, db, "1").CamerasAssigned.Contains("CS1") {
		t.Error("reverting a delivery must take the camera off the recipient's roster")
	}
}

func TestShipmentRemovalAndDeleteSyncRosters(t *testing.T) {
	app, db := newTestApp(t)

	doJSON(t, app, http.MethodPost, "/cameras", fiber.Map{"id": "CS1"}, 201)
	doJSON(t, app, http.MethodPost, "/cameras", fiber.Map{"id": "CS2"}, 201)
	doJSON(t, app, http.MethodPost, "/workers", fiber.Map{
		"id": "1", "name": "Carlos López", "state": "Nuevo León",
	}, 201)

	shipment := fiber.Map{
		"id":          "ENV-001",
		"cameras":     []string{"CS1", "CS2"},
		"destination": "Monterrey, Nuevo León",
		"recipient":   "Carlos López",
		"status":      models.ShipmentEnviado,
	}
	doJSON(t, app, http.MethodPost, "/shipments", shipment, 201)

	roster := getWorker(t, db, "1").CamerasAssigned
	if !roster.Contains("CS1") || !roster.Contains("CS2") {
		t.Fatalf("recipient's roster must hold both shipped cameras, got %v", roster)
	}

	shipment["cameras"] = []string{"CS2"}
	doJSON(t, app, http.MethodPut, "/shipments/ENV-001", shipment, 200)

	if getWorker(t, db, "1").CamerasAssigned.Contains("CS1") {
		t.Error("camera removed from the shipment must leave the recipient's roster")
	}

	doJSON(t, app, http.MethodDelete, "/shipments/ENV-001", nil, 204)

	if getWorker(t, db, "1").CamerasAssigned.Contains("CS2") {
		t.Error("deleting the shipment must clear its cameras from the roster")
	}
	if got := getCamera(t, db, "CS2").AssignedTo; got != "" {
		t.Errorf("deleting the shipment must unassign its cameras, got %q", got)
	}
}

func TestShipmentLifecycle(t *testing.T) {
	app, db := newTestApp(t)

	doJSON(t, app, http.MethodPost, "/cameras", fiber.Map{"id": "CS1"}, 201)
	doJSON(t, app, http.MethodPost, "/workers", fiber.Map{
		"id": "1", "name": "Ana Torres", "state": "Jalisco",
		"camerasAssigned": []string{"CS1"},
	}, 201)
	doJSON(t, app, http.MethodPost, "/workers", fiber.Map{
		"id": "2", "name": "Carlos López", "state": "Nuevo León",
	}, 201)

	shipment := fiber.Map{
		"id":          "ENV-001",
		"cameras":     []string{"CS1"},
		"destination": "Monterrey, Nuevo León",
		"recipient":   "Carlos López",
		"status":      models.ShipmentPreparando,
	}
	doJSON(t, app, http.MethodPost, "/shipments", shipment, 201)

	// Preparing a shipment does not touch the camera yet.
	cam := getCamera(t, db, "CS1")
	if cam.AssignedTo != "Ana Torres" || cam.Status != models.CameraDisponible {
		t.Fatalf("camera must be untouched while preparando, got status=%q assignedTo=%q", cam.Status, cam.AssignedTo)
	}
	if entries := cameraHistory(t, db, "CS1"); len(entries) != 1 {
		t.Fatalf("expected 1 creation journal entry, got %d", len(entries))
	}

	shipment["status"] = models.ShipmentEnviado
	doJSON(t, app, http.MethodPut, "/shipments/ENV-001", shipment, 200)

	cam = getCamera(t, db, "CS1")
	if cam.Status != models.CameraEnEnvio {
		t.Errorf("expected camera en envio, got %q", cam.Status)
	}
	if cam.AssignedTo != "Carlos López" {
		t.Errorf("expected camera assigned to the recipient, got %q", cam.AssignedTo)
	}
	if getWorker(t, db, "1").CamerasAssigned.Contains("CS1") {
		t.Error("sender's roster must drop the shipped camera")
	}
	if !getWorker(t, db, "2").CamerasAssigned.Contains("CS1") {
		t.Error("recipient's roster must gain the shipped camera")
	}

	shipment["status"] = models.ShipmentEntregado
	doJSON(t, app, http.MethodPut, "/shipments/ENV-001", shipment, 200)

	cam = getCamera(t, db, "CS1")
	if cam.Status != models.CameraDisponible {
		t.Errorf("expected camera disponible after delivery, got %q", cam.Status)
	}
	if cam.Location != "Monterrey, Nuevo León" {
		t.Errorf("expected camera at the destination, got %q", cam.Location)
	}
	if cam.AssignedTo != "Carlos López" {
		t.Errorf("expected camera to stay with the recipient, got %q", cam.AssignedTo)
	}

	entries := cameraHistory(t, db, "CS1")
	if len(entries) != 3 {
		t.Fatalf("expected 3 journal entries (creation, sent, delivered), got %d", len(entries))
	}
	last := entries[len(entries)-1]
	if last.Type != models.HistoryReturn || last.Title != "Entregado a Carlos López en Monterrey, Nuevo León" {
		t.Errorf("unexpected delivery entry: type=%q title=%q", last.Type, last.Title)
	}
}

func TestShipmentCancelAfterDeliveryReturnsCameraToWarehouse(t *testing.T) {
	app, db := newTestApp(t)

	doJSON(t, app, http.MethodPost, "/cameras", fiber.Map{"id": "CS1"}, 201)
	shipment := fiber.Map{
		"id":          "ENV-001",
		"cameras":     []string{"CS1"},
		"destination": "Mérida, Yucatán",
		"recipient":   "Pedro Ruiz",
		"status":      models.ShipmentEntregado,
	}
	doJSON(t, app, http.MethodPost, "/shipments", shipment, 201)

	cam := getCamera(t, db, "CS1")
	if cam.Location != "Mérida, Yucatán" {
		t.Fatalf("expected delivered camera at the destination, got %q", cam.Location)
	}

	shipment["status"] = models.ShipmentCancelado
	doJSON(t, app, http.MethodPut, "/shipments/ENV-001", shipment, 200)

	cam = getCamera(t, db, "CS1")
	if cam.Status != models.CameraDisponible || cam.AssignedTo != "" || cam.Location != models.WarehouseLocation {
		t.Errorf("cancelling a delivery must fully reset the camera, got status=%q assignedTo=%q location=%q",
			cam.Status, cam.AssignedTo, cam.Location)
	}
}

func TestShipmentCameraRemovalResetsCamera(t *testing.T) {
	app, db := newTestApp(t)

	doJSON(t, app, http.MethodPost, "/cameras", fiber.Map{"id": "CS1"}, 201)
	doJSON(t, app, http.MethodPost, "/cameras", fiber.Map{"id": "CS2"}, 201)
	shipment := fiber.Map{
		"id":          "ENV-001",
		"cameras":     []string{"CS1", "CS2"},
		"destination": "León, Guanajuato",
		"recipient":   "Pedro Ruiz",
		"status":      models.ShipmentEnviado,
	}
	doJSON(t, app, http.MethodPost, "/shipments", shipment, 201)

	shipment["cameras"] = []string{"CS2"}
	doJSON(t, app, http.MethodPut, "/shipments/ENV-001", shipment, 200)

	cam := getCamera(t, db, "CS1")
	if cam.Status != models.CameraDisponible || cam.AssignedTo != "" || cam.Location != models.WarehouseLocation {
		t.Errorf("removed camera must return to the warehouse, got status=%q assignedTo=%q location=%q",
			cam.Status, cam.AssignedTo, cam.Location)
	}
	if got := getCamera(t, db, "CS2").Status; got != models.CameraEnEnvio {
		t.Errorf("remaining camera must stay en envio, got %q", got)
	}
}

func TestShipmentDeleteRevertsCamerasAndHistory(t *testing.T) {
	app, db := newTestApp(t)

	doJSON(t, app, http.MethodPost, "/cameras", fiber.Map{"id": "CS1"}, 201)
	doJSON(t, app, http.MethodPost, "/shipments", fiber.Map{
		"id":          "ENV-001",
		"cameras":     []string{"CS1"},
		"destination": "Cancún, Quintana Roo",
		"recipient":   "Pedro Ruiz",
		"status":      models.ShipmentEnviado,
	}, 201)

	// An unrelated journal entry must survive the cascade.
	if err := db.Create(&models.CameraHistory{
		CameraID: "CS1", Type: models.HistoryMaintenance, Title: "Cambio de batería",
	}).Error; err != nil {
		t.Fatalf("failed to seed maintenance entry: %v", err)
	}

	doJSON(t, app, http.MethodDelete, "/shipments/ENV-001", nil, 204)

	cam := getCamera(t, db, "CS1")
	if cam.Status != models.CameraDisponible || cam.AssignedTo != "" || cam.Location != models.WarehouseLocation {
		t.Errorf("deleting the shipment must reset its cameras, got status=%q assignedTo=%q location=%q",
			cam.Status, cam.AssignedTo, cam.Location)
	}

	entries := cameraHistory(t, db, "CS1")
	if len(entries) != 1 || entries[0].Type != models.HistoryMaintenance {
		t.Errorf("only the shipment's journal entries may be deleted, got %d entries", len(entries))
	}
}

func TestTournamentJournalsCamerasWithoutTouchingThem(t *testing.T) {
	app, db := newTestApp(t)

	doJSON(t, app, http.MethodPost, "/cameras", fiber.Map{"id": "CS1"}, 201)
	doJSON(t, app, http.MethodPost, "/tournaments", fiber.Map{
		"id":      "t1",
		"name":    "Torneo Empresarial CDMX",
		"date":    "2026-10-01",
		"days":    3,
		"cameras": []string{"CS1"},
	}, 201)

	// Tournament allocation is journal-only.
	cam := getCamera(t, db, "CS1")
	if cam.Status != models.CameraDisponible || cam.Location != models.WarehouseLocation {
		t.Errorf("tournament allocation must not move the camera, got status=%q location=%q", cam.Status, cam.Location)
	}

	entries := cameraHistory(t, db, "CS1")
	if len(entries) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(entries))
	}
	if entries[0].Type != models.HistoryTournament || entries[0].Title != "Asignado a torneo: Torneo Empresarial CDMX" {
		t.Errorf("unexpected entry: type=%q title=%q", entries[0].Type, entries[0].Title)
	}

	doJSON(t, app, http.MethodDelete, "/tournaments/t1", nil, 204)
	if entries := cameraHistory(t, db, "CS1"); len(entries) != 0 {
		t.Errorf("deleting the tournament must drop its journal entries, got %d", len(entries))
	}
}

func TestHistoryCameraFilter(t *testing.T) {
	app, db := newTestApp(t)

	for _, id := range []string{"CS1", "CS2"} {
		if err := db.Create(&models.CameraHistory{
			CameraID: id, Type: models.HistoryMaintenance, Title: "Revisión",
		}).Error; err != nil {
			t.Fatalf("failed to seed history: %v", err)
		}
	}

	body := doJSON(t, app, http.MethodGet, "/camera-history?cameraId=CS1", nil, 200)
	var entries []models.CameraHistory
	if err := json.Unmarshal(body, &entries); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(entries) != 1 || entries[0].CameraID != "CS1" {
		t.Errorf("expected only CS1 entries, got %d", len(entries))
	}
}
