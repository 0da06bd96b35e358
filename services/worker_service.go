package services

import (
	"strconv"

	"camera-logistics-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type WorkerService struct {
	DB *gorm.DB
}

func NewWorkerService(db *gorm.DB) *WorkerService {
	return &WorkerService{DB: db}
}

type workerResponse struct {
	models.Worker
	Warnings []string `json:"warnings,omitempty"`
}

func (s *WorkerService) GetAllWorkers(c *fiber.Ctx) error {
	var workers []models.Worker
	if err := s.DB.Find(&workers).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch workers"})
	}
	return c.JSON(workers)
}

func (s *WorkerService) GetWorkerByID(c *fiber.Ctx) error {
	var worker models.Worker
	if err := s.DB.First(&worker, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "Not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(worker)
}

// CreateWorker persists the worker and points every camera in its assignment
// list back at it (assignedTo = name, location = worker's state).
func (s *WorkerService) CreateWorker(c *fiber.Ctx) error {
	var worker models.Worker
	if err := c.BodyParser(&worker); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if worker.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}
	if worker.ID == "" {
		worker.ID = s.nextWorkerID()
	}
	if worker.CamerasAssigned == nil {
		worker.CamerasAssigned = models.StringList{}
	}

	warn := &CascadeWarnings{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&worker).Error; err != nil {
			return err
		}
		for _, cameraID := range worker.CamerasAssigned {
			assignCameraToWorker(tx, cameraID, worker.Name, worker.State, warn)
		}
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(workerResponse{Worker: worker, Warnings: warn.List()})
}

// UpdateWorker replaces the worker record and reconciles camera assignments:
// every camera now on the list gets assignedTo/location refreshed, cameras
// dropped from the list get their assignment cleared.
func (s *WorkerService) UpdateWorker(c *fiber.Ctx) error {
	id := c.Params("id")
	var current models.Worker
	if err := s.DB.First(&current, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "Not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	var updated models.Worker
	if err := c.BodyParser(&updated); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	updated.ID = id
	updated.CreatedAt = current.CreatedAt
	if updated.Name == "" {
		updated.Name = current.Name
	}
	if updated.State == "" {
		updated.State = current.State
	}
	if updated.CamerasAssigned == nil {
		updated.CamerasAssigned = models.StringList{}
	}

	warn := &CascadeWarnings{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.applyWorkerUpdate(tx, &current, &updated, false, warn)
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(workerResponse{Worker: updated, Warnings: warn.List()})
}

// applyWorkerUpdate runs the worker-side synchronization. skipCameraUpdate
// suppresses the camera cascade when the camera side already holds the
// authoritative state (camera->worker sync calls this with true to avoid
// mutual recursion).
func (s *WorkerService) applyWorkerUpdate(tx *gorm.DB, current, updated *models.Worker, skipCameraUpdate bool, warn *CascadeWarnings) error {
	removed := models.Diff(updated.CamerasAssigned, current.CamerasAssigned)

	if !skipCameraUpdate {
		for _, cameraID := range updated.CamerasAssigned {
			assignCameraToWorker(tx, cameraID, updated.Name, updated.State, warn)
		}
		for _, cameraID := range removed {
			clearCameraAssignment(tx, cameraID, warn)
		}
	}
	return tx.Save(updated).Error
}

// DeleteWorker clears assignedTo on every camera the worker holds before
// removing the record.
func (s *WorkerService) DeleteWorker(c *fiber.Ctx) error {
	id := c.Params("id")
	var worker models.Worker
	if err := s.DB.First(&worker, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "Not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	warn := &CascadeWarnings{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, cameraID := range worker.CamerasAssigned {
			clearCameraAssignment(tx, cameraID, warn)
		}
		return tx.Delete(&models.Worker{}, "id = ?", id).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	if ws := warn.List(); ws != nil {
		return c.JSON(fiber.Map{"deleted": true, "warnings": ws})
	}
	return c.SendStatus(204)
}

// nextWorkerID keeps the original consecutive numeric ids: max numeric id + 1.
func (s *WorkerService) nextWorkerID() string {
	var workers []models.Worker
	if err := s.DB.Select("id").Find(&workers).Error; err != nil {
		return "1"
	}
	maxID := 0
	for _, w := range workers {
		if n, err := strconv.Atoi(w.ID); err == nil && n > maxID {
			maxID = n
		}
	}
	return strconv.Itoa(maxID + 1)
}
