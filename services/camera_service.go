package services

import (
	"fmt"
	"strconv"
	"strings"

	"camera-logistics-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CameraService struct {
	DB      *gorm.DB
	History *HistoryService
}

func NewCameraService(db *gorm.DB, history *HistoryService) *CameraService {
	return &CameraService{DB: db, History: history}
}

type cameraResponse struct {
	models.Camera
	Warnings []string `json:"warnings,omitempty"`
}

func (s *CameraService) GetAllCameras(c *fiber.Ctx) error {
	var cameras []models.Camera
	if err := s.DB.Find(&cameras).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch cameras"})
	}
	return c.JSON(cameras)
}

func (s *CameraService) GetCameraByID(c *fiber.Ctx) error {
	var camera models.Camera
	if err := s.DB.First(&camera, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "Not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(camera)
}

func (s *CameraService) CreateCamera(c *fiber.Ctx) error {
	var camera models.Camera
	if err := c.BodyParser(&camera); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if camera.ID == "" {
		camera.ID = s.nextCameraID()
	}
	if camera.Status == "" {
		camera.Status = models.CameraDisponible
	}
	if camera.Location == "" {
		camera.Location = models.WarehouseLocation
	}
	if err := s.DB.Create(&camera).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(camera)
}

// UpdateCamera replaces the camera record. When assignedTo moves from worker A
// to worker B, A's roster drops the camera, B's roster gains it (deduplicated)
// and the camera's location follows B's state. Workers are resolved by name.
func (s *CameraService) UpdateCamera(c *fiber.Ctx) error {
	id := c.Params("id")
	var current models.Camera
	if err := s.DB.First(&current, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "Not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	var updated models.Camera
	if err := c.BodyParser(&updated); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	updated.ID = id
	updated.CreatedAt = current.CreatedAt

	warn := &CascadeWarnings{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.applyCameraUpdate(tx, &current, &updated, false, warn)
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(cameraResponse{Camera: updated, Warnings: warn.List()})
}

// applyCameraUpdate runs the camera-side synchronization. skipWorkerUpdate
// suppresses the worker-roster cascade; shipment flows set it because they
// batch roster updates per worker instead of per camera.
func (s *CameraService) applyCameraUpdate(tx *gorm.DB, current, updated *models.Camera, skipWorkerUpdate bool, warn *CascadeWarnings) error {
	previousAssigned := current.AssignedTo
	newAssigned := updated.AssignedTo

	if previousAssigned != newAssigned && !skipWorkerUpdate {
		if previousAssigned != "" {
			rosterRemove(tx, previousAssigned, []string{updated.ID}, warn)
		}
		if newAssigned != "" {
			if w, err := findWorkerByName(tx, newAssigned); err == nil {
				w.CamerasAssigned = w.CamerasAssigned.Union(updated.ID)
				if err := tx.Save(w).Error; err != nil {
					warn.Addf("worker %q: roster update failed: %v", newAssigned, err)
				}
				// Assigned cameras live where their worker does.
				updated.Location = w.State
			} else {
				warn.Addf("worker %q not found", newAssigned)
			}
		}
	}
	return tx.Save(updated).Error
}

// DeleteCamera removes the camera from its holder's roster, drops its journal
// and deletes the record.
func (s *CameraService) DeleteCamera(c *fiber.Ctx) error {
	id := c.Params("id")
	var camera models.Camera
	if err := s.DB.First(&camera, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "Not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	warn := &CascadeWarnings{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if camera.AssignedTo != "" {
			rosterRemove(tx, camera.AssignedTo, []string{id}, warn)
		}
		if err := s.History.DeleteForCamera(tx, id); err != nil {
			return err
		}
		return tx.Delete(&models.Camera{}, "id = ?", id).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	if ws := warn.List(); ws != nil {
		return c.JSON(fiber.Map{"deleted": true, "warnings": ws})
	}
	return c.SendStatus(204)
}

// nextCameraID continues the CS<n> sequence used by the fleet.
func (s *CameraService) nextCameraID() string {
	var cameras []models.Camera
	if err := s.DB.Select("id").Find(&cameras).Error; err != nil {
		return "CS1"
	}
	maxID := 0
	for _, cam := range cameras {
		num := strings.TrimPrefix(cam.ID, "CS")
		if n, err := strconv.Atoi(num); err == nil && n > maxID {
			maxID = n
		}
	}
	return fmt.Sprintf("CS%d", maxID+1)
}
