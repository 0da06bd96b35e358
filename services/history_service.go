package services

import (
	"time"

	"camera-logistics-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HistoryService struct {
	DB *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{DB: db}
}

// Append writes one journal entry. History is best-effort observability, not
// a ledger of record: a failed write becomes a warning and never aborts the
// operation that produced it.
func (s *HistoryService) Append(cameraID, entryType, title string, details models.JSONMap, warn *CascadeWarnings) {
	entry := models.CameraHistory{
		CameraID: cameraID,
		Type:     entryType,
		Title:    title,
		Date:     time.Now(),
		Details:  details,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		warn.Addf("history entry for camera %s not written: %v", cameraID, err)
	}
}

// DeleteForTournament removes every entry whose details reference the
// tournament, and no others. Details are free-form JSON, so the filter runs
// in memory over entries of type tournament.
func (s *HistoryService) DeleteForTournament(tx *gorm.DB, tournamentID string) error {
	var entries []models.CameraHistory
	if err := tx.Where("type = ?", models.HistoryTournament).Find(&entries).Error; err != nil {
		return err
	}
	for _, e := range entries {
		if id, ok := e.Details["tournamentId"].(string); ok && id == tournamentID {
			if err := tx.Delete(&models.CameraHistory{}, "id = ?", e.ID).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// DeleteForShipment removes shipment and return entries referencing the
// shipment id.
func (s *HistoryService) DeleteForShipment(tx *gorm.DB, shipmentID string) error {
	var entries []models.CameraHistory
	err := tx.Where("type IN ?", []string{models.HistoryShipment, models.HistoryReturn}).
		Find(&entries).Error
	if err != nil {
		return err
	}
	for _, e := range entries {
		if id, ok := e.Details["shipmentId"].(string); ok && id == shipmentID {
			if err := tx.Delete(&models.CameraHistory{}, "id = ?", e.ID).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// DeleteForCamera drops the whole journal of one camera (camera deletion).
func (s *HistoryService) DeleteForCamera(tx *gorm.DB, cameraID string) error {
	return tx.Where("camera_id = ?", cameraID).Delete(&models.CameraHistory{}).Error
}

// ListHistory returns all entries, or only one camera's when ?cameraId= is
// given (json-server style filter kept for the dashboard).
func (s *HistoryService) ListHistory(c *fiber.Ctx) error {
	var entries []models.CameraHistory
	db := s.DB
	if cameraID := c.Query("cameraId"); cameraID != "" {
		db = db.Where("camera_id = ?", cameraID)
	}
	if err := db.Order("date ASC").Find(&entries).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch camera history"})
	}
	return c.JSON(entries)
}

func (s *HistoryService) GetHistoryByID(c *fiber.Ctx) error {
	var entry models.CameraHistory
	if err := s.DB.First(&entry, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "Not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(entry)
}

func (s *HistoryService) CreateHistory(c *fiber.Ctx) error {
	var entry models.CameraHistory
	if err := c.BodyParser(&entry); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if entry.CameraID == "" || entry.Type == "" {
		return c.Status(400).JSON(fiber.Map{"error": "cameraId and type are required"})
	}
	if entry.Date.IsZero() {
		entry.Date = time.Now()
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(entry)
}

// UpdateHistory replaces a single entry. The synchronizer never calls this;
// the route exists because the store exposes the same generic surface for
// every resource.
func (s *HistoryService) UpdateHistory(c *fiber.Ctx) error {
	id := c.Params("id")
	var current models.CameraHistory
	if err := s.DB.First(&current, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "Not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	var updated models.CameraHistory
	if err := c.BodyParser(&updated); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	if updated.CameraID == "" {
		updated.CameraID = current.CameraID
	}
	if updated.Type == "" {
		updated.Type = current.Type
	}
	if updated.Date.IsZero() {
		updated.Date = current.Date
	}
	if err := s.DB.Save(&updated).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(updated)
}

// DeleteHistory removes a single entry. Bulk cascades happen through the
// tournament/shipment delete paths; this route mirrors the generic surface.
func (s *HistoryService) DeleteHistory(c *fiber.Ctx) error {
	res := s.DB.Delete(&models.CameraHistory{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": res.Error.Error()})
	}
	if res.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "Not found"})
	}
	return c.SendStatus(204)
}
