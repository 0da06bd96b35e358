package services

import (
	"fmt"
	"strconv"
	"strings"

	"camera-logistics-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ShipmentService struct {
	DB      *gorm.DB
	History *HistoryService
}

func NewShipmentService(db *gorm.DB, history *HistoryService) *ShipmentService {
	return &ShipmentService{DB: db, History: history}
}

type shipmentResponse struct {
	models.Shipment
	Warnings []string `json:"warnings,omitempty"`
}

func (s *ShipmentService) GetAllShipments(c *fiber.Ctx) error {
	var shipments []models.Shipment
	if err := s.DB.Find(&shipments).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch shipments"})
	}
	return c.JSON(shipments)
}

func (s *ShipmentService) GetShipmentByID(c *fiber.Ctx) error {
	var shipment models.Shipment
	if err := s.DB.First(&shipment, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "Not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(shipment)
}

// CreateShipment persists the shipment, journals every camera on it and, when
// it is born already enviado or entregado, applies the matching camera and
// roster effects immediately.
func (s *ShipmentService) CreateShipment(c *fiber.Ctx) error {
	var shipment models.Shipment
	if err := c.BodyParser(&shipment); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if shipment.ID == "" {
		shipment.ID = s.nextShipmentID()
	}
	if shipment.Status == "" {
		shipment.Status = models.ShipmentPreparando
	}
	if shipment.Cameras == nil {
		shipment.Cameras = models.StringList{}
	}

	effects := TransitionEffects("", shipment.Status, shipment.Cameras,
		shipment.ID, shipment.Recipient, shipment.Destination)

	warn := &CascadeWarnings{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&shipment).Error; err != nil {
			return err
		}
		if shipment.Status == models.ShipmentEnviado {
			s.transferRosters(tx, &shipment, shipment.Shipper, warn)
		}
		s.applyCameraEffects(tx, effects, warn)
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	// One journal entry per camera on creation; status effects do not journal
	// a second time here.
	for _, cameraID := range shipment.Cameras {
		s.History.Append(cameraID, models.HistoryShipment,
			fmt.Sprintf("Enviado a %s", shipment.Destination),
			models.JSONMap{
				"shipmentId":     shipment.ID,
				"origin":         shipment.OriginState,
				"destination":    shipment.Destination,
				"recipient":      shipment.Recipient,
				"trackingNumber": shipment.TrackingNumber,
			}, warn)
	}

	return c.Status(201).JSON(shipmentResponse{Shipment: shipment, Warnings: warn.List()})
}

// UpdateShipment replaces the shipment and derives camera effects from three
// diffs: cameras removed from the list, cameras added while the status stayed
// put, and the status transition itself.
func (s *ShipmentService) UpdateShipment(c *fiber.Ctx) error {
	id := c.Params("id")
	var current models.Shipment
	if err := s.DB.First(&current, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "Not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	var updated models.Shipment
	if err := c.BodyParser(&updated); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	updated.ID = id
	updated.CreatedAt = current.CreatedAt
	if updated.Status == "" {
		updated.Status = current.Status
	}
	if updated.Cameras == nil {
		updated.Cameras = models.StringList{}
	}

	removed := models.Diff(updated.Cameras, current.Cameras)
	added := models.Diff(current.Cameras, updated.Cameras)

	var effects []CameraEffect
	effects = append(effects, RemovedCameraEffects(removed, id, current.Status)...)
	if current.Status == updated.Status {
		effects = append(effects, AddedCameraEffects(updated.Status, added, id,
			updated.Recipient, updated.Destination)...)
	}
	effects = append(effects, TransitionEffects(current.Status, updated.Status,
		updated.Cameras, id, updated.Recipient, updated.Destination)...)

	warn := &CascadeWarnings{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if updated.Status == models.ShipmentEnviado && current.Status != models.ShipmentEnviado {
			s.transferRosters(tx, &updated, "", warn)
		}
		s.applyCameraEffects(tx, effects, warn)
		return tx.Save(&updated).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	s.appendEffectHistory(effects, warn)

	return c.JSON(shipmentResponse{Shipment: updated, Warnings: warn.List()})
}

// DeleteShipment drops the associated journal entries, removes the shipment
// and reverts every camera on it to available/unassigned/warehouse regardless
// of the shipment's status.
func (s *ShipmentService) DeleteShipment(c *fiber.Ctx) error {
	id := c.Params("id")
	var shipment models.Shipment
	if err := s.DB.First(&shipment, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "Not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	warn := &CascadeWarnings{}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.History.DeleteForShipment(tx, id); err != nil {
			return err
		}
		if err := tx.Delete(&models.Shipment{}, "id = ?", id).Error; err != nil {
			return err
		}
		// Same revert as removing every camera from the list, rosters
		// included; deletion writes no journal entries.
		s.applyCameraEffects(tx, RemovedCameraEffects(shipment.Cameras, id, shipment.Status), warn)
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	if ws := warn.List(); ws != nil {
		return c.JSON(fiber.Map{"deleted": true, "warnings": ws})
	}
	return c.SendStatus(204)
}

// transferRosters moves the shipment's cameras onto the recipient's roster
// and off the previous holder's. previousHolder names who hands the cameras
// over (the shipper, on creation); when empty it is resolved from the first
// camera's assignedTo, a best-effort name lookup.
func (s *ShipmentService) transferRosters(tx *gorm.DB, shipment *models.Shipment, previousHolder string, warn *CascadeWarnings) {
	if len(shipment.Cameras) == 0 {
		return
	}
	if shipment.Recipient != "" {
		rosterAdd(tx, shipment.Recipient, shipment.Cameras, warn)
	}
	if previousHolder == "" {
		var first models.Camera
		if err := tx.First(&first, "id = ?", shipment.Cameras[0]).Error; err != nil {
			return
		}
		previousHolder = first.AssignedTo
	}
	// The previous holder is not always a worker (warehouse labels, outside
	// recipients); unknown names are skipped.
	if previousHolder != "" && previousHolder != shipment.Recipient {
		if w, err := findWorkerByName(tx, previousHolder); err == nil {
			for _, id := range shipment.Cameras {
				w.CamerasAssigned = w.CamerasAssigned.Without(id)
			}
			if err := tx.Save(w).Error; err != nil {
				warn.Addf("worker %q: roster update failed: %v", previousHolder, err)
			}
		}
	}
}

// applyCameraEffects writes the camera field changes of each effect, in
// order, and keeps worker rosters aligned with every assignment change that
// the caller did not already batch. Journal entries are written separately
// after the transaction commits.
func (s *ShipmentService) applyCameraEffects(tx *gorm.DB, effects []CameraEffect, warn *CascadeWarnings) {
	for _, e := range effects {
		var cam models.Camera
		if err := tx.First(&cam, "id = ?", e.CameraID).Error; err != nil {
			warn.Addf("camera %s not found", e.CameraID)
			continue
		}
		if e.AssignedTo != nil && !e.RosterHandled && cam.AssignedTo != *e.AssignedTo {
			syncRosterChange(tx, e.CameraID, cam.AssignedTo, *e.AssignedTo, warn)
		}

		updates := map[string]interface{}{"status": e.Status}
		if e.AssignedTo != nil {
			updates["assigned_to"] = *e.AssignedTo
		}
		if e.Location != nil {
			updates["location"] = *e.Location
		}
		res := tx.Model(&models.Camera{}).Where("id = ?", e.CameraID).Updates(updates)
		if res.Error != nil {
			warn.Addf("camera %s: update failed: %v", e.CameraID, res.Error)
		}
	}
}

func (s *ShipmentService) appendEffectHistory(effects []CameraEffect, warn *CascadeWarnings) {
	for _, e := range effects {
		s.History.Append(e.CameraID, e.HistoryType, e.HistoryTitle, e.Details, warn)
	}
}

// nextShipmentID continues the ENV-NNN sequence.
func (s *ShipmentService) nextShipmentID() string {
	var shipments []models.Shipment
	if err := s.DB.Select("id").Find(&shipments).Error; err != nil {
		return "ENV-001"
	}
	maxID := 0
	for _, sh := range shipments {
		num := strings.TrimPrefix(sh.ID, "ENV-")
		if n, err := strconv.Atoi(num); err == nil && n > maxID {
			maxID = n
		}
	}
	return fmt.Sprintf("ENV-%03d", maxID+1)
}
