package services

import (
	"fmt"
	"log"

	"camera-logistics-system/models"

	"gorm.io/gorm"
)

// CascadeWarnings collects non-fatal failures from dependent-entity updates,
// history writes and calendar calls. The primary mutation still succeeds;
// the collected messages are returned to the caller in a "warnings" field so
// partial application is visible instead of silently logged away.
type CascadeWarnings struct {
	list []string
}

func (w *CascadeWarnings) Addf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Printf("cascade warning: %s", msg)
	w.list = append(w.list, msg)
}

// List returns nil when no warnings were recorded, so the JSON field is
// omitted entirely on the happy path.
func (w *CascadeWarnings) List() []string {
	if len(w.list) == 0 {
		return nil
	}
	return w.list
}

// findWorkerByName resolves a worker by display name. Cross-references between
// cameras and workers use names, not ids; this is a known fragility under
// renames and duplicate names, preserved as documented behavior.
func findWorkerByName(tx *gorm.DB, name string) (*models.Worker, error) {
	if name == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var w models.Worker
	if err := tx.Where("name = ?", name).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// assignCameraToWorker points a camera at a worker and moves it to the
// worker's state. When the camera was held by someone else, that holder's
// roster drops it first. Missing cameras are skipped with a warning.
func assignCameraToWorker(tx *gorm.DB, cameraID, workerName, workerState string, warn *CascadeWarnings) {
	var cam models.Camera
	if err := tx.First(&cam, "id = ?", cameraID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			warn.Addf("camera %s not found", cameraID)
		} else {
			warn.Addf("camera %s: lookup failed: %v", cameraID, err)
		}
		return
	}
	if cam.AssignedTo != "" && cam.AssignedTo != workerName {
		syncRosterChange(tx, cameraID, cam.AssignedTo, "", warn)
	}
	res := tx.Model(&models.Camera{}).Where("id = ?", cameraID).Updates(map[string]interface{}{
		"assigned_to": workerName,
		"location":    workerState,
	})
	if res.Error != nil {
		warn.Addf("camera %s: update failed: %v", cameraID, res.Error)
	}
}

// clearCameraAssignment removes the worker reference from a camera. The
// location is left untouched.
func clearCameraAssignment(tx *gorm.DB, cameraID string, warn *CascadeWarnings) {
	res := tx.Model(&models.Camera{}).Where("id = ?", cameraID).Update("assigned_to", "")
	if res.Error != nil {
		warn.Addf("camera %s: clear assignment failed: %v", cameraID, res.Error)
	}
}

// rosterAdd appends camera ids to a worker's roster, deduplicated. The worker
// is looked up by name; an unknown name is a warning, not an error.
func rosterAdd(tx *gorm.DB, workerName string, cameraIDs []string, warn *CascadeWarnings) {
	w, err := findWorkerByName(tx, workerName)
	if err != nil {
		warn.Addf("worker %q not found, roster not updated", workerName)
		return
	}
	w.CamerasAssigned = w.CamerasAssigned.Union(cameraIDs...)
	if err := tx.Save(w).Error; err != nil {
		warn.Addf("worker %q: roster update failed: %v", workerName, err)
	}
}

// syncRosterChange moves one camera between rosters when its holder changes.
// Names that do not resolve to a worker are skipped silently; assignedTo can
// hold a shipment recipient who never was a worker.
func syncRosterChange(tx *gorm.DB, cameraID, previousName, newName string, warn *CascadeWarnings) {
	if previousName == newName {
		return
	}
	if previousName != "" {
		if w, err := findWorkerByName(tx, previousName); err == nil {
			w.CamerasAssigned = w.CamerasAssigned.Without(cameraID)
			if err := tx.Save(w).Error; err != nil {
				warn.Addf("worker %q: roster update failed: %v", previousName, err)
			}
		}
	}
	if newName != "" {
		if w, err := findWorkerByName(tx, newName); err == nil {
			w.CamerasAssigned = w.CamerasAssigned.Union(cameraID)
			if err := tx.Save(w).Error; err != nil {
				warn.Addf("worker %q: roster update failed: %v", newName, err)
			}
		}
	}
}

// rosterRemove drops camera ids from a worker's roster.
func rosterRemove(tx *gorm.DB, workerName string, cameraIDs []string, warn *CascadeWarnings) {
	w, err := findWorkerByName(tx, workerName)
	if err != nil {
		warn.Addf("worker %q not found, roster not updated", workerName)
		return
	}
	for _, id := range cameraIDs {
		w.CamerasAssigned = w.CamerasAssigned.Without(id)
	}
	if err := tx.Save(w).Error; err != nil {
		warn.Addf("worker %q: roster update failed: %v", workerName, err)
	}
}
