// workers/backup_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"camera-logistics-system/models"
	"camera-logistics-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BackupWorker periodically snapshots every collection to the backup bucket
// as a single JSON document. Failures are logged and retried on the next
// tick, never fatal.
type BackupWorker struct {
	db       *gorm.DB
	interval time.Duration
}

func NewBackupWorker(db *gorm.DB) *BackupWorker {
	return &BackupWorker{
		db:       db,
		interval: 6 * time.Hour,
	}
}

func (w *BackupWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Backup Worker (database → R2 snapshots)…")
	go w.run(ctx)
}

func (w *BackupWorker) run(ctx context.Context) {
	if err := w.snapshot(ctx); err != nil {
		log.Printf("⚠️ Initial backup failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Backup Worker stopped")
			return
		case <-ticker.C:
			if err := w.snapshot(ctx); err != nil {
				log.Printf("⚠️ Backup failed: %v", err)
			}
		}
	}
}

type snapshot struct {
	TakenAt     time.Time              `json:"takenAt"`
	Tournaments []models.Tournament    `json:"tournaments"`
	Workers     []models.Worker        `json:"workers"`
	Cameras     []models.Camera        `json:"cameras"`
	Shipments   []models.Shipment      `json:"shipments"`
	History     []models.CameraHistory `json:"cameraHistory"`
}

func (w *BackupWorker) snapshot(ctx context.Context) error {
	snap := snapshot{TakenAt: time.Now().UTC()}

	if err := w.db.WithContext(ctx).Find(&snap.Tournaments).Error; err != nil {
		return fmt.Errorf("failed to read tournaments: %w", err)
	}
	if err := w.db.WithContext(ctx).Find(&snap.Workers).Error; err != nil {
		return fmt.Errorf("failed to read workers: %w", err)
	}
	if err := w.db.WithContext(ctx).Find(&snap.Cameras).Error; err != nil {
		return fmt.Errorf("failed to read cameras: %w", err)
	}
	if err := w.db.WithContext(ctx).Find(&snap.Shipments).Error; err != nil {
		return fmt.Errorf("failed to read shipments: %w", err)
	}
	if err := w.db.WithContext(ctx).Find(&snap.History).Error; err != nil {
		return fmt.Errorf("failed to read camera history: %w", err)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	// Timestamp plus a random suffix so concurrent instances never clobber
	// each other's snapshots.
	key := fmt.Sprintf("backups/%s-%s.json",
		snap.TakenAt.Format("2006-01-02T15-04-05"), uuid.NewString()[:8])
	if err := utils.UploadJSONToR2(ctx, key, data); err != nil {
		return err
	}

	log.Printf("✅ Backup uploaded (%s, %d bytes)", key, len(data))
	return nil
}
