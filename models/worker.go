package models

import (
	"time"
)

const (
	WorkerDisponible = "disponible"
	WorkerActivo     = "activo"
	WorkerOcupado    = "ocupado"
	WorkerVacaciones = "vacaciones"
)

// Worker is a field technician. Cameras reference workers by display name
// (Camera.AssignedTo), not by id; CamerasAssigned is the denormalized inverse
// of that reference and is kept in sync by the synchronizer, not the schema.
type Worker struct {
	ID              string     `json:"id" gorm:"primaryKey"`
	Name            string     `json:"name" gorm:"not null;index"`
	State           string     `json:"state"`
	Status          string     `json:"status" gorm:"default:'disponible'"`
	Phone           string     `json:"phone"`
	Email           string     `json:"email"`
	Specialty       string     `json:"specialty"`
	CamerasAssigned StringList `json:"camerasAssigned" gorm:"serializer:json"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
