package models

import (
	"time"
)

// WarehouseLocation is the default location for unassigned, available cameras.
const WarehouseLocation = "Almacén"

const (
	CameraDisponible    = "disponible"
	CameraEnUso         = "en uso"
	CameraEnEnvio       = "en envio"
	CameraMantenimiento = "mantenimiento"
)

const (
	CameraSolar     = "Solar"
	CameraElectrica = "Eléctrica"
	CameraHibrida   = "Híbrida"
)

// Camera is a physical tournament camera. Lifecycle: created in the warehouse
// (disponible/Almacén), assigned to a worker (location = worker's state),
// shipped (en envio), delivered (disponible at the destination). AssignedTo
// holds a worker display name, not an id.
type Camera struct {
	ID              string `json:"id" gorm:"primaryKey"`
	Model           string `json:"model"`
	Type            string `json:"type"` // Solar, Eléctrica, Híbrida
	Status          string `json:"status" gorm:"default:'disponible'"`
	Location        string `json:"location" gorm:"default:'Almacén'"`
	BatteryLevel    int    `json:"batteryLevel"`
	LastMaintenance string `json:"lastMaintenance"`
	AssignedTo      string `json:"assignedTo"`
	SerialNumber    string `json:"serialNumber"`
	SimNumber       string `json:"simNumber"`
	Notes           string `json:"notes"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
