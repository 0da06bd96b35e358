package models

import (
	"time"
)

const (
	HistoryShipment     = "shipment"
	HistoryTournament   = "tournament"
	HistoryReturn       = "return"
	HistoryMaintenance  = "maintenance"
	HistoryStatusChange = "status_change"
	HistoryAssignment   = "assignment"
)

// CameraHistory is the append-only per-camera event journal. Records are never
// updated; they are only deleted in bulk when the parent tournament or
// shipment is deleted. Details carries free-form keys such as tournamentId,
// shipmentId, destination and recipient.
type CameraHistory struct {
	ID       uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CameraID string    `json:"cameraId" gorm:"not null;index"`
	Type     string    `json:"type" gorm:"not null"`
	Title    string    `json:"title" gorm:"column:description"`
	Date     time.Time `json:"date"`
	Details  JSONMap   `json:"details" gorm:"serializer:json"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
