package models

import (
	"time"
)

const (
	ShipmentPreparando = "preparando"
	ShipmentPendiente  = "pendiente"
	ShipmentEnviado    = "enviado"
	ShipmentEntregado  = "entregado"
	ShipmentCancelado  = "cancelado"
)

// Shipment is a logistics movement of a set of cameras between a sender and a
// recipient. Status transitions drive camera status/location/assignment
// changes (see services.TransitionEffects).
type Shipment struct {
	ID             string     `json:"id" gorm:"primaryKey"`
	Cameras        StringList `json:"cameras" gorm:"serializer:json"`
	Destination    string     `json:"destination"`
	Recipient      string     `json:"recipient"`
	Sender         string     `json:"sender"`
	Shipper        string     `json:"shipper"`
	Date           string     `json:"date"` // YYYY-MM-DD
	Status         string     `json:"status" gorm:"default:'preparando'"`
	TrackingNumber string     `json:"trackingNumber"`
	OriginState    string     `json:"originState"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}
