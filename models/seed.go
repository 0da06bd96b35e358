package models

import (
	"log"

	"gorm.io/gorm"
)

// SeedFallbackData loads the built-in demo records into an empty store.
// Used when the service starts against the in-memory fallback database so the
// dashboard has something to show; mutations against the fallback live only
// for the session.
func SeedFallbackData(db *gorm.DB) error {
	tournaments := []Tournament{
		{
			ID:       "1",
			Name:     "Torneo Empresarial CDMX",
			Location: "Club de Golf Chapultepec, Ciudad de México",
			State:    "CDMX",
			Date:     "2025-07-15",
			EndDate:  "2025-07-15",
			Status:   TournamentActivo,
			Worker:   "Juan Pérez",
			WorkerID: "1",
			Cameras:  StringList{"CS1", "CS2"},
			Holes:    9,
			Days:     1,
			Field:    "Club de Golf Chapultepec",
		},
	}
	workers := []Worker{
		{
			ID:              "1",
			Name:            "Juan Pérez",
			State:           "CDMX",
			Status:          WorkerActivo,
			Phone:           "55-1234-5678",
			Email:           "juan@pxgolf.com",
			Specialty:       "Instalación cámaras solares",
			CamerasAssigned: StringList{},
		},
	}
	cameras := []Camera{
		{
			ID:              "CS1",
			Model:           "Hikvision DS-2XS6A25G0-I/CH20S40",
			Type:            CameraSolar,
			Status:          CameraEnUso,
			Location:        "CDMX",
			BatteryLevel:    85,
			LastMaintenance: "2024-01-10",
		},
	}
	shipments := []Shipment{
		{
			ID:             "ENV-001",
			Cameras:        StringList{"CS7", "CS8"},
			Destination:    "Cancún, Quintana Roo",
			Recipient:      "Luis Hernández",
			Sender:         "Almacén Central",
			Date:           "2025-07-09",
			Status:         ShipmentEnviado,
			TrackingNumber: "TRK789123456",
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, w := range workers {
			if err := tx.Create(&w).Error; err != nil {
				return err
			}
		}
		for _, t := range tournaments {
			if err := tx.Create(&t).Error; err != nil {
				return err
			}
		}
		for _, c := range cameras {
			if err := tx.Create(&c).Error; err != nil {
				return err
			}
		}
		for _, s := range shipments {
			if err := tx.Create(&s).Error; err != nil {
				return err
			}
		}
		log.Println("Seeded fallback data: 1 worker, 1 tournament, 1 camera, 1 shipment")
		return nil
	})
}
