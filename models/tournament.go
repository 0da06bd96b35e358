package models

import (
	"time"
)

// Tournament statuses follow the calendar: pendiente before the start date,
// activo inside [date, endDate], terminado after. cancelado is manual and is
// never overwritten by the scheduler.
const (
	TournamentPendiente = "pendiente"
	TournamentActivo    = "activo"
	TournamentTerminado = "terminado"
	TournamentCancelado = "cancelado"
)

// Tournament is a scheduled golf event consuming a set of cameras for a date
// range. Worker and WorkerID are denormalized: Worker carries the display name
// used by the rest of the system for cross-references.
type Tournament struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null"`
	Location string `json:"location"` // "field, city"
	State    string `json:"state"`
	Date     string `json:"date"`    // YYYY-MM-DD
	EndDate  string `json:"endDate"` // derived from Date + Days when absent
	Status   string `json:"status" gorm:"default:'pendiente'"`
	Worker   string `json:"worker"`
	WorkerID string `json:"workerId"`
	// Camera ids allocated to the event. Expected (not enforced) to hold
	// Holes * 2 entries.
	Cameras               StringList `json:"cameras" gorm:"serializer:json"`
	Holes                 int        `json:"holes"`
	Days                  int        `json:"days"`
	Field                 string     `json:"field"`
	GoogleCalendarEventID string     `json:"googleCalendarEventId,omitempty"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// ComputeStatus derives the calendar status for the given day. Unparseable
// dates leave the stored status authoritative (empty return).
func (t *Tournament) ComputeStatus(today time.Time) string {
	if t.Status == TournamentCancelado {
		return TournamentCancelado
	}
	start, err := time.Parse("2006-01-02", t.Date)
	if err != nil {
		return ""
	}
	end := start
	if t.EndDate != "" {
		if e, err := time.Parse("2006-01-02", t.EndDate); err == nil {
			end = e
		}
	}
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case day.Before(start):
		return TournamentPendiente
	case day.After(end):
		return TournamentTerminado
	default:
		return TournamentActivo
	}
}
