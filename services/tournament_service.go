package services

import (
	"fmt"
	"log"
	"time"

	"camera-logistics-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TournamentService struct {
	DB       *gorm.DB
	History  *HistoryService
	Calendar CalendarSync // nil disables calendar mirroring
}

func NewTournamentService(db *gorm.DB, history *HistoryService, calendar CalendarSync) *TournamentService {
	return &TournamentService{DB: db, History: history, Calendar: calendar}
}

type tournamentResponse struct {
	models.Tournament
	Warnings []string `json:"warnings,omitempty"`
}

func (s *TournamentService) GetAllTournaments(c *fiber.Ctx) error {
	var tournaments []models.Tournament
	if err := s.DB.Find(&tournaments).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tournaments"})
	}
	return c.JSON(tournaments)
}

func (s *TournamentService) GetTournamentByID(c *fiber.Ctx) error {
	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", c.Params("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "Not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(tournament)
}

// CreateTournament persists the tournament, journals every allocated camera
// and mirrors the event into the calendar. Camera status and location are
// deliberately untouched: tournaments borrow cameras already positioned by
// shipments, only the journal records the allocation.
func (s *TournamentService) CreateTournament(c *fiber.Ctx) error {
	var tournament models.Tournament
	if err := c.BodyParser(&tournament); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if tournament.Name == "" || tournament.Date == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name and date are required"})
	}
	if tournament.ID == "" {
		tournament.ID = uuid.NewString()
	}
	if tournament.Cameras == nil {
		tournament.Cameras = models.StringList{}
	}
	fillEndDate(&tournament)
	if tournament.Status == "" {
		if st := tournament.ComputeStatus(time.Now()); st != "" {
			tournament.Status = st
		} else {
			tournament.Status = models.TournamentPendiente
		}
	}

	if err := s.DB.Create(&tournament).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	warn := &CascadeWarnings{}
	for _, cameraID := range tournament.Cameras {
		s.History.Append(cameraID, models.HistoryTournament,
			fmt.Sprintf("Asignado a torneo: %s", tournament.Name),
			models.JSONMap{
				"tournamentId":   tournament.ID,
				"tournamentName": tournament.Name,
				"location":       tournament.Location,
				"date":           tournament.Date,
			}, warn)
	}

	s.mirrorCalendarCreate(&tournament, warn)

	return c.Status(201).JSON(tournamentResponse{Tournament: tournament, Warnings: warn.List()})
}

// UpdateTournament replaces the record, journals the camera-list diff and
// refreshes the calendar event.
func (s *TournamentService) UpdateTournament(c *fiber.Ctx) error {
	id := c.Params("id")
	var current models.Tournament
	if err := s.DB.First(&current, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "Not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	var updated models.Tournament
	if err := c.BodyParser(&updated); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	updated.ID = id
	updated.CreatedAt = current.CreatedAt
	if updated.Name == "" {
		updated.Name = current.Name
	}
	if updated.GoogleCalendarEventID == "" {
		updated.GoogleCalendarEventID = current.GoogleCalendarEventID
	}
	if updated.Cameras == nil {
		updated.Cameras = models.StringList{}
	}
	fillEndDate(&updated)

	if err := s.DB.Save(&updated).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	warn := &CascadeWarnings{}
	for _, cameraID := range models.Diff(current.Cameras, updated.Cameras) {
		s.History.Append(cameraID, models.HistoryTournament,
			fmt.Sprintf("Asignado a torneo: %s", updated.Name),
			models.JSONMap{
				"tournamentId":   id,
				"tournamentName": updated.Name,
				"location":       updated.Location,
				"date":           updated.Date,
			}, warn)
	}
	for _, cameraID := range models.Diff(updated.Cameras, current.Cameras) {
		s.History.Append(cameraID, models.HistoryTournament,
			fmt.Sprintf("Removido de torneo: %s", current.Name),
			models.JSONMap{
				"tournamentId":   id,
				"tournamentName": current.Name,
			}, warn)
	}

	s.mirrorCalendarUpdate(&updated, warn)

	return c.JSON(tournamentResponse{Tournament: updated, Warnings: warn.List()})
}

// DeleteTournament removes every journal entry referencing the tournament,
// deletes the record and tries to take the calendar event down with it. An
// unconfirmed calendar deletion is surfaced as a notice, never an error.
func (s *TournamentService) DeleteTournament(c *fiber.Ctx) error {
	id := c.Params("id")
	var tournament models.Tournament
	if err := s.DB.First(&tournament, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "Not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.History.DeleteForTournament(tx, id); err != nil {
			return err
		}
		return tx.Delete(&models.Tournament{}, "id = ?", id).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	notice := s.mirrorCalendarDelete(&tournament)
	if notice != "" {
		return c.JSON(fiber.Map{"deleted": true, "calendarNotice": notice})
	}
	return c.SendStatus(204)
}

// fillEndDate derives endDate from date + days when the caller left it empty.
func fillEndDate(t *models.Tournament) {
	if t.EndDate != "" || t.Date == "" {
		return
	}
	start, err := time.Parse("2006-01-02", t.Date)
	if err != nil {
		return
	}
	days := t.Days
	if days < 1 {
		days = 1
	}
	t.EndDate = start.AddDate(0, 0, days-1).Format("2006-01-02")
}

func (s *TournamentService) mirrorCalendarCreate(t *models.Tournament, warn *CascadeWarnings) {
	if s.Calendar == nil {
		return
	}
	if !s.Calendar.IsAuthenticated() {
		log.Printf("calendar not linked, skipping event for tournament %s", t.ID)
		return
	}
	eventID, err := s.Calendar.CreateEvent(t)
	if err != nil {
		warn.Addf("calendar event not created: %v", err)
		return
	}
	t.GoogleCalendarEventID = eventID
	if err := s.DB.Model(t).Update("google_calendar_event_id", eventID).Error; err != nil {
		warn.Addf("calendar event id not stored: %v", err)
	}
}

func (s *TournamentService) mirrorCalendarUpdate(t *models.Tournament, warn *CascadeWarnings) {
	if s.Calendar == nil || !s.Calendar.IsAuthenticated() {
		return
	}
	if t.GoogleCalendarEventID != "" {
		if err := s.Calendar.UpdateEvent(t.GoogleCalendarEventID, t); err == nil {
			return
		}
		// Stale event id: fall through and recreate.
		warn.Addf("calendar event %s not updatable, recreating", t.GoogleCalendarEventID)
	} else if eventID, err := s.Calendar.FindEvent(t.Name); err == nil {
		if err := s.Calendar.UpdateEvent(eventID, t); err == nil {
			t.GoogleCalendarEventID = eventID
			if err := s.DB.Model(t).Update("google_calendar_event_id", eventID).Error; err != nil {
				warn.Addf("calendar event id not stored: %v", err)
			}
			return
		}
	}
	eventID, err := s.Calendar.CreateEvent(t)
	if err != nil {
		warn.Addf("calendar event not created: %v", err)
		return
	}
	t.GoogleCalendarEventID = eventID
	if err := s.DB.Model(t).Update("google_calendar_event_id", eventID).Error; err != nil {
		warn.Addf("calendar event id not stored: %v", err)
	}
}

// mirrorCalendarDelete returns a user-facing notice when the calendar event
// could not be confirmed gone.
func (s *TournamentService) mirrorCalendarDelete(t *models.Tournament) string {
	if s.Calendar == nil {
		return ""
	}
	if !s.Calendar.IsAuthenticated() || t.GoogleCalendarEventID == "" {
		return fmt.Sprintf("Torneo %q eliminado del sistema. Si agregaste este evento a tu calendario, elimínalo manualmente.", t.Name)
	}
	if err := s.Calendar.DeleteEvent(t.GoogleCalendarEventID); err == nil {
		return ""
	}
	if eventID, err := s.Calendar.FindEvent(t.Name); err == nil {
		if err := s.Calendar.DeleteEvent(eventID); err == nil {
			return ""
		}
	}
	return fmt.Sprintf("Torneo %q eliminado del sistema. No se pudo eliminar el evento del calendario automáticamente; verifica manualmente.", t.Name)
}
