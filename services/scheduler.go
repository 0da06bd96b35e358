package services

import (
	"log"
	"time"

	"camera-logistics-system/models"

	"github.com/go-co-op/gocron/v2"
)

// StartStatusScheduler keeps tournament statuses aligned with the calendar:
// pendiente before the start date, activo during [date, endDate], terminado
// after. Cancelled tournaments are never touched.
func (s *TournamentService) StartStatusScheduler() {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("[Scheduler] Failed to start: %v", err)
		return
	}

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			s.RefreshStatuses(time.Now())
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		log.Printf("[Scheduler] Failed to schedule status refresh: %v", err)
		return
	}
	sched.Start()
}

// RefreshStatuses recomputes and persists the status of every non-cancelled
// tournament for the given day.
func (s *TournamentService) RefreshStatuses(now time.Time) {
	var tournaments []models.Tournament
	err := s.DB.Where("status <> ?", models.TournamentCancelado).Find(&tournaments).Error
	if err != nil {
		log.Printf("[Scheduler] DB error: %v", err)
		return
	}

	for _, t := range tournaments {
		want := t.ComputeStatus(now)
		if want == "" || want == t.Status {
			continue
		}
		err := s.DB.Model(&models.Tournament{}).Where("id = ?", t.ID).
			Update("status", want).Error
		if err != nil {
			log.Printf("[Scheduler] Failed to update tournament %s: %v", t.ID, err)
		} else {
			log.Printf("[Scheduler] Tournament %s: %s -> %s", t.Name, t.Status, want)
		}
	}
}
