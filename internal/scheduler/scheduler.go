package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/FAYAZKLU/WeatherApp/internal/favorites"
	"github.com/FAYAZKLU/WeatherApp/internal/snapshot"
)

// Scheduler periodically re-runs the favorite-weather snapshot refresh so
// the saved-city cards stay live between list changes.
type Scheduler struct {
	scheduler *gocron.Scheduler
	store     *favorites.Store
	refresher *snapshot.Refresher
	interval  time.Duration
}

// New creates a Scheduler.
func New(store *favorites.Store, refresher *snapshot.Refresher, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     store,
		refresher: refresher,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 10
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		favs := s.store.List()
		log.Printf("scheduler: refreshing weather snapshots for %d favorites", len(favs))
		s.refresher.Refresh(favs)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
