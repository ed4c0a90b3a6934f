// Package scheduler provides scheduled job management for the backoffice.
// It handles:
// - The daily financial data collection run after market close
// - Periodic sync of the external schedule feed
// - Expired admin session cleanup
package scheduler

import (
	"log"
	"time"

	"bo_backend_project/services/marketdata"
	"bo_backend_project/services/scheduleapi"

	"github.com/go-co-op/gocron"
	"gorm.io/gorm"
)

// Scheduler manages scheduled jobs
type Scheduler struct {
	cron *gocron.Scheduler
	db   *gorm.DB
	svc  *marketdata.Service
	feed *scheduleapi.Service
}

// NewScheduler creates a new scheduler instance
func NewScheduler(db *gorm.DB, svc *marketdata.Service, feed *scheduleapi.Service) *Scheduler {
	seoul, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		seoul = time.UTC
	}
	return &Scheduler{
		cron: gocron.NewScheduler(seoul),
		db:   db,
		svc:  svc,
		feed: feed,
	}
}

// Start starts all scheduled jobs
func (s *Scheduler) Start() {
	log.Println("Starting scheduler...")

	// Collect financial data daily at 16:30, after market close
	s.cron.Every(1).Day().At("16:30").Do(func() {
		s.runDailyCollection()
	})

	// Sync the external schedule feed every 6 hours
	s.cron.Every(6).Hours().Do(func() {
		s.syncScheduleFeed()
	})

	// Clean up expired admin sessions hourly
	s.cron.Every(1).Hour().Do(func() {
		s.cleanupExpiredSessions()
	})

	s.cron.StartAsync()
	log.Println("Scheduler started successfully")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("Scheduler stopped")
}
