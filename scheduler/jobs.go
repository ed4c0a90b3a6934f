package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"bo_backend_project/admin"
	"bo_backend_project/models"
	"bo_backend_project/services/scheduleapi"
)

// runDailyCollection fetches every configured dataset and records the
// per-dataset outcomes in the collection log.
func (s *Scheduler) runDailyCollection() {
	log.Println("Running daily financial data collection...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	snapshot, err := s.svc.FetchAll(ctx, 1, 10)
	if err != nil {
		log.Printf("Daily collection aborted: %v", err)
		return
	}

	admin.RecordCollectionLog(s.db, snapshot)
	log.Printf("Daily collection completed: %d datasets", len(snapshot.Outcomes))
}

// syncScheduleFeed mirrors the external schedule feed into the schedules table
func (s *Scheduler) syncScheduleFeed() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	created, err := s.feed.Sync(ctx)
	if err != nil {
		if errors.Is(err, scheduleapi.ErrNotConfigured) {
			return
		}
		log.Printf("Schedule feed sync failed: %v", err)
		return
	}
	if created > 0 {
		log.Printf("Schedule feed sync created %d entries", created)
	}
}

// cleanupExpiredSessions removes admin sessions past their expiry
func (s *Scheduler) cleanupExpiredSessions() {
	result := s.db.Where("expires_at < ?", time.Now()).Delete(&models.AdminSession{})
	if result.Error != nil {
		log.Printf("Session cleanup failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Cleaned up %d expired admin sessions", result.RowsAffected)
	}
}
