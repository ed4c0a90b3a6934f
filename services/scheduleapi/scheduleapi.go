package scheduleapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"bo_backend_project/models"

	"gorm.io/gorm"
)

// ErrNotConfigured is returned when no external schedule feed URL is set.
var ErrNotConfigured = errors.New("schedule feed URL not configured")

// Service pulls calendar entries from an external schedule feed and mirrors
// them into the schedules table with type "api".
type Service struct {
	db         *gorm.DB
	httpClient *http.Client
	feedURL    string
}

// FeedEntry is one schedule record as served by the external feed
type FeedEntry struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Title string `json:"title"`
}

// NewService creates a schedule feed service
func NewService(db *gorm.DB, feedURL string) *Service {
	return &Service{
		db:      db,
		feedURL: feedURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchEntries fetches all schedule entries from the external feed
func (s *Service) FetchEntries(ctx context.Context) ([]FeedEntry, error) {
	if s.feedURL == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("schedule feed error (status %d): %s", resp.StatusCode, string(body))
	}

	var entries []FeedEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse schedule feed: %w", err)
	}

	return entries, nil
}

// Sync fetches the feed and upserts entries into the schedules table.
// Existing api-type entries matching date+subject are left alone; everything
// else from the feed is inserted. Returns the number of new entries.
func (s *Service) Sync(ctx context.Context) (int, error) {
	entries, err := s.FetchEntries(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, entry := range entries {
		date, err := time.Parse("2006-01-02", entry.Date)
		if err != nil {
			log.Printf("Skipping schedule entry with bad date %q: %v", entry.Date, err)
			continue
		}

		var existing models.Schedule
		err = s.db.Where("date = ? AND subject = ? AND type = ?", date, entry.Title, "api").
			First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, err
		}

		schedule := models.Schedule{
			Date:    date,
			Subject: entry.Title,
			Type:    "api",
		}
		if err := s.db.Create(&schedule).Error; err != nil {
			return created, fmt.Errorf("failed to create schedule %q: %w", entry.Title, err)
		}
		created++
	}

	log.Printf("Schedule feed sync completed: %d entries fetched, %d created", len(entries), created)
	return created, nil
}
