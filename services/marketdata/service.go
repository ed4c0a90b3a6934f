package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Service is the entry point for external financial data collection. It holds
// the immutable endpoint catalog, one shared HTTP client, and an injected
// logger. Construct it once at startup and reuse it; it carries no per-call
// state.
type Service struct {
	catalog *Catalog
	client  *Client
	logger  zerolog.Logger
}

// NewService builds the collection service from catalog configuration.
func NewService(cfg CatalogConfig, logger zerolog.Logger) *Service {
	return &Service{
		catalog: NewCatalog(cfg),
		client:  NewClient(),
		logger:  logger,
	}
}

// NewServiceWithClient builds the service around a caller-supplied client,
// used by tests to point at fake providers.
func NewServiceWithClient(cfg CatalogConfig, client *Client, logger zerolog.Logger) *Service {
	return &Service{
		catalog: NewCatalog(cfg),
		client:  client,
		logger:  logger,
	}
}

// Catalog exposes the read-only endpoint catalog.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// Fetch runs a date-fallback search for one dataset.
func (s *Service) Fetch(ctx context.Context, req FetchRequest) (*FetchOutcome, error) {
	if req.PageNo < 1 {
		return nil, fmt.Errorf("page number must be positive, got %d", req.PageNo)
	}
	if req.NumOfRows < 1 {
		return nil, fmt.Errorf("page size must be positive, got %d", req.NumOfRows)
	}

	ep, ok := s.catalog.Endpoint(req.Dataset)
	if !ok {
		return nil, fmt.Errorf("unknown dataset: %s", req.Dataset)
	}

	return s.Search(ctx, ep, req)
}

// Snapshot is the combined result of fetching every configured dataset.
type Snapshot struct {
	Outcomes  map[Dataset]*FetchOutcome `json:"outcomes"`
	FetchedAt time.Time                 `json:"fetched_at"`
}

// FetchAll fetches every dataset in the catalog sequentially and assembles a
// combined snapshot. A failed dataset does not abort the others; each outcome
// stands on its own.
func (s *Service) FetchAll(ctx context.Context, pageNo, numOfRows int) (*Snapshot, error) {
	return s.FetchAllProgress(ctx, pageNo, numOfRows, nil)
}

// FetchAllProgress is FetchAll with a per-dataset callback, invoked as each
// outcome lands. The callback observes progress only; it cannot alter the
// snapshot.
func (s *Service) FetchAllProgress(ctx context.Context, pageNo, numOfRows int, onOutcome func(Dataset, *FetchOutcome)) (*Snapshot, error) {
	snap := &Snapshot{
		Outcomes: make(map[Dataset]*FetchOutcome, len(s.catalog.Datasets())),
	}

	for _, ds := range s.catalog.Datasets() {
		outcome, err := s.Fetch(ctx, FetchRequest{
			Dataset:   ds,
			PageNo:    pageNo,
			NumOfRows: numOfRows,
			AutoRetry: true,
		})
		if err != nil {
			// Only cancellation or invalid input reach here; both stop the fan-out.
			return nil, err
		}
		snap.Outcomes[ds] = outcome
		if onOutcome != nil {
			onOutcome(ds, outcome)
		}
	}

	snap.FetchedAt = time.Now()
	return snap, nil
}
