package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider simulates both provider families behind one httptest server.
// Responses are keyed by the date query parameter; anything unkeyed comes
// back empty. It records every request so tests can assert scan behavior.
type fakeProvider struct {
	mu        sync.Mutex
	responses map[string]response // key: "<path>|<date>"
	requests  []string            // same key format, in arrival order
}

type response struct {
	status int
	body   string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{responses: make(map[string]response)}
}

func (p *fakeProvider) on(path, date string, status int, body string) {
	p.responses[path+"|"+date] = response{status: status, body: body}
}

func (p *fakeProvider) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("basDt")
		if date == "" {
			date = r.URL.Query().Get("basDd")
		}
		key := r.URL.Path + "|" + date

		p.mu.Lock()
		p.requests = append(p.requests, key)
		resp, ok := p.responses[key]
		p.mu.Unlock()

		if !ok {
			resp = response{status: http.StatusOK, body: emptyNested}
		}
		w.WriteHeader(resp.status)
		fmt.Fprint(w, resp.body)
	})
}

func (p *fakeProvider) requestCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

const (
	emptyNested = `{"response": {"body": {"totalCount": 0, "items": {"item": []}}}}`
	emptyFlat   = `{"OutBlock_1": []}`
)

func nestedBody(count int, dates ...string) string {
	items := ""
	for i, d := range dates {
		if i > 0 {
			items += ","
		}
		items += fmt.Sprintf(`{"basDt": %q, "clpr": "70500"}`, d)
	}
	return fmt.Sprintf(`{"response": {"body": {"totalCount": %d, "items": {"item": [%s]}}}}`, count, items)
}

func newTestService(t *testing.T, p *fakeProvider) *Service {
	t.Helper()
	srv := httptest.NewServer(p.handler())
	t.Cleanup(srv.Close)
	return NewService(CatalogConfig{
		FSCBaseURL:    srv.URL,
		KRXBaseURL:    srv.URL,
		FSCServiceKey: "test-service-key",
		KRXAuthKey:    "test-auth-key",
	}, zerolog.Nop())
}

func day(s string) time.Time {
	d, err := time.Parse(baseDateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

const stockPricePath = "/GetStockSecuritiesInfoService/getStockPriceInfo"

// A Saturday request where the provider has nothing for Saturday and Friday
// but twelve records for Thursday must resolve to Thursday at offset 2.
func TestSearchFallsBackToFirstPublishedDay(t *testing.T) {
	p := newFakeProvider()
	p.on(stockPricePath, "20250111", http.StatusOK, emptyNested) // Saturday
	p.on(stockPricePath, "20250110", http.StatusOK, emptyNested) // Friday
	p.on(stockPricePath, "20250109", http.StatusOK, nestedBody(12, "20250109"))
	p.on(stockPricePath, "20250108", http.StatusOK, nestedBody(30, "20250108")) // must never be reached
	svc := newTestService(t, p)

	saturday := day("20250111")
	outcome, err := svc.Fetch(context.Background(), FetchRequest{
		Dataset:   DatasetStockPrice,
		PageNo:    1,
		NumOfRows: 10,
		BaseDate:  &saturday,
		AutoRetry: true,
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeSuccess, outcome.Kind)
	assert.Equal(t, 2, outcome.Offset)
	assert.Equal(t, day("20250111"), outcome.RequestedDate)
	assert.Equal(t, day("20250109"), outcome.ResolvedDate)
	assert.Equal(t, 12, outcome.Result.TotalCount)
	// Greedy: the scan stops at the first hit, Wednesday is never queried.
	assert.Equal(t, 3, p.requestCount())
}

func TestSearchWithoutAutoRetryTriesOnlyRequestedDate(t *testing.T) {
	p := newFakeProvider()
	p.on(stockPricePath, "20250111", http.StatusOK, emptyNested)
	p.on(stockPricePath, "20250110", http.StatusOK, nestedBody(5, "20250110"))
	svc := newTestService(t, p)

	saturday := day("20250111")
	outcome, err := svc.Fetch(context.Background(), FetchRequest{
		Dataset:   DatasetStockPrice,
		PageNo:    1,
		NumOfRows: 10,
		BaseDate:  &saturday,
		AutoRetry: false,
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeExhausted, outcome.Kind)
	assert.Empty(t, outcome.Result.Items)
	assert.Equal(t, 1, p.requestCount())
}

func TestSearchExhaustsWindow(t *testing.T) {
	p := newFakeProvider() // unkeyed dates all come back empty
	svc := newTestService(t, p)

	anchor := day("20250111")
	outcome, err := svc.Fetch(context.Background(), FetchRequest{
		Dataset:   DatasetStockPrice,
		PageNo:    1,
		NumOfRows: 10,
		BaseDate:  &anchor,
		AutoRetry: true,
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeExhausted, outcome.Kind)
	assert.Equal(t, 0, outcome.Result.TotalCount)
	assert.Empty(t, outcome.Result.Items)
	assert.Equal(t, PriceLookbackDays, p.requestCount())
}

func TestSearchAllOffsetsTransportError(t *testing.T) {
	p := newFakeProvider()
	anchor := day("20250111")
	for offset := 0; offset < PriceLookbackDays; offset++ {
		p.on(stockPricePath, anchor.AddDate(0, 0, -offset).Format(baseDateLayout),
			http.StatusInternalServerError, `{"error": "down"}`)
	}
	svc := newTestService(t, p)

	outcome, err := svc.Fetch(context.Background(), FetchRequest{
		Dataset:   DatasetStockPrice,
		PageNo:    1,
		NumOfRows: 10,
		BaseDate:  &anchor,
		AutoRetry: true,
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeTransportError, outcome.Kind)
	require.Error(t, outcome.Err)
	var terr *TransportError
	require.ErrorAs(t, outcome.Err, &terr)
	assert.Equal(t, http.StatusInternalServerError, terr.StatusCode)
	assert.Equal(t, PriceLookbackDays, p.requestCount())
}

func TestSearchRecoversAfterTransportError(t *testing.T) {
	p := newFakeProvider()
	p.on(stockPricePath, "20250111", http.StatusBadGateway, "upstream gone")
	p.on(stockPricePath, "20250110", http.StatusOK, nestedBody(3, "20250110"))
	svc := newTestService(t, p)

	anchor := day("20250111")
	outcome, err := svc.Fetch(context.Background(), FetchRequest{
		Dataset:   DatasetStockPrice,
		PageNo:    1,
		NumOfRows: 10,
		BaseDate:  &anchor,
		AutoRetry: true,
	})
	require.NoError(t, err)

	// A single dead day is not an error, the scan moves on.
	assert.Equal(t, OutcomeSuccess, outcome.Kind)
	assert.Equal(t, 1, outcome.Offset)
	assert.Equal(t, day("20250110"), outcome.ResolvedDate)
}

// When the provider ignores the date filter and answers with a stale
// snapshot, the response is accepted and the server-confirmed date becomes
// authoritative.
func TestSearchTrustsServerConfirmedDate(t *testing.T) {
	p := newFakeProvider()
	p.on(stockPricePath, "20250111", http.StatusOK, nestedBody(2, "20250108", "20250109"))
	svc := newTestService(t, p)

	anchor := day("20250111")
	outcome, err := svc.Fetch(context.Background(), FetchRequest{
		Dataset:   DatasetStockPrice,
		PageNo:    1,
		NumOfRows: 10,
		BaseDate:  &anchor,
		AutoRetry: true,
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeSuccess, outcome.Kind)
	assert.Equal(t, 0, outcome.Offset)
	// The most recent confirmed date wins over the candidate date.
	assert.Equal(t, day("20250109"), outcome.ResolvedDate)
	assert.Equal(t, 1, p.requestCount())
}

func TestSearchMalformedBodyTreatedAsEmptyDay(t *testing.T) {
	p := newFakeProvider()
	p.on(stockPricePath, "20250111", http.StatusOK, `{"response": "garbled"}`)
	p.on(stockPricePath, "20250110", http.StatusOK, nestedBody(1, "20250110"))
	svc := newTestService(t, p)

	anchor := day("20250111")
	outcome, err := svc.Fetch(context.Background(), FetchRequest{
		Dataset:   DatasetStockPrice,
		PageNo:    1,
		NumOfRows: 10,
		BaseDate:  &anchor,
		AutoRetry: true,
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeSuccess, outcome.Kind)
	assert.Equal(t, 1, outcome.Offset)
}

func TestSearchIdempotent(t *testing.T) {
	p := newFakeProvider()
	p.on(stockPricePath, "20250109", http.StatusOK, nestedBody(12, "20250109"))
	svc := newTestService(t, p)

	anchor := day("20250111")
	req := FetchRequest{
		Dataset:   DatasetStockPrice,
		PageNo:    1,
		NumOfRows: 10,
		BaseDate:  &anchor,
		AutoRetry: true,
	}

	first, err := svc.Fetch(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Fetch(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Kind, second.Kind)
	assert.Equal(t, first.Offset, second.Offset)
	assert.Equal(t, first.ResolvedDate, second.ResolvedDate)
	assert.Equal(t, first.Result.TotalCount, second.Result.TotalCount)
	assert.Equal(t, first.Result.AsOfDates, second.Result.AsOfDates)
}

func TestSearchHonorsCancellation(t *testing.T) {
	p := newFakeProvider()
	svc := newTestService(t, p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	anchor := day("20250111")
	_, err := svc.Fetch(ctx, FetchRequest{
		Dataset:   DatasetStockPrice,
		PageNo:    1,
		NumOfRows: 10,
		BaseDate:  &anchor,
		AutoRetry: true,
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSearchSendsProviderQueryParams(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, nestedBody(1, "20250110"))
	}))
	defer srv.Close()

	svc := NewService(CatalogConfig{
		FSCBaseURL:    srv.URL,
		KRXBaseURL:    srv.URL,
		FSCServiceKey: "sk-123",
		KRXAuthKey:    "ak-456",
	}, zerolog.Nop())

	anchor := day("20250110")
	_, err := svc.Fetch(context.Background(), FetchRequest{
		Dataset:   DatasetStockPrice,
		PageNo:    3,
		NumOfRows: 25,
		BaseDate:  &anchor,
		AutoRetry: false,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"sk-123"}, gotQuery["serviceKey"])
	assert.Equal(t, []string{"json"}, gotQuery["resultType"])
	assert.Equal(t, []string{"3"}, gotQuery["pageNo"])
	assert.Equal(t, []string{"25"}, gotQuery["numOfRows"])
	assert.Equal(t, []string{"20250110"}, gotQuery["basDt"])
}
