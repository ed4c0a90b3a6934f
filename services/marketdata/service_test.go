package marketdata

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchRejectsInvalidPaging(t *testing.T) {
	svc := newTestService(t, newFakeProvider())

	_, err := svc.Fetch(context.Background(), FetchRequest{Dataset: DatasetStockPrice, PageNo: 0, NumOfRows: 10})
	assert.Error(t, err)

	_, err = svc.Fetch(context.Background(), FetchRequest{Dataset: DatasetStockPrice, PageNo: 1, NumOfRows: 0})
	assert.Error(t, err)

	_, err = svc.Fetch(context.Background(), FetchRequest{Dataset: "no_such_feed", PageNo: 1, NumOfRows: 10})
	assert.Error(t, err)
}

func TestFetchFlatProviderUsesRequestedDate(t *testing.T) {
	p := newFakeProvider()
	kospiToday := `{"OutBlock_1": [
		{"BAS_DD": "20250110", "IDX_NM": "KOSPI", "CLSPRC_IDX": "2655.28"},
		{"BAS_DD": "20250110", "IDX_NM": "KOSPI 200", "CLSPRC_IDX": "352.19"}
	]}`
	p.on("/idx/kospi_dd_trd", "20250110", http.StatusOK, kospiToday)
	svc := newTestService(t, p)

	anchor := day("20250110")
	outcome, err := svc.Fetch(context.Background(), FetchRequest{
		Dataset:   DatasetKospiIndex,
		PageNo:    1,
		NumOfRows: 10,
		BaseDate:  &anchor,
		AutoRetry: true,
	})
	require.NoError(t, err)

	assert.Equal(t, OutcomeSuccess, outcome.Kind)
	assert.Equal(t, 2, outcome.Result.TotalCount)
	// No per-record date is trusted for the flat provider: the requested
	// date stands as resolved.
	assert.Equal(t, anchor, outcome.ResolvedDate)
}

func TestFetchAllIsolatesDatasetFailures(t *testing.T) {
	p := newFakeProvider()
	// The disclosure feed is down for every date in its window.
	today := truncateToDate(time.Now())
	for offset := 0; offset < DisclosureLookbackDays; offset++ {
		d := today.AddDate(0, 0, -offset).Format(baseDateLayout)
		p.on("/GetDiscInfoService_V2/getDiscInfo", d, http.StatusServiceUnavailable, "maintenance")
	}
	// The stock price feed has data for today.
	p.on(stockPricePath, today.Format(baseDateLayout), http.StatusOK, nestedBody(4, today.Format(baseDateLayout)))
	svc := newTestService(t, p)

	snap, err := svc.FetchAll(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, snap.Outcomes, 7)
	assert.False(t, snap.FetchedAt.IsZero())

	assert.Equal(t, OutcomeTransportError, snap.Outcomes[DatasetDisclosure].Kind)
	assert.Error(t, snap.Outcomes[DatasetDisclosure].Err)
	assert.Equal(t, OutcomeSuccess, snap.Outcomes[DatasetStockPrice].Kind)
	assert.Equal(t, 0, snap.Outcomes[DatasetStockPrice].Offset)
	// Index feeds had nothing keyed, so they drain their windows.
	assert.Equal(t, OutcomeExhausted, snap.Outcomes[DatasetKospiIndex].Kind)
}

func TestFetchAllProgressReportsEveryDataset(t *testing.T) {
	svc := newTestService(t, newFakeProvider())

	var seen []Dataset
	snap, err := svc.FetchAllProgress(context.Background(), 1, 10, func(ds Dataset, outcome *FetchOutcome) {
		seen = append(seen, ds)
		assert.NotNil(t, outcome)
	})
	require.NoError(t, err)

	assert.Equal(t, svc.Catalog().Datasets(), seen)
	assert.Len(t, snap.Outcomes, len(seen))
}
