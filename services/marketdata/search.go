package marketdata

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"
)

const baseDateLayout = "20060102"

// FetchRequest describes one dataset fetch. PageNo and NumOfRows must be
// positive; BaseDate defaults to today when nil. AutoRetry enables the
// backward date-fallback scan; without it only the requested date is tried.
type FetchRequest struct {
	Dataset   Dataset
	PageNo    int
	NumOfRows int
	BaseDate  *time.Time
	AutoRetry bool
}

// OutcomeKind classifies how a fetch concluded.
type OutcomeKind string

const (
	// OutcomeSuccess means a date with at least one record was found.
	OutcomeSuccess OutcomeKind = "success"
	// OutcomeExhausted means every date in the lookback window came back
	// empty. Not an error: the dataset simply has nothing published yet.
	OutcomeExhausted OutcomeKind = "exhausted"
	// OutcomeTransportError means every attempted date failed at the
	// transport level, so no statement about the data can be made.
	OutcomeTransportError OutcomeKind = "transport_error"
)

// FetchOutcome is the final result of a date-fallback search. ResolvedDate is
// the date the returned data actually belongs to, which can differ from
// RequestedDate when the provider lagged or silently ignored the date filter.
type FetchOutcome struct {
	Dataset       Dataset     `json:"dataset"`
	RequestedDate time.Time   `json:"requested_date"`
	ResolvedDate  time.Time   `json:"resolved_date"`
	Offset        int         `json:"offset"`
	Kind          OutcomeKind `json:"outcome"`
	Result        *Result     `json:"result"`
	Err           error       `json:"-"`
}

// Search runs the date-fallback scan for one endpoint: starting at the
// requested date it walks backward one day at a time until a date with
// records is found or the endpoint's lookback window is exhausted. Transport
// failures on individual days are swallowed and the scan moves on; only when
// every day fails at the transport level does the failure surface as an
// outcome. The scan is greedy: the most recent non-empty date wins and no
// further days are tried.
//
// Providers occasionally ignore the date filter and answer with their latest
// snapshot. Any non-empty response is accepted immediately and the
// server-confirmed date is reported as ResolvedDate, so callers always see
// the date the data really belongs to.
func (s *Service) Search(ctx context.Context, ep Endpoint, req FetchRequest) (*FetchOutcome, error) {
	anchor := truncateToDate(time.Now())
	if req.BaseDate != nil {
		anchor = truncateToDate(*req.BaseDate)
	}

	lookback := ep.LookbackDays
	if lookback < 1 || !req.AutoRetry {
		lookback = 1
	}

	var lastErr error
	var lastResult *Result

	for offset := 0; offset < lookback; offset++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidate := anchor.AddDate(0, 0, -offset)
		params := buildQuery(ep, req, candidate)

		doc, err := s.client.Get(ctx, ep.BaseURL, ep.Path, params)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			s.logger.Warn().
				Str("dataset", string(ep.Dataset)).
				Int("offset", offset).
				Str("date", candidate.Format(baseDateLayout)).
				Err(err).
				Msg("provider request failed, advancing to previous day")
			lastErr = err
			continue
		}

		res := Interpret(doc, ep.Schema, s.logger)
		lastResult = res

		if res.TotalCount > 0 {
			resolved := candidate
			if len(res.AsOfDates) > 0 {
				// AsOfDates is sorted ascending; the most recent wins.
				if confirmed, perr := time.Parse(baseDateLayout, res.AsOfDates[len(res.AsOfDates)-1]); perr == nil {
					resolved = confirmed
				}
			}
			s.logger.Info().
				Str("dataset", string(ep.Dataset)).
				Int("offset", offset).
				Str("outcome", string(OutcomeSuccess)).
				Str("requested", anchor.Format(baseDateLayout)).
				Str("resolved", resolved.Format(baseDateLayout)).
				Int("total_count", res.TotalCount).
				Msg("dataset fetch resolved")
			return &FetchOutcome{
				Dataset:       ep.Dataset,
				RequestedDate: anchor,
				ResolvedDate:  resolved,
				Offset:        offset,
				Kind:          OutcomeSuccess,
				Result:        res,
			}, nil
		}
	}

	if lastResult == nil {
		s.logger.Error().
			Str("dataset", string(ep.Dataset)).
			Str("outcome", string(OutcomeTransportError)).
			Int("lookback_days", lookback).
			Err(lastErr).
			Msg("every candidate date failed at the transport level")
		return &FetchOutcome{
			Dataset:       ep.Dataset,
			RequestedDate: anchor,
			ResolvedDate:  anchor,
			Offset:        lookback - 1,
			Kind:          OutcomeTransportError,
			Result:        &Result{},
			Err:           lastErr,
		}, nil
	}

	s.logger.Info().
		Str("dataset", string(ep.Dataset)).
		Str("outcome", string(OutcomeExhausted)).
		Int("lookback_days", lookback).
		Msg("no data found within lookback window")
	return &FetchOutcome{
		Dataset:       ep.Dataset,
		RequestedDate: anchor,
		ResolvedDate:  anchor,
		Offset:        lookback - 1,
		Kind:          OutcomeExhausted,
		Result:        lastResult,
	}, nil
}

// buildQuery assembles the provider-specific query string for one candidate
// date. The two provider families authenticate and paginate differently.
func buildQuery(ep Endpoint, req FetchRequest, candidate time.Time) url.Values {
	params := url.Values{}
	switch ep.Schema {
	case SchemaFlat:
		params.Set("AUTH_KEY", ep.ServiceKey)
	default:
		params.Set("serviceKey", ep.ServiceKey)
		params.Set("resultType", "json")
		params.Set("pageNo", strconv.Itoa(req.PageNo))
		params.Set("numOfRows", strconv.Itoa(req.NumOfRows))
	}
	if ep.DateParam != "" {
		params.Set(ep.DateParam, candidate.Format(baseDateLayout))
	}
	return params
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
