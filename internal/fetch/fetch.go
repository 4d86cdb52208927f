// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves author bibliometrics from upstream providers.
// Three sources implement the same capability: the Google Scholar
// profile page (HTML scraping), the SerpAPI relay (JSON), and the
// OpenAlex authors API (JSON). The batch loop is strictly sequential
// with a delay between identifiers; parallel fetching would get the
// client blocked by Scholar.
package fetch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sociometrica/ranking-cs/internal/normalize"
	"github.com/sociometrica/ranking-cs/pkg/types"
)

// Source fetches one author's raw record from a single upstream
// provider. Each provider implements this interface so everything
// downstream of the fetch is shape-agnostic.
type Source interface {
	Name() string
	FetchAuthor(ctx context.Context, id string) (*types.RawAuthor, error)
}

// BatchResult holds the outcome of a batch fetch run.
type BatchResult struct {
	Records  []types.AuthorRecord
	Failures []types.FailureEntry
}

// Total returns the total number of identifiers processed.
func (r BatchResult) Total() int {
	return len(r.Records) + len(r.Failures)
}

// HasFailures reports whether any identifiers failed.
func (r BatchResult) HasFailures() bool {
	return len(r.Failures) > 0
}

// FetchBatch fetches every seed entry from src, in input order, one at
// a time. It sleeps cfg.RequestDelay between identifiers and retries a
// failing identifier up to cfg.MaxRetries times with a fixed
// cfg.RetryDelay pause. A single identifier exhausting its retries is
// recorded as a failure and never aborts the batch.
//
// Per-item progress is written to w.
func FetchBatch(ctx context.Context, src Source, seeds []types.SeedEntry, cfg types.FetchConfig, w io.Writer) BatchResult {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var result BatchResult
	for i, seed := range seeds {
		if i > 0 && cfg.RequestDelay > 0 {
			select {
			case <-ctx.Done():
				return result
			case <-time.After(cfg.RequestDelay):
			}
		}

		record, err := fetchOne(ctx, src, seed.ScholarID, maxRetries, cfg.RetryDelay)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", seed.ScholarID, err)
			result.Failures = append(result.Failures, types.FailureEntry{
				Identifier: seed.ScholarID,
				Name:       seed.Name,
				LastError:  err.Error(),
			})
			continue
		}

		fmt.Fprintf(w, "fetched: %s (h=%d, citas=%d)\n", record.Name, record.HIndex, record.Citations)
		result.Records = append(result.Records, *record)
	}
	return result
}

// fetchOne retries a single identifier. Network, status, and challenge
// errors are retried; parse and validation errors fail immediately
// because retrying will not fix malformed structure.
func fetchOne(ctx context.Context, src Source, id string, maxRetries int, retryDelay time.Duration) (*types.AuthorRecord, error) {
	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 && retryDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}

		raw, err := src.FetchAuthor(ctx, id)
		if err != nil {
			if !retryable(err) {
				return nil, err
			}
			lastErr = err
			continue
		}

		record, err := normalize.Normalize(raw, id, time.Now())
		if err != nil {
			return nil, err
		}
		return &record, nil
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", maxRetries, lastErr)
}

// PrintFailureSummary writes the end-of-run failure report to w.
func PrintFailureSummary(failures []types.FailureEntry, w io.Writer) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d identifier(s) failed:\n", len(failures))
	for _, f := range failures {
		label := f.Identifier
		if f.Name != "" {
			label = fmt.Sprintf("%s (%s)", f.Identifier, f.Name)
		}
		fmt.Fprintf(w, "  %s: %s\n", label, f.LastError)
	}
}
