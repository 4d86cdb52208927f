// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sociometrica/ranking-cs/pkg/types"
)

// stubSource fails a configurable number of times before succeeding.
type stubSource struct {
	failures int
	err      error
	calls    int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) FetchAuthor(_ context.Context, id string) (*types.RawAuthor, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, s.err
	}
	return &types.RawAuthor{
		ScholarID: id,
		Name:      "Author " + id,
		HIndex:    "10",
		Citations: "500",
	}, nil
}

func testFetchConfig() types.FetchConfig {
	// No sleeps in tests.
	return types.FetchConfig{MaxRetries: 3}
}

func TestFetchBatch_FailsTwiceThenSucceeds(t *testing.T) {
	src := &stubSource{failures: 2, err: &StatusError{Code: 503}}
	seeds := []types.SeedEntry{{ScholarID: "A", Name: "X"}}

	var buf bytes.Buffer
	result := FetchBatch(context.Background(), src, seeds, testFetchConfig(), &buf)

	require.Len(t, result.Records, 1)
	assert.Empty(t, result.Failures)
	assert.Equal(t, 3, src.calls, "exactly 3 attempts")
	assert.Equal(t, "Author A", result.Records[0].Name)
}

func TestFetchBatch_ExhaustionRecordsFailureAndContinues(t *testing.T) {
	src := &alternatingSource{}
	seeds := []types.SeedEntry{
		{ScholarID: "bad", Name: "Fails"},
		{ScholarID: "good", Name: "Works"},
	}

	var buf bytes.Buffer
	result := FetchBatch(context.Background(), src, seeds, testFetchConfig(), &buf)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "bad", result.Failures[0].Identifier)
	assert.Equal(t, "Fails", result.Failures[0].Name)
	assert.Contains(t, result.Failures[0].LastError, "3 attempts")
	assert.Equal(t, 3, src.badCalls, "exactly 3 attempts for the failing id")

	// The batch continued past the failure.
	require.Len(t, result.Records, 1)
	assert.Equal(t, "good", result.Records[0].ScholarID)
	assert.True(t, result.HasFailures())
	assert.Equal(t, 2, result.Total())
}

// alternatingSource always fails for id "bad" and succeeds otherwise.
type alternatingSource struct {
	badCalls int
}

func (s *alternatingSource) Name() string { return "alternating" }

func (s *alternatingSource) FetchAuthor(_ context.Context, id string) (*types.RawAuthor, error) {
	if id == "bad" {
		s.badCalls++
		return nil, ErrChallenge
	}
	return &types.RawAuthor{ScholarID: id, Name: id, HIndex: "5"}, nil
}

func TestFetchBatch_ParseErrorNotRetried(t *testing.T) {
	src := &stubSource{failures: 10, err: &ParseError{Reason: "selector missing"}}
	seeds := []types.SeedEntry{{ScholarID: "A"}}

	var buf bytes.Buffer
	result := FetchBatch(context.Background(), src, seeds, testFetchConfig(), &buf)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, 1, src.calls, "structural errors fail immediately")
}

func TestFetchBatch_MissingNameBecomesFailure(t *testing.T) {
	src := &namelessSource{}
	seeds := []types.SeedEntry{{ScholarID: "A"}}

	var buf bytes.Buffer
	result := FetchBatch(context.Background(), src, seeds, testFetchConfig(), &buf)

	assert.Empty(t, result.Records)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 1, src.calls, "validation errors are not retried")
	assert.Contains(t, result.Failures[0].LastError, "name")
}

type namelessSource struct{ calls int }

func (s *namelessSource) Name() string { return "nameless" }

func (s *namelessSource) FetchAuthor(context.Context, string) (*types.RawAuthor, error) {
	s.calls++
	return &types.RawAuthor{HIndex: "3"}, nil
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(ErrChallenge))
	assert.True(t, retryable(&StatusError{Code: 500}))
	assert.True(t, retryable(errors.New("connection reset")))
	assert.False(t, retryable(&ParseError{Reason: "x"}))
	assert.False(t, retryable(fmt.Errorf("wrapped: %w", &ParseError{Reason: "x"})))
}

func TestPrintFailureSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintFailureSummary([]types.FailureEntry{
		{Identifier: "abc", Name: "Jane Doe", LastError: "HTTP 503"},
		{Identifier: "def", LastError: "challenge"},
	}, &buf)

	out := buf.String()
	assert.Contains(t, out, "2 identifier(s) failed")
	assert.Contains(t, out, "abc (Jane Doe): HTTP 503")
	assert.Contains(t, out, "def: challenge")

	buf.Reset()
	PrintFailureSummary(nil, &buf)
	assert.Empty(t, buf.String())
}
