// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"
)

// RetryDelay is the fixed pause before a retry. Scholar and OpenAlex
// both recover on a fixed schedule, so the delay does not grow between
// attempts. Tests override this to avoid real sleeps.
var RetryDelay = 10 * time.Second

const defaultMaxRetries = 3

// Retryable reports whether an HTTP status is worth retrying: rate
// limiting and server-side errors. Client errors (404, 403 without a
// challenge) will not change on retry.
func Retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// DoWithRetry executes an HTTP request and retries on transport errors
// and retryable statuses (429, 5xx), waiting RetryDelay between
// attempts. When maxRetries is 0 the default (3) is used.
//
// Before sleeping the response body is drained and closed. If the
// context is cancelled during a wait the function returns ctx.Err().
// After exhausting retries the last response (or transport error) is
// returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 1; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err == nil && !Retryable(resp.StatusCode) {
			return resp, nil
		}

		if attempt >= maxRetries {
			return resp, err
		}

		if err == nil {
			// Drain and close the body before retrying.
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(RetryDelay):
		}
	}
}
