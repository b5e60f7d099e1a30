// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the provider adapters.
package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// StatusError reports a non-2xx provider response. Adapters inspect the
// code to tell a clean miss (404) from an upstream fault.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.Code)
}

// GetJSON performs a GET against rawURL and decodes the JSON body into v.
// When limiter is non-nil the call first waits for a token, pacing outbound
// traffic to the provider. The request carries the given headers and is
// bound to req's context; a single attempt is made with no retry on failure.
func GetJSON(req *http.Request, client *http.Client, limiter *rate.Limiter, v any) error {
	if limiter != nil {
		if err := limiter.Wait(req.Context()); err != nil {
			return fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}
