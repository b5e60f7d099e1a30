// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics collects provider call and request counters. The Collector
// is an explicitly owned, injectable sink rather than ambient global state,
// so tests substitute a fresh instance per run.
package metrics

import (
	"sync"
	"time"
)

// Collector accumulates process-wide counters. All methods are safe for
// concurrent use.
type Collector struct {
	mu sync.Mutex

	start         time.Time
	requestCount  int64
	totalResponse time.Duration
	providers     map[string]*providerStats
}

type providerStats struct {
	count  int64
	total  time.Duration
	errors int64
}

// New returns an empty Collector with its uptime clock started.
func New() *Collector {
	return &Collector{
		start:     time.Now(),
		providers: make(map[string]*providerStats),
	}
}

// RecordCall records one outbound provider call: which provider, how long it
// took, and whether it succeeded.
func (c *Collector) RecordCall(provider string, elapsed time.Duration, success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.providers[provider]
	if !ok {
		s = &providerStats{}
		c.providers[provider] = s
	}
	s.count++
	s.total += elapsed
	if !success {
		s.errors++
	}
}

// RecordRequest records one handled request and its response time.
func (c *Collector) RecordRequest(elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requestCount++
	c.totalResponse += elapsed
}

// ProviderSnapshot is the averaged view of one provider's call history.
type ProviderSnapshot struct {
	Count         int64   `json:"count"`
	AvgResponseMS float64 `json:"avg_response_ms"`
	ErrorRatePct  float64 `json:"error_rate_pct"`
}

// Snapshot is a point-in-time view of the collected counters.
type Snapshot struct {
	UptimeMS      int64                       `json:"uptime_ms"`
	RequestCount  int64                       `json:"request_count"`
	AvgResponseMS float64                     `json:"avg_response_ms"`
	Providers     map[string]ProviderSnapshot `json:"api_calls"`
}

// Snapshot returns the current counters with per-provider averages and
// error rates computed.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		UptimeMS:     time.Since(c.start).Milliseconds(),
		RequestCount: c.requestCount,
		Providers:    make(map[string]ProviderSnapshot, len(c.providers)),
	}
	if c.requestCount > 0 {
		snap.AvgResponseMS = float64(c.totalResponse.Milliseconds()) / float64(c.requestCount)
	}
	for name, s := range c.providers {
		ps := ProviderSnapshot{Count: s.count}
		if s.count > 0 {
			ps.AvgResponseMS = float64(s.total.Milliseconds()) / float64(s.count)
			ps.ErrorRatePct = float64(s.errors) / float64(s.count) * 100
		}
		snap.Providers[name] = ps
	}
	return snap
}
