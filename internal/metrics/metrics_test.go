// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCall(t *testing.T) {
	c := New()
	c.RecordCall("crossref", 100*time.Millisecond, true)
	c.RecordCall("crossref", 300*time.Millisecond, false)
	c.RecordCall("semantic_scholar", 50*time.Millisecond, true)

	snap := c.Snapshot()
	require.Len(t, snap.Providers, 2)

	cr := snap.Providers["crossref"]
	assert.Equal(t, int64(2), cr.Count)
	assert.InDelta(t, 200.0, cr.AvgResponseMS, 1)
	assert.InDelta(t, 50.0, cr.ErrorRatePct, 0.01)

	s2 := snap.Providers["semantic_scholar"]
	assert.Equal(t, int64(1), s2.Count)
	assert.Zero(t, s2.ErrorRatePct)
}

func TestRecordRequest(t *testing.T) {
	c := New()
	c.RecordRequest(20 * time.Millisecond)
	c.RecordRequest(40 * time.Millisecond)

	snap := c.Snapshot()
	assert.Equal(t, int64(2), snap.RequestCount)
	assert.InDelta(t, 30.0, snap.AvgResponseMS, 1)
}

func TestSnapshotEmpty(t *testing.T) {
	snap := New().Snapshot()
	assert.Zero(t, snap.RequestCount)
	assert.Zero(t, snap.AvgResponseMS)
	assert.Empty(t, snap.Providers)
	assert.GreaterOrEqual(t, snap.UptimeMS, int64(0))
}

func TestConcurrentRecording(t *testing.T) {
	c := New()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				c.RecordCall("crossref", time.Millisecond, true)
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	assert.Equal(t, int64(800), c.Snapshot().Providers["crossref"].Count)
}
