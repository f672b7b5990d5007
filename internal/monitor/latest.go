// Package monitor holds the most recent analysis and serves the band debug
// pages: echarts scatter/bar/heatmap views and a gonum/plot PNG.
package monitor

import (
	"sync"
	"time"

	"github.com/banshee-data/range.report/internal/bands"
	"github.com/banshee-data/range.report/internal/timeutil"
)

// Snapshot captures one completed analysis for the debug pages.
type Snapshot struct {
	Result *bands.Result
	Batch  bands.PointBatch
	Config bands.Config
	Taken  time.Time
}

// Latest holds the most recent analysis snapshot. Writers overwrite, readers
// get the newest; there is no history.
type Latest struct {
	mu    sync.Mutex
	clock timeutil.Clock
	snap  *Snapshot
}

// NewLatest creates an empty holder. A nil clock uses the real time.
func NewLatest(clock timeutil.Clock) *Latest {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Latest{clock: clock}
}

// Set records res and the batch and configuration it was computed from as
// the latest analysis.
func (l *Latest) Set(res *bands.Result, batch bands.PointBatch, cfg bands.Config) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.snap = &Snapshot{
		Result: res,
		Batch:  batch,
		Config: cfg,
		Taken:  l.clock.Now(),
	}
}

// Get returns the latest snapshot, or nil when no analysis has been recorded.
func (l *Latest) Get() *Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap
}

// Age returns how long ago the latest snapshot was recorded. ok is false
// when the holder is empty.
func (l *Latest) Age() (age time.Duration, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.snap == nil {
		return 0, false
	}
	return l.clock.Since(l.snap.Taken), true
}
