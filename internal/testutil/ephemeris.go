package testutil

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/model"
)

// ChartFunc produces a chart for a moment.
type ChartFunc func(at time.Time) (*model.Chart, error)

// FakeEphemeris is a scripted oracle. It is safe for concurrent use.
type FakeEphemeris struct {
	fn    ChartFunc
	calls atomic.Int64
	mu    sync.Mutex
	seen  []time.Time
}

// NewFakeEphemeris creates an oracle answering with fn.
func NewFakeEphemeris(fn ChartFunc) *FakeEphemeris {
	return &FakeEphemeris{fn: fn}
}

// StaticEphemeris answers every request with a copy of chart.
func StaticEphemeris(chart *model.Chart) *FakeEphemeris {
	return NewFakeEphemeris(func(at time.Time) (*model.Chart, error) {
		c := *chart
		c.Time = at
		return &c, nil
	})
}

// Positions implements service.Ephemeris.
func (f *FakeEphemeris) Positions(ctx context.Context, at time.Time, _, _ float64) (*model.Chart, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.calls.Add(1)
	f.mu.Lock()
	f.seen = append(f.seen, at)
	f.mu.Unlock()
	return f.fn(at)
}

// Calls returns the number of answered requests.
func (f *FakeEphemeris) Calls() int {
	return int(f.calls.Load())
}

// Seen returns the requested moments in call order.
func (f *FakeEphemeris) Seen() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.seen...)
}
