// Package engine implements the optimal timing pipeline: scanning a month of
// hourly charts, consolidating, distributing and materializing the results.
package engine

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/analyzer"
	"github.com/Veraticus/the-stars-must-align/internal/common"
	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/Veraticus/the-stars-must-align/internal/patterns"
	"github.com/Veraticus/the-stars-must-align/internal/service"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyChart is returned when the oracle answers without any planets.
var ErrEmptyChart = errors.New("ephemeris returned no planets")

// SlotsPerDay is the number of hourly moments scanned each day.
const SlotsPerDay = 24

// Config holds configuration options for the scanner.
type Config struct {
	Location *time.Location
	Workers  int
	Throttle time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Location: time.UTC,
		Workers:  4,
	}
}

// ProgressFunc receives the number of finished slots. It may be called from
// several goroutines.
type ProgressFunc func(done, total int)

// Scanner evaluates every hourly moment of a month.
type Scanner struct {
	ephemeris service.Ephemeris
	analyzer  *analyzer.Analyzer
	progress  ProgressFunc
	config    Config
}

// NewScanner creates a scanner with the given dependencies.
func NewScanner(ephemeris service.Ephemeris, an *analyzer.Analyzer, config Config) *Scanner {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	return &Scanner{
		ephemeris: ephemeris,
		analyzer:  an,
		config:    config,
	}
}

// OnProgress registers a progress callback.
func (s *Scanner) OnProgress(fn ProgressFunc) {
	s.progress = fn
}

// Slots yields every hourly moment of a month in order, indexed from zero.
// A local hour skipped by a daylight saving shift normalizes onto its
// neighbor and is yielded only once.
func Slots(year int, month time.Month, loc *time.Location) iter.Seq2[int, time.Time] {
	if loc == nil {
		loc = time.UTC
	}
	days := model.DaysIn(month, year)
	return func(yield func(int, time.Time) bool) {
		i := 0
		var prev time.Time
		for day := 1; day <= days; day++ {
			for hour := 0; hour < SlotsPerDay; hour++ {
				at := time.Date(year, month, day, hour, 0, 0, 0, loc)
				if i > 0 && at.Equal(prev) {
					continue
				}
				if !yield(i, at) {
					return
				}
				prev = at
				i++
			}
		}
	}
}

// Scan scores every slot with all three methods and returns the results that
// clear their threshold, sorted by moment. A failing slot is counted and
// skipped. Cancellation stops new slots from starting; results collected so
// far are returned with Canceled set.
func (s *Scanner) Scan(ctx context.Context, req model.ScanRequest) ([]model.TimingResult, model.ScanStats, error) {
	var stats model.ScanStats
	if err := req.Validate(); err != nil {
		return nil, stats, err
	}

	loc := req.Location
	if loc == nil {
		loc = s.config.Location
	}

	var moments []time.Time
	for _, at := range Slots(req.Year, req.Month, loc) {
		moments = append(moments, at)
	}
	total := len(moments)
	stats.Slots = total
	cells := make([][]model.TimingResult, total)

	slog.Info("Starting timing scan",
		"year", req.Year,
		"month", req.Month.String(),
		"priorities", req.Priorities,
		"slots", total,
		"workers", s.config.Workers)

	var (
		failures atomic.Int64
		finished atomic.Int64
	)

	g := new(errgroup.Group)
	g.SetLimit(s.config.Workers)

	for i, at := range moments {
		if ctx.Err() != nil {
			stats.Canceled = true
			break
		}
		if s.config.Throttle > 0 && i > 0 {
			if !sleep(ctx, s.config.Throttle) {
				stats.Canceled = true
				break
			}
		}

		g.Go(func() error {
			results, err := s.scanSlot(ctx, at, req)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					failures.Add(1)
					common.LogDebug("Skipping slot", common.Fields{"moment": at, "error": err.Error()})
				}
			} else {
				cells[i] = results
			}
			if s.progress != nil {
				s.progress(int(finished.Add(1)), total)
			}
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		stats.Canceled = true
	}

	var results []model.TimingResult
	for _, cell := range cells {
		results = append(results, cell...)
	}
	SortChronologically(results)

	stats.Errors = int(failures.Load())
	stats.RawResults = len(results)

	slog.Info("Timing scan complete",
		"raw_results", stats.RawResults,
		"errors", stats.Errors,
		"canceled", stats.Canceled)

	return results, stats, nil
}

// scanSlot computes and scores one moment. Panics are converted to errors so
// one bad chart cannot abort the scan.
func (s *Scanner) scanSlot(ctx context.Context, at time.Time, req model.ScanRequest) (results []model.TimingResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("slot %s panicked: %v", at.Format(time.RFC3339), r)
		}
	}()

	chart, err := s.ephemeris.Positions(ctx, at, req.Latitude, req.Longitude)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate positions: %w", err)
	}
	if chart == nil || len(chart.Planets) == 0 {
		return nil, ErrEmptyChart
	}
	if err := chart.Validate(); err != nil {
		return nil, err
	}

	thresholds := s.analyzer.Rules().Thresholds
	magic := patterns.DetectMagicFormula(chart)

	for _, method := range model.Methods {
		score := s.analyzer.Score(chart, req.Priorities, method, at)
		keep := score >= thresholds.For(method) ||
			(magic.Active() && score >= thresholds.MagicFloor)
		if !keep {
			continue
		}
		results = append(results, model.TimingResult{
			Moment:       at,
			Score:        score,
			Description:  s.describe(chart, req.Priorities, method),
			Priorities:   req.Priorities,
			Chart:        chart,
			Method:       method,
			MagicFormula: magic,
		})
	}
	return results, nil
}

// describe prefers a matching combo, then the two most relevant aspects,
// then a generic line for the method.
func (s *Scanner) describe(chart *model.Chart, priorities []model.Priority, method model.Method) string {
	if combo, ok := s.analyzer.MatchingCombo(chart, priorities); ok {
		return fmt.Sprintf("%s: %s", combo.Name, combo.Description)
	}

	if aspects := s.analyzer.RelevantAspects(chart, priorities, 2); len(aspects) > 0 {
		parts := make([]string, len(aspects))
		for i, a := range aspects {
			parts[i] = a.String()
		}
		return strings.Join(parts, ", ")
	}

	switch method {
	case model.MethodAspects:
		return "Harmonious aspect pattern"
	case model.MethodElectional:
		return "Electionally sound moment"
	default:
		return "Supportive house placements"
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

var methodOrder = map[model.Method]int{
	model.MethodHouses:     0,
	model.MethodAspects:    1,
	model.MethodElectional: 2,
}

// SortChronologically orders results by moment, then method.
func SortChronologically(results []model.TimingResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if !results[i].Moment.Equal(results[j].Moment) {
			return results[i].Moment.Before(results[j].Moment)
		}
		return methodOrder[results[i].Method] < methodOrder[results[j].Method]
	})
}
