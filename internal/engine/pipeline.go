package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/analyzer"
	"github.com/Veraticus/the-stars-must-align/internal/common"
	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/Veraticus/the-stars-must-align/internal/rules"
	"github.com/Veraticus/the-stars-must-align/internal/service"
	"github.com/Veraticus/the-stars-must-align/internal/title"
)

// Pipeline runs scan, consolidation, distribution and materialization.
type Pipeline struct {
	scanner      *Scanner
	titles       *title.Generator
	materializer *Materializer
}

// NewPipeline wires a pipeline over an oracle and rule set.
func NewPipeline(ephemeris service.Ephemeris, set rules.Set, config Config) (*Pipeline, error) {
	if ephemeris == nil {
		return nil, fmt.Errorf("%w: ephemeris", common.ErrMissingConfig)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}

	an := analyzer.New(set)
	titles := title.New(set.Criteria)
	return &Pipeline{
		scanner:      NewScanner(ephemeris, an, config),
		titles:       titles,
		materializer: NewMaterializer(titles, set.Prohibitions),
	}, nil
}

// Scanner exposes the underlying scanner, e.g. to attach a progress callback.
func (p *Pipeline) Scanner() *Scanner {
	return p.scanner
}

// Run scans a month and returns the materialized events. A month with no
// viable moment, even after the fallback pass, is a user-facing error.
func (p *Pipeline) Run(ctx context.Context, req model.ScanRequest) (*model.ScanReport, error) {
	start := time.Now()

	results, stats, err := p.scanner.Scan(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	consolidated := Consolidate(results, req.Priorities, p.titles)
	stats.Consolidated = len(consolidated)

	selected, usedFallback := Distribute(consolidated, req.DaysInMonth())
	stats.UsedFallback = usedFallback
	stats.Selected = len(selected)
	stats.Elapsed = time.Since(start)

	report := &model.ScanReport{
		CreatedAt: time.Now().UTC(),
		Request:   req,
		Stats:     stats,
	}

	if len(selected) == 0 && !stats.Canceled {
		period := fmt.Sprintf("%s %d", req.Month, req.Year)
		return report, common.NewUserError(
			fmt.Sprintf("No favorable timing found for %s. Try adjusting your priorities or scanning a different month.", period),
			fmt.Errorf("%w for %s", common.ErrNoViableTiming, period),
		)
	}

	report.Events = p.materializer.Materialize(selected)

	slog.Info("Timing pipeline complete",
		"raw", stats.RawResults,
		"consolidated", stats.Consolidated,
		"selected", stats.Selected,
		"fallback", stats.UsedFallback,
		"elapsed", stats.Elapsed.Round(time.Millisecond))

	return report, nil
}
