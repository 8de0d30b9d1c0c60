package engine

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/common"
	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/Veraticus/the-stars-must-align/internal/rules"
	"github.com/Veraticus/the-stars-must-align/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelineValidation(t *testing.T) {
	_, err := NewPipeline(nil, rules.Default(), DefaultConfig())
	require.ErrorIs(t, err, common.ErrMissingConfig)

	set := rules.Default()
	set.MoonPhases[model.NewMoon] = -1
	_, err = NewPipeline(testutil.StaticEphemeris(testutil.QuietChart(time.Time{})), set, DefaultConfig())
	require.ErrorIs(t, err, rules.ErrInvalidRules)
}

func TestPipelineRun(t *testing.T) {
	eph := testutil.NewFakeEphemeris(func(at time.Time) (*model.Chart, error) {
		return sunInTenth(at), nil
	})
	pipeline, err := NewPipeline(eph, rules.Default(), DefaultConfig())
	require.NoError(t, err)

	report, err := pipeline.Run(context.Background(), marchRequest(model.Career))
	require.NoError(t, err)
	require.NotNil(t, report)

	stats := report.Stats
	assert.Equal(t, marchSlots, stats.Slots)
	assert.Equal(t, 2*marchSlots, stats.RawResults)
	assert.Equal(t, 31, stats.Consolidated)
	assert.Equal(t, 31, stats.Selected)
	assert.False(t, stats.UsedFallback)
	assert.Len(t, report.Events, 31)

	first := report.Events[0]
	assert.Equal(t, "2025-03-01", first.Date)
	assert.Equal(t, model.EventBenefic, first.Type)
	require.NotNil(t, first.Window)
	assert.Equal(t, "24 hours", first.Window.Duration)
	assert.Equal(t, "Sun (Ruler) in the 10th House for Career", first.Title)
}

func TestPipelineNoViableTiming(t *testing.T) {
	eph := testutil.StaticEphemeris(testutil.QuietChart(time.Time{}))
	pipeline, err := NewPipeline(eph, rules.Default(), DefaultConfig())
	require.NoError(t, err)

	report, err := pipeline.Run(context.Background(), marchRequest(model.Travel))
	require.ErrorIs(t, err, common.ErrNoViableTiming)
	assert.Equal(t,
		"No favorable timing found for March 2025. Try adjusting your priorities or scanning a different month.",
		common.UserMessage(err))

	require.NotNil(t, report)
	assert.Empty(t, report.Events)
	assert.True(t, report.Stats.UsedFallback)
	assert.Equal(t, marchSlots, report.Stats.Slots)
}

func TestPipelineRejectsEmptyPriorities(t *testing.T) {
	eph := testutil.StaticEphemeris(testutil.QuietChart(time.Time{}))
	pipeline, err := NewPipeline(eph, rules.Default(), DefaultConfig())
	require.NoError(t, err)

	report, err := pipeline.Run(context.Background(), marchRequest())
	require.ErrorIs(t, err, model.ErrNoPriorities)
	assert.Nil(t, report)
	assert.Equal(t, 0, eph.Calls())
}

func TestPipelineCanceledBeforeStart(t *testing.T) {
	eph := testutil.StaticEphemeris(sunInTenth(time.Time{}))
	pipeline, err := NewPipeline(eph, rules.Default(), DefaultConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := pipeline.Run(ctx, marchRequest(model.Career))
	require.NoError(t, err, "an interrupted scan is not a failed search")
	require.NotNil(t, report)
	assert.True(t, report.Stats.Canceled)
	assert.Empty(t, report.Events)
	assert.Equal(t, 0, eph.Calls())
}
