package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/astro"
	"github.com/Veraticus/the-stars-must-align/internal/common"
	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/Veraticus/the-stars-must-align/internal/service"
	"github.com/Veraticus/the-stars-must-align/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var equinox = time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC)

func TestApproximatePositions(t *testing.T) {
	eph := NewApproximate()

	chart, err := eph.Positions(context.Background(), equinox, 40.7128, -74.0060)
	require.NoError(t, err)
	require.NoError(t, chart.Validate())

	assert.Len(t, chart.Planets, len(model.CoreBodies)+1)
	assert.Equal(t, equinox, chart.Time)

	sun, ok := chart.Planet(model.Sun)
	require.True(t, ok)
	assert.Less(t, astro.Separation(sun.Longitude, 0), 5.0, "sun should sit near 0° Aries at the equinox")
	assert.InDelta(t, 1.0, sun.DailyMotion, 0.1)
	assert.False(t, sun.Retrograde)

	for _, p := range chart.Planets {
		assert.GreaterOrEqual(t, p.House, 1)
		assert.LessOrEqual(t, p.House, 12)
		assert.Equal(t, astro.SignOf(p.Longitude), p.Sign)
	}

	again, err := eph.Positions(context.Background(), equinox, 40.7128, -74.0060)
	require.NoError(t, err)
	assert.Equal(t, chart, again)
}

func TestApproximateRejects(t *testing.T) {
	eph := NewApproximate()

	_, err := eph.Positions(context.Background(), time.Time{}, 0, 0)
	assert.ErrorIs(t, err, model.ErrInvalidChart)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = eph.Positions(ctx, equinox, 0, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

const positionsBody = `{
	"ascendant": 0,
	"planets": [
		{"name": "Sun", "longitude": 10, "speed": 1.0},
		{"name": "Jupiter", "longitude": 132, "speed": 0.1, "house": 5},
		{"name": "Mercury", "longitude": 355, "speed": -0.5},
		{"name": "North Node", "longitude": 20, "speed": -0.05}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *atomic.Int64) {
	t.Helper()

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPOptions{
		BaseURL:        server.URL + "/",
		RequestsPerSec: 1000,
		Burst:          10,
		Retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Millisecond,
			MaxDelay:     5 * time.Millisecond,
		},
	})
	require.NoError(t, err)
	return client, &calls
}

func TestHTTPClientPositions(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/positions", r.URL.Path)
		assert.Equal(t, "2025-03-20T09:00:00Z", r.URL.Query().Get("timestamp"))
		assert.Equal(t, "40.712800", r.URL.Query().Get("lat"))
		assert.Equal(t, "-74.006000", r.URL.Query().Get("lon"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, positionsBody)
	})

	chart, err := client.Positions(context.Background(), equinox, 40.7128, -74.0060)
	require.NoError(t, err)
	assert.Equal(t, int64(1), calls.Load())

	require.Len(t, chart.Planets, 4)
	sun, _ := chart.Planet(model.Sun)
	assert.Equal(t, model.Aries, sun.Sign)
	assert.Equal(t, 1, sun.House)

	jupiter, _ := chart.Planet(model.Jupiter)
	assert.Equal(t, 5, jupiter.House)

	mercury, _ := chart.Planet(model.Mercury)
	assert.True(t, mercury.Retrograde)
	assert.Equal(t, model.Pisces, mercury.Sign)

	_, ok := chart.Planet(model.NorthNode)
	assert.True(t, ok)

	trine, ok := chart.AspectBetween(model.Sun, model.Jupiter)
	require.True(t, ok, "aspects should be derived when the payload has none")
	assert.Equal(t, model.Trine, trine.Kind)
}

func TestHTTPClientRetries(t *testing.T) {
	tests := []struct {
		wantIs    error
		name      string
		status    []int
		wantCalls int64
		wantErr   bool
	}{
		{name: "recovers from server error", status: []int{500, 200}, wantCalls: 2},
		{name: "recovers from rate limit", status: []int{429, 429, 200}, wantCalls: 3},
		{name: "gives up on persistent rate limit", status: []int{429, 429, 429, 429}, wantCalls: 3, wantErr: true, wantIs: common.ErrMaxRetries},
		{name: "bad request is not retried", status: []int{400}, wantCalls: 1, wantErr: true, wantIs: common.ErrEphemeris},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n atomic.Int64
			client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				i := int(n.Add(1)) - 1
				status := tt.status[min(i, len(tt.status)-1)]
				if status != http.StatusOK {
					http.Error(w, "nope", status)
					return
				}
				_, _ = fmt.Fprint(w, positionsBody)
			})

			chart, err := client.Positions(context.Background(), equinox, 0, 0)
			assert.Equal(t, tt.wantCalls, calls.Load())
			if !tt.wantErr {
				require.NoError(t, err)
				assert.NotNil(t, chart)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrEphemeris)
			assert.ErrorIs(t, err, tt.wantIs)
		})
	}
}

func TestHTTPClientRejectsInvalidPayload(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"planets": [{"name": "Sun", "longitude": 10, "house": 13}]}`)
	})

	_, err := client.Positions(context.Background(), equinox, 0, 0)
	assert.ErrorIs(t, err, model.ErrInvalidChart)
	assert.Equal(t, int64(1), calls.Load())

	garbage, garbageCalls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `not json`)
	})
	_, err = garbage.Positions(context.Background(), equinox, 0, 0)
	assert.ErrorIs(t, err, common.ErrEphemeris)
	assert.Equal(t, int64(1), garbageCalls.Load())
}

func TestHTTPClientWireAspects(t *testing.T) {
	const planets = `"planets": [
		{"name": "Sun", "longitude": 10, "speed": 1.0},
		{"name": "North Node", "longitude": 70, "speed": -0.05}
	]`

	tests := []struct {
		wantIs  error
		name    string
		aspects string
	}{
		{name: "multi-word names match planets", aspects: `[{"planet1": "Sun", "planet2": "North Node", "type": "Sextile", "orb": 0}]`},
		{name: "unknown planet is rejected", aspects: `[{"planet1": "Sun", "planet2": "Chiron", "type": "sextile", "orb": 1}]`, wantIs: model.ErrInvalidChart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = fmt.Fprintf(w, `{%s, "aspects": %s}`, planets, tt.aspects)
			})

			chart, err := client.Positions(context.Background(), equinox, 0, 0)
			assert.Equal(t, int64(1), calls.Load())
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
				return
			}
			require.NoError(t, err)
			aspect, ok := chart.AspectBetween(model.Sun, model.NorthNode)
			require.True(t, ok)
			assert.Equal(t, model.Sextile, aspect.Kind)
		})
	}
}

func TestNewHTTPClientRequiresURL(t *testing.T) {
	_, err := NewHTTPClient(HTTPOptions{BaseURL: "  "})
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestCached(t *testing.T) {
	next := testutil.StaticEphemeris(testutil.QuietChart(time.Time{}))
	cached := NewCached(next, time.Hour)
	defer cached.Close()

	ctx := context.Background()
	first, err := cached.Positions(ctx, equinox, 51.5, -0.1)
	require.NoError(t, err)
	second, err := cached.Positions(ctx, equinox, 51.5, -0.1)
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = cached.Positions(ctx, equinox, 40.7, -74.0)
	require.NoError(t, err)
	_, err = cached.Positions(ctx, equinox.Add(time.Hour), 51.5, -0.1)
	require.NoError(t, err)

	hits, misses := cached.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(3), misses)
	assert.Equal(t, 3, next.Calls())
}

func TestCachedSkipsErrorsAndExpires(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	next := testutil.NewFakeEphemeris(func(at time.Time) (*model.Chart, error) {
		if fail.Load() {
			return nil, errors.New("oracle down")
		}
		return testutil.QuietChart(at), nil
	})
	cached := NewCached(next, 20*time.Millisecond)
	defer cached.Close()

	ctx := context.Background()
	_, err := cached.Positions(ctx, equinox, 0, 0)
	require.Error(t, err)

	fail.Store(false)
	_, err = cached.Positions(ctx, equinox, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Calls())

	time.Sleep(40 * time.Millisecond)
	_, err = cached.Positions(ctx, equinox, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, next.Calls())

	cached.Close()
}
