package ephemeris

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/astro"
	"github.com/Veraticus/the-stars-must-align/internal/common"
	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/Veraticus/the-stars-must-align/internal/service"
	"golang.org/x/time/rate"
)

// HTTPOptions configures the remote oracle client.
type HTTPOptions struct {
	HTTPClient     *http.Client
	BaseURL        string
	Retry          service.RetryOptions
	Timeout        time.Duration
	RequestsPerSec float64
	Burst          int
}

// HTTPClient fetches charts from a remote position service.
type HTTPClient struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	retry   service.RetryOptions
}

type wirePlanet struct {
	Name       string  `json:"name"`
	Sign       string  `json:"sign"`
	Longitude  float64 `json:"longitude"`
	Speed      float64 `json:"speed"`
	House      int     `json:"house"`
	Retrograde bool    `json:"retrograde"`
}

type wireAspect struct {
	Planet1  string  `json:"planet1"`
	Planet2  string  `json:"planet2"`
	Type     string  `json:"type"`
	Orb      float64 `json:"orb"`
	Applying bool    `json:"applying"`
}

type wireChart struct {
	Planets   []wirePlanet `json:"planets"`
	Aspects   []wireAspect `json:"aspects"`
	Ascendant float64      `json:"ascendant"`
}

// NewHTTPClient creates a rate-limited, retrying oracle client.
func NewHTTPClient(opts HTTPOptions) (*HTTPClient, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, fmt.Errorf("%w: ephemeris base URL", common.ErrMissingConfig)
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("%w: ephemeris base URL: %v", common.ErrInvalidConfig, err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &HTTPClient{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.Burst),
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		retry:   opts.Retry,
	}, nil
}

// Positions requests a chart, retrying transient failures.
func (c *HTTPClient) Positions(ctx context.Context, at time.Time, latitude, longitude float64) (*model.Chart, error) {
	var wire wireChart
	err := common.WithRetry(ctx, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return &common.RetryableError{Err: err, Retryable: false}
		}
		var fetchErr error
		wire, fetchErr = c.fetch(ctx, at, latitude, longitude)
		return fetchErr
	}, c.retry)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrEphemeris, err)
	}

	chart, err := toChart(wire, at, latitude, longitude)
	if err != nil {
		return nil, err
	}
	return chart, nil
}

func (c *HTTPClient) fetch(ctx context.Context, at time.Time, latitude, longitude float64) (wireChart, error) {
	q := url.Values{}
	q.Set("timestamp", at.UTC().Format(time.RFC3339))
	q.Set("lat", strconv.FormatFloat(latitude, 'f', 6, 64))
	q.Set("lon", strconv.FormatFloat(longitude, 'f', 6, 64))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/positions?"+q.Encode(), nil)
	if err != nil {
		return wireChart{}, &common.RetryableError{Err: err, Retryable: false}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return wireChart{}, &common.RetryableError{Err: err, Retryable: ctx.Err() == nil}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return wireChart{}, &common.RetryableError{Err: common.ErrEphemerisRateLimit, Retryable: true}
	case resp.StatusCode >= 500:
		return wireChart{}, &common.RetryableError{Err: fmt.Errorf("ephemeris server error: status %d", resp.StatusCode), Retryable: true}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return wireChart{}, &common.RetryableError{
			Err:       fmt.Errorf("ephemeris request rejected: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
			Retryable: false,
		}
	}

	var wire wireChart
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return wireChart{}, &common.RetryableError{Err: fmt.Errorf("failed to decode ephemeris response: %w", err), Retryable: false}
	}
	return wire, nil
}

// toChart validates the wire payload into the closed chart shape. Signs are
// derived from longitude; missing houses are computed from the ascendant and
// missing aspects from the planet set.
func toChart(wire wireChart, at time.Time, latitude, longitude float64) (*model.Chart, error) {
	planets := make([]model.PlanetPosition, 0, len(wire.Planets))
	for _, wp := range wire.Planets {
		lon := model.NormalizeDegrees(wp.Longitude)
		house := wp.House
		if house == 0 {
			house = astro.HouseFromAscendant(lon, wire.Ascendant)
		}
		planets = append(planets, model.PlanetPosition{
			Name:        planetName(wp.Name),
			Longitude:   lon,
			Sign:        astro.SignOf(lon),
			House:       house,
			Retrograde:  wp.Retrograde || wp.Speed < 0,
			DailyMotion: wp.Speed,
		})
	}

	var aspects []model.ChartAspect
	if len(wire.Aspects) == 0 {
		aspects = astro.ComputeAspects(planets)
	} else {
		aspects = make([]model.ChartAspect, 0, len(wire.Aspects))
		for _, wa := range wire.Aspects {
			aspects = append(aspects, model.ChartAspect{
				Planet1:  planetName(wa.Planet1),
				Planet2:  planetName(wa.Planet2),
				Kind:     model.AspectKind(strings.ToLower(wa.Type)),
				Orb:      wa.Orb,
				Applying: wa.Applying,
			})
		}
	}

	chart := &model.Chart{
		Time:      at,
		Latitude:  latitude,
		Longitude: longitude,
		Ascendant: model.NormalizeDegrees(wire.Ascendant),
		Planets:   planets,
		Aspects:   aspects,
	}
	if err := chart.Validate(); err != nil {
		return nil, err
	}
	return chart, nil
}

// planetName maps a wire name such as "North Node" onto its planet key.
func planetName(name string) model.Planet {
	return model.Planet(strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "")))
}
