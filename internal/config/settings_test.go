package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", "/home/astrologer")

	s, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "info", s.Logging.Level)
	assert.Equal(t, "console", s.Logging.Format)
	assert.Equal(t, "/home/astrologer/.local/share/stars/stars.db", s.Database.Path)
	assert.Equal(t, ProviderApproximate, s.Ephemeris.Provider)
	assert.Equal(t, 3, s.Ephemeris.MaxAttempts)
	assert.Equal(t, 10*time.Second, s.Ephemeris.Timeout)
	assert.Equal(t, 6*time.Hour, s.Ephemeris.CacheTTL)
	assert.Equal(t, 4, s.Scan.Workers)
	assert.Equal(t, ":8080", s.Server.Addr)
	assert.False(t, s.Server.TLS)
	assert.Equal(t, "/home/astrologer/.local/share/stars/certs", s.Server.CertDir)

	loc, err := s.TimeLocation()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STARS_SCAN_WORKERS", "8")
	t.Setenv("STARS_EPHEMERIS_PROVIDER", "http")
	t.Setenv("STARS_EPHEMERIS_URL", "https://ephemeris.example.com/v1/positions")
	t.Setenv("STARS_LOCATION_TIMEZONE", "America/New_York")

	v := viper.New()
	v.SetEnvPrefix("STARS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	s, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 8, s.Scan.Workers)
	assert.Equal(t, ProviderHTTP, s.Ephemeris.Provider)
	assert.Equal(t, "https://ephemeris.example.com/v1/positions", s.Ephemeris.URL)

	loc, err := s.TimeLocation()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: `+filepath.Join(dir, "stars.db")+`
location:
  latitude: 51.5074
  longitude: -0.1278
  timezone: Europe/London
scan:
  throttle: 5ms
`), 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "stars.db"), s.Database.Path)
	assert.InDelta(t, 51.5074, s.Location.Latitude, 1e-9)
	assert.Equal(t, 5*time.Millisecond, s.Scan.Throttle)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		mutate func(*Settings)
		want   error
		name   string
	}{
		{
			name:   "http without url",
			mutate: func(s *Settings) { s.Ephemeris.Provider = ProviderHTTP },
			want:   common.ErrMissingConfig,
		},
		{
			name:   "unknown provider",
			mutate: func(s *Settings) { s.Ephemeris.Provider = "tarot" },
			want:   common.ErrInvalidConfig,
		},
		{
			name:   "no workers",
			mutate: func(s *Settings) { s.Scan.Workers = 0 },
			want:   common.ErrInvalidConfig,
		},
		{
			name:   "latitude out of range",
			mutate: func(s *Settings) { s.Location.Latitude = 91 },
			want:   common.ErrInvalidConfig,
		},
		{
			name:   "longitude out of range",
			mutate: func(s *Settings) { s.Location.Longitude = -181 },
			want:   common.ErrInvalidConfig,
		},
		{
			name:   "bad timezone",
			mutate: func(s *Settings) { s.Location.Timezone = "Mars/Olympus_Mons" },
			want:   common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(viper.New())
			require.NoError(t, err)
			tt.mutate(s)
			assert.ErrorIs(t, s.Validate(), tt.want)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("STARS_TEST_DOTENV=loaded\n"), 0o600))
	t.Setenv("STARS_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("STARS_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "loaded", os.Getenv("STARS_TEST_DOTENV"))
}

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/astrologer")
	t.Setenv("STARS_DIR", "/var/lib/stars")

	assert.Equal(t, "/home/astrologer/stars.db", ExpandPath("~/stars.db"))
	assert.Equal(t, "/var/lib/stars/stars.db", ExpandPath("$STARS_DIR/stars.db"))
	assert.Equal(t, "/home/astrologer", ExpandPath("~"))
	assert.Equal(t, "/etc/stars.yaml", ExpandPath("/etc/stars.yaml"))
	assert.Empty(t, ExpandPath(""))
}
