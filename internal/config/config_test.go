package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("FINECALC_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Store.Driver)
	require.Equal(t, filepath.Join(home, ".local", "share", "finecalc", "finecalc.db"), cfg.Store.Path)
	require.Equal(t, 10*time.Minute, cfg.Store.CacheTTL)
	require.Equal(t, "shift_jis", cfg.Store.Encoding)
	require.Equal(t, 72, cfg.Wanted.DurationHours)
	require.Equal(t, "Asia/Tokyo", cfg.UI.Timezone)
	require.Equal(t, "2006/01/02 15:04", cfg.UI.TimeFormat)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FINECALC_CONFIG", "")
	t.Setenv("FINECALC_STORE_DRIVER", "csv")
	t.Setenv("FINECALC_WANTED_DURATION_HOURS", "24")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "csv", cfg.Store.Driver)
	require.Equal(t, 24, cfg.Wanted.DurationHours)
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "conf", "config.toml")
	t.Setenv("FINECALC_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Store.Driver = "csv"
	cfg.Store.CacheTTL = 90 * time.Second
	cfg.Wanted.DurationHours = 48
	require.NoError(t, Save(cfg))

	_, err = os.Stat(path)
	require.NoError(t, err)

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, "csv", got.Store.Driver)
	require.Equal(t, 90*time.Second, got.Store.CacheTTL)
	require.Equal(t, 48, got.Wanted.DurationHours)
}

func TestLocationFallback(t *testing.T) {
	t.Parallel()

	loc := Config{UI: UIConfig{Timezone: "Not/AZone"}}.Location()
	_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, loc).Zone()
	require.Equal(t, 9*60*60, offset)
}
