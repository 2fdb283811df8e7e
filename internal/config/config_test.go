package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CATALOG_URL", "")
	t.Setenv("PAGE_COUNT", "")
	t.Setenv("FETCH_TIMEOUT", "")
	t.Setenv("OUTPUT_PATH", "")

	cfg := Load()
	require.Equal(t, "https://shopvnb.com/vot-cau-long.html", cfg.CatalogURL)
	require.Equal(t, 30, cfg.PageCount)
	require.Equal(t, 5*time.Second, cfg.FetchTimeout)
	require.Equal(t, "./file-local/merged_data.xlsx", cfg.OutputPath)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PAGE_COUNT", "3")
	t.Setenv("FETCH_TIMEOUT", "250ms")
	t.Setenv("OUTPUT_PATH", "/tmp/out.xlsx")

	cfg := Load()
	require.Equal(t, 3, cfg.PageCount)
	require.Equal(t, 250*time.Millisecond, cfg.FetchTimeout)
	require.Equal(t, "/tmp/out.xlsx", cfg.OutputPath)
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("PAGE_COUNT", "-2")
	t.Setenv("FETCH_TIMEOUT", "soon")

	cfg := Load()
	require.Equal(t, 30, cfg.PageCount)
	require.Equal(t, 5*time.Second, cfg.FetchTimeout)
}
