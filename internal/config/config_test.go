package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 2000, cfg.ChunkSize)
	require.Equal(t, "file", cfg.JournalBackend)
	require.Equal(t, "mock", cfg.SummaryProviders)
	require.Equal(t, 30*time.Minute, cfg.ActivityTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LEASEINTAKE_CHUNK_SIZE", "0")
	t.Setenv("LEASEINTAKE_DATA_OUT", "/tmp/intake")
	t.Setenv("LEASEINTAKE_JOURNAL_BACKEND", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 2000, cfg.ChunkSize)
	require.Equal(t, "sqlite", cfg.JournalBackend)
	require.Equal(t, filepath.Join("/tmp/intake", "traces"), cfg.TraceDir())
}

func TestLoadRejectsBadInt(t *testing.T) {
	t.Setenv("LEASEINTAKE_SMTP_PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)
}
