// package config contains tests for configuration layering
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "chezmoi", cfg.Bin)
	assert.Equal(t, 30*time.Second, cfg.CommandTimeout)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, "chezman", cfg.ExportPrefix)
	assert.NotEmpty(t, cfg.ExportDir)
	assert.Contains(t, cfg.ConfigDir, "chezman")
}

func TestApplyFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chezman.yaml")
	yaml := "bin: /opt/chezmoi\ncommand_timeout: 60\nexport_dir: /tmp/patches\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Default()
	require.NoError(t, err)
	cfg.applyFile(path)

	assert.Equal(t, "/opt/chezmoi", cfg.Bin)
	assert.Equal(t, 60*time.Second, cfg.CommandTimeout)
	assert.Equal(t, "/tmp/patches", cfg.ExportDir)
	// untouched keys keep their defaults
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
}

func TestApplyFileIgnoresMissingAndMalformed(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	cfg.applyFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Equal(t, "chezmoi", cfg.Bin)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("{{ not yaml"), 0644))
	cfg.applyFile(bad)
	assert.Equal(t, "chezmoi", cfg.Bin)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CHEZMAN_BIN", "/usr/local/bin/chezmoi")
	t.Setenv("CHEZMAN_TIMEOUT", "45")
	t.Setenv("CHEZMAN_PROBE_TIMEOUT", "10")
	t.Setenv("CHEZMAN_EXPORT_DIR", "/tmp/exports")
	t.Setenv("CHEZMAN_EXPORT_PREFIX", "mypatches")

	cfg, err := Default()
	require.NoError(t, err)
	cfg.applyEnv()

	assert.Equal(t, "/usr/local/bin/chezmoi", cfg.Bin)
	assert.Equal(t, 45*time.Second, cfg.CommandTimeout)
	assert.Equal(t, 10*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, "/tmp/exports", cfg.ExportDir)
	assert.Equal(t, "mypatches", cfg.ExportPrefix)
}

func TestApplyEnvRejectsBadTimeout(t *testing.T) {
	t.Setenv("CHEZMAN_TIMEOUT", "not-a-number")

	cfg, err := Default()
	require.NoError(t, err)
	cfg.applyEnv()

	assert.Equal(t, 30*time.Second, cfg.CommandTimeout)
}

func TestEnsureDirectories(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.ConfigDir = filepath.Join(t.TempDir(), "deep", "chezman")

	require.NoError(t, cfg.EnsureDirectories())

	info, err := os.Stat(cfg.ConfigDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// safe to call again
	require.NoError(t, cfg.EnsureDirectories())
}
