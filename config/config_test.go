package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/echograph3d/physics"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 80, cfg.Render.Width)
	assert.Equal(t, 24, cfg.Render.Height)
	assert.False(t, cfg.Render.Interactive)
	assert.Equal(t, 30, cfg.Loop.FPS)
	assert.Equal(t, "grid", cfg.Graph.Shape)
	assert.Equal(t, physics.DefaultSettings(), cfg.Physics)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "echograph3d.toml")
	data := `
[render]
width = 120
palette = "surreal"

[physics]
spring_length = 45
seed = 9

[animate]
enabled = true
interval = "1s"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Render.Width)
	assert.Equal(t, 24, cfg.Render.Height, "unset keys keep defaults")
	assert.Equal(t, "surreal", cfg.Render.Palette)
	assert.Equal(t, 45.0, cfg.Physics.SpringLength)
	assert.Equal(t, int64(9), cfg.Physics.Seed)
	assert.Equal(t, 0.9, cfg.Physics.Damping)
	assert.True(t, cfg.Animate.Enabled)
	assert.Equal(t, "1s", cfg.Animate.Interval)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[render\nwidth ="), 0o644))
	_, err := Load(bad)
	assert.Error(t, err)

	damping := filepath.Join(dir, "damping.toml")
	require.NoError(t, os.WriteFile(damping, []byte("[physics]\ndamping = 1.5\n"), 0o644))
	_, err = Load(damping)
	assert.ErrorIs(t, err, physics.ErrInvalidSettings)

	fps := filepath.Join(dir, "fps.toml")
	require.NoError(t, os.WriteFile(fps, []byte("[loop]\nfps = 0\n"), 0o644))
	_, err = Load(fps)
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Loop.FPS = 12
	cfg.Physics.Gravity = 0.5
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
