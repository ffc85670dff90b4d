package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverlayEmptyPathReturnsEmptyViper(t *testing.T) {
	v, err := LoadOverlay("")
	require.NoError(t, err)
	assert.False(t, v.IsSet("size"))
}

func TestLoadOverlayReadsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wimbd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("size: 8GiB\nhashes: 7\n"), 0o644))

	v, err := LoadOverlay(path)
	require.NoError(t, err)
	assert.Equal(t, "8GiB", v.GetString("size"))
	assert.Equal(t, 7, v.GetInt("hashes"))
}

func TestLoadOverlayMissingFileErrors(t *testing.T) {
	_, err := LoadOverlay("/no/such/file.yaml")
	assert.Error(t, err)
}

func TestBuildWithoutS3Endpoint(t *testing.T) {
	g := &Global{LogLevel: "info"}
	resolved, err := g.Build()
	require.NoError(t, err)
	assert.Nil(t, resolved.S3)
	assert.NotNil(t, resolved.Logger)
	assert.NotNil(t, resolved.Metrics)
}
