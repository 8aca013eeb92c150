package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gekko3d/particles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWritesFrames(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "fountain.json")
	o := options{
		preset:     "fountain",
		out:        filepath.Join(dir, "frames"),
		frames:     6,
		every:      2,
		dt:         1.0 / 30,
		width:      40,
		height:     30,
		scale:      2,
		saveConfig: cfgPath,
	}

	n, err := run(o, particles.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, err := os.ReadDir(o.out)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	f, err := os.Open(filepath.Join(o.out, "frame_00006.png"))
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dx())
	assert.Equal(t, 60, img.Bounds().Dy())

	saved, err := particles.LoadConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, particles.Fountain(), saved)
}

func TestRunUnknownPreset(t *testing.T) {
	_, err := run(options{preset: filepath.Join(t.TempDir(), "missing.json")}, particles.NewNopLogger())
	assert.Error(t, err)
}
