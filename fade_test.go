package particles

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanema/gween/ease"
)

func TestDefaultFadeIsLinearAlpha(t *testing.T) {
	f := DefaultFade()
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, f.Color(0))
	assert.InDelta(t, 0.5, f.Color(0.5).W(), 1e-6)
	assert.InDelta(t, 0, f.Color(1).W(), 1e-6)
	// out of range ages clamp
	assert.Equal(t, f.Color(1), f.Color(3))
	assert.Equal(t, f.Color(0), f.Color(-1))
}

func TestFadeEaseCurve(t *testing.T) {
	f := FadePolicy{From: mgl32.Vec4{1, 0, 0, 1}, To: mgl32.Vec4{0, 0, 0, 0}, Ease: ease.InQuad}
	c := f.Color(0.5)
	assert.InDelta(t, 0.75, c.X(), 1e-6)
	assert.InDelta(t, 0.75, c.W(), 1e-6)
}

func TestFadeNilEaseFallsBackToLinear(t *testing.T) {
	f := FadePolicy{From: mgl32.Vec4{0, 0, 0, 0}, To: mgl32.Vec4{1, 1, 1, 1}}
	assert.InDelta(t, 0.25, f.Color(0.25).Y(), 1e-6)
}

func TestFadeCurveLookup(t *testing.T) {
	for _, name := range FadeCurveNames() {
		fn, err := FadeCurve(name)
		require.NoError(t, err, name)
		assert.InDelta(t, 0, fn(0, 0, 1, 1), 1e-6, name)
		assert.InDelta(t, 1, fn(1, 0, 1, 1), 1e-3, name)
	}
	_, err := FadeCurve("bogus")
	assert.Error(t, err)
}
