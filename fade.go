package particles

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

// FadePolicy maps a particle's normalized age to its color. The color moves
// from From at birth to To at the end of the life cycle along Ease.
type FadePolicy struct {
	From mgl32.Vec4
	To   mgl32.Vec4
	Ease ease.TweenFunc
}

// DefaultFade is a linear alpha fade from opaque white to transparent.
func DefaultFade() FadePolicy {
	return FadePolicy{
		From: mgl32.Vec4{1, 1, 1, 1},
		To:   mgl32.Vec4{1, 1, 1, 0},
		Ease: ease.Linear,
	}
}

// Color evaluates the policy at t = age/lifeCycle, clamped to [0,1].
func (f FadePolicy) Color(t float32) mgl32.Vec4 {
	t = mgl32.Clamp(t, 0, 1)
	fn := f.Ease
	if fn == nil {
		fn = ease.Linear
	}
	k := fn(t, 0, 1, 1)
	return f.From.Add(f.To.Sub(f.From).Mul(k))
}

var fadeCurves = map[string]ease.TweenFunc{
	"linear":      ease.Linear,
	"quad-in":     ease.InQuad,
	"quad-out":    ease.OutQuad,
	"cubic-in":    ease.InCubic,
	"cubic-out":   ease.OutCubic,
	"sine-in-out": ease.InOutSine,
	"expo-out":    ease.OutExpo,
}

// FadeCurve looks up a named easing curve for presets.
func FadeCurve(name string) (ease.TweenFunc, error) {
	if name == "" {
		return ease.Linear, nil
	}
	fn, ok := fadeCurves[name]
	if !ok {
		return nil, fmt.Errorf("unknown fade curve %q (have %v)", name, FadeCurveNames())
	}
	return fn, nil
}

func FadeCurveNames() []string {
	names := make([]string, 0, len(fadeCurves))
	for n := range fadeCurves {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
