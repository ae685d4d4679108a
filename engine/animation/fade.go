package animation

import "github.com/Carmen-Shannon/oxy-motion/common"

// FadeMode tags a contribution as steady, fading in or fading out.
type FadeMode int

const (
	// FadeNone leaves the contribution weight unmodified.
	FadeNone FadeMode = iota

	// FadeIn ramps the weight from 0 to 1 over the fade duration.
	FadeIn

	// FadeOut ramps the weight from 1 to 0 over the fade duration.
	FadeOut
)

// FadeCurve shapes the fade ratio over time.
type FadeCurve int

const (
	// FadeCurveLinear ramps at a constant rate.
	FadeCurveLinear FadeCurve = iota

	// FadeCurveSmooth eases in and out with a smoothstep.
	FadeCurveSmooth
)

// Fade carries the timing a BlendPose needs to modulate a contribution's weight.
type Fade struct {
	Mode     FadeMode
	Curve    FadeCurve
	Elapsed  float64
	Duration float64

	// Total is the length of the whole fade window. A fade-in finishes at Total, so it
	// starts at Total-Duration. Zero means the window is Duration long.
	Total float64
}

// Factor returns the multiplier applied to the contribution's weight.
// A fade-in with no duration is fully in; a fade-out with no duration is fully out.
// A fade-in shorter than Total waits until Total-Duration before it ramps.
//
// Returns:
//   - float64: the weight multiplier in [0, 1]
func (f Fade) Factor() float64 {
	switch f.Mode {
	case FadeIn:
		if f.Duration <= 0 {
			return 1
		}
		total := max(f.Total, f.Duration)
		return f.Curve.apply(common.Clamp((f.Elapsed-total+f.Duration)/f.Duration, 0, 1))
	case FadeOut:
		if f.Duration <= 0 {
			return 0
		}
		return 1 - f.Curve.apply(common.Clamp(f.Elapsed/f.Duration, 0, 1))
	default:
		return 1
	}
}

func (c FadeCurve) apply(x float64) float64 {
	if c == FadeCurveSmooth {
		return x * x * (3 - 2*x)
	}
	return x
}
