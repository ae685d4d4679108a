package state_machine

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-motion/engine/animation"
	"gopkg.in/yaml.v3"
)

// TransitionType selects the fade curve of a transition.
type TransitionType int

const (
	// TransitionLinear fades at a constant rate.
	TransitionLinear TransitionType = iota

	// TransitionSmooth eases the fade in and out.
	TransitionSmooth
)

func (t TransitionType) String() string {
	switch t {
	case TransitionLinear:
		return "linear"
	case TransitionSmooth:
		return "smooth"
	default:
		return fmt.Sprintf("TransitionType(%d)", int(t))
	}
}

// ParseTransitionType parses a transition type name, ignoring case. An empty name is linear.
//
// Parameters:
//   - s: the type name
//
// Returns:
//   - TransitionType: the parsed type
//   - error: an error wrapping ErrMalformed for unknown names
func ParseTransitionType(s string) (TransitionType, error) {
	switch strings.ToLower(s) {
	case "", "linear":
		return TransitionLinear, nil
	case "smooth":
		return TransitionSmooth, nil
	default:
		return TransitionLinear, fmt.Errorf("%w: unknown transition type %q", ErrMalformed, s)
	}
}

func (t TransitionType) MarshalYAML() (any, error) {
	return t.String(), nil
}

func (t *TransitionType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseTransitionType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TransitionSettings control the cross-fade of an AnimationTransition.
type TransitionSettings struct {
	// Type selects the fade curve.
	Type TransitionType `yaml:"transitionType"`

	// FadeInTime is the time in seconds for the end state to reach full weight.
	FadeInTime float64 `yaml:"fadeInTime"`

	// FadeInWeight scales the end state's contributions.
	FadeInWeight float64 `yaml:"fadeInWeight"`

	// FadeOutTime is the time in seconds for the start state to reach zero weight.
	FadeOutTime float64 `yaml:"fadeOutTime"`

	// FadeOutWeight scales the start state's contributions.
	FadeOutWeight float64 `yaml:"fadeOutWeight"`
}

// DefaultTransitionSettings returns an instant linear transition with unit weights.
func DefaultTransitionSettings() TransitionSettings {
	return TransitionSettings{
		Type:          TransitionLinear,
		FadeInWeight:  1,
		FadeOutWeight: 1,
	}
}

// Duration returns the time after which the transition is done.
func (s TransitionSettings) Duration() float64 {
	return max(s.FadeInTime, s.FadeOutTime)
}

func (s TransitionSettings) curve() animation.FadeCurve {
	if s.Type == TransitionSmooth {
		return animation.FadeCurveSmooth
	}
	return animation.FadeCurveLinear
}

// AnimationTransition is a graph node that cross-fades from a start state to an end state.
// While a Motion sits on a transition, the start state fades out and the end state fades in
// using the Motion's transition timer, which is restarted on entry and handed to the Motion
// on exit so the end state keeps playing from where the fade left it.
type AnimationTransition struct {
	nodeBase

	// Start is the state being faded out.
	Start *AnimationState

	// End is the state being faded in.
	End *AnimationState

	// Settings are the fade durations, weights and curve.
	Settings TransitionSettings
}

var _ Node = &AnimationTransition{}

// NewAnimationTransition creates a transition between two states and applies options.
//
// Parameters:
//   - name: the transition name
//   - start: the state faded out
//   - end: the state faded in
//   - options: a variadic list of AnimationTransitionBuilderOption functions
//
// Returns:
//   - *AnimationTransition: the new transition
func NewAnimationTransition(name string, start, end *AnimationState, options ...AnimationTransitionBuilderOption) *AnimationTransition {
	t := &AnimationTransition{
		nodeBase: newNodeBase(name),
		Start:    start,
		End:      end,
		Settings: DefaultTransitionSettings(),
	}
	for _, option := range options {
		option(t)
	}
	return t
}

func (t *AnimationTransition) OnEntry(m *Motion) {
	m.transitionTimer.Restart()
}

func (t *AnimationTransition) OnExit(m *Motion) {
	m.timer = m.transitionTimer
}

// ComputeFrame adds the fading contributions of both states to dst.
//
// The start state is sampled at carry + elapsed so it continues from where the Motion left it,
// scaled by FadeOutWeight and fading out over FadeOutTime. The end state is sampled at elapsed,
// scaled by FadeInWeight and fading in over the last FadeInTime seconds of the transition.
//
// Parameters:
//   - carry: the start state's playback time when the transition was entered
//   - elapsed: the time since the transition was entered
//   - src: the source used to resolve clip assets
//   - dst: the accumulator receiving the contributions
func (t *AnimationTransition) ComputeFrame(carry, elapsed float64, src animation.AssetSource, dst *animation.BlendPose) {
	curve := t.Settings.curve()
	if t.Start != nil {
		t.Start.ComputeFrame(carry+elapsed, src, dst, t.Settings.FadeOutWeight, animation.Fade{
			Mode:     animation.FadeOut,
			Curve:    curve,
			Elapsed:  elapsed,
			Duration: t.Settings.FadeOutTime,
		})
	}
	if t.End != nil {
		t.End.ComputeFrame(elapsed, src, dst, t.Settings.FadeInWeight, animation.Fade{
			Mode:     animation.FadeIn,
			Curve:    curve,
			Elapsed:  elapsed,
			Duration: t.Settings.FadeInTime,
			Total:    t.Settings.Duration(),
		})
	}
}

// IsDone reports whether both fades have completed.
//
// Parameters:
//   - elapsed: the time since the transition was entered
//
// Returns:
//   - bool: true once elapsed reaches the longer of the two fade durations
func (t *AnimationTransition) IsDone(elapsed float64) bool {
	return elapsed >= t.Settings.Duration()
}
