package animation

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// PlaybackMode controls how a clip maps time past the end of its asset.
type PlaybackMode int

const (
	// Loop repeats the clip indefinitely.
	Loop PlaybackMode = iota

	// SingleShot plays the clip once and then reports done, holding the final frame.
	SingleShot

	// PingPong alternates between forward and backward playback on every cycle.
	PingPong
)

// String returns the persisted name of the mode.
func (m PlaybackMode) String() string {
	switch m {
	case Loop:
		return "loop"
	case SingleShot:
		return "singleShot"
	case PingPong:
		return "pingPong"
	default:
		return fmt.Sprintf("PlaybackMode(%d)", int(m))
	}
}

// ParsePlaybackMode converts a persisted name into a PlaybackMode. Matching is case-insensitive.
//
// Parameters:
//   - s: the mode name ("loop", "singleShot" or "pingPong")
//
// Returns:
//   - PlaybackMode: the parsed mode
//   - error: an error if the name is not recognized
func ParsePlaybackMode(s string) (PlaybackMode, error) {
	switch strings.ToLower(s) {
	case "loop", "":
		return Loop, nil
	case "singleshot", "single_shot", "once":
		return SingleShot, nil
	case "pingpong", "ping_pong":
		return PingPong, nil
	default:
		return Loop, fmt.Errorf("unknown playback mode %q", s)
	}
}

func (m PlaybackMode) MarshalYAML() (any, error) {
	return m.String(), nil
}

func (m *PlaybackMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParsePlaybackMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ClipSettings are the per-use playback parameters of a ClipInstance.
type ClipSettings struct {
	// SpeedFactor multiplies the asset's tick rate. Must be >= 0.
	SpeedFactor float64 `yaml:"speedFactor"`

	// BlendWeight is the clip's unnormalized contribution weight.
	BlendWeight float64 `yaml:"blendWeight"`

	// TickOffset is added to the clip time after conversion to ticks.
	TickOffset float64 `yaml:"tickOffset"`

	// TimeOffsetSec is added to the clip time before conversion to ticks.
	TimeOffsetSec float64 `yaml:"timeOffsetSec"`
}

// DefaultClipSettings returns settings with unit speed and unit weight.
func DefaultClipSettings() ClipSettings {
	return ClipSettings{
		SpeedFactor: 1,
		BlendWeight: 1,
	}
}
