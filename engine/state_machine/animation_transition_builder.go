package state_machine

import "github.com/google/uuid"

// AnimationTransitionBuilderOption is a functional option for configuring an AnimationTransition via NewAnimationTransition.
type AnimationTransitionBuilderOption func(*AnimationTransition)

// WithTransitionID is an option builder that overrides the transition's generated identity.
//
// Parameters:
//   - id: the identity to use
//
// Returns:
//   - AnimationTransitionBuilderOption: a function that applies the identity option to a transition
func WithTransitionID(id uuid.UUID) AnimationTransitionBuilderOption {
	return func(t *AnimationTransition) {
		t.id = id
	}
}

// WithTransitionSettings is an option builder that replaces the transition's settings.
//
// Parameters:
//   - settings: the fade durations, weights and curve
//
// Returns:
//   - AnimationTransitionBuilderOption: a function that applies the settings option to a transition
func WithTransitionSettings(settings TransitionSettings) AnimationTransitionBuilderOption {
	return func(t *AnimationTransition) {
		t.Settings = settings
	}
}

// WithFade is an option builder that sets both fade durations, keeping the weights.
//
// Parameters:
//   - fadeIn: seconds for the end state to fade in
//   - fadeOut: seconds for the start state to fade out
//
// Returns:
//   - AnimationTransitionBuilderOption: a function that applies the fade option to a transition
func WithFade(fadeIn, fadeOut float64) AnimationTransitionBuilderOption {
	return func(t *AnimationTransition) {
		t.Settings.FadeInTime = fadeIn
		t.Settings.FadeOutTime = fadeOut
	}
}

// WithTransitionType is an option builder that sets the fade curve.
//
// Parameters:
//   - typ: the transition type
//
// Returns:
//   - AnimationTransitionBuilderOption: a function that applies the type option to a transition
func WithTransitionType(typ TransitionType) AnimationTransitionBuilderOption {
	return func(t *AnimationTransition) {
		t.Settings.Type = typ
	}
}
