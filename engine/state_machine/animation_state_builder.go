package state_machine

import (
	"github.com/Carmen-Shannon/oxy-motion/engine/animation"
	"github.com/google/uuid"
)

// AnimationStateBuilderOption is a functional option for configuring an AnimationState via NewAnimationState.
type AnimationStateBuilderOption func(*AnimationState)

// WithStateID is an option builder that overrides the state's generated identity.
//
// Parameters:
//   - id: the identity to use
//
// Returns:
//   - AnimationStateBuilderOption: a function that applies the identity option to a state
func WithStateID(id uuid.UUID) AnimationStateBuilderOption {
	return func(s *AnimationState) {
		s.id = id
	}
}

// WithClips is an option builder that adds clips to the state in order.
//
// Parameters:
//   - clips: the clips to add
//
// Returns:
//   - AnimationStateBuilderOption: a function that applies the clips option to a state
func WithClips(clips ...*animation.ClipInstance) AnimationStateBuilderOption {
	return func(s *AnimationState) {
		for _, c := range clips {
			s.AddClip(c)
		}
	}
}

// WithLayers is an option builder that adds layer clips to the state in order.
//
// Parameters:
//   - clips: the layer clips to add
//
// Returns:
//   - AnimationStateBuilderOption: a function that applies the layers option to a state
func WithLayers(clips ...*animation.ClipInstance) AnimationStateBuilderOption {
	return func(s *AnimationState) {
		for _, c := range clips {
			s.AddLayer(c)
		}
	}
}

// WithChild is an option builder that nests a child state.
//
// Parameters:
//   - child: the child state
//
// Returns:
//   - AnimationStateBuilderOption: a function that applies the child option to a state
func WithChild(child *AnimationState) AnimationStateBuilderOption {
	return func(s *AnimationState) {
		s.Child = child
	}
}
