package state_machine

// MotionBuilderOption is a functional option for configuring a Motion via NewMotion.
type MotionBuilderOption func(*Motion)

// WithName is an option builder that sets the Motion's name.
//
// Parameters:
//   - name: the Motion name
//
// Returns:
//   - MotionBuilderOption: a function that applies the name option to a Motion
func WithName(name string) MotionBuilderOption {
	return func(m *Motion) {
		m.name = name
	}
}

// WithAutoPlay is an option builder that makes the Motion follow the first outgoing
// connection whenever its current node is done.
//
// Parameters:
//   - autoPlay: true to advance automatically
//
// Returns:
//   - MotionBuilderOption: a function that applies the auto-play option to a Motion
func WithAutoPlay(autoPlay bool) MotionBuilderOption {
	return func(m *Motion) {
		m.autoPlay = autoPlay
	}
}

// WithDestroyOnDone is an option builder that marks the Motion for removal once it is done
// and has nowhere left to move.
//
// Parameters:
//   - destroy: true to remove the Motion when finished
//
// Returns:
//   - MotionBuilderOption: a function that applies the destroy option to a Motion
func WithDestroyOnDone(destroy bool) MotionBuilderOption {
	return func(m *Motion) {
		m.destroyOnDone = destroy
	}
}

// WithStrictMoves is an option builder that controls whether Move rejects unconnected targets.
// Strict moves are enabled by default; lenient moves log a warning instead.
//
// Parameters:
//   - strict: true to reject moves without a connection
//
// Returns:
//   - MotionBuilderOption: a function that applies the strictness option to a Motion
func WithStrictMoves(strict bool) MotionBuilderOption {
	return func(m *Motion) {
		m.strictMoves = strict
	}
}

// WithInitialState is an option builder that selects the node the Motion starts on.
//
// Parameters:
//   - name: the name of the initial node
//
// Returns:
//   - MotionBuilderOption: a function that applies the initial state option to a Motion
func WithInitialState(name string) MotionBuilderOption {
	return func(m *Motion) {
		m.initialState = name
	}
}

// WithPlaying is an option builder that sets whether the Motion starts playing.
//
// Parameters:
//   - playing: false to create the Motion paused
//
// Returns:
//   - MotionBuilderOption: a function that applies the play state option to a Motion
func WithPlaying(playing bool) MotionBuilderOption {
	return func(m *Motion) {
		m.playing = playing
	}
}
