package animator

import (
	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-motion/engine/state_machine"
)

// AnimatorBuilderOption is a functional option for configuring an Animator via NewAnimator.
type AnimatorBuilderOption func(*animator)

// WithPool is an option builder that sets the worker pool used to resolve blended joints.
// It must not be the pool that runs the animator's Tick, since Tick waits on the resolve tasks.
//
// Parameters:
//   - pool: the worker pool; nil resolves on the ticking goroutine
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the pool option to an animator
func WithPool(pool worker.DynamicWorkerPool) AnimatorBuilderOption {
	return func(a *animator) {
		a.pool = pool
	}
}

// WithMotion is an option builder that adds a Motion when the animator is created.
// It may be repeated; Motions are created in option order.
//
// Parameters:
//   - options: the Motion's builder options
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the motion option to an animator
func WithMotion(options ...state_machine.MotionBuilderOption) AnimatorBuilderOption {
	return func(a *animator) {
		a.motionOptions = append(a.motionOptions, options)
	}
}

// WithBoneBuffer is an option builder that sets the buffer the skinning matrices are uploaded to after each tick.
//
// Parameters:
//   - buf: the bone buffer destination
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the bone buffer option to an animator
func WithBoneBuffer(buf BoneBuffer) AnimatorBuilderOption {
	return func(a *animator) {
		a.bones = buf
	}
}
