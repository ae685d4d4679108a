package animation

import (
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-motion/common"
	"github.com/Carmen-Shannon/oxy-motion/engine/model"
)

// minParallelJoints is the joint count below which Resolve stays on the calling goroutine.
const minParallelJoints = 32

// Contribution is one candidate local transform for a joint.
type Contribution struct {
	Transform model.Transform
	Weight    float64
	Fade      Fade
}

// ResolvedPose maps joint names to their blended local transforms.
type ResolvedPose map[string]model.Transform

// BlendPose accumulates per-joint contributions from every active clip during a tick and
// collapses them into one local transform per joint.
// It is cleared once per tick, filled by every active state or transition, and resolved once.
// A BlendPose is not safe for concurrent writers.
type BlendPose struct {
	joints     []string
	candidates map[string][]Contribution
}

// NewBlendPose creates an empty BlendPose.
func NewBlendPose() *BlendPose {
	return &BlendPose{
		candidates: make(map[string][]Contribution),
	}
}

// Clear drops all contributions while keeping allocated storage for the next tick.
func (b *BlendPose) Clear() {
	for _, joint := range b.joints {
		b.candidates[joint] = b.candidates[joint][:0]
	}
	b.joints = b.joints[:0]
}

// Add appends a contribution for one joint.
//
// Parameters:
//   - joint: the joint name
//   - t: the candidate local transform
//   - weight: the unnormalized weight
//   - fade: the fade timing used to modulate weight at resolve time
func (b *BlendPose) Add(joint string, t model.Transform, weight float64, fade Fade) {
	list := b.candidates[joint]
	if len(list) == 0 {
		b.joints = append(b.joints, joint)
	}
	b.candidates[joint] = append(list, Contribution{Transform: t, Weight: weight, Fade: fade})
}

// AddSamples appends one contribution per joint sample with a shared weight and fade.
func (b *BlendPose) AddSamples(samples []JointSample, weight float64, fade Fade) {
	for _, s := range samples {
		b.Add(s.Joint, s.Transform, weight, fade)
	}
}

// Len returns the number of joints that received at least one contribution.
func (b *BlendPose) Len() int {
	return len(b.joints)
}

// Joints returns the joints with contributions in first-contribution order.
func (b *BlendPose) Joints() []string {
	return b.joints
}

// Candidates returns the contributions recorded for a joint.
func (b *BlendPose) Candidates(joint string) []Contribution {
	return b.candidates[joint]
}

// Resolve collapses every joint's contributions into one local transform.
//
// Weights are modulated by each contribution's fade and normalized over the candidates of
// that joint only. Translation and scale are weighted sums; rotation is the weighted
// quaternion average. If a joint's weights sum to zero all of its candidates count equally.
// Joints are independent, so when a pool is supplied and there are enough joints the work
// is split across it and Resolve blocks until every chunk has finished.
//
// Parameters:
//   - pool: an optional worker pool for per-joint fan-out; nil resolves sequentially
//
// Returns:
//   - ResolvedPose: the blended local transform of every contributed joint
func (b *BlendPose) Resolve(pool worker.DynamicWorkerPool) ResolvedPose {
	n := len(b.joints)
	results := make([]model.Transform, n)

	if pool == nil || n < minParallelJoints {
		for i, joint := range b.joints {
			results[i] = resolveJoint(b.candidates[joint])
		}
	} else {
		workers := max(pool.GetMaxWorkers(), 1)
		chunk := (n + workers - 1) / workers

		var wg sync.WaitGroup
		taskID := 0
		for start := 0; start < n; start += chunk {
			end := min(start+chunk, n)
			wg.Add(1)
			lo, hi := start, end
			pool.SubmitTask(worker.Task{
				ID: taskID,
				Do: func() (any, error) {
					defer wg.Done()
					for i := lo; i < hi; i++ {
						results[i] = resolveJoint(b.candidates[b.joints[i]])
					}
					return nil, nil
				},
			})
			taskID++
		}
		wg.Wait()
	}

	out := make(ResolvedPose, n)
	for i, joint := range b.joints {
		out[joint] = results[i]
	}
	return out
}

func resolveJoint(cands []Contribution) model.Transform {
	if len(cands) == 1 {
		return cands[0].Transform
	}

	weights := make([]float64, len(cands))
	total := 0.0
	for i, c := range cands {
		w := max(c.Weight*c.Fade.Factor(), 0)
		weights[i] = w
		total += w
	}
	if total <= 0 {
		for i := range weights {
			weights[i] = 1
		}
		total = float64(len(weights))
	}

	var translation, scale [3]float64
	rotations := make([][4]float32, len(cands))
	for i, c := range cands {
		weights[i] /= total
		for k := 0; k < 3; k++ {
			translation[k] += weights[i] * float64(c.Transform.Translation[k])
			scale[k] += weights[i] * float64(c.Transform.Scale[k])
		}
		rotations[i] = c.Transform.Rotation
	}

	return model.Transform{
		Translation: [3]float32{float32(translation[0]), float32(translation[1]), float32(translation[2])},
		Rotation:    common.QuatAverage(rotations, weights),
		Scale:       [3]float32{float32(scale[0]), float32(scale[1]), float32(scale[2])},
	}
}
