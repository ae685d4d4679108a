package pose

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-motion/common"
	"github.com/Carmen-Shannon/oxy-motion/engine/animation"
	"github.com/Carmen-Shannon/oxy-motion/engine/model"
)

// skeletonPose is the implementation of the SkeletonPose interface.
type skeletonPose struct {
	mu sync.RWMutex

	skeleton *model.Skeleton

	// world and skinning are indexed by bone index and sized once at construction.
	world    [][16]float32
	skinning []GPUBoneTransform

	// scratch holds per-joint world matrices during a traversal.
	scratch [][16]float32
}

// SkeletonPose owns the bone transform buffer shared between the animation update and
// the render-side consumer.
//
// Apply walks the joint hierarchy parent-first and writes world and skinning matrices for
// every joint that carries a bone. Readers copy the buffers out under a read lock, so the
// next tick can compute while the previous result is being consumed.
type SkeletonPose interface {
	// Skeleton returns the joint hierarchy this pose was built for.
	//
	// Returns:
	//   - *model.Skeleton: the skeleton
	Skeleton() *model.Skeleton

	// BoneCount returns the number of exported bones.
	//
	// Returns:
	//   - int: the bone count
	BoneCount() int

	// Apply computes world transforms from resolved local transforms.
	// Joints missing from resolved keep their bind-pose local transform.
	//
	// Parameters:
	//   - resolved: the blended local transform per joint name
	Apply(resolved animation.ResolvedPose)

	// Reset writes the bind pose into the bone buffer.
	Reset()

	// WorldTransforms copies the world-space bone matrices into dst.
	//
	// Parameters:
	//   - dst: the destination; reallocated if shorter than BoneCount
	//
	// Returns:
	//   - [][16]float32: dst filled with one matrix per bone index
	WorldTransforms(dst [][16]float32) [][16]float32

	// SkinningMatrices copies the skinning matrices (world * inverse bind) into dst.
	//
	// Parameters:
	//   - dst: the destination; reallocated if shorter than BoneCount
	//
	// Returns:
	//   - [][16]float32: dst filled with one matrix per bone index
	SkinningMatrices(dst [][16]float32) [][16]float32

	// Marshal serializes the skinning matrices for GPU upload.
	//
	// Returns:
	//   - []byte: BoneCount * 64 bytes, little-endian float32, column-major
	Marshal() []byte
}

var _ SkeletonPose = &skeletonPose{}

// NewSkeletonPose creates a SkeletonPose initialized to the skeleton's bind pose.
// Panics if skeleton is nil.
//
// Parameters:
//   - skeleton: the joint hierarchy to pose
//
// Returns:
//   - SkeletonPose: the new pose
func NewSkeletonPose(skeleton *model.Skeleton) SkeletonPose {
	if skeleton == nil {
		panic("pose: NewSkeletonPose requires a skeleton")
	}

	p := &skeletonPose{
		skeleton: skeleton,
		world:    make([][16]float32, skeleton.BoneCount),
		skinning: make([]GPUBoneTransform, skeleton.BoneCount),
		scratch:  make([][16]float32, len(skeleton.Joints)),
	}
	p.Reset()
	return p
}

func (p *skeletonPose) Skeleton() *model.Skeleton {
	return p.skeleton
}

func (p *skeletonPose) BoneCount() int {
	return p.skeleton.BoneCount
}

func (p *skeletonPose) Apply(resolved animation.ResolvedPose) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var identity [16]float32
	common.Identity(identity[:])
	for _, root := range p.skeleton.Roots {
		p.visit(root, &identity, resolved)
	}
}

func (p *skeletonPose) Reset() {
	p.Apply(nil)
}

// visit computes the world matrix of joint i from its parent's and recurses into its children.
func (p *skeletonPose) visit(i int, parentWorld *[16]float32, resolved animation.ResolvedPose) {
	joint := &p.skeleton.Joints[i]

	local, ok := resolved[joint.Name]
	if !ok {
		local = joint.BindLocal
	}
	localMatrix := local.Matrix()

	world := &p.scratch[i]
	common.Mul4(world[:], parentWorld[:], localMatrix[:])

	if joint.HasBone {
		p.world[joint.BoneIndex] = *world
		common.Mul4(p.skinning[joint.BoneIndex].Skinning[:], world[:], joint.InverseBind[:])
	}

	for _, child := range joint.Children {
		p.visit(child, world, resolved)
	}
}

func (p *skeletonPose) WorldTransforms(dst [][16]float32) [][16]float32 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(dst) < len(p.world) {
		dst = make([][16]float32, len(p.world))
	}
	dst = dst[:len(p.world)]
	copy(dst, p.world)
	return dst
}

func (p *skeletonPose) SkinningMatrices(dst [][16]float32) [][16]float32 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(dst) < len(p.skinning) {
		dst = make([][16]float32, len(p.skinning))
	}
	dst = dst[:len(p.skinning)]
	for i := range p.skinning {
		dst[i] = p.skinning[i].Skinning
	}
	return dst
}

func (p *skeletonPose) Marshal() []byte {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.skinning) == 0 {
		return nil
	}
	stride := p.skinning[0].Size()
	buf := make([]byte, stride*len(p.skinning))
	for i := range p.skinning {
		p.skinning[i].MarshalTo(buf[i*stride:])
	}
	return buf
}
