package model

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-motion/common"
)

var (
	// ErrUnsortedKeyframes is returned when a keyframe channel is not in ascending time order.
	ErrUnsortedKeyframes = errors.New("keyframes are not sorted by time")

	// ErrInvalidSkeleton is returned when a joint hierarchy is malformed.
	ErrInvalidSkeleton = errors.New("invalid skeleton")
)

// --- Transform & Skeleton Types ---

// Transform represents a decomposed transform for animation interpolation.
type Transform struct {
	// Translation is the position offset.
	Translation [3]float32

	// Rotation is the orientation as a quaternion (x, y, z, w).
	Rotation [4]float32

	// Scale is the scale factor along each axis.
	Scale [3]float32
}

// IdentityTransform returns a transform with no translation, no rotation and unit scale.
//
// Returns:
//   - Transform: the identity transform
func IdentityTransform() Transform {
	return Transform{
		Rotation: common.QuatIdentity(),
		Scale:    [3]float32{1, 1, 1},
	}
}

// Matrix composes the transform into a column-major 4x4 matrix (T * R * S).
//
// Returns:
//   - [16]float32: the composed matrix
func (t Transform) Matrix() [16]float32 {
	var m [16]float32
	common.ComposeTRS(m[:], t.Translation, t.Rotation, t.Scale)
	return m
}

// Joint represents a single node in a skeleton hierarchy.
// Joints that are referenced by a skin carry a bone and are exported to the bone buffer;
// the others only contribute their transform to their descendants.
type Joint struct {
	// Name is the joint's identifier, matched against animation track names.
	Name string

	// Parent is the index of the parent joint (-1 for root joints).
	Parent int

	// Children are the indices of the joints parented to this one.
	// Filled in by NewSkeleton.
	Children []int

	// HasBone reports whether this joint is exported into the bone transform array.
	HasBone bool

	// BoneIndex is the slot in the bone transform array. Only meaningful when HasBone is true.
	BoneIndex int

	// BindLocal is the joint's rest transform relative to its parent.
	// Used whenever no animation drives the joint.
	BindLocal Transform

	// InverseBind transforms from model space to bone space at bind pose.
	InverseBind [16]float32
}

// Skeleton represents a joint hierarchy for skeletal animation.
// Joints are stored so that every parent precedes its children.
type Skeleton struct {
	// Joints is the array of all joints in the skeleton.
	Joints []Joint

	// Roots are indices of joints with no parent.
	Roots []int

	// BoneCount is the size of the exported bone transform array.
	BoneCount int

	// JointNameToIndex maps joint names to their indices for quick lookup.
	JointNameToIndex map[string]int
}

// NewSkeleton validates a flat joint list and builds the hierarchy lookups.
// Parents must appear before their children, names must be unique and every bone index
// must be used by at most one joint.
//
// Parameters:
//   - joints: the joint list; Children is recomputed and may be left empty, a zero InverseBind becomes identity
//
// Returns:
//   - *Skeleton: the assembled skeleton
//   - error: an error wrapping ErrInvalidSkeleton if the hierarchy is malformed
func NewSkeleton(joints []Joint) (*Skeleton, error) {
	s := &Skeleton{
		Joints:           make([]Joint, len(joints)),
		JointNameToIndex: make(map[string]int, len(joints)),
	}
	copy(s.Joints, joints)

	bones := make(map[int]string)
	for i := range s.Joints {
		j := &s.Joints[i]
		j.Children = nil

		if j.Name == "" {
			return nil, fmt.Errorf("%w: joint %d has no name", ErrInvalidSkeleton, i)
		}
		if _, dup := s.JointNameToIndex[j.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate joint name %q", ErrInvalidSkeleton, j.Name)
		}
		s.JointNameToIndex[j.Name] = i

		switch {
		case j.Parent < 0:
			j.Parent = -1
			s.Roots = append(s.Roots, i)
		case j.Parent >= i:
			return nil, fmt.Errorf("%w: joint %q has parent %d which does not precede it", ErrInvalidSkeleton, j.Name, j.Parent)
		default:
			s.Joints[j.Parent].Children = append(s.Joints[j.Parent].Children, i)
		}

		if j.InverseBind == ([16]float32{}) {
			common.Identity(j.InverseBind[:])
		}

		if j.HasBone {
			if j.BoneIndex < 0 {
				return nil, fmt.Errorf("%w: joint %q has negative bone index", ErrInvalidSkeleton, j.Name)
			}
			if other, dup := bones[j.BoneIndex]; dup {
				return nil, fmt.Errorf("%w: bone index %d used by %q and %q", ErrInvalidSkeleton, j.BoneIndex, other, j.Name)
			}
			bones[j.BoneIndex] = j.Name
			s.BoneCount = max(s.BoneCount, j.BoneIndex+1)
		}
	}

	return s, nil
}

// JointIndex returns the index of the named joint, or -1 if it does not exist.
//
// Parameters:
//   - name: the joint name
//
// Returns:
//   - int: the joint index or -1
func (s *Skeleton) JointIndex(name string) int {
	if i, ok := s.JointNameToIndex[name]; ok {
		return i
	}
	return -1
}

// --- Animation Types ---

// VectorKeyframe stores a 3D vector value at a specific time.
type VectorKeyframe struct {
	// Time is the keyframe timestamp in ticks.
	Time float64 `yaml:"time"`

	// Value is the 3D vector value at this keyframe.
	Value [3]float32 `yaml:"value,flow"`
}

// QuaternionKeyframe stores a quaternion rotation at a specific time.
type QuaternionKeyframe struct {
	// Time is the keyframe timestamp in ticks.
	Time float64 `yaml:"time"`

	// Value is the quaternion value at this keyframe (x, y, z, w).
	Value [4]float32 `yaml:"value,flow"`
}
