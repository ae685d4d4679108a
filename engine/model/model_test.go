package model

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-motion/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolateSingleSampleIsConstant(t *testing.T) {
	rot := common.QuatFromAxisAngle([3]float32{0, 1, 0}, 1.2)
	track, err := NewKeyframeTrack("hip",
		[]VectorKeyframe{{Time: 3, Value: [3]float32{1, 2, 3}}},
		[]QuaternionKeyframe{{Time: 3, Value: rot}},
		[]VectorKeyframe{{Time: 3, Value: [3]float32{2, 2, 2}}},
	)
	require.NoError(t, err)

	for _, tc := range []struct {
		a, b int
		w    float64
	}{
		{0, 0, 0},
		{0, 1, 0.5},
		{4, 9, 0.99},
		{0, 1, 1},
	} {
		got := track.Interpolate(tc.a, tc.b, tc.w)
		assert.Equal(t, [3]float32{1, 2, 3}, got.Translation)
		assert.Equal(t, rot, got.Rotation)
		assert.Equal(t, [3]float32{2, 2, 2}, got.Scale)
	}
}

func TestInterpolateChannels(t *testing.T) {
	track, err := NewKeyframeTrack("arm",
		[]VectorKeyframe{{Time: 0, Value: [3]float32{0, 0, 0}}, {Time: 1, Value: [3]float32{2, 0, 0}}},
		[]QuaternionKeyframe{
			{Time: 0, Value: common.QuatIdentity()},
			{Time: 1, Value: common.QuatFromAxisAngle([3]float32{0, 0, 1}, math.Pi/2)},
		},
		nil,
	)
	require.NoError(t, err)

	got := track.Interpolate(0, 1, 0.25)
	assert.InDelta(t, 0.5, got.Translation[0], 1e-6)
	want := common.QuatFromAxisAngle([3]float32{0, 0, 1}, math.Pi/8)
	for i := range want {
		assert.InDelta(t, want[i], got.Rotation[i], 1e-6)
	}
	assert.Equal(t, [3]float32{1, 1, 1}, got.Scale, "empty channel keeps unit scale")

	clamped := track.Interpolate(5, 7, 0.5)
	assert.InDelta(t, 2, clamped.Translation[0], 1e-6)
}

func TestNewKeyframeTrackRejectsUnsorted(t *testing.T) {
	_, err := NewKeyframeTrack("spine",
		[]VectorKeyframe{{Time: 2}, {Time: 1}},
		nil, nil,
	)
	require.ErrorIs(t, err, ErrUnsortedKeyframes)
}

func TestNewSkeleton(t *testing.T) {
	skel, err := NewSkeleton([]Joint{
		{Name: "root", Parent: -1, BindLocal: IdentityTransform()},
		{Name: "spine", Parent: 0, HasBone: true, BoneIndex: 0, BindLocal: IdentityTransform()},
		{Name: "head", Parent: 1, HasBone: true, BoneIndex: 2, BindLocal: IdentityTransform()},
		{Name: "tail", Parent: 0, BindLocal: IdentityTransform()},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0}, skel.Roots)
	assert.Equal(t, []int{1, 3}, skel.Joints[0].Children)
	assert.Equal(t, []int{2}, skel.Joints[1].Children)
	assert.Equal(t, 3, skel.BoneCount)
	assert.Equal(t, 2, skel.JointIndex("head"))
	assert.Equal(t, -1, skel.JointIndex("nope"))
}

func TestNewSkeletonErrors(t *testing.T) {
	tests := []struct {
		name   string
		joints []Joint
	}{
		{"unnamed", []Joint{{Parent: -1}}},
		{"duplicate name", []Joint{{Name: "a", Parent: -1}, {Name: "a", Parent: 0}}},
		{"forward parent", []Joint{{Name: "a", Parent: 1}, {Name: "b", Parent: -1}}},
		{"shared bone", []Joint{{Name: "a", Parent: -1, HasBone: true}, {Name: "b", Parent: 0, HasBone: true}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSkeleton(tc.joints)
			require.ErrorIs(t, err, ErrInvalidSkeleton)
		})
	}
}

func TestModel(t *testing.T) {
	skel, err := NewSkeleton([]Joint{{Name: "root", Parent: -1, HasBone: true}})
	require.NoError(t, err)

	m := NewModel(WithName("fox"), WithSkeleton(skel), WithAnimations("walk", "run"))
	assert.Equal(t, "fox", m.Name())
	assert.True(t, m.Skinned())
	assert.Equal(t, 2, m.AnimationCount())
	assert.Equal(t, 1, m.GetAnimationIndex("run"))
	assert.Equal(t, -1, m.GetAnimationIndex("swim"))
	assert.False(t, NewModel().Skinned())
}
