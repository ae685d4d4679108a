package loader

import (
	"github.com/Carmen-Shannon/oxy-motion/engine/model"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// animationFile is the on-disk layout of an animation asset.
type animationFile struct {
	Name           string                                    `yaml:"name"`
	TicksPerSecond float64                                   `yaml:"ticksPerSecond"`
	Duration       float64                                   `yaml:"duration"`
	Tracks         *orderedmap.OrderedMap[string, trackFile] `yaml:"tracks"`
}

// trackFile holds the keyframe channels of one joint.
type trackFile struct {
	Translations []model.VectorKeyframe     `yaml:"translations,omitempty"`
	Rotations    []model.QuaternionKeyframe `yaml:"rotations,omitempty"`
	Scales       []model.VectorKeyframe     `yaml:"scales,omitempty"`
}

// skeletonFile is the on-disk layout of a joint hierarchy.
// Joints are listed parent first; parent refers to an earlier joint by name.
type skeletonFile struct {
	Name   string      `yaml:"name"`
	Joints []jointFile `yaml:"joints"`
}

// jointFile describes one joint. Omitted rotation and scale default to identity, and an
// omitted inverse bind matrix is derived from the bind pose.
type jointFile struct {
	Name        string       `yaml:"name"`
	Parent      string       `yaml:"parent,omitempty"`
	Bone        *int         `yaml:"bone,omitempty"`
	Translation [3]float32   `yaml:"translation,flow"`
	Rotation    *[4]float32  `yaml:"rotation,omitempty,flow"`
	Scale       *[3]float32  `yaml:"scale,omitempty,flow"`
	InverseBind *[16]float32 `yaml:"inverseBind,omitempty,flow"`
}
