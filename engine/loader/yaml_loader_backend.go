package loader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Carmen-Shannon/oxy-motion/common"
	"github.com/Carmen-Shannon/oxy-motion/engine/animation"
	"github.com/Carmen-Shannon/oxy-motion/engine/model"
	"gopkg.in/yaml.v3"
)

// ErrInvalidFile is returned when an animation or skeleton file cannot be decoded.
var ErrInvalidFile = errors.New("invalid asset file")

// yamlLoaderBackendImpl is the implementation of yamlLoaderBackend.
type yamlLoaderBackendImpl struct{}

// yamlLoaderBackend is a loaderBackend implementation for YAML animation and skeleton files.
type yamlLoaderBackend interface {
	loaderBackend
}

var _ yamlLoaderBackend = &yamlLoaderBackendImpl{}

// newYAMLLoaderBackend creates a new YAML loader backend.
//
// Returns:
//   - yamlLoaderBackend: the loader backend for YAML files
func newYAMLLoaderBackend() yamlLoaderBackend {
	return &yamlLoaderBackendImpl{}
}

func (b *yamlLoaderBackendImpl) LoadAnimation(path string) (*animation.AnimationAsset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return b.LoadAnimationReader(f)
}

func (b *yamlLoaderBackendImpl) LoadAnimationReader(r io.Reader) (*animation.AnimationAsset, error) {
	var file animationFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	tracks := make([]*model.KeyframeTrack, 0, file.Tracks.Len())
	lastTime := 0.0
	for pair := file.Tracks.Oldest(); pair != nil; pair = pair.Next() {
		track, err := model.NewKeyframeTrack(pair.Key, pair.Value.Translations, pair.Value.Rotations, pair.Value.Scales)
		if err != nil {
			return nil, fmt.Errorf("%w: animation %q: %w", ErrInvalidFile, file.Name, err)
		}
		if times := track.Times(); len(times) > 0 {
			lastTime = max(lastTime, times[len(times)-1])
		}
		tracks = append(tracks, track)
	}

	duration := common.Coalesce(file.Duration, lastTime)
	return animation.NewAnimationAsset(file.Name, file.TicksPerSecond, duration, tracks...)
}

func (b *yamlLoaderBackendImpl) LoadSkeleton(path string) (*model.Skeleton, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return b.LoadSkeletonReader(f)
}

func (b *yamlLoaderBackendImpl) LoadSkeletonReader(r io.Reader) (*model.Skeleton, error) {
	var file skeletonFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	joints := make([]model.Joint, len(file.Joints))
	index := make(map[string]int, len(file.Joints))
	bindWorld := make([][16]float32, len(file.Joints))

	for i, jf := range file.Joints {
		joint := model.Joint{
			Name:      jf.Name,
			Parent:    -1,
			BindLocal: model.IdentityTransform(),
		}
		joint.BindLocal.Translation = jf.Translation
		if jf.Rotation != nil {
			joint.BindLocal.Rotation = common.QuatNormalize(*jf.Rotation)
		}
		if jf.Scale != nil {
			joint.BindLocal.Scale = *jf.Scale
		}
		if jf.Bone != nil {
			joint.HasBone = true
			joint.BoneIndex = *jf.Bone
		}

		local := joint.BindLocal.Matrix()
		if jf.Parent != "" {
			parent, ok := index[jf.Parent]
			if !ok {
				return nil, fmt.Errorf("%w: joint %q parent %q must be listed before it", ErrInvalidFile, jf.Name, jf.Parent)
			}
			joint.Parent = parent
			common.Mul4(bindWorld[i][:], bindWorld[parent][:], local[:])
		} else {
			bindWorld[i] = local
		}

		if jf.InverseBind != nil {
			joint.InverseBind = *jf.InverseBind
		} else if !common.Invert4(joint.InverseBind[:], bindWorld[i][:]) {
			return nil, fmt.Errorf("%w: joint %q has a singular bind pose", ErrInvalidFile, jf.Name)
		}

		index[jf.Name] = i
		joints[i] = joint
	}

	return model.NewSkeleton(joints)
}
