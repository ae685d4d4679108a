package model

// model is the implementation of the Model interface.
type model struct {
	name       string
	skeleton   *Skeleton
	animations []string
}

// Model defines the interface for a loaded skinned model.
// A Model pairs a joint hierarchy with the references of the animation assets authored for it.
// It is produced by the Loader after importing a skeleton file.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Skinned reports whether this model carries a skeleton with at least one bone.
	//
	// Returns:
	//   - bool: true if the model has bone data
	Skinned() bool

	// Skeleton retrieves the joint hierarchy for this model.
	// Returns nil for static models.
	//
	// Returns:
	//   - *Skeleton: the skeleton or nil
	Skeleton() *Skeleton

	// Animations retrieves the asset references of the animations bundled with this model.
	//
	// Returns:
	//   - []string: the animation asset references
	Animations() []string

	// AnimationCount returns the number of bundled animation references.
	//
	// Returns:
	//   - int: the animation count
	AnimationCount() int

	// GetAnimationIndex returns the index of an animation reference, or -1 if not found.
	//
	// Parameters:
	//   - ref: the animation asset reference to search for
	//
	// Returns:
	//   - int: the animation index, or -1 if not found
	GetAnimationIndex(ref string) int
}

var _ Model = &model{}

// NewModel creates a new Model with the provided options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: the new Model instance
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Skinned() bool {
	return m.skeleton != nil && m.skeleton.BoneCount > 0
}

func (m *model) Skeleton() *Skeleton {
	return m.skeleton
}

func (m *model) Animations() []string {
	return m.animations
}

func (m *model) AnimationCount() int {
	return len(m.animations)
}

func (m *model) GetAnimationIndex(ref string) int {
	for i, a := range m.animations {
		if a == ref {
			return i
		}
	}
	return -1
}
