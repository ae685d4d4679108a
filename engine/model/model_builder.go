package model

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithSkeleton is an option builder that sets the joint hierarchy of the Model.
//
// Parameters:
//   - skeleton: the skeleton to attach
//
// Returns:
//   - ModelBuilderOption: a function that applies the skeleton option to a model
func WithSkeleton(skeleton *Skeleton) ModelBuilderOption {
	return func(m *model) {
		m.skeleton = skeleton
	}
}

// WithAnimations is an option builder that sets the animation asset references bundled with the Model.
//
// Parameters:
//   - refs: the animation asset references
//
// Returns:
//   - ModelBuilderOption: a function that applies the animations option to a model
func WithAnimations(refs ...string) ModelBuilderOption {
	return func(m *model) {
		m.animations = append(m.animations, refs...)
	}
}
