package state_machine

// AnimationGraphBuilderOption is a functional option for configuring an AnimationGraph via NewAnimationGraph.
type AnimationGraphBuilderOption func(*animationGraph)

// WithGraphName is an option builder that sets the graph's name.
//
// Parameters:
//   - name: the graph name
//
// Returns:
//   - AnimationGraphBuilderOption: a function that applies the name option to a graph
func WithGraphName(name string) AnimationGraphBuilderOption {
	return func(g *animationGraph) {
		g.name = name
	}
}
