package state_machine

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-motion/engine/animation"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Node type names used in documents.
const (
	StateTypeAnimation  = "animation"
	StateTypeTransition = "transition"
)

// GraphDocument is the persisted form of an AnimationGraph.
type GraphDocument struct {
	Name            string               `yaml:"name"`
	AnimationStates []NodeDocument       `yaml:"animationStates"`
	Connections     []ConnectionDocument `yaml:"connections,omitempty"`
}

// NodeDocument is the persisted form of a state or transition.
// Clips, Layers and Child apply to states; Start, End and Settings apply to transitions.
type NodeDocument struct {
	StateType string                                       `yaml:"stateType"`
	Name      string                                       `yaml:"name"`
	Clips     *orderedmap.OrderedMap[string, ClipDocument] `yaml:"clips,omitempty"`
	Layers    *orderedmap.OrderedMap[string, ClipDocument] `yaml:"layers,omitempty"`
	Child     *NodeDocument                                `yaml:"child,omitempty"`
	Start     string                                       `yaml:"start,omitempty"`
	End       string                                       `yaml:"end,omitempty"`
	Settings  *TransitionSettings                          `yaml:"settings,omitempty"`
}

// ClipDocument is the persisted form of a ClipInstance.
type ClipDocument struct {
	Name         string                 `yaml:"name"`
	Animation    string                 `yaml:"animation"`
	Settings     animation.ClipSettings `yaml:"settings"`
	PlaybackMode animation.PlaybackMode `yaml:"playbackMode"`
	NumPlays     int                    `yaml:"numPlays"`
}

// ConnectionDocument is the persisted form of a StateConnection, by node name.
type ConnectionDocument struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// UnmarshalYAML decodes a clip, keeping default settings for omitted fields.
func (c *ClipDocument) UnmarshalYAML(value *yaml.Node) error {
	type plain ClipDocument
	doc := plain{Settings: animation.DefaultClipSettings(), NumPlays: -1}
	if err := value.Decode(&doc); err != nil {
		return err
	}
	*c = ClipDocument(doc)
	return nil
}

// UnmarshalYAML decodes transition settings, keeping defaults for omitted fields.
func (s *TransitionSettings) UnmarshalYAML(value *yaml.Node) error {
	type plain TransitionSettings
	settings := plain(DefaultTransitionSettings())
	if err := value.Decode(&settings); err != nil {
		return err
	}
	*s = TransitionSettings(settings)
	return nil
}

// MarshalGraph encodes a graph as YAML: states in graph order, then connections in the order
// they were added.
//
// Parameters:
//   - g: the graph to encode
//
// Returns:
//   - []byte: the YAML document
//   - error: an encoding error, if any
func MarshalGraph(g AnimationGraph) ([]byte, error) {
	doc, err := ToDocument(g)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}

// UnmarshalGraph decodes a YAML document into a new graph.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - AnimationGraph: the decoded graph
//   - error: a YAML error, or an error wrapping ErrMalformed, ErrUnknownNodeVariant or
//     ErrDuplicateNode that names the offending node or connection
func UnmarshalGraph(data []byte) (AnimationGraph, error) {
	var doc GraphDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return FromDocument(doc)
}

// ToDocument converts a graph to its persisted form.
//
// Parameters:
//   - g: the graph to convert
//
// Returns:
//   - GraphDocument: the document
//   - error: ErrUnknownNodeVariant if the graph holds a node that cannot be persisted
func ToDocument(g AnimationGraph) (GraphDocument, error) {
	doc := GraphDocument{Name: g.Name()}

	for _, n := range g.Nodes() {
		switch node := n.(type) {
		case *AnimationState:
			doc.AnimationStates = append(doc.AnimationStates, stateDocument(node))
		case *AnimationTransition:
			settings := node.Settings
			doc.AnimationStates = append(doc.AnimationStates, NodeDocument{
				StateType: StateTypeTransition,
				Name:      node.Name(),
				Start:     node.Start.Name(),
				End:       node.End.Name(),
				Settings:  &settings,
			})
		default:
			return GraphDocument{}, fmt.Errorf("node %q: %w: %T", n.Name(), ErrUnknownNodeVariant, n)
		}
	}

	for _, conn := range g.Connections() {
		doc.Connections = append(doc.Connections, ConnectionDocument{
			Start: conn.Start.Name(),
			End:   conn.End.Name(),
		})
	}
	return doc, nil
}

// FromDocument builds a graph from its persisted form.
// States are added before transitions so transitions may appear anywhere in the document.
//
// Parameters:
//   - doc: the document
//
// Returns:
//   - AnimationGraph: the new graph
//   - error: an error naming the offending node or connection
func FromDocument(doc GraphDocument) (AnimationGraph, error) {
	g := NewAnimationGraph(WithGraphName(doc.Name))

	var transitions []NodeDocument
	for i, nd := range doc.AnimationStates {
		if nd.Name == "" {
			return nil, fmt.Errorf("%w: node %d has no name", ErrMalformed, i)
		}
		switch nd.StateType {
		case StateTypeAnimation:
			state, err := stateFromDocument(nd)
			if err != nil {
				return nil, err
			}
			if err := g.AddNode(state); err != nil {
				return nil, err
			}
		case StateTypeTransition:
			transitions = append(transitions, nd)
		default:
			return nil, fmt.Errorf("node %q: %w: stateType %q", nd.Name, ErrUnknownNodeVariant, nd.StateType)
		}
	}

	for _, nd := range transitions {
		if nd.Start == "" || nd.End == "" {
			return nil, fmt.Errorf("%w: transition %q needs start and end", ErrMalformed, nd.Name)
		}
		start, ok := g.NodeByName(nd.Start).(*AnimationState)
		if !ok {
			return nil, fmt.Errorf("%w: transition %q start %q is not a state", ErrMalformed, nd.Name, nd.Start)
		}
		end, ok := g.NodeByName(nd.End).(*AnimationState)
		if !ok {
			return nil, fmt.Errorf("%w: transition %q end %q is not a state", ErrMalformed, nd.Name, nd.End)
		}

		var options []AnimationTransitionBuilderOption
		if nd.Settings != nil {
			options = append(options, WithTransitionSettings(*nd.Settings))
		}
		if err := g.AddNode(NewAnimationTransition(nd.Name, start, end, options...)); err != nil {
			return nil, err
		}
	}

	for i, cd := range doc.Connections {
		if cd.Start == "" || cd.End == "" {
			return nil, fmt.Errorf("%w: connection %d needs start and end", ErrMalformed, i)
		}
		start, end := g.NodeByName(cd.Start), g.NodeByName(cd.End)
		if start == nil || end == nil {
			return nil, fmt.Errorf("%w: connection %q -> %q references an unknown node", ErrMalformed, cd.Start, cd.End)
		}
		if _, err := g.AddConnection(start, end); err != nil {
			return nil, fmt.Errorf("connection %q -> %q: %w", cd.Start, cd.End, err)
		}
	}

	return g, nil
}

func stateDocument(s *AnimationState) NodeDocument {
	nd := NodeDocument{
		StateType: StateTypeAnimation,
		Name:      s.Name(),
		Clips:     clipDocuments(s.Clips),
		Layers:    clipDocuments(s.Layers),
	}
	if s.Child != nil {
		child := stateDocument(s.Child)
		nd.Child = &child
	}
	return nd
}

func clipDocuments(clips *ClipMap) *orderedmap.OrderedMap[string, ClipDocument] {
	if clips.Len() == 0 {
		return nil
	}
	out := orderedmap.New[string, ClipDocument](clips.Len())
	for pair := clips.Oldest(); pair != nil; pair = pair.Next() {
		c := pair.Value
		out.Set(pair.Key, ClipDocument{
			Name:         c.Name,
			Animation:    c.AssetRef,
			Settings:     c.Settings,
			PlaybackMode: c.Mode,
			NumPlays:     c.NumPlays,
		})
	}
	return out
}

func stateFromDocument(nd NodeDocument) (*AnimationState, error) {
	if nd.StateType != StateTypeAnimation && nd.StateType != "" {
		return nil, fmt.Errorf("%w: child %q must be an %s state", ErrMalformed, nd.Name, StateTypeAnimation)
	}
	if nd.Name == "" {
		return nil, fmt.Errorf("%w: child state has no name", ErrMalformed)
	}

	s := NewAnimationState(nd.Name)
	for _, group := range []struct {
		docs *orderedmap.OrderedMap[string, ClipDocument]
		add  func(*animation.ClipInstance)
	}{
		{nd.Clips, s.AddClip},
		{nd.Layers, s.AddLayer},
	} {
		for pair := group.docs.Oldest(); pair != nil; pair = pair.Next() {
			name := pair.Value.Name
			if name == "" {
				name = pair.Key
			}
			if pair.Value.Animation == "" {
				return nil, fmt.Errorf("%w: state %q clip %q has no animation", ErrMalformed, nd.Name, name)
			}
			group.add(animation.NewClipInstance(name, pair.Value.Animation,
				animation.WithSettings(pair.Value.Settings),
				animation.WithPlaybackMode(pair.Value.PlaybackMode),
				animation.WithNumPlays(pair.Value.NumPlays),
			))
		}
	}

	if nd.Child != nil {
		child, err := stateFromDocument(*nd.Child)
		if err != nil {
			return nil, err
		}
		s.Child = child
	}
	return s, nil
}
