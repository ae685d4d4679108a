package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Carmen-Shannon/oxy-motion/common"
	"github.com/Carmen-Shannon/oxy-motion/engine/loader"
	"github.com/Carmen-Shannon/oxy-motion/engine/state_machine"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the project file looked up when no path is given.
const DefaultFileName = "oxy-anim.yaml"

const defaultTickRate = 60

// ErrInvalidConfig is returned when a project file is malformed or incomplete.
var ErrInvalidConfig = errors.New("invalid project config")

// ProjectConfig describes the assets, graph and entities of an animation project.
type ProjectConfig struct {
	// Name is the project name, used as the application name for saved Motion snapshots.
	Name string `yaml:"name,omitempty"`

	// TickRate is the engine tick rate in hertz. Defaults to 60.
	TickRate float64 `yaml:"tickRate,omitempty"`

	// ComputeWorkers is the size of the scene's worker pool. Defaults to NumCPU-1.
	ComputeWorkers int `yaml:"computeWorkers,omitempty"`

	// StrictMoves rejects moves between unconnected nodes. Defaults to true.
	StrictMoves *bool `yaml:"strictMoves,omitempty"`

	// Skeleton is the path of the skeleton file.
	Skeleton string `yaml:"skeleton"`

	// Graph is the path of the animation graph file.
	Graph string `yaml:"graph"`

	// Assets are the animation files to load, by reference.
	Assets []loader.AssetEntry `yaml:"assets,omitempty"`

	// Entities are the animated objects of the scene.
	Entities []EntityConfig `yaml:"entities,omitempty"`
}

// EntityConfig describes one animated object.
type EntityConfig struct {
	Name      string         `yaml:"name"`
	Ephemeral bool           `yaml:"ephemeral,omitempty"`
	Motions   []MotionConfig `yaml:"motions"`
}

// MotionConfig describes one Motion of an entity.
type MotionConfig struct {
	Name          string `yaml:"name"`
	InitialState  string `yaml:"initialState"`
	AutoPlay      bool   `yaml:"autoPlay,omitempty"`
	DestroyOnDone bool   `yaml:"destroyOnDone,omitempty"`
	Paused        bool   `yaml:"paused,omitempty"`
}

// Load reads a project file, applies defaults and resolves relative paths against the file's directory.
//
// Parameters:
//   - path: the project file path
//
// Returns:
//   - *ProjectConfig: the loaded configuration
//   - error: a read error, or an error wrapping ErrInvalidConfig
func Load(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", path, err)
	}
	cfg.ResolvePaths(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes a project document, applies defaults and validates it.
// Unknown fields are rejected.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - *ProjectConfig: the decoded configuration
//   - error: an error wrapping ErrInvalidConfig
func Parse(data []byte) (*ProjectConfig, error) {
	var cfg ProjectConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills unset knobs.
func (c *ProjectConfig) ApplyDefaults() {
	c.Name = common.Coalesce(c.Name, "oxy-anim")
	c.TickRate = common.Coalesce(c.TickRate, defaultTickRate)
	c.ComputeWorkers = common.Coalesce(c.ComputeWorkers, max(runtime.NumCPU()-1, 1))
	if c.StrictMoves == nil {
		strict := true
		c.StrictMoves = &strict
	}
}

// Validate checks the required files and the uniqueness of asset references and entity names.
//
// Returns:
//   - error: the joined problems, each wrapping ErrInvalidConfig
func (c *ProjectConfig) Validate() error {
	var errs []error
	if c.Skeleton == "" {
		errs = append(errs, fmt.Errorf("%w: skeleton is required", ErrInvalidConfig))
	}
	if c.Graph == "" {
		errs = append(errs, fmt.Errorf("%w: graph is required", ErrInvalidConfig))
	}
	if c.TickRate < 0 {
		errs = append(errs, fmt.Errorf("%w: tickRate must not be negative", ErrInvalidConfig))
	}
	if c.ComputeWorkers < 0 {
		errs = append(errs, fmt.Errorf("%w: computeWorkers must not be negative", ErrInvalidConfig))
	}

	refs := make(map[string]bool, len(c.Assets))
	for i, a := range c.Assets {
		switch {
		case a.Ref == "" || a.Path == "":
			errs = append(errs, fmt.Errorf("%w: asset %d needs a ref and a path", ErrInvalidConfig, i))
		case refs[a.Ref]:
			errs = append(errs, fmt.Errorf("%w: duplicate asset ref %q", ErrInvalidConfig, a.Ref))
		}
		refs[a.Ref] = true
	}

	names := make(map[string]bool, len(c.Entities))
	for i, e := range c.Entities {
		switch {
		case e.Name == "":
			errs = append(errs, fmt.Errorf("%w: entity %d has no name", ErrInvalidConfig, i))
		case names[e.Name]:
			errs = append(errs, fmt.Errorf("%w: duplicate entity %q", ErrInvalidConfig, e.Name))
		}
		names[e.Name] = true
	}
	return errors.Join(errs...)
}

// ResolvePaths makes the skeleton, graph and asset paths absolute relative to dir.
//
// Parameters:
//   - dir: the directory relative paths are resolved against
func (c *ProjectConfig) ResolvePaths(dir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.Skeleton = resolve(c.Skeleton)
	c.Graph = resolve(c.Graph)
	for i := range c.Assets {
		c.Assets[i].Path = resolve(c.Assets[i].Path)
	}
}

// Strict reports whether Motions reject moves between unconnected nodes.
func (c *ProjectConfig) Strict() bool {
	return c.StrictMoves == nil || *c.StrictMoves
}

// MotionOptions converts a MotionConfig to Motion builder options.
//
// Parameters:
//   - m: the Motion configuration
//
// Returns:
//   - []state_machine.MotionBuilderOption: the options, including the project's strictness
func (c *ProjectConfig) MotionOptions(m MotionConfig) []state_machine.MotionBuilderOption {
	return []state_machine.MotionBuilderOption{
		state_machine.WithName(m.Name),
		state_machine.WithInitialState(m.InitialState),
		state_machine.WithAutoPlay(m.AutoPlay),
		state_machine.WithDestroyOnDone(m.DestroyOnDone),
		state_machine.WithPlaying(!m.Paused),
		state_machine.WithStrictMoves(c.Strict()),
	}
}
