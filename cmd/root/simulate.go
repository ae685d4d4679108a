package root

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Carmen-Shannon/oxy-motion/engine/config"
	"github.com/Carmen-Shannon/oxy-motion/engine/state_machine"
	"github.com/Carmen-Shannon/oxy-motion/engine/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type simulateFlags struct {
	ticks    int
	deltaMs  float64
	tickRate float64
	workers  int
	lenient  bool
	realtime time.Duration
	gpu      bool
	profile  bool
	save     bool
	restore  bool
}

type entityReport struct {
	ID      uint64                         `yaml:"id"`
	Name    string                         `yaml:"name"`
	Motions []state_machine.MotionSnapshot `yaml:"motions"`
	Bones   [][3]float32                   `yaml:"bones,flow"`
}

type simulationReport struct {
	Ticks     int            `yaml:"ticks"`
	ElapsedMs float64        `yaml:"elapsedMs"`
	Entities  []entityReport `yaml:"entities"`
	Finished  []string       `yaml:"finished,omitempty"`
}

func newSimulateCmd(root *rootFlags) *cobra.Command {
	var flags simulateFlags

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a project's entities and print their final motions and bone positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.projectPath)
			if err != nil {
				return err
			}
			flags.override(cmd, cfg)
			return flags.run(cmd, cfg)
		},
	}

	cmd.Flags().IntVarP(&flags.ticks, "ticks", "n", 60, "Number of fixed ticks to run")
	cmd.Flags().Float64Var(&flags.deltaMs, "delta", 0, "Tick delta in milliseconds (default: 1000 / tick rate)")
	cmd.Flags().Float64Var(&flags.tickRate, "tick-rate", 0, "Override the project's tick rate in hertz")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "Override the project's compute worker count")
	cmd.Flags().BoolVar(&flags.lenient, "lenient", false, "Allow moves between unconnected nodes")
	cmd.Flags().DurationVar(&flags.realtime, "realtime", 0, "Run the engine loop for this long instead of fixed ticks")
	cmd.Flags().BoolVar(&flags.gpu, "gpu", false, "Upload bone matrices to GPU storage buffers")
	cmd.Flags().BoolVar(&flags.profile, "profile", false, "Log tick rate and memory statistics")
	cmd.Flags().BoolVar(&flags.save, "save", false, "Save the entities' motions when done")
	cmd.Flags().BoolVar(&flags.restore, "restore", false, "Restore saved motions before running")

	return cmd
}

// override applies the flags the user set on top of the project file.
func (f *simulateFlags) override(cmd *cobra.Command, cfg *config.ProjectConfig) {
	if cmd.Flags().Changed("tick-rate") && f.tickRate > 0 {
		cfg.TickRate = f.tickRate
	}
	if cmd.Flags().Changed("workers") && f.workers > 0 {
		cfg.ComputeWorkers = f.workers
	}
	if f.lenient {
		strict := false
		cfg.StrictMoves = &strict
	}
}

func (f *simulateFlags) run(cmd *cobra.Command, cfg *config.ProjectConfig) error {
	ctx := cmd.Context()
	p, err := loadProject(ctx, cfg, projectOptions{gpu: f.gpu})
	if err != nil {
		return err
	}
	defer p.Close()

	var store *storage.MotionStore
	if f.save || f.restore {
		if store, err = storage.OpenMotionStore(cfg.Name); err != nil {
			return err
		}
	}
	if f.restore {
		if _, err := store.RestoreScene(p.scene); err != nil {
			return err
		}
	}

	var names []string
	for _, obj := range p.scene.Objects() {
		names = append(names, obj.Name())
	}

	report := simulationReport{}
	eng := p.engine(f.profile)
	if f.realtime > 0 {
		eng.SetTickCallback(func(deltaMs float64) {
			report.Ticks++
			report.ElapsedMs += deltaMs
		})
		runCtx, cancel := context.WithTimeout(ctx, f.realtime)
		defer cancel()
		if err := eng.Run(runCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
	} else {
		delta := f.deltaMs
		if delta <= 0 {
			delta = 1000 / cfg.TickRate
		}
		for range f.ticks {
			if err := eng.Step(delta); err != nil {
				return fmt.Errorf("tick %d: %w", report.Ticks, err)
			}
			report.Ticks++
			report.ElapsedMs += delta
		}
	}

	if f.save {
		if err := store.SaveScene(p.scene); err != nil {
			return err
		}
	}

	for _, obj := range p.scene.Objects() {
		anim := obj.Animator()
		entity := entityReport{ID: obj.ID(), Name: obj.Name()}
		for _, m := range anim.Motions() {
			entity.Motions = append(entity.Motions, m.Snapshot())
		}
		for _, world := range anim.Pose().WorldTransforms(nil) {
			entity.Bones = append(entity.Bones, [3]float32{world[12], world[13], world[14]})
		}
		report.Entities = append(report.Entities, entity)
		names = slices.DeleteFunc(names, func(n string) bool { return n == obj.Name() })
	}
	report.Finished = names

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
