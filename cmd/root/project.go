package root

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-motion/engine"
	"github.com/Carmen-Shannon/oxy-motion/engine/animator"
	"github.com/Carmen-Shannon/oxy-motion/engine/config"
	"github.com/Carmen-Shannon/oxy-motion/engine/game_object"
	"github.com/Carmen-Shannon/oxy-motion/engine/loader"
	"github.com/Carmen-Shannon/oxy-motion/engine/model"
	"github.com/Carmen-Shannon/oxy-motion/engine/renderer"
	"github.com/Carmen-Shannon/oxy-motion/engine/scene"
	"github.com/Carmen-Shannon/oxy-motion/engine/state_machine"
	"github.com/Carmen-Shannon/oxy-motion/engine/storage"
)

// project is a loaded project: its assets, graph, and a scene holding one object per entity.
type project struct {
	cfg    *config.ProjectConfig
	loader loader.Loader
	model  model.Model
	graph  state_machine.AnimationGraph
	scene  scene.Scene
	gpu    renderer.Renderer
}

type projectOptions struct {
	gpu bool
}

// loadProject loads every file the project names and builds its scene.
func loadProject(ctx context.Context, cfg *config.ProjectConfig, opts projectOptions) (*project, error) {
	ld := loader.NewLoader(loader.BackendTypeYAML, loader.WithLoadLimit(cfg.ComputeWorkers))
	mdl, err := ld.LoadModel(ctx, cfg.Name, cfg.Skeleton, cfg.Assets...)
	if err != nil {
		return nil, err
	}

	graph, err := storage.NewGraphStore(cfg.Graph).Load()
	if err != nil {
		return nil, err
	}
	if err := graph.Validate(); err != nil {
		return nil, fmt.Errorf("graph %q: %w", cfg.Graph, err)
	}

	p := &project{cfg: cfg, loader: ld, model: mdl, graph: graph}
	if opts.gpu {
		if p.gpu, err = renderer.NewRenderer(renderer.WithForceFallbackAdapter(true)); err != nil {
			return nil, err
		}
	}

	p.scene = scene.NewScene(cfg.Name, scene.WithActive(true), scene.WithComputeWorkers(cfg.ComputeWorkers))
	for _, e := range cfg.Entities {
		anim, err := p.newAnimator(e)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("entity %q: %w", e.Name, err)
		}
		p.scene.Add(game_object.NewGameObject(
			game_object.WithName(e.Name),
			game_object.WithEphemeral(e.Ephemeral),
			game_object.WithModel(mdl),
			game_object.WithAnimator(anim),
		))
	}

	slog.Debug("project loaded", "name", cfg.Name, "assets", len(cfg.Assets), "entities", p.scene.Count())
	return p, nil
}

func (p *project) newAnimator(e config.EntityConfig) (animator.Animator, error) {
	var options []animator.AnimatorBuilderOption
	for _, m := range e.Motions {
		options = append(options, animator.WithMotion(p.cfg.MotionOptions(m)...))
	}
	if p.gpu != nil {
		buf, err := p.gpu.NewBoneBuffer(e.Name, p.model.Skeleton().BoneCount)
		if err != nil {
			return nil, err
		}
		options = append(options, animator.WithBoneBuffer(buf))
	}
	return animator.NewAnimator(p.model.Skeleton(), p.graph, p.loader, options...)
}

// engine wraps the project's scene in an Engine ticking at the configured rate.
func (p *project) engine(profiling bool) engine.Engine {
	return engine.NewEngine(
		engine.WithTickRate(p.cfg.TickRate),
		engine.WithProfiling(profiling),
		engine.WithScene(0, p.scene),
	)
}

// checkAssets reports clips whose animation was not loaded and entities starting in unknown states.
func (p *project) checkAssets() error {
	var errs []error
	for _, node := range p.graph.Nodes() {
		state, ok := node.(*state_machine.AnimationState)
		if !ok {
			continue
		}
		for s := state; s != nil; s = s.Child {
			for _, clips := range []*state_machine.ClipMap{s.Clips, s.Layers} {
				if clips == nil {
					continue
				}
				for pair := clips.Oldest(); pair != nil; pair = pair.Next() {
					if p.loader.Asset(pair.Value.AssetRef) == nil {
						errs = append(errs, fmt.Errorf("state %q clip %q: animation %q is not loaded", s.Name(), pair.Key, pair.Value.AssetRef))
					}
				}
			}
		}
	}

	for _, e := range p.cfg.Entities {
		for _, m := range e.Motions {
			if m.InitialState != "" && p.graph.NodeByName(m.InitialState) == nil {
				errs = append(errs, fmt.Errorf("entity %q motion %q: %w: %q", e.Name, m.Name, state_machine.ErrNodeNotFound, m.InitialState))
			}
		}
	}
	return errors.Join(errs...)
}

func (p *project) Close() {
	p.scene.Close()
	if p.gpu != nil {
		p.gpu.Release()
	}
}
