package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-motion/engine/animation"
	"github.com/Carmen-Shannon/oxy-motion/engine/model"
	"golang.org/x/sync/errgroup"
)

// LoaderBackendType identifies the asset file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeYAML selects the YAML animation and skeleton backend.
	BackendTypeYAML LoaderBackendType = iota
)

// AssetEntry names an animation file and the reference clips use to find it.
type AssetEntry struct {
	Ref  string `yaml:"ref"`
	Path string `yaml:"path"`
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	pool      worker.DynamicWorkerPool
	loadLimit int
	nextTask  int

	assetCache    map[string]*animation.AnimationAsset
	pending       map[string]struct{}
	skeletonCache map[string]*model.Skeleton
	modelCache    map[string]model.Model

	backend loaderBackend
}

// Loader loads and caches animation assets, skeletons and the models that tie them together.
//
// A Loader is the AssetSource clips resolve against: Lookup reports false for references
// that are unknown or still loading in the background, which callers treat as "not ready".
type Loader interface {
	animation.AssetSource

	// LoadAnimation decodes an animation file and caches it under ref.
	// If ref is already cached, the cached asset is returned.
	//
	// Parameters:
	//   - ref: the reference clips use for this asset
	//   - path: the file path to the animation file
	//
	// Returns:
	//   - *animation.AnimationAsset: the loaded and cached asset
	//   - error: error if loading fails
	LoadAnimation(ref, path string) (*animation.AnimationAsset, error)

	// LoadAnimationReader decodes an animation from a reader and caches it under ref.
	//
	// Parameters:
	//   - ref: the reference clips use for this asset
	//   - r: the reader providing asset data
	//
	// Returns:
	//   - *animation.AnimationAsset: the loaded asset
	//   - error: error if decoding fails
	LoadAnimationReader(ref string, r io.Reader) (*animation.AnimationAsset, error)

	// LoadAnimationAsync schedules an animation load on the worker pool.
	// Until it completes, Lookup(ref) reports not ready. Failures are logged and leave the
	// reference unresolved. Without a pool the load runs on the calling goroutine.
	//
	// Parameters:
	//   - ref: the reference clips use for this asset
	//   - path: the file path to the animation file
	//
	// Returns:
	//   - bool: false if ref is already cached or loading
	LoadAnimationAsync(ref, path string) bool

	// LoadAll loads every entry concurrently, bounded by the loader's load limit.
	//
	// Parameters:
	//   - ctx: cancels loads that have not started yet
	//   - entries: the animation files to load
	//
	// Returns:
	//   - error: the first load error or ctx's error
	LoadAll(ctx context.Context, entries []AssetEntry) error

	// LoadSkeleton decodes a skeleton file and caches it by path.
	//
	// Parameters:
	//   - path: the file path to the skeleton file
	//
	// Returns:
	//   - *model.Skeleton: the loaded skeleton
	//   - error: error if loading fails
	LoadSkeleton(path string) (*model.Skeleton, error)

	// LoadSkeletonReader decodes a skeleton from a reader and caches it under name.
	//
	// Parameters:
	//   - name: the cache key for the skeleton
	//   - r: the reader providing skeleton data
	//
	// Returns:
	//   - *model.Skeleton: the loaded skeleton
	//   - error: error if decoding fails
	LoadSkeletonReader(name string, r io.Reader) (*model.Skeleton, error)

	// LoadModel loads a skeleton and its animations and caches the resulting model by name.
	//
	// Parameters:
	//   - name: the model name and cache key
	//   - skeletonPath: the file path to the skeleton file
	//   - ctx: cancels animation loads that have not started yet
	//   - entries: the model's animation files
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if any file fails to load
	LoadModel(ctx context.Context, name, skeletonPath string, entries ...AssetEntry) (model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	Get(name string) model.Model

	// Models returns a copy of the model cache.
	Models() map[string]model.Model

	// Asset retrieves a cached asset by reference. Returns nil if not found.
	Asset(ref string) *animation.AnimationAsset

	// Assets returns a copy of the asset cache.
	Assets() map[string]*animation.AnimationAsset

	// Pending reports whether ref is loading in the background.
	Pending(ref string) bool
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeYAML)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		loadLimit:     4,
		assetCache:    make(map[string]*animation.AnimationAsset),
		pending:       make(map[string]struct{}),
		skeletonCache: make(map[string]*model.Skeleton),
		modelCache:    make(map[string]model.Model),
	}

	switch backendType {
	case BackendTypeYAML:
		l.backend = newYAMLLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Lookup(ref string) (*animation.AnimationAsset, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, ok := l.assetCache[ref]
	return a, ok
}

func (l *loader) LoadAnimation(ref, path string) (*animation.AnimationAsset, error) {
	if cached, ok := l.Lookup(ref); ok {
		return cached, nil
	}

	if err := checkExtension(path); err != nil {
		return nil, err
	}

	asset, err := l.backend.LoadAnimation(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load animation %q from %s: %w", ref, path, err)
	}

	asset = l.store(ref, asset)
	slog.Debug("loaded animation", "ref", ref, "path", path, "joints", len(asset.Joints()))
	return asset, nil
}

func (l *loader) LoadAnimationReader(ref string, r io.Reader) (*animation.AnimationAsset, error) {
	if cached, ok := l.Lookup(ref); ok {
		return cached, nil
	}

	asset, err := l.backend.LoadAnimationReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load animation %q from reader: %w", ref, err)
	}

	return l.store(ref, asset), nil
}

func (l *loader) LoadAnimationAsync(ref, path string) bool {
	l.mu.Lock()
	if _, ok := l.assetCache[ref]; ok {
		l.mu.Unlock()
		return false
	}
	if _, ok := l.pending[ref]; ok {
		l.mu.Unlock()
		return false
	}
	l.pending[ref] = struct{}{}
	taskID := l.nextTask
	l.nextTask++
	l.mu.Unlock()

	load := func() (any, error) {
		defer func() {
			l.mu.Lock()
			delete(l.pending, ref)
			l.mu.Unlock()
		}()
		asset, err := l.LoadAnimation(ref, path)
		if err != nil {
			slog.Warn("background animation load failed", "ref", ref, "path", path, "error", err)
		}
		return asset, err
	}

	if l.pool == nil {
		_, _ = load()
		return true
	}
	l.pool.SubmitTask(worker.Task{ID: taskID, Payload: ref, Do: load})
	return true
}

func (l *loader) LoadAll(ctx context.Context, entries []AssetEntry) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(l.loadLimit, 1))

	for _, entry := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := l.LoadAnimation(entry.Ref, entry.Path)
			return err
		})
	}
	return g.Wait()
}

func (l *loader) LoadSkeleton(path string) (*model.Skeleton, error) {
	l.mu.RLock()
	if cached, ok := l.skeletonCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	if err := checkExtension(path); err != nil {
		return nil, err
	}

	skel, err := l.backend.LoadSkeleton(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load skeleton %s: %w", path, err)
	}

	l.mu.Lock()
	l.skeletonCache[path] = skel
	l.mu.Unlock()
	return skel, nil
}

func (l *loader) LoadSkeletonReader(name string, r io.Reader) (*model.Skeleton, error) {
	l.mu.RLock()
	if cached, ok := l.skeletonCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	skel, err := l.backend.LoadSkeletonReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load skeleton %q from reader: %w", name, err)
	}

	l.mu.Lock()
	l.skeletonCache[name] = skel
	l.mu.Unlock()
	return skel, nil
}

func (l *loader) LoadModel(ctx context.Context, name, skeletonPath string, entries ...AssetEntry) (model.Model, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	skel, err := l.LoadSkeleton(skeletonPath)
	if err != nil {
		return nil, err
	}
	if err := l.LoadAll(ctx, entries); err != nil {
		return nil, err
	}

	refs := make([]string, len(entries))
	for i, entry := range entries {
		refs[i] = entry.Ref
	}

	m := model.NewModel(
		model.WithName(name),
		model.WithSkeleton(skel),
		model.WithAnimations(refs...),
	)

	l.mu.Lock()
	l.modelCache[name] = m
	l.mu.Unlock()
	return m, nil
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.modelCache)
}

func (l *loader) Asset(ref string) *animation.AnimationAsset {
	a, _ := l.Lookup(ref)
	return a
}

func (l *loader) Assets() map[string]*animation.AnimationAsset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.assetCache)
}

func (l *loader) Pending(ref string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.pending[ref]
	return ok
}

// store caches asset under ref unless another load got there first, and returns the cached asset.
func (l *loader) store(ref string, asset *animation.AnimationAsset) *animation.AnimationAsset {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.assetCache[ref]; ok {
		return cached
	}
	l.assetCache[ref] = asset
	return asset
}

// checkExtension rejects files the YAML backend cannot decode.
func checkExtension(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return nil
	default:
		return fmt.Errorf("unsupported asset format: %s", ext)
	}
}
