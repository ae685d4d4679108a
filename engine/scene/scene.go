package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-motion/engine/game_object"
)

// Scene is a flat registry of GameObjects ticked together.
// Scenes can be hot-swapped via the Active flag; the engine only updates active scenes.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is updated by the engine.
	Active() bool

	// SetActive sets whether this scene is updated by the engine.
	SetActive(active bool)

	// Count returns the number of GameObjects in the scene.
	//
	// Returns:
	//   - int: count of registered GameObjects
	Count() int

	// Add registers a GameObject, assigning it an ID if it has none.
	// Panics if the object has no Animator.
	//
	// Parameters:
	//   - obj: the GameObject to add
	//
	// Returns:
	//   - uint64: the assigned object ID
	Add(obj game_object.GameObject) uint64

	// Get retrieves a GameObject by its ID.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Objects returns the registered GameObjects in ascending ID order.
	//
	// Returns:
	//   - []game_object.GameObject: a snapshot of the registry
	Objects() []game_object.GameObject

	// Remove removes a GameObject from the registry by ID.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - bool: true if an object was removed
	Remove(id uint64) bool

	// Clear removes all objects from the scene.
	Clear()

	// Update ticks the Animator of every enabled object on the scene's compute pool and waits
	// for all of them. Objects whose Animator has finished are removed afterwards.
	//
	// Parameters:
	//   - deltaMs: elapsed time since the last update in milliseconds
	//
	// Returns:
	//   - error: the joined per-object tick errors, or nil
	Update(deltaMs float64) error

	// Pool returns the worker pool used to fan out object updates.
	//
	// Returns:
	//   - worker.DynamicWorkerPool: the compute pool
	Pool() worker.DynamicWorkerPool

	// Close stops the compute pool if the scene created it.
	Close()
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active atomic.Bool

	registry map[uint64]game_object.GameObject
	nextID   uint64

	// computePool fans out per-object ticks. Workers persist across updates.
	computePool    worker.DynamicWorkerPool
	computeWorkers int
	ownsPool       bool
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new, inactive Scene.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:             &sync.RWMutex{},
		name:           name,
		registry:       make(map[uint64]game_object.GameObject),
		nextID:         1,
		computeWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the compute pool after options so WithComputeWorkers can override the default.
	if s.computePool == nil {
		s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)
		s.ownsPool = true
	}
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	return s.active.Load()
}

func (s *scene) SetActive(active bool) {
	s.active.Store(active)
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(obj)
	return obj.ID()
}

func (s *scene) addLocked(obj game_object.GameObject) {
	if obj.Animator() == nil {
		panic("scene: cannot Add a GameObject without an Animator")
	}
	if obj.ID() == 0 {
		obj.SetID(s.nextID)
		s.nextID++
	} else if obj.ID() >= s.nextID {
		s.nextID = obj.ID() + 1
	}
	s.registry[obj.ID()] = obj
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objs := make([]game_object.GameObject, 0, len(s.registry))
	for _, id := range slices.Sorted(maps.Keys(s.registry)) {
		objs = append(objs, s.registry[id])
	}
	return objs
}

func (s *scene) Remove(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.registry[id]; !exists {
		return false
	}
	delete(s.registry, id)
	return true
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = make(map[uint64]game_object.GameObject)
}

func (s *scene) Update(deltaMs float64) error {
	name := s.Name()
	objs := s.Objects()

	// A WaitGroup provides the per-update barrier since pool.Wait() blocks until
	// workers idle-exit, which is unsuitable for tick-rate workloads.
	var wg sync.WaitGroup
	errs := make([]error, len(objs))
	for i, obj := range objs {
		if !obj.Enabled() {
			continue
		}

		wg.Add(1)
		anim := obj.Animator()
		s.computePool.SubmitTask(worker.Task{
			ID:      i,
			Payload: obj.ID(),
			Do: func() (any, error) {
				defer wg.Done()
				if err := anim.Tick(deltaMs); err != nil {
					errs[i] = fmt.Errorf("scene %q: object %d %q: %w", name, obj.ID(), obj.Name(), err)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	for _, obj := range objs {
		if obj.Animator().Finished() && s.Remove(obj.ID()) {
			slog.Debug("object finished", "scene", name, "id", obj.ID(), "name", obj.Name())
		}
	}
	return errors.Join(errs...)
}

func (s *scene) Pool() worker.DynamicWorkerPool {
	return s.computePool
}

func (s *scene) Close() {
	if s.ownsPool {
		s.computePool.Stop()
	}
}
