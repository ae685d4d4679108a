package storage

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Carmen-Shannon/oxy-motion/engine/animator"
	"github.com/Carmen-Shannon/oxy-motion/engine/scene"
	"github.com/Carmen-Shannon/oxy-motion/engine/state_machine"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const motionsObject = "motions"

// ErrNoEntityName is returned when snapshots are saved or loaded for an unnamed entity.
var ErrNoEntityName = errors.New("entity has no name")

// MotionStore saves Motion snapshots per entity in the platform's application data directory.
// A store without a gdata manager keeps nothing: saves succeed and loads find nothing.
type MotionStore struct {
	manager *gdata.Manager
}

// NewMotionStore creates a MotionStore over an opened gdata manager.
//
// Parameters:
//   - manager: the gdata manager, or nil to run without persistence
//
// Returns:
//   - *MotionStore: the new store
func NewMotionStore(manager *gdata.Manager) *MotionStore {
	return &MotionStore{manager: manager}
}

// OpenMotionStore opens the gdata storage of appName and wraps it in a MotionStore.
//
// Parameters:
//   - appName: the application name gdata keys its data directory by
//
// Returns:
//   - *MotionStore: the new store
//   - error: error if the data directory cannot be opened
func OpenMotionStore(appName string) (*MotionStore, error) {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open motion store: %w", err)
	}
	return NewMotionStore(manager), nil
}

// Save stores the snapshots of one entity, replacing any previous ones.
//
// Parameters:
//   - entity: the entity name
//   - snapshots: the Motion snapshots to store
//
// Returns:
//   - error: ErrNoEntityName, or an encoding or write error
func (s *MotionStore) Save(entity string, snapshots []state_machine.MotionSnapshot) error {
	if entity == "" {
		return ErrNoEntityName
	}
	if s.manager == nil {
		return nil
	}

	data, err := yaml.Marshal(snapshots)
	if err != nil {
		return fmt.Errorf("failed to marshal motions of %q: %w", entity, err)
	}
	if err := s.manager.SaveObjectProp(motionsObject, entity, data); err != nil {
		return fmt.Errorf("failed to save motions of %q: %w", entity, err)
	}
	slog.Debug("motions saved", "entity", entity, "count", len(snapshots))
	return nil
}

// Load reads the snapshots of one entity.
//
// Parameters:
//   - entity: the entity name
//
// Returns:
//   - []state_machine.MotionSnapshot: the stored snapshots
//   - bool: false if nothing is stored for the entity
//   - error: ErrNoEntityName, or a read or decoding error
func (s *MotionStore) Load(entity string) ([]state_machine.MotionSnapshot, bool, error) {
	if entity == "" {
		return nil, false, ErrNoEntityName
	}
	if s.manager == nil || !s.manager.ObjectPropExists(motionsObject, entity) {
		return nil, false, nil
	}

	data, err := s.manager.LoadObjectProp(motionsObject, entity)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load motions of %q: %w", entity, err)
	}

	var snapshots []state_machine.MotionSnapshot
	if err := yaml.Unmarshal(data, &snapshots); err != nil {
		return nil, false, fmt.Errorf("%w: motions of %q: %w", state_machine.ErrMalformed, entity, err)
	}
	return snapshots, true, nil
}

// Delete removes the snapshots of one entity. Deleting an entity with nothing stored is not an error.
//
// Parameters:
//   - entity: the entity name
//
// Returns:
//   - error: ErrNoEntityName, or a delete error
func (s *MotionStore) Delete(entity string) error {
	if entity == "" {
		return ErrNoEntityName
	}
	if s.manager == nil || !s.manager.ObjectPropExists(motionsObject, entity) {
		return nil
	}
	if err := s.manager.DeleteObjectProp(motionsObject, entity); err != nil {
		return fmt.Errorf("failed to delete motions of %q: %w", entity, err)
	}
	return nil
}

// SaveAnimator snapshots every Motion of anim under the entity name.
//
// Parameters:
//   - entity: the entity name
//   - anim: the animator whose Motions are saved
//
// Returns:
//   - error: any error from Save
func (s *MotionStore) SaveAnimator(entity string, anim animator.Animator) error {
	motions := anim.Motions()
	snapshots := make([]state_machine.MotionSnapshot, 0, len(motions))
	for _, m := range motions {
		snapshots = append(snapshots, m.Snapshot())
	}
	return s.Save(entity, snapshots)
}

// RestoreAnimator restores the stored snapshots of the entity into anim.
// Snapshots are matched to Motions by name; a snapshot with no matching Motion creates one.
//
// Parameters:
//   - entity: the entity name
//   - anim: the animator to restore into
//
// Returns:
//   - bool: false if nothing is stored for the entity
//   - error: a Load error, or the joined restore errors
func (s *MotionStore) RestoreAnimator(entity string, anim animator.Animator) (bool, error) {
	snapshots, ok, err := s.Load(entity)
	if err != nil || !ok {
		return ok, err
	}

	var errs []error
	for _, snap := range snapshots {
		m := anim.Motion(snap.Name)
		if m == nil {
			if m, err = anim.AddMotion(state_machine.WithName(snap.Name)); err != nil {
				errs = append(errs, err)
				continue
			}
		}
		if err := m.Restore(snap); err != nil {
			errs = append(errs, fmt.Errorf("entity %q: %w", entity, err))
		}
	}
	return true, errors.Join(errs...)
}

// SaveScene saves the Motions of every named, non-ephemeral object in the scene.
//
// Parameters:
//   - sc: the scene to save
//
// Returns:
//   - error: the joined per-object save errors
func (s *MotionStore) SaveScene(sc scene.Scene) error {
	var errs []error
	for _, obj := range sc.Objects() {
		if obj.Ephemeral() || obj.Name() == "" {
			continue
		}
		if err := s.SaveAnimator(obj.Name(), obj.Animator()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RestoreScene restores the stored Motions of every named, non-ephemeral object in the scene.
//
// Parameters:
//   - sc: the scene to restore
//
// Returns:
//   - int: the number of objects that had stored Motions
//   - error: the joined per-object restore errors
func (s *MotionStore) RestoreScene(sc scene.Scene) (int, error) {
	var errs []error
	restored := 0
	for _, obj := range sc.Objects() {
		if obj.Ephemeral() || obj.Name() == "" {
			continue
		}
		ok, err := s.RestoreAnimator(obj.Name(), obj.Animator())
		if ok {
			restored++
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return restored, errors.Join(errs...)
}
