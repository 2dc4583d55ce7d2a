package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
	"github.com/carlosrabelo/nicswitch/core/domain/ports"
	"github.com/carlosrabelo/nicswitch/core/domain/services"
)

// DefaultRefreshInterval is the status refresh period used by Watch when none is given
const DefaultRefreshInterval = 5 * time.Second

// SwitcherApplicationService orchestrates listing, selecting and toggling adapters
type SwitcherApplicationService struct {
	directory ports.AdapterDirectory
	workflow  ports.ToggleWorkflow
	store     ports.SelectionStore

	mu        sync.Mutex
	switching atomic.Bool
}

// NewSwitcherApplicationService creates a new instance of the switcher application service
func NewSwitcherApplicationService(directory ports.AdapterDirectory, controller ports.AdapterController, store ports.SelectionStore) *SwitcherApplicationService {
	return &SwitcherApplicationService{
		directory: directory,
		workflow:  services.NewToggleService(directory, controller),
		store:     store,
	}
}

// Adapters lists every adapter with its current state
func (s *SwitcherApplicationService) Adapters(ctx context.Context) ([]entities.Adapter, error) {
	adapters, err := s.directory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrQueryFailure, err)
	}
	return adapters, nil
}

// LoadSelection returns the stored selection as is
func (s *SwitcherApplicationService) LoadSelection(ctx context.Context) (entities.Selection, error) {
	nameA, nameB, err := s.store.Load(ctx)
	if err != nil {
		return entities.Selection{}, persistenceError(err)
	}
	return entities.Selection{Interface1: nameA, Interface2: nameB}, nil
}

// RestoreSelection returns the stored selection, replacing names that are no longer listed
// with the first listed adapters not already chosen. It never changes adapter state.
func (s *SwitcherApplicationService) RestoreSelection(ctx context.Context) (entities.Selection, error) {
	names, err := s.directory.ListNames(ctx)
	if err != nil {
		return entities.Selection{}, fmt.Errorf("%w: %w", entities.ErrQueryFailure, err)
	}

	stored, err := s.LoadSelection(ctx)
	if err != nil {
		zap.S().Warnw("could not load stored selection, using defaults", "error", err)
		stored = entities.Selection{}
	}

	return restoreSelection(names, stored), nil
}

func restoreSelection(names []string, stored entities.Selection) entities.Selection {
	var sel entities.Selection
	if slices.Contains(names, stored.Interface1) {
		sel.Interface1 = stored.Interface1
	}
	if slices.Contains(names, stored.Interface2) && stored.Interface2 != sel.Interface1 {
		sel.Interface2 = stored.Interface2
	}
	if sel.Interface1 == "" {
		sel.Interface1 = firstOther(names, sel.Interface2)
	}
	if sel.Interface2 == "" {
		sel.Interface2 = firstOther(names, sel.Interface1)
	}
	return sel
}

func firstOther(names []string, taken string) string {
	for _, name := range names {
		if name != taken {
			return name
		}
	}
	return ""
}

// SaveSelection validates and persists a selection without toggling
func (s *SwitcherApplicationService) SaveSelection(ctx context.Context, sel entities.Selection) error {
	if err := sel.Validate(); err != nil {
		return err
	}
	if err := s.store.Save(ctx, sel.Interface1, sel.Interface2); err != nil {
		return persistenceError(err)
	}
	return nil
}

// Switch toggles the selected pair. Only one switch runs at a time; a concurrent call fails
// with ErrToggleInProgress. On success the selection is saved, and a save failure is reported
// as a warning on the result.
func (s *SwitcherApplicationService) Switch(ctx context.Context, sel entities.Selection) entities.ToggleResult {
	if !s.mu.TryLock() {
		return entities.ToggleFailure(entities.ErrToggleInProgress)
	}
	defer s.mu.Unlock()
	s.switching.Store(true)
	defer s.switching.Store(false)

	log := zap.S().With("operation_id", uuid.NewString())
	log.Infow("switch requested", "interface1", sel.Interface1, "interface2", sel.Interface2)

	result := s.workflow.Toggle(ctx, sel.Interface1, sel.Interface2)
	if !result.Success() {
		log.Warnw("switch failed", "error", result.Err)
		return result
	}

	if err := s.store.Save(ctx, sel.Interface1, sel.Interface2); err != nil {
		result.Warning = persistenceError(err)
		log.Warnw("selection not saved", "error", err)
	}
	log.Infow("switch completed", "disabled", result.Disabled, "enabled", result.Enabled)
	return result
}

// SwitchStored toggles the restored selection
func (s *SwitcherApplicationService) SwitchStored(ctx context.Context) entities.ToggleResult {
	sel, err := s.RestoreSelection(ctx)
	if err != nil {
		return entities.ToggleFailure(err)
	}
	return s.Switch(ctx, sel)
}

// Busy reports whether a switch is running
func (s *SwitcherApplicationService) Busy() bool {
	return s.switching.Load() || s.workflow.State() == ports.WorkflowInProgress
}

// Status re-reads the state of the named adapters. Names that cannot be resolved are Unknown.
func (s *SwitcherApplicationService) Status(ctx context.Context, names ...string) []entities.Adapter {
	out := make([]entities.Adapter, 0, len(names))
	adapters, err := s.directory.List(ctx)
	if err != nil {
		zap.S().Debugw("status query failed", "error", err)
	}

	for _, name := range names {
		state := entities.AdapterUnknown
		if err == nil {
			if idx := slices.IndexFunc(adapters, func(a entities.Adapter) bool { return a.Name == name }); idx >= 0 {
				state = adapters[idx].State
			}
		}
		out = append(out, entities.Adapter{Name: name, State: state})
	}
	return out
}

// Watch reports the state of the named adapters immediately and then every interval until
// ctx is done. Ticks that occur while a switch is running are skipped.
func (s *SwitcherApplicationService) Watch(ctx context.Context, interval time.Duration, names []string, fn func([]entities.Adapter)) error {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if len(names) == 0 {
		return errors.New("no adapters to watch")
	}

	fn(s.Status(ctx, names...))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if s.Busy() {
				zap.S().Debugw("switch in progress, skipping refresh")
				continue
			}
			fn(s.Status(ctx, names...))
		}
	}
}

func persistenceError(err error) error {
	if errors.Is(err, entities.ErrPersistenceFailure) {
		return err
	}
	return fmt.Errorf("%w: %w", entities.ErrPersistenceFailure, err)
}
