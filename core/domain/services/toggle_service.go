package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
	"github.com/carlosrabelo/nicswitch/core/domain/ports"
)

// ToggleServiceImpl implements the toggle workflow
type ToggleServiceImpl struct {
	directory  ports.AdapterDirectory
	controller ports.AdapterController
	inProgress atomic.Bool
}

// NewToggleService creates a new instance of the toggle workflow
func NewToggleService(directory ports.AdapterDirectory, controller ports.AdapterController) *ToggleServiceImpl {
	return &ToggleServiceImpl{
		directory:  directory,
		controller: controller,
	}
}

// State returns whether a toggle is currently running
func (t *ToggleServiceImpl) State() ports.WorkflowState {
	if t.inProgress.Load() {
		return ports.WorkflowInProgress
	}
	return ports.WorkflowIdle
}

// Toggle disables one adapter of the pair and enables the other.
//
// Only nameA's observed state decides the direction: when nameA is connected it
// is disabled and nameB enabled, otherwise nameB is disabled and nameA enabled.
// The disable action always runs first and a failure stops the sequence without
// undoing what was already done.
func (t *ToggleServiceImpl) Toggle(ctx context.Context, nameA, nameB string) entities.ToggleResult {
	selection := entities.Selection{Interface1: nameA, Interface2: nameB}
	if err := selection.Validate(); err != nil {
		return entities.ToggleFailure(err)
	}

	if !t.inProgress.CompareAndSwap(false, true) {
		return entities.ToggleFailure(entities.ErrToggleInProgress)
	}
	defer t.inProgress.Store(false)

	connected, err := t.directory.IsConnected(ctx, nameA)
	if err != nil {
		return entities.ToggleFailure(fmt.Errorf("%w: %s: %w", entities.ErrQueryFailure, nameA, err))
	}

	disable, enable := nameB, nameA
	if connected {
		disable, enable = nameA, nameB
	}
	zap.S().Debugw("toggle direction decided", "interface1", nameA, "interface1_connected", connected, "disable", disable, "enable", enable)

	if err := t.controller.Disable(ctx, disable); err != nil {
		return entities.ToggleFailure(fmt.Errorf("%w: disable %s: %w", entities.ErrActionFailure, disable, err))
	}
	if err := t.controller.Enable(ctx, enable); err != nil {
		zap.S().Warnw("enable failed after disable succeeded, both adapters may now be down", "disabled", disable, "enable", enable, "error", err)
		return entities.ToggleFailure(fmt.Errorf("%w: enable %s: %w", entities.ErrActionFailure, enable, err))
	}

	zap.S().Infow("adapters toggled", "disabled", disable, "enabled", enable)
	return entities.ToggleSuccess(disable, enable)
}
