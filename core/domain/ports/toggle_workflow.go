package ports

import (
	"context"

	"github.com/carlosrabelo/nicswitch/core/domain/entities"
)

// WorkflowState is the execution state of the toggle workflow
type WorkflowState string

const (
	WorkflowIdle       WorkflowState = "idle"
	WorkflowInProgress WorkflowState = "in_progress"
)

// ToggleWorkflow defines the port for switching the active adapter of a pair
type ToggleWorkflow interface {
	Toggle(ctx context.Context, nameA, nameB string) entities.ToggleResult
	State() WorkflowState
}
