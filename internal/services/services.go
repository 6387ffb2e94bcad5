// package services defines interface TaskStore for talking to the remote task list
package services

import (
	"context"

	"github.com/desertthunder/tinytasks/internal/models"
)

// TaskStore defines the primitive operations of the remote authoritative task list.
type TaskStore interface {
	// List fetches all tasks in server order.
	List(ctx context.Context) ([]models.Task, error)

	// Create adds a task; the server assigns its identifier.
	Create(ctx context.Context, title string) (*models.Task, error)

	// Patch partially updates a task. Only non-nil fields of patch change server-side.
	Patch(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)

	// Remove deletes a task. Any 2xx response is success, whether or not the task still existed.
	Remove(ctx context.Context, id string) error
}

// Op names a store primitive for error reporting.
type Op int

const (
	OpList Op = iota
	OpCreate
	OpPatch
	OpRemove
)

// Verb returns the user-facing verb used in synthesized failure messages.
func (o Op) Verb() string {
	switch o {
	case OpList:
		return "Load"
	case OpCreate:
		return "Create"
	case OpPatch:
		return "Update"
	case OpRemove:
		return "Delete"
	default:
		return "Request"
	}
}

func (o Op) String() string {
	switch o {
	case OpList:
		return "list"
	case OpCreate:
		return "create"
	case OpPatch:
		return "patch"
	case OpRemove:
		return "remove"
	default:
		return ""
	}
}
