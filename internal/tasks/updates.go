package tasks

import "fmt"

// Op identifies an engine operation.
type Op int

const (
	OpLoad Op = iota
	OpCreate
	OpDelete
	OpToggle
	OpRename
	OpEdit // local edit-mode changes, no store call
)

func (o Op) String() string {
	switch o {
	case OpLoad:
		return "load"
	case OpCreate:
		return "create"
	case OpDelete:
		return "delete"
	case OpToggle:
		return "toggle"
	case OpRename:
		return "rename"
	case OpEdit:
		return "edit"
	default:
		return ""
	}
}

// fallback is the message shown when a failure carries no text.
func (o Op) fallback() string {
	switch o {
	case OpLoad:
		return "Failed to load tasks"
	case OpCreate:
		return "Failed to add task"
	case OpDelete:
		return "Failed to delete task"
	default:
		return "Failed to update task"
	}
}

// Stage is the point an operation has reached.
type Stage int

const (
	StageStarted    Stage = iota // request about to be sent, nothing changed optimistically
	StageApplied                 // local state changed ahead of the server
	StageCommitted               // server confirmed
	StageRolledBack              // server refused, snapshot restored
	StageFailed                  // server refused, nothing to restore
)

func (s Stage) String() string {
	switch s {
	case StageStarted:
		return "started"
	case StageApplied:
		return "applied"
	case StageCommitted:
		return "committed"
	case StageRolledBack:
		return "rolled_back"
	case StageFailed:
		return "failed"
	default:
		return ""
	}
}

// Update reports a state transition to the UI layer.
type Update struct {
	Op     Op
	Stage  Stage
	TaskID string // empty for collection-wide operations
	Err    error  // set for StageRolledBack and StageFailed
}

func (u Update) String() string {
	s := fmt.Sprintf("%s %s", u.Op, u.Stage)
	if u.TaskID != "" {
		s += fmt.Sprintf(" (%s)", u.TaskID)
	}
	if u.Err != nil {
		s += fmt.Sprintf(": %v", u.Err)
	}
	return s
}

// Settled reports whether the update ends an operation.
func (u Update) Settled() bool {
	return u.Stage == StageCommitted || u.Stage == StageRolledBack || u.Stage == StageFailed
}
