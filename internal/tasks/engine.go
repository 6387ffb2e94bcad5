package tasks

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tinytasks/internal/models"
	"github.com/desertthunder/tinytasks/internal/services"
	"github.com/desertthunder/tinytasks/internal/shared"
)

// Engine owns the local task collection, the drafts, the per-task markers and the error slot.
type Engine struct {
	store   services.TaskStore
	logger  *log.Logger
	updates chan<- Update

	mu    sync.Mutex
	state state
}

// EngineOpts contains optional dependencies for [NewEngine].
type EngineOpts struct {
	Updates chan<- Update // receives transitions without blocking; may be nil
	Logger  *log.Logger   // defaults to a discarding logger
}

// NewEngine creates an Engine over store. The loading flag starts set until the first [Engine.Load] settles.
func NewEngine(store services.TaskStore, opts EngineOpts) *Engine {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	return &Engine{
		store:   store,
		logger:  opts.Logger,
		updates: opts.Updates,
		state:   newState(),
	}
}

// State returns a copy of the current state.
func (e *Engine) State() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.view()
}

// Err returns the error in the error slot, if any.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.err
}

// SetDraftTitle sets the new-task title input.
func (e *Engine) SetDraftTitle(title string) {
	e.mu.Lock()
	e.state.draftTitle = title
	e.mu.Unlock()
}

// SetDraftEditTitle sets the in-progress edit title input.
func (e *Engine) SetDraftEditTitle(title string) {
	e.mu.Lock()
	e.state.draftEditTitle = title
	e.mu.Unlock()
}

// StartEdit puts the task with id in edit mode with its current title as the draft.
//
// Any other task being edited is silently replaced. Reports false if id is not in the collection.
func (e *Engine) StartEdit(id string) bool {
	e.mu.Lock()
	i := models.IndexOf(e.state.tasks, id)
	if i < 0 {
		e.mu.Unlock()
		return false
	}
	e.state.editingID = id
	e.state.draftEditTitle = e.state.tasks[i].Title
	e.state.clearError()
	e.mu.Unlock()

	e.emit(Update{Op: OpEdit, Stage: StageApplied, TaskID: id})
	return true
}

// CancelEdit leaves edit mode, discarding the draft edit text, and clears the error slot.
func (e *Engine) CancelEdit() {
	e.mu.Lock()
	id := e.state.editingID
	e.state.exitEdit()
	e.state.clearError()
	e.mu.Unlock()

	e.emit(Update{Op: OpEdit, Stage: StageCommitted, TaskID: id})
}

// Load replaces the collection with the store's list.
func (e *Engine) Load(ctx context.Context) {
	e.mu.Lock()
	e.state.loading = true
	e.state.clearError()
	e.mu.Unlock()
	e.emit(Update{Op: OpLoad, Stage: StageStarted})

	tasks, err := e.store.List(ctx)
	if tasks == nil {
		tasks = []models.Task{}
	}

	e.mu.Lock()
	e.state.loading = false
	if err != nil {
		e.state.setError(OpLoad, err)
	} else {
		e.state.tasks = tasks
	}
	e.mu.Unlock()

	e.settle(Update{Op: OpLoad, Stage: StageCommitted}, err, StageFailed)
}

// Create adds the trimmed draft title to the store, then reloads.
//
// The draft is only cleared on success.
func (e *Engine) Create(ctx context.Context) {
	e.mu.Lock()
	title := shared.NormalizeTitle(e.state.draftTitle)
	if title == "" || e.state.saving {
		e.mu.Unlock()
		return
	}
	e.state.saving = true
	e.state.clearError()
	e.mu.Unlock()
	e.emit(Update{Op: OpCreate, Stage: StageStarted})

	_, err := e.store.Create(ctx, title)
	if err == nil {
		e.mu.Lock()
		e.state.draftTitle = ""
		e.mu.Unlock()
		e.Load(ctx)
	}

	e.mu.Lock()
	e.state.saving = false
	if err != nil {
		e.state.setError(OpCreate, err)
	}
	e.mu.Unlock()

	e.settle(Update{Op: OpCreate, Stage: StageCommitted}, err, StageFailed)
}

// Delete removes the task with id locally, then asks the store to remove it.
//
// On failure the whole collection is restored to the snapshot taken before the removal.
func (e *Engine) Delete(ctx context.Context, id string) {
	e.mu.Lock()
	if models.IndexOf(e.state.tasks, id) < 0 || e.state.pending(id, OpDelete) {
		e.mu.Unlock()
		return
	}
	snap := e.state.snapshot()
	e.state.mark(id, OpDelete)
	e.state.clearError()
	e.state.tasks = without(e.state.tasks, id)
	e.mu.Unlock()
	e.emit(Update{Op: OpDelete, Stage: StageApplied, TaskID: id})

	err := e.store.Remove(ctx, id)

	e.mu.Lock()
	e.state.unmark(id, OpDelete)
	if err != nil {
		e.state.restore(snap)
		e.state.setError(OpDelete, err)
	}
	e.mu.Unlock()

	e.settle(Update{Op: OpDelete, Stage: StageCommitted, TaskID: id}, err, StageRolledBack)
}

// Toggle flips the completed flag of the task with id locally, then patches the store.
//
// On failure the whole collection is restored to the snapshot taken before the flip.
func (e *Engine) Toggle(ctx context.Context, id string) {
	e.mu.Lock()
	i := models.IndexOf(e.state.tasks, id)
	if i < 0 || e.state.pending(id, OpToggle) {
		e.mu.Unlock()
		return
	}
	snap := e.state.snapshot()
	completed := !e.state.tasks[i].Completed
	e.state.mark(id, OpToggle)
	e.state.clearError()
	e.state.tasks = toggled(e.state.tasks, i)
	e.mu.Unlock()
	e.emit(Update{Op: OpToggle, Stage: StageApplied, TaskID: id})

	_, err := e.store.Patch(ctx, id, models.CompletedPatch(completed))

	e.mu.Lock()
	e.state.unmark(id, OpToggle)
	if err != nil {
		e.state.restore(snap)
		e.state.setError(OpToggle, err)
	}
	e.mu.Unlock()

	e.settle(Update{Op: OpToggle, Stage: StageCommitted, TaskID: id}, err, StageRolledBack)
}

// SaveEdit sends the trimmed draft edit title for id, then reloads and leaves edit mode.
//
// On failure edit mode and the draft are kept so the user can retry or cancel.
func (e *Engine) SaveEdit(ctx context.Context, id string) {
	e.mu.Lock()
	title := shared.NormalizeTitle(e.state.draftEditTitle)
	if title == "" || e.state.pending(id, OpRename) {
		e.mu.Unlock()
		return
	}
	e.state.updating = true
	e.state.mark(id, OpRename)
	e.state.clearError()
	e.mu.Unlock()
	e.emit(Update{Op: OpRename, Stage: StageStarted, TaskID: id})

	_, err := e.store.Patch(ctx, id, models.TitlePatch(title))
	if err == nil {
		e.Load(ctx)
	}

	e.mu.Lock()
	e.state.updating = false
	e.state.unmark(id, OpRename)
	if err != nil {
		e.state.setError(OpRename, err)
	} else if e.state.editingID == id {
		e.state.exitEdit()
	}
	e.mu.Unlock()

	e.settle(Update{Op: OpRename, Stage: StageCommitted, TaskID: id}, err, StageFailed)
}

// settle logs and emits the final update of an operation.
func (e *Engine) settle(u Update, err error, failed Stage) {
	if err != nil {
		u.Stage = failed
		u.Err = err
		e.logger.Warn("task operation failed", "op", u.Op, "id", u.TaskID, "stage", u.Stage, "error", err)
	} else {
		e.logger.Debug("task operation settled", "op", u.Op, "id", u.TaskID)
	}
	e.emit(u)
}

// emit sends an update without blocking.
func (e *Engine) emit(u Update) {
	if e.updates == nil {
		return
	}
	select {
	case e.updates <- u:
	default:
	}
}
