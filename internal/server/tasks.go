package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tinytasks/internal/models"
	"github.com/desertthunder/tinytasks/internal/shared"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// TaskRepository is the persistence the [TaskHandler] needs.
type TaskRepository interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, title string) (*models.Task, error)
	Patch(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id string) error
}

// TaskHandler serves the task collection at /tasks and single tasks at /tasks/{id}.
//
// Failures are written as plain text so clients can show the body as-is.
type TaskHandler struct {
	repo   TaskRepository
	logger *log.Logger
}

// NewTaskHandler creates a [TaskHandler] backed by repo.
func NewTaskHandler(repo TaskRepository, logger *log.Logger) *TaskHandler {
	return &TaskHandler{repo: repo, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *TaskHandler) Routes() []string {
	return []string{"/tasks", "/tasks/"}
}

func (h *TaskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/tasks" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			w.Header().Set("Allow", "GET, POST")
			writeText(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/tasks/")
	if id == "" || strings.Contains(id, "/") {
		writeText(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		h.patch(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		w.Header().Set("Allow", "PATCH, DELETE")
		writeText(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *TaskHandler) list(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.repo.List(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title string `json:"title"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	task, err := h.repo.Create(r.Context(), body.Title)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.logger.Debug("task created", "id", task.ID)
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) patch(w http.ResponseWriter, r *http.Request, id string) {
	var patch models.TaskPatch
	if err := decodeBody(r, &patch); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	task, err := h.repo.Patch(r.Context(), id, patch)
	if err != nil {
		h.fail(w, err)
		return
	}

	h.logger.Debug("task updated", "id", id)
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}

	h.logger.Debug("task deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// fail maps repository errors onto status codes.
func (h *TaskHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		writeText(w, http.StatusBadRequest, "Title is required")
	case errors.Is(err, shared.ErrTaskNotFound):
		writeText(w, http.StatusNotFound, "Task not found")
	default:
		h.logger.Error("task store failure", "error", err)
		writeText(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		writeText(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

// writeText writes msg without the trailing newline [http.Error] adds.
func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	io.WriteString(w, msg)
}

// NewTaskRouter wires the task handler behind the logging and rate limiting middleware.
func NewTaskRouter(repo TaskRepository, logger *log.Logger, limiter *rate.Limiter) *BasicRouter {
	router := NewBasicRouter()
	router.Use(Logging(logger), RateLimit(limiter))
	router.Handler(NewTaskHandler(repo, logger))
	return router
}
