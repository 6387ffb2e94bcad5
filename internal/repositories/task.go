package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tinytasks/internal/models"
	"github.com/desertthunder/tinytasks/internal/shared"
)

// TaskRepository persists [models.Task] rows for the development remote store.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new [TaskRepository] with the given database connection
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// List returns every task in insertion order
func (r *TaskRepository) List(ctx context.Context) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, completed FROM tasks ORDER BY sequence ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(&task.ID, &task.Title, &task.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// Get retrieves a task by ID
func (r *TaskRepository) Get(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	err := r.db.QueryRowContext(ctx, `SELECT id, title, completed FROM tasks WHERE id = ?`, id).
		Scan(&task.ID, &task.Title, &task.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query task: %w", err)
	}

	return &task, nil
}

// Create inserts a new incomplete task with a generated ID and sequence.
//
// The title is trimmed first; a blank title is rejected with [shared.ErrInvalidInput].
func (r *TaskRepository) Create(ctx context.Context, title string) (*models.Task, error) {
	title = shared.NormalizeTitle(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", shared.ErrInvalidInput)
	}

	sequence, err := NextSequence(ctx, r.db, "tasks")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}

	task := models.Task{ID: shared.GenerateID(), Title: title}
	now := time.Now()

	query := `
		INSERT INTO tasks (id, sequence, title, completed, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query, task.ID, sequence, task.Title, task.Completed, now, now); err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}

	return &task, nil
}

// Patch applies the fields present in patch to the task with id and returns the stored result.
func (r *TaskRepository) Patch(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	if patch.Title != nil {
		title := shared.NormalizeTitle(*patch.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be blank", shared.ErrInvalidInput)
		}
		patch.Title = &title
	}

	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Empty() {
		return current, nil
	}

	task := patch.Apply(*current)

	query := `
		UPDATE tasks
		SET title = ?, completed = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, task.Title, task.Completed, time.Now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrTaskNotFound, id)
	}

	return &task, nil
}

// Delete removes the task with id
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTaskNotFound, id)
	}

	return nil
}

// Count returns the number of stored tasks
func (r *TaskRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}
