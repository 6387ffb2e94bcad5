package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/tinytasks/internal/models"
	"github.com/desertthunder/tinytasks/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(ctx, db, "tasks")
		if err != nil {
			t.Fatalf("NextSequence failed: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	t.Run("UnknownTable", func(t *testing.T) {
		if _, err := NextSequence(ctx, db, "missing"); err == nil {
			t.Fatal("expected error for missing sequence table")
		}
	})
}

func TestTaskRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTaskRepository(db)
		task, err := repo.Create(ctx, "  buy milk ")
		if err != nil {
			t.Fatalf("failed to create task: %v", err)
		}

		if task.ID == "" {
			t.Error("task ID should be set after creation")
		}
		if task.Title != "buy milk" {
			t.Errorf("expected trimmed title, got %q", task.Title)
		}
		if task.Completed {
			t.Error("new task should not be completed")
		}
	})

	t.Run("Create BlankTitle", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTaskRepository(db)
		_, err := repo.Create(ctx, "   ")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}

		n, err := repo.Count(ctx)
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if n != 0 {
			t.Errorf("expected no rows, got %d", n)
		}
	})

	t.Run("List InsertionOrder", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTaskRepository(db)
		for _, title := range []string{"c", "a", "b"} {
			if _, err := repo.Create(ctx, title); err != nil {
				t.Fatalf("failed to create task: %v", err)
			}
		}

		tasks, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("failed to list tasks: %v", err)
		}

		if len(tasks) != 3 {
			t.Fatalf("expected 3 tasks, got %d", len(tasks))
		}
		for i, want := range []string{"c", "a", "b"} {
			if tasks[i].Title != want {
				t.Errorf("position %d: expected %s, got %s", i, want, tasks[i].Title)
			}
		}
	})

	t.Run("List Empty", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		tasks, err := NewTaskRepository(db).List(ctx)
		if err != nil {
			t.Fatalf("failed to list tasks: %v", err)
		}
		if tasks == nil || len(tasks) != 0 {
			t.Errorf("expected empty non-nil slice, got %#v", tasks)
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTaskRepository(db)
		created, err := repo.Create(ctx, "a")
		if err != nil {
			t.Fatalf("failed to create task: %v", err)
		}

		got, err := repo.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("failed to get task: %v", err)
		}
		if *got != *created {
			t.Errorf("expected %+v, got %+v", *created, *got)
		}

		if _, err := repo.Get(ctx, "nonexistent-id"); !errors.Is(err, shared.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})

	t.Run("Patch", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTaskRepository(db)
		created, err := repo.Create(ctx, "a")
		if err != nil {
			t.Fatalf("failed to create task: %v", err)
		}

		toggled, err := repo.Patch(ctx, created.ID, models.CompletedPatch(true))
		if err != nil {
			t.Fatalf("failed to patch task: %v", err)
		}
		if !toggled.Completed || toggled.Title != "a" {
			t.Errorf("unexpected task after toggle: %+v", *toggled)
		}

		renamed, err := repo.Patch(ctx, created.ID, models.TitlePatch(" b "))
		if err != nil {
			t.Fatalf("failed to patch task: %v", err)
		}
		if renamed.Title != "b" || !renamed.Completed {
			t.Errorf("unexpected task after rename: %+v", *renamed)
		}

		stored, _ := repo.Get(ctx, created.ID)
		if *stored != *renamed {
			t.Errorf("stored %+v differs from returned %+v", *stored, *renamed)
		}
	})

	t.Run("Patch Errors", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTaskRepository(db)
		created, _ := repo.Create(ctx, "a")

		if _, err := repo.Patch(ctx, created.ID, models.TitlePatch("  ")); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if _, err := repo.Patch(ctx, "nonexistent-id", models.CompletedPatch(true)); !errors.Is(err, shared.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})

	t.Run("Patch Empty", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTaskRepository(db)
		created, _ := repo.Create(ctx, "a")

		got, err := repo.Patch(ctx, created.ID, models.TaskPatch{})
		if err != nil {
			t.Fatalf("failed to patch task: %v", err)
		}
		if *got != *created {
			t.Errorf("expected unchanged task, got %+v", *got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewTaskRepository(db)
		first, _ := repo.Create(ctx, "a")
		second, _ := repo.Create(ctx, "b")

		if err := repo.Delete(ctx, first.ID); err != nil {
			t.Fatalf("failed to delete task: %v", err)
		}

		tasks, _ := repo.List(ctx)
		if len(tasks) != 1 || tasks[0].ID != second.ID {
			t.Errorf("expected only %s to remain, got %+v", second.ID, tasks)
		}

		if err := repo.Delete(ctx, first.ID); !errors.Is(err, shared.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound on second delete, got %v", err)
		}
	})

	t.Run("ClosedDatabase", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewTaskRepository(db)
		db.Close()

		if _, err := repo.List(ctx); err == nil {
			t.Error("expected List error on closed database")
		}
		if _, err := repo.Create(ctx, "a"); err == nil {
			t.Error("expected Create error on closed database")
		}
		if err := repo.Delete(ctx, "x"); err == nil {
			t.Error("expected Delete error on closed database")
		}
	})
}
