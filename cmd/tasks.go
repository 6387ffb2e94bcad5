package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tinytasks/internal/formatter"
	"github.com/desertthunder/tinytasks/internal/models"
	"github.com/desertthunder/tinytasks/internal/shared"
	"github.com/desertthunder/tinytasks/internal/tasks"
	"github.com/urfave/cli/v3"
)

// List prints the remote collection in the requested format.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		format = formatter.FormatJSON
	}

	engine, err := r.load(ctx)
	if err != nil {
		return err
	}
	list := engine.State().Tasks

	if path := cmd.String("output"); path != "" {
		written, err := formatter.WriteExport(list, format, path)
		if err != nil {
			return err
		}
		r.logger.Info("tasks exported", "path", written, "format", format, "count", len(list))
		return nil
	}

	data, err := formatter.Render(format, list)
	if err != nil {
		return err
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Add creates a task from the title argument.
func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	title := shared.NormalizeTitle(cmd.StringArg("title"))
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	engine := r.newEngine(nil)
	engine.SetDraftTitle(title)
	engine.Create(ctx)
	if err := r.check(engine); err != nil {
		return err
	}

	r.writePlain("✓ Added %q (%d tasks)\n", title, len(engine.State().Tasks))
	return nil
}

// Rename replaces the title of the task with the id argument.
func (r *Runner) Rename(ctx context.Context, cmd *cli.Command) error {
	id, title := cmd.StringArg("id"), shared.NormalizeTitle(cmd.StringArg("title"))
	if id == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}
	if title == "" {
		return fmt.Errorf("%w: title", shared.ErrMissingArgument)
	}

	engine, err := r.load(ctx)
	if err != nil {
		return err
	}
	if !engine.StartEdit(id) {
		return fmt.Errorf("%w: %s", shared.ErrTaskNotFound, id)
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	engine.SetDraftEditTitle(title)
	engine.SaveEdit(ctx, id)
	if err := r.check(engine); err != nil {
		return err
	}

	r.writePlain("✓ Renamed %s to %q\n", id, title)
	return nil
}

// Toggle flips the completed flag of the task with the id argument.
func (r *Runner) Toggle(ctx context.Context, cmd *cli.Command) error {
	engine, task, err := r.loadTask(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	engine.Toggle(ctx, task.ID)
	if err := r.check(engine); err != nil {
		return err
	}

	state := "open"
	if !task.Completed {
		state = "done"
	}
	r.writePlain("✓ %q marked %s\n", task.Title, state)
	return nil
}

// Remove deletes the task with the id argument.
func (r *Runner) Remove(ctx context.Context, cmd *cli.Command) error {
	engine, task, err := r.loadTask(ctx, cmd.StringArg("id"))
	if err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	engine.Delete(ctx, task.ID)
	if err := r.check(engine); err != nil {
		return err
	}

	r.writePlain("✓ Deleted %q\n", task.Title)
	return nil
}

// load creates an engine and performs the initial load.
func (r *Runner) load(ctx context.Context) (*tasks.Engine, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	engine := r.newEngine(nil)
	engine.Load(ctx)
	if err := r.check(engine); err != nil {
		return nil, err
	}
	return engine, nil
}

// loadTask loads the collection and looks up id in it.
func (r *Runner) loadTask(ctx context.Context, id string) (*tasks.Engine, models.Task, error) {
	if id == "" {
		return nil, models.Task{}, fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}

	engine, err := r.load(ctx)
	if err != nil {
		return nil, models.Task{}, err
	}

	task, ok := engine.State().Find(id)
	if !ok {
		return nil, models.Task{}, fmt.Errorf("%w: %s", shared.ErrTaskNotFound, id)
	}
	return engine, task, nil
}
