// Package tasks keeps a local view of the remote task list consistent with the authoritative store
// while giving immediate feedback for user actions.
//
// # Operations
//
// [Engine] exposes five store-backed operations, each with its own reconciliation policy:
//
//  1. [Engine.Load] : replace the collection with the server's list
//     - on failure the collection is left as it was
//  2. [Engine.Create] : no optimistic insert
//     - on success the draft title is cleared and the collection is reloaded
//     - on failure the draft title is kept for a retry
//  3. [Engine.Delete] : remove the task locally before the request
//     - on success the local removal stands
//     - on failure the pre-removal snapshot of the whole collection is restored
//  4. [Engine.SaveEdit] : no optimistic text change
//     - on success the collection is reloaded and edit mode is left
//     - on failure edit mode and the draft edit text are kept
//  5. [Engine.Toggle] : flip completed locally before the request
//     - on success the flip stands, no reload
//     - on failure the pre-toggle snapshot of the whole collection is restored
//
// Titles are trimmed first; a blank title short-circuits Create and SaveEdit with no request and no error.
// Delete and Toggle on an identifier absent from the collection are likewise no-ops.
//
// # Markers
//
// Per-identity markers record that a task is being deleted, toggled or saved. They are set when the
// operation starts and cleared when it settles on every exit path. Invoking the same operation on an
// identity that is already pending for it does nothing; the UI is expected to disable the control too.
// Different operations on the same identity are not serialized: the later settlement wins.
//
// # Concurrency
//
// Operations block on the store and may be called from several goroutines. The engine's lock is held
// only while state changes, never across a store call, so each step between two network calls is
// atomic. The collection is copy-on-write: every change installs a new slice, which is what makes a
// snapshot a plain reference to the previous slice.
//
// # Errors
//
// Store failures never escape an operation. The latest one is kept in a single slot
// ([View.Error], [Engine.Err]), cleared when the next operation starts.
//
// # Updates
//
// An optional channel receives an [Update] for every transition. Sends never block; a full channel
// drops the update, so consumers should re-read [Engine.State] rather than rely on each event.
package tasks
