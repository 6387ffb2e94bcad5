// Package models defines the task entity shared by the remote store client, the reconciliation engine,
// the development store and the presentation layers.
//
// The remote store may identify a task by "id" or by "_id", as a string or a number.
// [Task.UnmarshalJSON] folds both spellings into the single canonical [Task.ID] string so
// no other package has to know about the ambiguity.
//
// [TaskPatch] carries a partial update: only non-nil fields are sent.
package models
