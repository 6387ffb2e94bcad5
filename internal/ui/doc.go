// Package ui implements an interactive terminal task list using bubbletea's Elm architecture.
//
// The (view) [Model] renders a [tasks.Engine] and translates keys into engine operations:
//   - browse mode: j/k to move, space/x to toggle, d to delete, r to reload
//   - add mode (a): type a title, enter to create, esc to leave with the draft kept
//   - edit mode (e): enter to save the new title, esc to cancel
//
// Every engine operation runs inside a [tea.Cmd], so the store call never blocks rendering.
// State transitions flow through the engine's update channel and are re-read with [tasks.Engine.State],
// which is why optimistic removals and toggles appear before the server answers.
//
// Controls for a row are disabled while an operation of the same kind is pending for it, and the row is
// rendered muted. Contextual help is displayed via charmbracelet/bubbles/help.
package ui
