// Package services defines the [TaskStore] interface for the remote authoritative task list and implements it over HTTP/JSON.
//
// # Store Interface
//
// [TaskStore] has four primitives, each a single round trip with no retry:
//   - [TaskStore.List] : GET <base>
//   - [TaskStore.Create] : POST <base> with {"title": ...}
//   - [TaskStore.Patch] : PATCH <base>/<id> with a subset of {"title", "completed"}
//   - [TaskStore.Remove] : DELETE <base>/<id>, response body ignored
//
// Callers trim and validate titles before calling; the store sends what it is given.
//
// # HTTP Implementation
//
// [HTTPTaskStore] sends Content-Type: application/json on every request and accepts any 2xx status.
// Identifiers are path-escaped when building item URLs. The client imposes no timeout of its own;
// configure one on the [http.Client] if needed.
//
// # Error Handling
//
// Every failure (network error, non-2xx status, undecodable 2xx body) is normalized into a [*TransportError]:
//   - Message is the response body verbatim when non-empty
//   - otherwise "<Verb> failed (<status>)", e.g. "Update failed (500)"
//   - for network failures, the transport's error text
//
// [TransportError] matches [shared.ErrAPIRequest] with [errors.Is].
package services
