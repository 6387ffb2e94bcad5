// Package server provides the HTTP routing, middleware, and task handler behind `tasks serve`,
// a development stand-in for the remote task store.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order of registration, so the first one added runs outermost.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Middleware
//
//   - [Logging] : one log line per request with method, path, status and duration
//   - [RateLimit] : token bucket from golang.org/x/time/rate, rejecting with 429 when empty
//
// # Task Handler
//
// [TaskHandler] speaks the same HTTP/JSON contract the CLI and TUI consume:
//
//	GET    /tasks       → 200, JSON array in insertion order
//	POST   /tasks       → 201, created task; 400 for a blank title
//	PATCH  /tasks/{id}  → 200, updated task; 400 for a blank title, 404 for an unknown id
//	DELETE /tasks/{id}  → 204; 404 for an unknown id
//
// Error responses are short plain-text bodies, which the client surfaces verbatim.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
