// Package server provides HTTP routing, middleware, and the API handlers for
// the optimizer backend.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally; route
// patterns carry methods and wildcards, and handlers dispatch on the matched
// [http.Request.Pattern].
//
// # Handlers
//
// Each handler implements the [Handler] interface and owns one endpoint
// group:
//
//   - [AuthHandler] : OAuth URL issuance, callback, session lookup, logout
//   - [KeysHandler] : per-user API key status, save, live key testing
//   - [OptimizeHandler] : title/tag/upload-time optimization via Gemini
//   - [AnalyticsHandler] : in-memory usage counters
//   - [HealthHandler] : liveness
//
// # Response contract
//
// JSON endpoints answer the {success, data} / {success:false, error}
// envelope. The OAuth callback is the exception: it only ever redirects, to
// auth-success on completion or auth-error with a URL-encoded message on any
// failure.
//
// # Error boundary
//
// Handlers match the closed error set from the shared package with
// [errors.Is]; statusFor and publicMessage are the single mapping from flow
// errors to HTTP statuses and user-safe messages.
package server
