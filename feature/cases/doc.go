// Package cases implements the case mirroring feature.
//
// The upstream case registry stays the single source of truth; this package
// keeps a local mirror of it and fronts every change with the registry:
//
//  1. Writes (create, update, delete) go to the registry first. Only after
//     the registry accepted the change is the mirror touched, so a rejected
//     write never leaves a local trace.
//  2. Reads (get, list) are served from the mirror alone and never call
//     out, which keeps them fast and available during registry outages.
//  3. The reconciliation engine (core/mirror) converges the mirror against
//     the registry listing on a fixed interval and on demand.
//
// # Components
//
//   - Service: Orchestrates registry calls and mirror writes.
//   - Handler: Exposes the HTTP endpoints.
//   - Store: GORM persistence for the mirror table (see store/).
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET    /cases       : List mirrored cases (paginated).
//   - POST   /cases       : Create a case in the registry and mirror it.
//   - GET    /cases/:id   : Get one mirrored case.
//   - PUT    /cases/:id   : Update a case in the registry and mirror it.
//   - DELETE /cases/:id   : Delete a case from the registry and the mirror.
//   - POST   /sync        : Run one reconciliation pass immediately.
package cases
