// Package server exposes jobs, scheduled tasks and the live event stream over HTTP.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation registers method-qualified patterns on [http.ServeMux],
// so a path may carry one handler per method and wildcards such as {id}.
//
// # Routes
//
//	GET  /jobs?status=&limit=  newest jobs first
//	POST /jobs                 enqueue a tagged payload, answers 201 with the job
//	GET  /jobs/{id}            one job
//	GET  /tasks                scheduled tasks with their next run
//	GET  /socket               websocket streaming every bus event as tagged JSON
//	GET  /healthz              reachability of the upstream services
//
// Errors are written as {"error": "..."} with a status derived from the shared sentinels.
package server
