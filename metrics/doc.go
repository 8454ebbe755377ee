// Package metrics exposes Prometheus collectors for the search service.
//
// A Metrics value owns its collectors and registers them on the registerer
// passed to New. Its Monitor method returns a search.SearchMonitor that
// records per-stage latency and result sizes; Middleware records HTTP
// request duration and count labelled by chi route pattern.
package metrics
