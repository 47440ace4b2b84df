// Package metric exposes application metrics in Prometheus format.
//
// Registry owns a private prometheus.Registry with the Go runtime and
// process collectors, counters for storage operations and API requests, and
// an engine collector that reads storage engine statistics at scrape time.
package metric
