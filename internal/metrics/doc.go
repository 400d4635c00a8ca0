// Package metrics collects probe and interview counters through a
// buffered event channel. Latency distributions are intentionally not
// tracked.
package metrics
