// Package registry implements the in-memory model registry. Models are
// kept in registration order, which the fallback selector treats as the
// authoritative search order.
package registry
