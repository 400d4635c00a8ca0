// Package handler implements the HTTP request layer over the model
// registry and the fallback selector.
package handler
