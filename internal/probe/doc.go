// Package probe defines the health probe abstraction and its HTTP
// implementation against model provider completion endpoints. Probes
// recognize only two outcomes, healthy and unhealthy; every failure
// mode collapses into unhealthy.
package probe
