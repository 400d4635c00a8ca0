// Package fallback implements interview-start model selection. The
// requested model is probed on demand; if it is down the registry is
// walked in registration order until a healthy substitute is found,
// and the substitution is recorded as an auditable event.
package fallback
