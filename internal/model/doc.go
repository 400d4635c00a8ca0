// Package model defines the LLM model entity and its health records.
// It provides mutex-guarded health tracking with a bounded outcome
// history and a derived availability score.
package model
