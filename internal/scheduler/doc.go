// Package scheduler implements the periodic health check loop. On each
// tick every registered model is probed concurrently and the outcomes
// are folded into the models' health histories.
package scheduler
