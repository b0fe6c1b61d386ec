/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

// Package testutil provides helpers for testing HTTP servers:
// free-port allocation, server readiness waiting, and assertions
// on JSON and error responses and Prometheus metrics.
package testutil

type tHelper interface {
	Helper()
}
