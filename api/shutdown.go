// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown is implemented by components that own releasable resources.
type GracefulShutdown interface {
	// Shutdown releases owned resources. Returns an error if they are still borrowed.
	Shutdown() error
}
