// Package delivery defines the contract every transport server implements.
package delivery

import "context"

// Delivery is a transport surface (HTTP, worker, ...) started by the
// composition root and stopped through fx lifecycle hooks.
type Delivery interface {
	Serve(ctx context.Context) error
}
