// Package delivery defines the inbound adapters the process serves.
package delivery

import "context"

// Delivery is a long-running server started after dependency injection completes.
type Delivery interface {
	Serve(ctx context.Context) error
}
