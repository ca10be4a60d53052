// Package delivery defines the contract every transport adapter satisfies.
package delivery

import "context"

// Delivery is a serving surface of the application, e.g. the HTTP server.
// Serve blocks until the surface stops or fails.
type Delivery interface {
	Serve(ctx context.Context) error
}
