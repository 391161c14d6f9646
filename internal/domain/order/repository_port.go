// internal/domain/order/repository_port.go
package order

import "context"

// Repository is a persistence port for Order. Orders are append-only:
// one record per successful checkout.
type Repository interface {
	Add(ctx context.Context, o *Order) error
}
