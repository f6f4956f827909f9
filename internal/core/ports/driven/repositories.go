package driven

import (
	"context"
	"time"

	"github.com/contargo/s3sync/internal/core/domain"
)

// CustomerRepository provides read access to the kunde table.
type CustomerRepository interface {
	// FindAll returns every customer row.
	FindAll(ctx context.Context) ([]domain.Customer, error)

	// FindUpdatedAfter returns customers whose UpdatedAt is strictly
	// greater than since.
	FindUpdatedAfter(ctx context.Context, since time.Time) ([]domain.Customer, error)
}

// OrderRepository provides read access to the auftraege table.
// Returned orders carry their owning customer.
type OrderRepository interface {
	// FindAll returns every order row.
	FindAll(ctx context.Context) ([]domain.Order, error)

	// FindChangedAfter returns orders whose LastChange is strictly
	// greater than since.
	FindChangedAfter(ctx context.Context, since time.Time) ([]domain.Order, error)
}
