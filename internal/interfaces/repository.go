package interfaces

import (
	"context"

	"github.com/YelzhanWeb/mamantilie/internal/domain"
)

// Хранилище байтов (Adapter/File, Adapter/Postgres, Adapter/SQLite).
// ReadStore reports ok=false when nothing has been persisted yet.
type ByteStore interface {
	ReadStore(ctx context.Context) (data []byte, ok bool, err error)
	WriteStore(ctx context.Context, data []byte) error
}

// Хранилище заказов (App/Store)
type OrderStore interface {
	List(ctx context.Context) []*domain.Order
	Get(ctx context.Context, id string) (*domain.Order, error)
	Append(ctx context.Context, order *domain.Order) error
	// UpdateStatus and ToggleCompletion return the order as it was and as it is now.
	UpdateStatus(ctx context.Context, id string, status domain.DeliveryStatus) (before, after *domain.Order, err error)
	ToggleCompletion(ctx context.Context, id string) (before, after *domain.Order, err error)
	Delete(ctx context.Context, id string) error
	IDs() domain.IDGenerator
}
