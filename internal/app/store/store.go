package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/YelzhanWeb/mamantilie/internal/adapter/logger"
	"github.com/YelzhanWeb/mamantilie/internal/domain"
	"github.com/YelzhanWeb/mamantilie/internal/interfaces"
)

// Store owns the process-wide order collection and mirrors it to a ByteStore.
// Every operation holds mu across the whole read-modify-write, including the write,
// so two writers can never interleave their full-collection rewrites.
type Store struct {
	mu     sync.Mutex
	bytes  interfaces.ByteStore
	seq    *Sequence
	logger logger.Logger
	orders []*domain.Order
	// shared re-reads the byte store before every operation; another process writes it too.
	shared bool
}

var _ interfaces.OrderStore = (*Store)(nil)

func New(bs interfaces.ByteStore, logger logger.Logger) *Store {
	return &Store{
		bytes:  bs,
		seq:    NewSequence(),
		logger: logger,
	}
}

// NewShared returns a store for a process that is not the only writer of bs.
// Reads and mutations start from what is persisted at that moment.
func NewShared(bs interfaces.ByteStore, logger logger.Logger) *Store {
	s := New(bs, logger)
	s.shared = true
	return s
}

// Open fills the in-memory collection from the byte store. A corrupt document starts
// the store empty unless strict is set, in which case ErrStoreCorrupt is returned.
// Read failures are always returned: starting empty over an unreadable store would
// overwrite it on the first mutation.
func (s *Store) Open(ctx context.Context, strict bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrStoreCorrupt) && !strict:
		s.logger.Warn("store_corrupt", "Order store is unreadable, starting empty", "", nil, err)
		orders = nil
	default:
		return err
	}

	s.orders = orders
	s.logger.Info("store_loaded", "Orders loaded", "", map[string]interface{}{
		"orders": len(orders),
	})
	return nil
}

// LoadAll reads the persisted collection. A missing, unreadable or corrupt store
// yields an empty collection; the cause is only logged.
func (s *Store) LoadAll(ctx context.Context) []*domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("store_corrupt", "Order store is unreadable, treating as empty", "", nil, err)
		return []*domain.Order{}
	}
	return orders
}

// SaveAll replaces the persisted collection, and the in-memory one, with orders.
func (s *Store) SaveAll(ctx context.Context, orders []*domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := cloneAll(orders)
	for _, o := range next {
		s.seq.Observe(o.ID)
	}
	if err := s.write(ctx, next); err != nil {
		return err
	}
	s.orders = next
	return nil
}

func (s *Store) List(ctx context.Context) []*domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshForRead(ctx)
	return cloneAll(s.orders)
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshForRead(ctx)
	i := indexOf(s.orders, id)
	if i < 0 {
		return nil, domain.ErrOrderNotFound
	}
	return s.orders[i].Clone(), nil
}

// IDs is the generator new orders must draw their ids from.
func (s *Store) IDs() domain.IDGenerator {
	return s.seq
}

// Append adds order at the end of the collection. An order without an id gets one.
func (s *Store) Append(ctx context.Context, order *domain.Order) error {
	return s.mutate(ctx, func(next []*domain.Order) ([]*domain.Order, error) {
		o := order.Clone()
		// Другой процесс мог уже выдать этот id
		if s.shared && o.ID != "" && indexOf(next, o.ID) >= 0 {
			o.ID = ""
		}
		if o.ID == "" {
			o.ID = s.seq.NextID()
			order.ID = o.ID
		} else {
			s.seq.Observe(o.ID)
		}
		return append(next, o), nil
	})
}

// UpdateStatus sets the delivery stage of the first order with id. Completed is left alone.
// before and after are taken inside the same critical section as the write.
func (s *Store) UpdateStatus(ctx context.Context, id string, status domain.DeliveryStatus) (before, after *domain.Order, err error) {
	err = s.mutate(ctx, func(next []*domain.Order) ([]*domain.Order, error) {
		i := indexOf(next, id)
		if i < 0 {
			return nil, domain.ErrOrderNotFound
		}
		before = next[i].Clone()
		if err := next[i].SetStatus(status); err != nil {
			return nil, err
		}
		after = next[i].Clone()
		return next, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return before, after, nil
}

// ToggleCompletion flips the completed flag of the first order with id.
// Completing also moves the order to Delivered.
func (s *Store) ToggleCompletion(ctx context.Context, id string) (before, after *domain.Order, err error) {
	err = s.mutate(ctx, func(next []*domain.Order) ([]*domain.Order, error) {
		i := indexOf(next, id)
		if i < 0 {
			return nil, domain.ErrOrderNotFound
		}
		before = next[i].Clone()
		next[i].ToggleCompletion()
		after = next[i].Clone()
		return next, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return before, after, nil
}

// Delete removes the first order with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, func(next []*domain.Order) ([]*domain.Order, error) {
		i := indexOf(next, id)
		if i < 0 {
			return nil, domain.ErrOrderNotFound
		}
		return append(next[:i], next[i+1:]...), nil
	})
}

// mutate applies fn to a copy of the collection and keeps the copy only once it
// has been written, so memory never gets ahead of the byte store.
func (s *Store) mutate(ctx context.Context, fn func(next []*domain.Order) ([]*domain.Order, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shared {
		// Чужие изменения не должны затираться полной перезаписью
		orders, err := s.load(ctx)
		if err != nil {
			return fmt.Errorf("failed to refresh orders: %w", err)
		}
		s.orders = orders
	}

	next, err := fn(cloneAll(s.orders))
	if err != nil {
		return err
	}
	if err := s.write(ctx, next); err != nil {
		return err
	}
	s.orders = next
	return nil
}

// refreshForRead reloads a shared store. On failure the last good snapshot is served.
func (s *Store) refreshForRead(ctx context.Context) {
	if !s.shared {
		return
	}
	orders, err := s.load(ctx)
	if err != nil {
		s.logger.Warn("store_refresh_failed", "Serving the last loaded orders", "", nil, err)
		return
	}
	s.orders = orders
}

func (s *Store) load(ctx context.Context) ([]*domain.Order, error) {
	data, ok, err := s.bytes.ReadStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read order store: %w", err)
	}
	if !ok {
		return []*domain.Order{}, nil
	}
	return s.decode(data)
}

func (s *Store) write(ctx context.Context, orders []*domain.Order) error {
	data, err := encode(orders)
	if err != nil {
		return fmt.Errorf("failed to encode orders: %w", err)
	}
	if err := s.bytes.WriteStore(ctx, data); err != nil {
		s.logger.Error("store_write_failed", "Failed to persist orders", "", map[string]interface{}{
			"orders": len(orders),
		}, err)
		return fmt.Errorf("failed to persist orders: %w", err)
	}
	return nil
}

func encode(orders []*domain.Order) ([]byte, error) {
	records := make([]domain.Record, 0, len(orders))
	for _, o := range orders {
		records = append(records, o.ToRecord())
	}
	return json.Marshal(records)
}

func (s *Store) decode(data []byte) ([]*domain.Order, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrStoreCorrupt)
	}

	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreCorrupt, err)
	}

	// Seed the sequence first so ids generated for id-less records come after
	// every id already in the document.
	for _, rec := range records {
		if rec.OrderID != nil {
			s.seq.Observe(*rec.OrderID)
		}
	}

	orders := make([]*domain.Order, 0, len(records))
	for i, rec := range records {
		o, err := domain.FromRecord(rec, s.seq)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func indexOf(orders []*domain.Order, id string) int {
	for i, o := range orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(orders []*domain.Order) []*domain.Order {
	out := make([]*domain.Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out
}
