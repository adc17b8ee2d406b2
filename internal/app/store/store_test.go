package store

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/YelzhanWeb/mamantilie/internal/adapter/logger"
	"github.com/YelzhanWeb/mamantilie/internal/domain"
)

type fakeByteStore struct {
	mu       sync.Mutex
	data     []byte
	present  bool
	readErr  error
	writeErr error
	writes   int
}

func (f *fakeByteStore) ReadStore(_ context.Context) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, false, f.readErr
	}
	return f.data, f.present, nil
}

func (f *fakeByteStore) WriteStore(_ context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.data = append([]byte(nil), data...)
	f.present = true
	f.writes++
	return nil
}

var testNow = time.Date(2025, 3, 14, 9, 30, 5, 0, time.UTC)

func newOrder(s *Store, name, food string, qty int) *domain.Order {
	return domain.NewOrder(s.IDs(), domain.DefaultCatalog(), name, food, qty, "", testNow)
}

func TestStore_LoadAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing store is empty", func(t *testing.T) {
		s := New(&fakeByteStore{}, logger.Nop())
		got := s.LoadAll(ctx)
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil slice, got %v", got)
		}
	})

	for name, doc := range map[string]string{
		"malformed json":  `[{"user_name": "Amina"`,
		"wrong shape":     `{"user_name": "Amina"}`,
		"empty document":  "  \n",
		"missing columns": `[{"user_name": "Amina", "food_type": "Supu"}]`,
	} {
		doc := doc
		t.Run("corrupt "+name+" is empty", func(t *testing.T) {
			s := New(&fakeByteStore{data: []byte(doc), present: true}, logger.Nop())
			if got := s.LoadAll(ctx); len(got) != 0 {
				t.Fatalf("expected empty collection, got %d orders", len(got))
			}
		})
	}

	t.Run("read error is empty", func(t *testing.T) {
		s := New(&fakeByteStore{readErr: errors.New("permission denied")}, logger.Nop())
		if got := s.LoadAll(ctx); len(got) != 0 {
			t.Fatalf("expected empty collection, got %d orders", len(got))
		}
	})

	t.Run("round trip preserves order and fields", func(t *testing.T) {
		bs := &fakeByteStore{}
		s := New(bs, logger.Nop())

		a := newOrder(s, "Amina", "Supu", 2)
		b := newOrder(s, "Juma", "Mihogo", 1)
		b.SpecialRequests = "bila chumvi"
		b.ToggleCompletion()
		c := newOrder(s, "Neema", "Chai Maziwa", 3)
		c.DeliveryStatus = domain.StatusOnTheWay
		orders := []*domain.Order{a, b, c}

		if err := s.SaveAll(ctx, orders); err != nil {
			t.Fatalf("SaveAll: %v", err)
		}

		reloaded := New(bs, logger.Nop()).LoadAll(ctx)
		if !reflect.DeepEqual(reloaded, orders) {
			t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", reloaded, orders)
		}
	})

	t.Run("legacy records get defaults", func(t *testing.T) {
		doc := `[
			{"user_name":"Old","food_type":"Supu","timestamp":"2024-01-01 08:00:00","completed":false},
			{"user_name":"Older","food_type":"Mihogo","timestamp":"2024-01-01 08:01:00","completed":true,"order_id":"ORD-4321","quantity":3,"price":1500}
		]`
		s := New(&fakeByteStore{data: []byte(doc), present: true}, logger.Nop())
		got := s.LoadAll(ctx)
		if len(got) != 2 {
			t.Fatalf("expected 2 orders, got %d", len(got))
		}

		first := got[0]
		if first.Quantity != 1 || first.SpecialRequests != "" || first.DeliveryStatus != domain.StatusPreparing || first.Price != 0 {
			t.Fatalf("expected defaults, got %+v", first)
		}
		if first.ID != "ORD-4322" {
			t.Fatalf("expected generated id after the highest stored one, got %s", first.ID)
		}
		if got[1].ID != "ORD-4321" || got[1].Price != 1500 || !got[1].Completed {
			t.Fatalf("expected stored fields kept, got %+v", got[1])
		}
	})
}

func TestStore_Open(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("corrupt store starts empty by default", func(t *testing.T) {
		s := New(&fakeByteStore{data: []byte("{"), present: true}, logger.Nop())
		if err := s.Open(ctx, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(s.List(ctx)) != 0 {
			t.Fatalf("expected empty store")
		}
	})

	t.Run("corrupt store fails in strict mode", func(t *testing.T) {
		s := New(&fakeByteStore{data: []byte("{"), present: true}, logger.Nop())
		if err := s.Open(ctx, true); !errors.Is(err, domain.ErrStoreCorrupt) {
			t.Fatalf("expected ErrStoreCorrupt, got %v", err)
		}
	})

	t.Run("read failure is returned", func(t *testing.T) {
		s := New(&fakeByteStore{readErr: errors.New("io")}, logger.Nop())
		if err := s.Open(ctx, false); err == nil {
			t.Fatalf("expected read error")
		}
	})

	t.Run("loads existing orders and continues ids", func(t *testing.T) {
		doc := `[{"user_name":"A","food_type":"Supu","timestamp":"2024-01-01 08:00:00","completed":false,"order_id":"ORD-2000"}]`
		s := New(&fakeByteStore{data: []byte(doc), present: true}, logger.Nop())
		if err := s.Open(ctx, true); err != nil {
			t.Fatalf("Open: %v", err)
		}
		if len(s.List(ctx)) != 1 {
			t.Fatalf("expected 1 order")
		}
		if id := s.IDs().NextID(); id != "ORD-2001" {
			t.Fatalf("expected ORD-2001, got %s", id)
		}
	})
}

func TestStore_Mutations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	setup := func(t *testing.T) (*Store, *fakeByteStore, []*domain.Order) {
		t.Helper()
		bs := &fakeByteStore{}
		s := New(bs, logger.Nop())
		var orders []*domain.Order
		for _, o := range []struct {
			name, food string
			qty        int
		}{{"Amina", "Supu", 2}, {"Juma", "Mihogo", 1}, {"Neema", "Chai Maziwa", 3}} {
			order := newOrder(s, o.name, o.food, o.qty)
			if err := s.Append(ctx, order); err != nil {
				t.Fatalf("Append: %v", err)
			}
			orders = append(orders, order)
		}
		return s, bs, orders
	}

	t.Run("append persists the whole collection", func(t *testing.T) {
		s, bs, orders := setup(t)
		if bs.writes != 3 {
			t.Fatalf("expected a write per append, got %d", bs.writes)
		}
		loaded := New(bs, logger.Nop()).LoadAll(ctx)
		if !reflect.DeepEqual(loaded, orders) {
			t.Fatalf("persisted collection mismatch")
		}
		if !reflect.DeepEqual(s.List(ctx), orders) {
			t.Fatalf("in-memory collection mismatch")
		}
	})

	t.Run("append assigns id when missing", func(t *testing.T) {
		s, _, _ := setup(t)
		o := newOrder(s, "X", "Supu", 1)
		o.ID = ""
		if err := s.Append(ctx, o); err != nil {
			t.Fatalf("Append: %v", err)
		}
		if o.ID == "" {
			t.Fatalf("expected id to be assigned")
		}
	})

	t.Run("ids are unique", func(t *testing.T) {
		_, _, orders := setup(t)
		seen := map[string]bool{}
		for _, o := range orders {
			if seen[o.ID] {
				t.Fatalf("duplicate id %s", o.ID)
			}
			seen[o.ID] = true
		}
	})

	t.Run("update status", func(t *testing.T) {
		s, bs, orders := setup(t)
		before, updated, err := s.UpdateStatus(ctx, orders[1].ID, domain.StatusCooking)
		if err != nil {
			t.Fatalf("UpdateStatus: %v", err)
		}
		if before.DeliveryStatus != domain.StatusPreparing {
			t.Fatalf("expected previous stage Preparing, got %s", before.DeliveryStatus)
		}
		if updated.DeliveryStatus != domain.StatusCooking || updated.Completed {
			t.Fatalf("unexpected order %+v", updated)
		}
		loaded := New(bs, logger.Nop()).LoadAll(ctx)
		if loaded[1].DeliveryStatus != domain.StatusCooking {
			t.Fatalf("status not persisted")
		}
		if got, _ := s.Get(ctx, orders[1].ID); got.DeliveryStatus != domain.StatusCooking {
			t.Fatalf("status not in memory")
		}
	})

	t.Run("update status rejects unknown stage", func(t *testing.T) {
		s, bs, orders := setup(t)
		writes := bs.writes
		if _, _, err := s.UpdateStatus(ctx, orders[0].ID, "Lost"); !errors.Is(err, domain.ErrInvalidStatus) {
			t.Fatalf("expected ErrInvalidStatus, got %v", err)
		}
		if bs.writes != writes {
			t.Fatalf("rejected update must not write")
		}
	})

	t.Run("toggle completion", func(t *testing.T) {
		s, bs, orders := setup(t)
		before, o, err := s.ToggleCompletion(ctx, orders[0].ID)
		if err != nil {
			t.Fatalf("ToggleCompletion: %v", err)
		}
		if before.Completed || before.DeliveryStatus != domain.StatusPreparing {
			t.Fatalf("expected open Preparing order before, got %+v", before)
		}
		if !o.Completed || o.DeliveryStatus != domain.StatusDelivered {
			t.Fatalf("expected completed and delivered, got %+v", o)
		}
		if loaded := New(bs, logger.Nop()).LoadAll(ctx); !loaded[0].Completed {
			t.Fatalf("completion not persisted")
		}

		before, o, err = s.ToggleCompletion(ctx, orders[0].ID)
		if err != nil {
			t.Fatalf("ToggleCompletion: %v", err)
		}
		if !before.Completed || o.Completed {
			t.Fatalf("expected reopened order, got %+v", o)
		}
		if o.DeliveryStatus != domain.StatusDelivered {
			t.Fatalf("reopening should leave the stage alone, got %s", o.DeliveryStatus)
		}
	})

	t.Run("delete", func(t *testing.T) {
		s, bs, orders := setup(t)
		if err := s.Delete(ctx, orders[1].ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		loaded := New(bs, logger.Nop()).LoadAll(ctx)
		if len(loaded) != 2 {
			t.Fatalf("expected 2 orders after delete, got %d", len(loaded))
		}
		for _, o := range loaded {
			if o.ID == orders[1].ID {
				t.Fatalf("deleted order still persisted")
			}
		}
		if len(s.List(ctx)) != 2 {
			t.Fatalf("expected 2 orders in memory")
		}
	})

	t.Run("unknown id is not found everywhere", func(t *testing.T) {
		s, bs, _ := setup(t)
		writes := bs.writes
		if _, _, err := s.UpdateStatus(ctx, "ORD-0000", domain.StatusCooking); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("UpdateStatus: expected ErrOrderNotFound, got %v", err)
		}
		if _, _, err := s.ToggleCompletion(ctx, "ORD-0000"); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("ToggleCompletion: expected ErrOrderNotFound, got %v", err)
		}
		if err := s.Delete(ctx, "ORD-0000"); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("Delete: expected ErrOrderNotFound, got %v", err)
		}
		if _, err := s.Get(ctx, "ORD-0000"); !errors.Is(err, domain.ErrOrderNotFound) {
			t.Fatalf("Get: expected ErrOrderNotFound, got %v", err)
		}
		if bs.writes != writes {
			t.Fatalf("not-found mutations must not write")
		}
	})

	t.Run("failed write leaves memory untouched", func(t *testing.T) {
		s, bs, orders := setup(t)
		bs.writeErr = errors.New("disk full")

		if _, _, err := s.ToggleCompletion(ctx, orders[0].ID); err == nil {
			t.Fatalf("expected write error")
		}
		if err := s.Delete(ctx, orders[1].ID); err == nil {
			t.Fatalf("expected write error")
		}
		if err := s.Append(ctx, newOrder(s, "Z", "Supu", 1)); err == nil {
			t.Fatalf("expected write error")
		}

		if !reflect.DeepEqual(s.List(ctx), orders) {
			t.Fatalf("memory diverged from the last successful write")
		}
	})

	t.Run("snapshots are independent", func(t *testing.T) {
		s, _, orders := setup(t)
		snap := s.List(ctx)
		snap[0].CustomerName = "Mutated"
		if got, _ := s.Get(ctx, orders[0].ID); got.CustomerName != "Amina" {
			t.Fatalf("snapshot mutation leaked into the store")
		}
	})
}

func TestStore_ConcurrentAppends(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	bs := &fakeByteStore{}
	s := New(bs, logger.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Append(ctx, newOrder(s, "Amina", "Supu", 1)); err != nil {
				t.Errorf("Append: %v", err)
			}
		}()
	}
	wg.Wait()

	loaded := New(bs, logger.Nop()).LoadAll(ctx)
	if len(loaded) != 50 {
		t.Fatalf("expected 50 persisted orders, got %d", len(loaded))
	}
}

func TestSequence(t *testing.T) {
	t.Parallel()

	seq := NewSequence()
	if id := seq.NextID(); id != "ORD-1000" {
		t.Fatalf("expected ORD-1000, got %s", id)
	}
	seq.Observe("ORD-9999")
	seq.Observe("ORD-12")
	seq.Observe("custom-id")
	if id := seq.NextID(); id != "ORD-10000" {
		t.Fatalf("expected ORD-10000, got %s", id)
	}

	for _, id := range []string{"ORD-+20000", "ORD-", "ORD-9223372036854775807", "ORD-99999999999999999999"} {
		seq.Observe(id)
	}
	if id := seq.NextID(); id != "ORD-10001" {
		t.Fatalf("expected malformed and oversized ids to be ignored, got %s", id)
	}
}

func TestStore_SharedSeesOtherWriters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	bs := &fakeByteStore{}

	writer := New(bs, logger.Nop())
	if err := writer.Open(ctx, true); err != nil {
		t.Fatal(err)
	}
	reader := NewShared(bs, logger.Nop())
	if err := reader.Open(ctx, true); err != nil {
		t.Fatal(err)
	}
	plain := New(bs, logger.Nop())
	if err := plain.Open(ctx, true); err != nil {
		t.Fatal(err)
	}

	o := newOrder(writer, "Baraka", "Supu", 1)
	if err := writer.Append(ctx, o); err != nil {
		t.Fatal(err)
	}

	if got := reader.List(ctx); len(got) != 1 || got[0].CustomerName != "Baraka" {
		t.Fatalf("expected the shared store to see the new order, got %+v", got)
	}
	if _, err := reader.Get(ctx, o.ID); err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got := plain.List(ctx); len(got) != 0 {
		t.Fatalf("expected a plain store to keep its startup snapshot, got %d orders", len(got))
	}

	t.Run("mutations start from the persisted state", func(t *testing.T) {
		stale := newOrder(reader, "Neema", "Chai Maziwa", 1)
		stale.ID = o.ID
		if err := reader.Append(ctx, stale); err != nil {
			t.Fatal(err)
		}
		loaded := New(bs, logger.Nop()).LoadAll(ctx)
		if len(loaded) != 2 {
			t.Fatalf("expected both orders persisted, got %d", len(loaded))
		}
		if loaded[0].ID == loaded[1].ID {
			t.Fatalf("expected a fresh id for the colliding order, both are %s", loaded[0].ID)
		}
	})

	t.Run("read failure serves the last snapshot", func(t *testing.T) {
		bs.mu.Lock()
		bs.readErr = errors.New("io")
		bs.mu.Unlock()
		defer func() {
			bs.mu.Lock()
			bs.readErr = nil
			bs.mu.Unlock()
		}()

		if got := reader.List(ctx); len(got) != 2 {
			t.Fatalf("expected last snapshot of 2 orders, got %d", len(got))
		}
		if err := reader.Delete(ctx, o.ID); err == nil {
			t.Fatalf("expected mutation to fail when the store cannot be re-read")
		}
	})
}
