package booking

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"toptransfer/internal/maps"
	"toptransfer/internal/types"
)

func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	d := &Draft{ID: types.ID(uuid.NewString()), State: StateEditing, Hours: 1}

	if err := s.Create(ctx, d); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := s.Create(ctx, d); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate Create() = %v, want ErrConflict", err)
	}

	a, err := s.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	b, _ := s.Get(ctx, d.ID)

	a.PickupPlace = &maps.Place{PlaceID: "pl_1", Address: "Montpellier"}
	if err := s.Update(ctx, a); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if a.Version != 1 {
		t.Errorf("version = %d, want 1", a.Version)
	}
	b.Notes = "stale"
	if err := s.Update(ctx, b); !errors.Is(err, ErrConflict) {
		t.Fatalf("stale Update() = %v, want ErrConflict", err)
	}

	got, _ := s.Get(ctx, d.ID)
	if got.PickupPlace == nil || got.PickupPlace.PlaceID != "pl_1" || got.Notes != "" {
		t.Errorf("unexpected stored draft %+v", got)
	}
	got.PickupPlace.Address = "mutated"
	again, _ := s.Get(ctx, d.ID)
	if again.PickupPlace.Address != "Montpellier" {
		t.Error("store must not share pointers with callers")
	}

	if err := s.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, d.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after delete = %v, want ErrNotFound", err)
	}
	if err := s.Update(ctx, again); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update() after delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore(time.Minute))
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	now := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	d := &Draft{ID: "bk_exp", State: StateEditing}
	if err := s.Create(context.Background(), d); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := s.Get(context.Background(), d.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expired draft to be gone, got %v", err)
	}
}

func TestMemoryStore_SweepsAbandonedDrafts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	now := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		if err := s.Create(ctx, &Draft{ID: types.ID(fmt.Sprintf("bk_old_%d", i)), State: StateEditing}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	now = now.Add(24 * time.Hour)
	for i := 0; i < 10; i++ {
		if err := s.Create(ctx, &Draft{ID: types.ID(fmt.Sprintf("bk_new_%d", i)), State: StateEditing}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	s.mu.Lock()
	held := len(s.entries)
	s.mu.Unlock()
	if held != 10 {
		t.Fatalf("entries held = %d, want 10 live drafts", held)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TOPTRANSFER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TOPTRANSFER_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	storeContract(t, NewRedisStore(client, time.Minute))
}
