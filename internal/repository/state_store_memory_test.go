package repository

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryStateStoreSetGetDelete(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get() = %q, %v; want v", got, err)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got, err = store.Get(ctx, "k")
	if err != nil || got != nil {
		t.Fatalf("Get() after delete = %q, %v; want nil", got, err)
	}
}

func TestMemoryStateStoreTTL(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	got, err := store.Get(ctx, "k")
	if err != nil || got != nil {
		t.Fatalf("Get() after expiry = %q, %v; want nil", got, err)
	}
}

func TestMemoryStateStoreIncrement(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := store.Increment(ctx, "counter", time.Minute)
		if err != nil {
			t.Fatalf("Increment() error = %v", err)
		}
		if n != want {
			t.Fatalf("Increment() = %d, want %d", n, want)
		}
	}
}

func TestMemoryStateStoreIncrementConcurrent(t *testing.T) {
	store := NewMemoryStateStore()
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Increment(ctx, "counter", time.Minute); err != nil {
				t.Errorf("Increment() error = %v", err)
			}
		}()
	}
	wg.Wait()

	n, err := store.Increment(ctx, "counter", time.Minute)
	if err != nil {
		t.Fatalf("final Increment() error = %v", err)
	}
	if n != workers+1 {
		t.Fatalf("counter = %d, want %d", n, workers+1)
	}
}
