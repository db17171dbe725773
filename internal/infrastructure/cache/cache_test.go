package cache_test

import (
	"context"
	"testing"

	"github.com/bookforge/catalog/internal/infrastructure/cache"
)

func TestMemory_SetGetRemove(t *testing.T) {
	c := cache.NewMemory()
	ctx := context.Background()

	if _, ok := c.Get(ctx, "all_orders"); ok {
		t.Fatal("fresh cache should be empty")
	}

	c.Set(ctx, "all_orders", []string{"ord-1", "ord-2"})
	value, ok := c.Get(ctx, "all_orders")
	if !ok {
		t.Fatal("set key should be readable")
	}
	listing, ok := value.([]string)
	if !ok || len(listing) != 2 {
		t.Fatalf("value = %v", value)
	}

	if err := c.Remove(ctx, "all_orders"); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(ctx, "all_orders"); ok {
		t.Fatal("removed key should be gone")
	}

	// Removing an absent key is not an error.
	if err := c.Remove(ctx, "all_orders"); err != nil {
		t.Fatal(err)
	}
}
