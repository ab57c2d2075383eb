package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-dashboard/internal/domain"
	"campus-dashboard/internal/repository/memory"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func milkTea() domain.CartItem {
	return domain.CartItem{ProductID: 1, Title: "奶茶", Price: 12.5, StoreName: "小卖部"}
}

func notebook() domain.CartItem {
	return domain.CartItem{ProductID: 2, Title: "笔记本", Price: 8, StoreName: "文具店"}
}

func TestAddIncrementsExistingLine(t *testing.T) {
	ctx := context.Background()
	store := New(memory.NewKeyValueRepository(), quietLogger())

	store.Add(ctx, milkTea())
	store.Add(ctx, milkTea())
	store.Add(ctx, notebook())

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Qty)
	assert.Equal(t, 1, items[1].Qty)
	assert.Equal(t, 3, store.Count())
	assert.InDelta(t, 33.0, store.Total(), 1e-9)
}

func TestSetQtyFloorsAtOne(t *testing.T) {
	ctx := context.Background()
	store := New(memory.NewKeyValueRepository(), quietLogger())

	store.Add(ctx, milkTea())
	store.SetQty(ctx, 1, 5)
	assert.Equal(t, 5, store.Items()[0].Qty)

	store.SetQty(ctx, 1, 0)
	assert.Equal(t, 1, store.Items()[0].Qty)

	store.SetQty(ctx, 1, -3)
	assert.Equal(t, 1, store.Items()[0].Qty)
}

func TestSetQtyUnknownProductIsNoop(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKeyValueRepository()
	store := New(kv, quietLogger())

	store.Add(ctx, milkTea())
	before, err := kv.Get(ctx, "cartItems")
	require.NoError(t, err)

	store.SetQty(ctx, 999, 4)
	after, err := kv.Get(ctx, "cartItems")
	require.NoError(t, err)

	assert.Equal(t, before, after)
	assert.Equal(t, 1, store.Count())
}

func TestRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	store := New(memory.NewKeyValueRepository(), quietLogger())

	store.Add(ctx, milkTea())
	store.Add(ctx, notebook())

	store.Remove(ctx, 1)
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ProductID)

	store.Clear(ctx)
	assert.Empty(t, store.Items())
	assert.Zero(t, store.Count())
	assert.Zero(t, store.Total())
}

func TestRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKeyValueRepository()

	first := New(kv, quietLogger())
	first.Add(ctx, milkTea())
	first.Add(ctx, milkTea())
	first.Add(ctx, notebook())

	second := New(kv, quietLogger())
	require.NoError(t, second.Restore(ctx))
	assert.Equal(t, first.Items(), second.Items())
	assert.Equal(t, 3, second.Count())
}

func TestRestoreDiscardsMalformedData(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKeyValueRepository()
	require.NoError(t, kv.Set(ctx, "cartItems", "{not json"))

	store := New(kv, quietLogger())
	require.NoError(t, store.Restore(ctx))
	assert.Empty(t, store.Items())

	// the cart stays usable after the fallback
	store.Add(ctx, milkTea())
	assert.Equal(t, 1, store.Count())
}

// Storage must match memory once concurrent mutations settle: each persist
// writes under the store lock, so writes cannot land out of order.
func TestConcurrentMutationsKeepStorageInSync(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKeyValueRepository()
	store := New(kv, quietLogger())

	var wg sync.WaitGroup
	for i := 1; i <= 32; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			store.Add(ctx, domain.CartItem{ProductID: id, Title: fmt.Sprintf("item-%d", id), Price: 1})
		}(int64(i))
	}
	wg.Wait()

	raw, err := kv.Get(ctx, "cartItems")
	require.NoError(t, err)

	var persisted []domain.CartItem
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.ElementsMatch(t, store.Items(), persisted)
	assert.Equal(t, 32, store.Count())
}

func TestRestoreMissingKeyIsEmptyCart(t *testing.T) {
	ctx := context.Background()
	store := New(memory.NewKeyValueRepository(), quietLogger())

	require.NoError(t, store.Restore(ctx))
	assert.Empty(t, store.Items())
}
