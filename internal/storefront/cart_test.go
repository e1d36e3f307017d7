package storefront

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCart(t *testing.T) (*fakeAPI, *CartStore) {
	t.Helper()
	api := newFakeAPI(t)
	return api, NewCartStore(api.client(t), nil)
}

func TestCartFetchReplacesLocalState(t *testing.T) {
	api, cart := newTestCart(t)
	api.seedLine(1, 2, Variant{Size: "75B", Color: "black"})
	api.seedLine(2, 1, Variant{Size: "M", Color: "ivory"})

	require.NoError(t, cart.Fetch(context.Background()))

	assert.Len(t, cart.Lines(), 2)
	assert.Equal(t, 3, cart.Count())
	assert.True(t, cart.ItemsWorth().Equal(decimal.RequireFromString("130.00")))
	assert.NoError(t, cart.Err())
}

func TestCartFetchFailureLeavesEmptyStateWithError(t *testing.T) {
	api, cart := newTestCart(t)
	api.seedLine(1, 1, Variant{})
	require.NoError(t, cart.Fetch(context.Background()))

	api.failNext("GET /api/v1/cart", http.StatusInternalServerError)
	err := cart.Fetch(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServer)
	assert.Empty(t, cart.Lines())
	assert.ErrorIs(t, cart.Err(), ErrServer)
}

func TestCartAddMergesSameVariant(t *testing.T) {
	api, cart := newTestCart(t)
	ctx := context.Background()
	variant := Variant{Size: "75B", Color: "black"}

	require.NoError(t, cart.Add(ctx, 1, 1, variant))
	require.NoError(t, cart.Add(ctx, 1, 2, variant))
	require.NoError(t, cart.Add(ctx, 1, 1, Variant{Size: "80C", Color: "black"}))

	lines := cart.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Len(t, api.serverLines(), 2)
	assert.True(t, lines[0].LineTotal.Equal(decimal.NewFromInt(150)))
}

func TestCartAddRejectsQuantityBelowOneWithoutCallingServer(t *testing.T) {
	api, cart := newTestCart(t)
	ctx := context.Background()
	variant := Variant{Size: "S"}
	require.NoError(t, cart.Add(ctx, 2, 1, variant))
	before := api.callCount("POST /api/v1/cart/add")

	err := cart.Add(ctx, 2, -1, variant)
	assert.ErrorIs(t, err, ErrQuantityBelowOne)
	err = cart.Add(ctx, 3, 0, Variant{})
	assert.ErrorIs(t, err, ErrQuantityBelowOne)

	assert.Equal(t, before, api.callCount("POST /api/v1/cart/add"))
	for _, line := range cart.Lines() {
		assert.GreaterOrEqual(t, line.Quantity, 1)
	}
}

func TestCartMutationFailureKeepsLastKnownGood(t *testing.T) {
	api, cart := newTestCart(t)
	ctx := context.Background()
	require.NoError(t, cart.Add(ctx, 1, 2, Variant{}))
	before := cart.Lines()

	api.failNext("POST /api/v1/cart/add", http.StatusServiceUnavailable)
	err := cart.Add(ctx, 1, 1, Variant{})

	require.Error(t, err)
	assert.Equal(t, before, cart.Lines())
	assert.ErrorIs(t, cart.Err(), ErrServer)
}

func TestCartRemoveIsIdempotent(t *testing.T) {
	api, cart := newTestCart(t)
	ctx := context.Background()
	api.seedLine(1, 1, Variant{Size: "75B", Color: "red"})
	api.seedLine(2, 2, Variant{Size: "M", Color: "black"})
	require.NoError(t, cart.Fetch(ctx))

	variant := &Variant{Size: "75B", Color: "red"}
	require.NoError(t, cart.Remove(ctx, 1, variant))
	once := cart.Lines()
	require.NoError(t, cart.Remove(ctx, 1, variant))

	assert.Equal(t, once, cart.Lines())
	require.Len(t, once, 1)
	assert.Equal(t, uint(2), once[0].ProductID)
}

func TestCartClearEmptiesServerAndLocal(t *testing.T) {
	api, cart := newTestCart(t)
	ctx := context.Background()
	api.seedLine(3, 1, Variant{})
	require.NoError(t, cart.Fetch(ctx))

	require.NoError(t, cart.Clear(ctx))

	assert.Empty(t, cart.Lines())
	assert.Empty(t, api.serverLines())
	assert.Equal(t, 0, cart.Count())
}

func TestCartMutationsApplyInCallOrder(t *testing.T) {
	_, cart := newTestCart(t)
	ctx := context.Background()
	require.NoError(t, cart.Add(ctx, 1, 1, Variant{}))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cart.Add(ctx, 1, 1, Variant{})
		}()
	}
	wg.Wait()

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 6, lines[0].Quantity)
}

func TestCartSubscribeNotifiesOnChange(t *testing.T) {
	_, cart := newTestCart(t)
	ch, cancel := cart.Subscribe()
	defer cancel()
	version := cart.Version()

	require.NoError(t, cart.Add(context.Background(), 2, 1, Variant{}))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected change notification")
	}
	assert.Greater(t, cart.Version(), version)
}
