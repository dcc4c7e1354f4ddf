package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carryspace/marketplace/internal/domain/market"
	"github.com/carryspace/marketplace/internal/errors"
)

func TestListingLifecycle(t *testing.T) {
	store := New()
	ctx := context.Background()

	created, err := store.CreateListing(ctx, market.Listing{
		ProviderID:  "provider-1",
		Origin:      "DXB",
		Destination: "CAI",
		CapacityKg:  20,
		PricePerKg:  48,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := store.GetListing(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = store.GetListing(ctx, "missing")
	assert.True(t, errors.IsNotFound(err))

	_, err = store.CreateListing(ctx, market.Listing{ID: created.ID})
	assert.Error(t, err)
}

func TestListListingsPreservesCreationOrder(t *testing.T) {
	store := New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.CreateListing(ctx, market.Listing{
			ProviderID: fmt.Sprintf("provider-%d", i%2),
			Origin:     "DXB",
			CapacityKg: float64(i + 1),
		})
		require.NoError(t, err)
	}

	all, err := store.ListListings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, l := range all {
		assert.Equal(t, float64(i+1), l.CapacityKg, "listing %d out of order", i)
	}

	mine, err := store.ListListingsByProvider(ctx, "provider-0")
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}

func TestOrderStatusUpdates(t *testing.T) {
	store := New()
	ctx := context.Background()

	order, err := store.CreateOrder(ctx, market.Order{
		ShipperID:  "shipper-1",
		ProviderID: "provider-1",
		Total:      240,
		Status:     market.OrderPending,
	})
	require.NoError(t, err)

	before := order.UpdatedAt
	time.Sleep(time.Millisecond)

	updated, err := store.UpdateOrderStatus(ctx, order.ID, market.OrderConfirmed)
	require.NoError(t, err)
	assert.Equal(t, market.OrderConfirmed, updated.Status)
	assert.True(t, updated.UpdatedAt.After(before))

	_, err = store.UpdateOrderStatus(ctx, "missing", market.OrderConfirmed)
	assert.True(t, errors.IsNotFound(err))
}

func TestListOrdersByUserSeesBothSides(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.CreateOrder(ctx, market.Order{ShipperID: "shipper-1", ProviderID: "provider-1"})
	require.NoError(t, err)
	_, err = store.CreateOrder(ctx, market.Order{ShipperID: "shipper-2", ProviderID: "provider-1"})
	require.NoError(t, err)

	asShipper, err := store.ListOrdersByUser(ctx, "shipper-1")
	require.NoError(t, err)
	assert.Len(t, asShipper, 1)

	asProvider, err := store.ListOrdersByUser(ctx, "provider-1")
	require.NoError(t, err)
	assert.Len(t, asProvider, 2)

	none, err := store.ListOrdersByUser(ctx, "stranger")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTicketDefaultsToOpen(t *testing.T) {
	store := New()

	ticket, err := store.CreateTicket(context.Background(), market.Ticket{
		ReporterID: "user-1",
		Subject:    "Damaged bag",
	})
	require.NoError(t, err)
	assert.Equal(t, market.TicketOpen, ticket.Status)

	mine, err := store.ListTicketsByReporter(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestConcurrentCreates(t *testing.T) {
	store := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := store.CreateListing(ctx, market.Listing{ProviderID: fmt.Sprintf("p-%d", n)})
			if err != nil {
				t.Errorf("create: %v", err)
			}
		}(i)
	}
	wg.Wait()

	all, err := store.ListListings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 50)
}
