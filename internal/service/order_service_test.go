package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lalaji/replenish/internal/domain"
	"github.com/lalaji/replenish/internal/repository"
	"github.com/lalaji/replenish/internal/repository/memory"
)

func TestCreateOrderValidation(t *testing.T) {
	store := memory.New()
	svc := NewOrderService(store, store, nil)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, "barter", "Walk-in", []OrderItemRequest{{ProductID: 1, Quantity: 1}})
	require.Error(t, err)

	_, err = svc.CreateOrder(ctx, domain.OrderKindCustomer, "", []OrderItemRequest{{ProductID: 1, Quantity: 1}})
	require.Error(t, err)

	_, err = svc.CreateOrder(ctx, domain.OrderKindCustomer, "Walk-in", nil)
	require.Error(t, err)

	_, err = svc.CreateOrder(ctx, domain.OrderKindCustomer, "Walk-in", []OrderItemRequest{{ProductID: 1, Quantity: 0}})
	require.Error(t, err)
}

func TestCreateCustomerOrderSnapshotsPrices(t *testing.T) {
	store := memory.New()
	p := addProduct(t, store, domain.Product{Name: "Rice", Quantity: 10, Price: 620.5})
	svc := NewOrderService(store, store, nil)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, domain.OrderKindCustomer, "Walk-in", []OrderItemRequest{
		{ProductID: p.ID, Quantity: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, 1861.5, order.TotalAmount)

	got, err := store.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)
}

func TestCreateCustomerOrderInsufficientStock(t *testing.T) {
	store := memory.New()
	p := addProduct(t, store, domain.Product{Name: "Rice", Quantity: 2, Price: 620})
	svc := NewOrderService(store, store, nil)

	_, err := svc.CreateOrder(context.Background(), domain.OrderKindCustomer, "Walk-in", []OrderItemRequest{
		{ProductID: p.ID, Quantity: 5},
	})
	require.ErrorIs(t, err, repository.ErrInsufficientStock)
}

func TestSupplierOrderLifecycle(t *testing.T) {
	store := memory.New()
	p := addProduct(t, store, domain.Product{Name: "Dal", Quantity: 5, Price: 140})
	svc := NewOrderService(store, store, nil)
	ctx := context.Background()

	// supplier orders may exceed current stock; nothing moves until receipt
	order, err := svc.CreateOrder(ctx, domain.OrderKindSupplier, "Agro Distributors", []OrderItemRequest{
		{ProductID: p.ID, Quantity: 100},
	})
	require.NoError(t, err)

	got, err := store.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)

	require.NoError(t, svc.CompleteOrder(ctx, order.ID))

	got, err = store.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 105, got.Quantity)
}

func TestListOrdersRejectsUnknownKind(t *testing.T) {
	store := memory.New()
	svc := NewOrderService(store, store, nil)

	_, err := svc.ListOrders(context.Background(), "barter", 10)
	require.Error(t, err)

	orders, err := svc.ListOrders(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
