package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthieukhl/orders/internal/apperr"
	"github.com/matthieukhl/orders/internal/models"
	"github.com/matthieukhl/orders/internal/store"
	"github.com/matthieukhl/orders/internal/testutil"
)

func newStores(t *testing.T) (*store.OrderStore, *store.ItemStore) {
	t.Helper()
	db := testutil.NewDB(t)
	return store.NewOrderStore(db.DB), store.NewItemStore(db.DB)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newOrder(name string, created time.Time, prices ...float64) *models.Order {
	order := &models.Order{Name: name, Address: "383 Lafayette St", DateCreated: created}
	for i, p := range prices {
		order.Items = append(order.Items, models.Item{
			ProductID: int64(100 + i),
			Price:     p,
			Quantity:  1,
			Status:    models.StatusActive,
		})
	}
	return order
}

func TestOrderInsertAndFind(t *testing.T) {
	ctx := context.Background()
	orders, _ := newStores(t)

	order := newOrder("Devops order", day(2024, 1, 1), 3.75, 8.75)
	order.ID = 99
	id, err := orders.Insert(ctx, order)
	require.NoError(t, err)
	assert.NotZero(t, id)

	found, err := orders.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Devops order", found.Name)
	assert.True(t, day(2024, 1, 1).Equal(models.AsDate(found.DateCreated)))
	require.Len(t, found.Items, 2)
	for _, item := range found.Items {
		assert.Equal(t, id, item.OrderID)
		assert.NotZero(t, item.ID)
	}

	_, err = orders.FindByID(ctx, id+1000)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestOrderUpdate(t *testing.T) {
	ctx := context.Background()
	orders, _ := newStores(t)

	order := newOrder("before", day(2023, 5, 5), 1)
	id, err := orders.Insert(ctx, order)
	require.NoError(t, err)

	order.Name = "after"
	order.Address = "Tandon Brooklyn downtown"
	order.Items = nil
	require.NoError(t, orders.Update(ctx, order))

	found, err := orders.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "after", found.Name)
	assert.Equal(t, "Tandon Brooklyn downtown", found.Address)
	assert.Len(t, found.Items, 1, "order update must not touch owned items")

	missing := newOrder("ghost", day(2023, 5, 5))
	missing.ID = 4242
	err = orders.Update(ctx, missing)
	var nfErr *apperr.NotFoundError
	require.True(t, errors.As(err, &nfErr))
	assert.Equal(t, "Order", nfErr.Kind)
}

func TestOrderDeleteCascades(t *testing.T) {
	ctx := context.Background()
	orders, items := newStores(t)

	order := newOrder("doomed", day(2024, 2, 2), 1, 2, 3)
	id, err := orders.Insert(ctx, order)
	require.NoError(t, err)
	keep, err := orders.Insert(ctx, newOrder("kept", day(2024, 2, 2), 4))
	require.NoError(t, err)

	require.NoError(t, orders.Delete(ctx, id))

	_, err = orders.FindByID(ctx, id)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	for _, item := range order.Items {
		_, err := items.FindByID(ctx, item.ID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	}

	owned, err := items.FindByField(ctx, "order_id", id)
	require.NoError(t, err)
	assert.Empty(t, owned)

	remaining, err := items.FindByField(ctx, "order_id", keep)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	t.Run("second delete is not found", func(t *testing.T) {
		assert.ErrorIs(t, orders.Delete(ctx, id), apperr.ErrNotFound)
		assert.ErrorIs(t, orders.Delete(ctx, id), apperr.ErrNotFound)
	})
}

func TestOrderFinders(t *testing.T) {
	ctx := context.Background()
	orders, _ := newStores(t)

	_, err := orders.Insert(ctx, newOrder("ZeQian", day(2024, 3, 1)))
	require.NoError(t, err)
	_, err = orders.Insert(ctx, newOrder("ZeQian", day(2024, 3, 2)))
	require.NoError(t, err)
	third, err := orders.Insert(ctx, newOrder("Other", day(2024, 3, 1)))
	require.NoError(t, err)

	all, err := orders.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byName, err := orders.FindByField(ctx, "name", "ZeQian")
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	_, err = orders.FindByField(ctx, "id; DROP TABLE orders", 1)
	assert.Error(t, err)

	byDate, err := orders.FindByDate(ctx, day(2024, 3, 1))
	require.NoError(t, err)
	require.Len(t, byDate, 2)
	assert.Equal(t, third, byDate[1].ID)

	none, err := orders.FindByDate(ctx, day(1999, 1, 1))
	require.NoError(t, err)
	assert.Empty(t, none)

	exists, err := orders.Exists(ctx, third)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = orders.Exists(ctx, third+100)
	require.NoError(t, err)
	assert.False(t, exists)

	byIDs, err := orders.FindByIDs(ctx, []int64{third})
	require.NoError(t, err)
	require.Len(t, byIDs, 1)
	assert.Equal(t, "Other", byIDs[0].Name)

	empty, err := orders.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestItemLifecycle(t *testing.T) {
	ctx := context.Background()
	orders, items := newStores(t)

	orderID, err := orders.Insert(ctx, newOrder("with items", day(2024, 4, 4)))
	require.NoError(t, err)

	item := &models.Item{ID: 55, ProductID: 111, Price: 12.55, Quantity: 1, OrderID: orderID, Status: "active"}
	id, err := items.Insert(ctx, item)
	require.NoError(t, err)
	assert.NotEqual(t, int64(55), id)

	item.Price = 3.75
	item.Status = "shipped"
	require.NoError(t, items.Update(ctx, item))

	found, err := items.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3.75, found.Price)
	assert.Equal(t, "shipped", found.Status)

	byProduct, err := items.FindByField(ctx, "product_id", 111)
	require.NoError(t, err)
	assert.Len(t, byProduct, 1)

	require.NoError(t, items.Delete(ctx, id))
	assert.ErrorIs(t, items.Delete(ctx, id), apperr.ErrNotFound)

	ghost := &models.Item{ID: id, ProductID: 1, Price: 1, Quantity: 1, OrderID: orderID, Status: "active"}
	assert.ErrorIs(t, items.Update(ctx, ghost), apperr.ErrNotFound)
}

func TestItemInsertWithoutOrderFails(t *testing.T) {
	_, items := newStores(t)

	_, err := items.Insert(context.Background(), &models.Item{ProductID: 1, Price: 1, Quantity: 1, OrderID: 31337, Status: "active"})
	var storageErr *apperr.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "insert", storageErr.Op)
}

func TestItemFindByRange(t *testing.T) {
	ctx := context.Background()
	orders, items := newStores(t)

	_, err := orders.Insert(ctx, newOrder("first", day(2024, 1, 1), 3.75, 8.75))
	require.NoError(t, err)
	_, err = orders.Insert(ctx, newOrder("second", day(2024, 1, 1), 4.50))
	require.NoError(t, err)

	found, err := items.FindByRange(ctx, "price", 3, 5)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, 3.75, found[0].Price)
	assert.Equal(t, 4.50, found[1].Price)

	inclusive, err := items.FindByRange(ctx, "price", 8.75, 8.75)
	require.NoError(t, err)
	assert.Len(t, inclusive, 1)

	_, err = items.FindByRange(ctx, "status", 0, 1)
	assert.Error(t, err)

	all, err := items.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestOrphans(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	orders, items := store.NewOrderStore(db.DB), store.NewItemStore(db.DB)

	id, err := orders.Insert(ctx, newOrder("parent", day(2024, 1, 1), 1))
	require.NoError(t, err)

	found, err := items.FindOrphans(ctx)
	require.NoError(t, err)
	assert.Empty(t, found)

	// Simulate a legacy revision that deleted orders without their items
	require.NoError(t, db.Exec("PRAGMA foreign_keys = OFF").Error)
	require.NoError(t, db.Exec("DELETE FROM orders WHERE id = ?", id).Error)

	found, err = items.FindOrphans(ctx)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, id, found[0].OrderID)

	removed, err := items.DeleteOrphans(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	found, err = items.FindOrphans(ctx)
	require.NoError(t, err)
	assert.Empty(t, found)
}
