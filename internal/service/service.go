package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/matthieukhl/orders/internal/apperr"
	"github.com/matthieukhl/orders/internal/models"
)

const priceRangeEntity = "price range"

type Service struct {
	orders OrderRepo
	items  ItemRepo
	log    *slog.Logger
}

func NewService(orders OrderRepo, items ItemRepo, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{orders: orders, items: items, log: log}
}

// ListOrders returns every order, or only those with the given name when name is set
func (s *Service) ListOrders(ctx context.Context, name string) ([]models.Order, error) {
	if name != "" {
		return s.orders.FindByField(ctx, "name", name)
	}
	return s.orders.FindAll(ctx)
}

// CreateOrder builds an order (and any nested items) from a request body and stores it
func (s *Service) CreateOrder(ctx context.Context, body any) (*models.Order, error) {
	var order models.Order
	if err := order.Deserialize(body); err != nil {
		return nil, err
	}
	if order.DateCreated.IsZero() {
		order.DateCreated = models.Today()
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.orders.Insert(ctx, &order); err != nil {
		return nil, err
	}

	s.log.Info("order created", slog.Int64("order_id", order.ID), slog.Int("items", len(order.Items)))
	return &order, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// UpdateOrder replaces the name, address and date of an existing order. Items
// in the body are validated but item changes go through the item operations.
func (s *Service) UpdateOrder(ctx context.Context, id int64, body any) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := models.Order{DateCreated: order.DateCreated}
	if err := patch.Deserialize(body); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	order.ID = id
	order.Name = patch.Name
	order.Address = patch.Address
	order.DateCreated = patch.DateCreated

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info("order updated", slog.Int64("order_id", id))
	return order, nil
}

// DeleteOrder removes an order together with its items
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("order deleted", slog.Int64("order_id", id))
	return nil
}

// OrdersByDate returns the orders created on the given day
func (s *Service) OrdersByDate(ctx context.Context, date time.Time) ([]models.Order, error) {
	orders, err := s.orders.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperr.NoMatch(models.OrderEntity, "date_created "+date.Format(models.DateLayout))
	}
	return orders, nil
}

// ParsePriceRange reads min_price and max_price from a request body
func ParsePriceRange(body any) (low, high float64, err error) {
	m, ok := body.(map[string]any)
	if !ok {
		return 0, 0, apperr.Invalid(priceRangeEntity, "", "body must be a JSON object with min_price and max_price")
	}

	for _, key := range []string{"min_price", "max_price"} {
		if _, ok := m[key]; !ok {
			return 0, 0, apperr.Missing(priceRangeEntity, key)
		}
	}

	if low, err = models.ToFloat(priceRangeEntity, "min_price", m["min_price"]); err != nil {
		return 0, 0, err
	}
	if high, err = models.ToFloat(priceRangeEntity, "max_price", m["max_price"]); err != nil {
		return 0, 0, err
	}
	return low, high, nil
}

// OrdersInPriceRange returns the orders owning at least one item priced within
// [low, high], each with its items narrowed to the matching ones
func (s *Service) OrdersInPriceRange(ctx context.Context, low, high float64) ([]models.Order, error) {
	items, err := s.items.FindByRange(ctx, "price", low, high)
	if err != nil {
		return nil, err
	}

	matched := make(map[int64]bool, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		matched[item.ID] = true
		if !containsID(ids, item.OrderID) {
			ids = append(ids, item.OrderID)
		}
	}

	orders, err := s.orders.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, apperr.NoMatch(models.OrderEntity, fmt.Sprintf("item prices between %g and %g", low, high))
	}

	for idx := range orders {
		orders[idx].FilterItems(func(item models.Item) bool { return matched[item.ID] })
	}
	return orders, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (s *Service) requireOrder(ctx context.Context, orderID int64) error {
	ok, err := s.orders.Exists(ctx, orderID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound(models.OrderEntity, orderID)
	}
	return nil
}

// ownedItem loads an item and checks that it belongs to the order
func (s *Service) ownedItem(ctx context.Context, orderID, itemID int64) (*models.Item, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OrderID != orderID {
		return nil, apperr.NotFound(models.ItemEntity, itemID)
	}
	return item, nil
}

// ListItems returns the items of an order, optionally only those for one product
func (s *Service) ListItems(ctx context.Context, orderID int64, productID *int64) ([]models.Item, error) {
	if err := s.requireOrder(ctx, orderID); err != nil {
		return nil, err
	}

	items, err := s.items.FindByField(ctx, "order_id", orderID)
	if err != nil {
		return nil, err
	}
	if productID == nil {
		return items, nil
	}

	filtered := items[:0]
	for _, item := range items {
		if item.ProductID == *productID {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// CreateItem adds an item from a request body to an existing order
func (s *Service) CreateItem(ctx context.Context, orderID int64, body any) (*models.Item, error) {
	if err := s.requireOrder(ctx, orderID); err != nil {
		return nil, err
	}

	var item models.Item
	if err := item.Deserialize(body); err != nil {
		return nil, err
	}
	item.OrderID = orderID
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.items.Insert(ctx, &item); err != nil {
		return nil, err
	}

	s.log.Info("item created", slog.Int64("order_id", orderID), slog.Int64("item_id", item.ID))
	return &item, nil
}

func (s *Service) GetItem(ctx context.Context, orderID, itemID int64) (*models.Item, error) {
	if err := s.requireOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.ownedItem(ctx, orderID, itemID)
}

// UpdateItem replaces the fields of an item of an existing order
func (s *Service) UpdateItem(ctx context.Context, orderID, itemID int64, body any) (*models.Item, error) {
	if err := s.requireOrder(ctx, orderID); err != nil {
		return nil, err
	}
	item, err := s.ownedItem(ctx, orderID, itemID)
	if err != nil {
		return nil, err
	}

	if err := item.Deserialize(body); err != nil {
		return nil, err
	}
	item.ID = itemID
	item.OrderID = orderID
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}

	s.log.Info("item updated", slog.Int64("order_id", orderID), slog.Int64("item_id", itemID))
	return item, nil
}

// DeleteItem removes an item of an existing order. An item that is already
// gone, or that belongs to another order, is left alone without error.
func (s *Service) DeleteItem(ctx context.Context, orderID, itemID int64) error {
	if err := s.requireOrder(ctx, orderID); err != nil {
		return err
	}

	if _, err := s.ownedItem(ctx, orderID, itemID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.items.Delete(ctx, itemID); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	s.log.Info("item deleted", slog.Int64("order_id", orderID), slog.Int64("item_id", itemID))
	return nil
}
