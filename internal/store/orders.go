package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/matthieukhl/orders/internal/apperr"
	"github.com/matthieukhl/orders/internal/models"
)

const orderKind = "Order"

// orderFields are the columns FindByField may filter orders on
var orderFields = map[string]bool{
	"name":    true,
	"address": true,
}

// OrderStore persists orders and, through them, their owned items
type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("items.id")
	})
}

// Insert stores a new order together with its items and returns the assigned
// id. Ids already present on the order or its items are discarded.
func (s *OrderStore) Insert(ctx context.Context, order *models.Order) (int64, error) {
	order.ID = 0
	for idx := range order.Items {
		order.Items[idx].ID = 0
		order.Items[idx].OrderID = 0
	}

	if err := s.db.WithContext(ctx).Create(order).Error; err != nil {
		return 0, apperr.Storage(orderKind, "insert", err)
	}
	return order.ID, nil
}

// Update persists the order's own columns. Owned items are left untouched.
func (s *OrderStore) Update(ctx context.Context, order *models.Order) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Order{}, orderKind, order.ID); err != nil {
			return err
		}

		err := tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Updates(map[string]any{
				"name":         order.Name,
				"address":      order.Address,
				"date_created": order.DateCreated,
			}).Error
		return apperr.Storage(orderKind, "update", err)
	})
}

// Delete removes the order and every item it owns in one transaction
func (s *OrderStore) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.Item{}).Error; err != nil {
			return apperr.Storage(orderKind, "delete items of", err)
		}

		res := tx.Delete(&models.Order{}, id)
		if res.Error != nil {
			return apperr.Storage(orderKind, "delete", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound(orderKind, id)
		}
		return nil
	})
}

// FindByID loads one order with its items
func (s *OrderStore) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := withItems(s.db.WithContext(ctx)).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(orderKind, id)
	}
	if err != nil {
		return nil, apperr.Storage(orderKind, "find", err)
	}
	return &order, nil
}

// Exists reports whether an order with the given id is stored
func (s *OrderStore) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, apperr.Storage(orderKind, "look up", err)
	}
	return count > 0, nil
}

// FindAll returns every order with its items, oldest id first
func (s *OrderStore) FindAll(ctx context.Context) ([]models.Order, error) {
	return s.find("list", withItems(s.db.WithContext(ctx)))
}

// FindByField returns orders whose column equals value
func (s *OrderStore) FindByField(ctx context.Context, field string, value any) ([]models.Order, error) {
	if !orderFields[field] {
		return nil, fmt.Errorf("order field %q cannot be queried", field)
	}
	q := withItems(s.db.WithContext(ctx)).Where(clause.Eq{Column: clause.Column{Name: field}, Value: value})
	return s.find("find by "+field, q)
}

// FindByDate returns orders created on the calendar day of date
func (s *OrderStore) FindByDate(ctx context.Context, date time.Time) ([]models.Order, error) {
	day := models.AsDate(date)
	q := withItems(s.db.WithContext(ctx)).
		Where("date_created >= ? AND date_created < ?", day, day.AddDate(0, 0, 1))
	return s.find("find by date", q)
}

// FindByIDs returns the orders with the given ids, oldest id first
func (s *OrderStore) FindByIDs(ctx context.Context, ids []int64) ([]models.Order, error) {
	if len(ids) == 0 {
		return []models.Order{}, nil
	}
	return s.find("find by ids", withItems(s.db.WithContext(ctx)).Where("id IN ?", ids))
}

func (s *OrderStore) find(op string, q *gorm.DB) ([]models.Order, error) {
	orders := []models.Order{}
	if err := q.Order("orders.id").Find(&orders).Error; err != nil {
		return nil, apperr.Storage(orderKind, op, err)
	}
	return orders, nil
}

// requireRow fails with a NotFoundError when no row of model has the id
func requireRow(tx *gorm.DB, model any, kind string, id int64) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return apperr.Storage(kind, "look up", err)
	}
	if count == 0 {
		return apperr.NotFound(kind, id)
	}
	return nil
}
