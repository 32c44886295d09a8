package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/matthieukhl/orders/internal/apperr"
	"github.com/matthieukhl/orders/internal/models"
)

const itemKind = "Item"

var itemFields = map[string]bool{
	"order_id":   true,
	"product_id": true,
	"status":     true,
}

var itemRangeFields = map[string]bool{
	"price":    true,
	"quantity": true,
}

// ItemStore persists individual order items
type ItemStore struct {
	db *gorm.DB
}

func NewItemStore(db *gorm.DB) *ItemStore {
	return &ItemStore{db: db}
}

// Insert stores a new item and returns the assigned id. The item must
// reference an existing order.
func (s *ItemStore) Insert(ctx context.Context, item *models.Item) (int64, error) {
	item.ID = 0
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return 0, apperr.Storage(itemKind, "insert", err)
	}
	return item.ID, nil
}

// Update persists every column of an existing item
func (s *ItemStore) Update(ctx context.Context, item *models.Item) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &models.Item{}, itemKind, item.ID); err != nil {
			return err
		}

		err := tx.Model(&models.Item{}).
			Where("id = ?", item.ID).
			Updates(map[string]any{
				"product_id": item.ProductID,
				"price":      item.Price,
				"quantity":   item.Quantity,
				"order_id":   item.OrderID,
				"status":     item.Status,
			}).Error
		return apperr.Storage(itemKind, "update", err)
	})
}

// Delete removes a single item
func (s *ItemStore) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&models.Item{}, id)
	if res.Error != nil {
		return apperr.Storage(itemKind, "delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(itemKind, id)
	}
	return nil
}

// FindByID loads one item
func (s *ItemStore) FindByID(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(itemKind, id)
	}
	if err != nil {
		return nil, apperr.Storage(itemKind, "find", err)
	}
	return &item, nil
}

// FindAll returns every item, oldest id first
func (s *ItemStore) FindAll(ctx context.Context) ([]models.Item, error) {
	return s.find("list", s.db.WithContext(ctx))
}

// FindByField returns items whose column equals value
func (s *ItemStore) FindByField(ctx context.Context, field string, value any) ([]models.Item, error) {
	if !itemFields[field] {
		return nil, fmt.Errorf("item field %q cannot be queried", field)
	}
	q := s.db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: field}, Value: value})
	return s.find("find by "+field, q)
}

// FindByRange returns items whose numeric column lies in [low, high]
func (s *ItemStore) FindByRange(ctx context.Context, field string, low, high float64) ([]models.Item, error) {
	if !itemRangeFields[field] {
		return nil, fmt.Errorf("item field %q cannot be range queried", field)
	}
	col := clause.Column{Name: field}
	q := s.db.WithContext(ctx).
		Where(clause.Gte{Column: col, Value: low}).
		Where(clause.Lte{Column: col, Value: high})
	return s.find("find by "+field+" range", q)
}

// FindOrphans returns items whose order no longer exists
func (s *ItemStore) FindOrphans(ctx context.Context) ([]models.Item, error) {
	q := s.db.WithContext(ctx).Where("order_id NOT IN (?)", s.db.Model(&models.Order{}).Select("id"))
	return s.find("find orphaned", q)
}

// DeleteOrphans removes items whose order no longer exists and reports how many went
func (s *ItemStore) DeleteOrphans(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("order_id NOT IN (?)", s.db.Model(&models.Order{}).Select("id")).
		Delete(&models.Item{})
	if res.Error != nil {
		return 0, apperr.Storage(itemKind, "delete orphaned", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *ItemStore) find(op string, q *gorm.DB) ([]models.Item, error) {
	items := []models.Item{}
	if err := q.Order("id").Find(&items).Error; err != nil {
		return nil, apperr.Storage(itemKind, op, err)
	}
	return items, nil
}
