package service

import (
	"context"
	"time"

	"github.com/matthieukhl/orders/internal/models"
)

type OrderRepo interface {
	Insert(ctx context.Context, order *models.Order) (int64, error)
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Order, error)
	Exists(ctx context.Context, id int64) (bool, error)
	FindAll(ctx context.Context) ([]models.Order, error)
	FindByField(ctx context.Context, field string, value any) ([]models.Order, error)
	FindByDate(ctx context.Context, date time.Time) ([]models.Order, error)
	FindByIDs(ctx context.Context, ids []int64) ([]models.Order, error)
}

type ItemRepo interface {
	Insert(ctx context.Context, item *models.Item) (int64, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Item, error)
	FindByField(ctx context.Context, field string, value any) ([]models.Item, error)
	FindByRange(ctx context.Context, field string, low, high float64) ([]models.Item, error)
}
