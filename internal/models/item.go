package models

import "github.com/matthieukhl/orders/internal/apperr"

// ItemEntity names items in validation messages
const ItemEntity = "Item"

// StatusActive is assigned to items created without an explicit status
const StatusActive = "active"

// Item is a single product line of an order
type Item struct {
	ID        int64   `json:"id" gorm:"primaryKey"`
	ProductID int64   `json:"product_id" gorm:"not null;index"`
	Price     float64 `json:"price" gorm:"not null;index" validate:"gte=0"`
	Quantity  int64   `json:"quantity" gorm:"not null;default:1" validate:"min=1"`
	OrderID   int64   `json:"order_id" gorm:"not null;index"`
	Status    string  `json:"status" gorm:"size:32;not null" validate:"required"`
}

// Serialize converts the item into its key-value wire form
func (i *Item) Serialize() map[string]any {
	var orderID any
	if i.OrderID != 0 {
		orderID = i.OrderID
	}

	return map[string]any{
		"id":         i.ID,
		"product_id": i.ProductID,
		"price":      i.Price,
		"quantity":   i.Quantity,
		"order_id":   orderID,
		"status":     i.Status,
	}
}

// Deserialize loads item fields from a decoded JSON value. product_id, price
// and quantity are required; status and order_id are optional. Any id in the
// data is ignored.
func (i *Item) Deserialize(data any) error {
	m, err := asMap(ItemEntity, data)
	if err != nil {
		return err
	}

	productID, err := requireInt(ItemEntity, m, "product_id")
	if err != nil {
		return err
	}
	price, err := requireFloat(ItemEntity, m, "price")
	if err != nil {
		return err
	}
	quantity, err := requireInt(ItemEntity, m, "quantity")
	if err != nil {
		return err
	}

	status := i.Status
	if raw, ok := m["status"]; ok && raw != nil {
		s, ok := raw.(string)
		if !ok {
			return apperr.Invalid(ItemEntity, "status", "must be a string")
		}
		status = s
	}
	if status == "" {
		status = StatusActive
	}

	orderID := i.OrderID
	if raw, ok := m["order_id"]; ok && raw != nil {
		if orderID, err = toInt(ItemEntity, "order_id", raw); err != nil {
			return err
		}
	}

	i.ProductID = productID
	i.Price = price
	i.Quantity = quantity
	i.Status = status
	i.OrderID = orderID
	return nil
}

// Validate checks the value rules that key presence alone cannot express
func (i *Item) Validate() error {
	return validateStruct(ItemEntity, i)
}
