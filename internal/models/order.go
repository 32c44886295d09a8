package models

import (
	"fmt"
	"time"

	"github.com/matthieukhl/orders/internal/apperr"
)

// OrderEntity names orders in validation messages
const OrderEntity = "Order"

// Order is a customer purchase with delivery metadata and its owned items
type Order struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;index"`
	Address     string    `json:"address" gorm:"size:255;not null" validate:"required"`
	DateCreated time.Time `json:"date_created" gorm:"type:date;not null;index"`
	Items       []Item    `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// Serialize converts the order and its items into the key-value wire form
func (o *Order) Serialize() map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for idx := range o.Items {
		items = append(items, o.Items[idx].Serialize())
	}

	return map[string]any{
		"id":           o.ID,
		"name":         o.Name,
		"address":      o.Address,
		"date_created": o.DateCreated.Format(DateLayout),
		"items":        items,
	}
}

// Deserialize loads order fields from a decoded JSON value. name and address
// are required. An absent date_created leaves the current value in place;
// each element of an optional items list is appended as a new, unowned Item.
func (o *Order) Deserialize(data any) error {
	m, err := asMap(OrderEntity, data)
	if err != nil {
		return err
	}

	name, err := requireString(OrderEntity, m, "name")
	if err != nil {
		return err
	}
	address, err := requireString(OrderEntity, m, "address")
	if err != nil {
		return err
	}

	dateCreated := o.DateCreated
	if raw, ok := m["date_created"]; ok && raw != nil {
		s, ok := raw.(string)
		if !ok {
			return apperr.Invalid(OrderEntity, "date_created", "must be a YYYY-MM-DD string")
		}
		if dateCreated, err = ParseDate(s); err != nil {
			return apperr.Invalid(OrderEntity, "date_created", fmt.Sprintf("%q is not a YYYY-MM-DD date", s))
		}
	}

	var items []Item
	if raw, ok := m["items"]; ok && raw != nil {
		list, err := asList(raw)
		if err != nil {
			return err
		}
		items = make([]Item, 0, len(list))
		for _, el := range list {
			var item Item
			if err := item.Deserialize(el); err != nil {
				return err
			}
			item.OrderID = 0
			items = append(items, item)
		}
	}

	o.Name = name
	o.Address = address
	o.DateCreated = dateCreated
	o.Items = append(o.Items, items...)
	return nil
}

func asList(raw any) ([]any, error) {
	switch v := raw.(type) {
	case []any:
		return v, nil
	case []map[string]any:
		list := make([]any, len(v))
		for idx := range v {
			list[idx] = v[idx]
		}
		return list, nil
	default:
		return nil, apperr.Invalid(OrderEntity, "items", "must be a list")
	}
}

// Validate checks the order and every owned item
func (o *Order) Validate() error {
	if err := validateStruct(OrderEntity, o); err != nil {
		return err
	}
	for idx := range o.Items {
		if err := o.Items[idx].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// FilterItems keeps only the items for which keep returns true
func (o *Order) FilterItems(keep func(Item) bool) {
	kept := o.Items[:0]
	for _, item := range o.Items {
		if keep(item) {
			kept = append(kept, item)
		}
	}
	o.Items = kept
}
