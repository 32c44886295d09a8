package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/matthieukhl/orders/internal/apperr"
	"github.com/matthieukhl/orders/internal/models"
)

func serializeItems(items []models.Item) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for idx := range items {
		out = append(out, items[idx].Serialize())
	}
	return out
}

// itemPath parses both ids of an /orders/:id/items/:item_id route
func itemPath(c *gin.Context) (orderID, itemID int64, err error) {
	if orderID, err = pathID(c, "id", models.OrderEntity); err != nil {
		return 0, 0, err
	}
	if itemID, err = pathID(c, "item_id", models.ItemEntity); err != nil {
		return 0, 0, err
	}
	return orderID, itemID, nil
}

// listItems returns the items of an order, filtered by ?product_id= when given
func (s *Server) listItems(c *gin.Context) {
	orderID, err := pathID(c, "id", models.OrderEntity)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}

	var productID *int64
	if raw, ok := c.GetQuery("product_id"); ok {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			abortWithError(c, apperr.Invalid(models.ItemEntity, "product_id", "must be an integer"), s.log)
			return
		}
		productID = &v
	}

	items, err := s.svc.ListItems(c.Request.Context(), orderID, productID)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}
	c.JSON(http.StatusOK, serializeItems(items))
}

func (s *Server) createItem(c *gin.Context) {
	orderID, err := pathID(c, "id", models.OrderEntity)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}

	body, err := readJSON(c, models.ItemEntity)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}

	item, err := s.svc.CreateItem(c.Request.Context(), orderID, body)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/items/%d", orderLocation(orderID), item.ID))
	c.JSON(http.StatusCreated, item.Serialize())
}

func (s *Server) getItem(c *gin.Context) {
	orderID, itemID, err := itemPath(c)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}

	item, err := s.svc.GetItem(c.Request.Context(), orderID, itemID)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}
	c.JSON(http.StatusOK, item.Serialize())
}

func (s *Server) updateItem(c *gin.Context) {
	orderID, itemID, err := itemPath(c)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}

	body, err := readJSON(c, models.ItemEntity)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}

	item, err := s.svc.UpdateItem(c.Request.Context(), orderID, itemID, body)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}
	c.JSON(http.StatusOK, item.Serialize())
}

// deleteItem tolerates an absent item as long as the order exists. A
// malformed item id names no stored item, so it is treated as absent.
func (s *Server) deleteItem(c *gin.Context) {
	orderID, err := pathID(c, "id", models.OrderEntity)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}

	// ids are assigned from 1, so 0 matches no item
	itemID, err := pathID(c, "item_id", models.ItemEntity)
	if err != nil {
		itemID = 0
	}

	if err := s.svc.DeleteItem(c.Request.Context(), orderID, itemID); err != nil {
		abortWithError(c, err, s.log)
		return
	}
	c.Status(http.StatusNoContent)
}
