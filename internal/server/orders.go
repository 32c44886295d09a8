package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matthieukhl/orders/internal/apperr"
	"github.com/matthieukhl/orders/internal/models"
	"github.com/matthieukhl/orders/internal/service"
)

func serializeOrders(orders []models.Order) []map[string]any {
	out := make([]map[string]any, 0, len(orders))
	for idx := range orders {
		out = append(out, orders[idx].Serialize())
	}
	return out
}

func orderLocation(id int64) string {
	return fmt.Sprintf("/orders/%d", id)
}

// listOrders returns all orders, filtered by ?name= when given
func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.svc.ListOrders(c.Request.Context(), c.Query("name"))
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}
	c.JSON(http.StatusOK, serializeOrders(orders))
}

func (s *Server) createOrder(c *gin.Context) {
	body, err := readJSON(c, models.OrderEntity)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}

	order, err := s.svc.CreateOrder(c.Request.Context(), body)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}

	c.Header("Location", orderLocation(order.ID))
	c.JSON(http.StatusCreated, order.Serialize())
}

func (s *Server) getOrder(c *gin.Context) {
	id, err := pathID(c, "id", models.OrderEntity)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}

	order, err := s.svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}
	c.JSON(http.StatusOK, order.Serialize())
}

func (s *Server) updateOrder(c *gin.Context) {
	id, err := pathID(c, "id", models.OrderEntity)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}

	body, err := readJSON(c, models.OrderEntity)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}

	order, err := s.svc.UpdateOrder(c.Request.Context(), id, body)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}
	c.JSON(http.StatusOK, order.Serialize())
}

func (s *Server) deleteOrder(c *gin.Context) {
	id, err := pathID(c, "id", models.OrderEntity)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}

	if err := s.svc.DeleteOrder(c.Request.Context(), id); err != nil {
		abortWithError(c, err, s.log)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ordersByDate(c *gin.Context) {
	raw := c.Param("date")
	date, err := models.ParseDate(raw)
	if err != nil {
		s.log.Debug("rejected date lookup", slog.String("date", raw))
		abortWithError(c, apperr.Invalid("date", "", fmt.Sprintf("'%s' is not a %s date", raw, models.DateLayout)), s.log)
		return
	}

	orders, err := s.svc.OrdersByDate(c.Request.Context(), date)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}
	c.JSON(http.StatusOK, serializeOrders(orders))
}

// ordersByPrice returns orders with at least one item priced within
// [min_price, max_price], their items narrowed to the matches
func (s *Server) ordersByPrice(c *gin.Context) {
	body, err := readJSON(c, "price range")
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}

	low, high, err := service.ParsePriceRange(body)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}

	orders, err := s.svc.OrdersInPriceRange(c.Request.Context(), low, high)
	if err != nil {
		abortWithError(c, err, s.log)
		return
	}
	c.JSON(http.StatusOK, serializeOrders(orders))
}
