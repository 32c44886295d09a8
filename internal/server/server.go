package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matthieukhl/orders/internal/config"
	"github.com/matthieukhl/orders/internal/database"
	"github.com/matthieukhl/orders/internal/service"
)

// Version is reported by the index and health endpoints
const Version = "1.0.0"

type Server struct {
	router *gin.Engine
	db     *database.DB
	svc    *service.Service
	log    *slog.Logger
}

// NewServer creates a new server instance
func NewServer(db *database.DB, svc *service.Service, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(requestID(), requestLogger(log), gin.CustomRecovery(recoverJSON(log)))

	server := &Server{
		router: router,
		db:     db,
		svc:    svc,
		log:    log,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "The requested URL was not found on the server."})
	})
	s.router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "The method is not allowed for the requested URL."})
	})

	s.router.GET("/", s.index)
	s.router.GET("/health", s.healthCheck)

	orders := s.router.Group("/orders")
	{
		orders.GET("", s.listOrders)
		orders.POST("", requireJSON(s.log), s.createOrder)
		orders.GET("/date/:date", s.ordersByDate)
		orders.POST("/prices", requireJSON(s.log), s.ordersByPrice)

		orders.GET("/:id", s.getOrder)
		orders.PUT("/:id", requireJSON(s.log), s.updateOrder)
		orders.DELETE("/:id", s.deleteOrder)

		orders.GET("/:id/items", s.listItems)
		orders.POST("/:id/items", requireJSON(s.log), s.createItem)
		orders.GET("/:id/items/:item_id", s.getItem)
		orders.PUT("/:id/items/:item_id", requireJSON(s.log), s.updateItem)
		orders.DELETE("/:id/items/:item_id", s.deleteItem)
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// index describes the service
func (s *Server) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "Order REST API Service",
		"version": Version,
		"paths":   "/orders",
	})
}

// healthCheck endpoint for monitoring
func (s *Server) healthCheck(c *gin.Context) {
	// Check database health
	if err := s.db.HealthCheck(c.Request.Context()); err != nil {
		s.log.Error("health check failed", slog.Any("err", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "database connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "orders",
		"version": Version,
	})
}

// Start serves HTTP until ctx is cancelled, then drains in-flight requests
func (s *Server) Start(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server starting", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutdown requested")
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
