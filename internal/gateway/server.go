package gateway

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/betbot/tradegate/internal/orderstore"
)

// Config for the HTTP surface.
type Config struct {
	SharedSecret string        // empty disables auth (local use only)
	OrderTTL     time.Duration // how long submitted orders stay listed
}

// Server is the HTTP gateway: auth, validation, normalization, and
// pass-through calls into the venue client held by the Session.
type Server struct {
	cfg     Config
	session *Session
	orders  *orderstore.Store
}

func New(cfg Config, session *Session) *Server {
	if cfg.OrderTTL <= 0 {
		cfg.OrderTTL = 24 * time.Hour
	}
	return &Server{
		cfg:     cfg,
		session: session,
		orders:  orderstore.New(cfg.OrderTTL),
	}
}

func (s *Server) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	api := r.Group("/api")
	api.Use(sharedSecretAuth(s.cfg.SharedSecret))

	api.GET("/session", s.handleSession)
	api.GET("/balance", s.handleBalance)
	api.GET("/markets/:tokenID", s.handleMarket)

	orders := api.Group("/orders")
	orders.POST("", s.handleCreateOrder)
	orders.GET("", s.handleListOrders)
	orders.DELETE("", s.handleCancelAll)
	orders.GET("/:orderID", s.handleGetOrder)
	orders.DELETE("/:orderID", s.handleCancelOrder)

	return r
}
