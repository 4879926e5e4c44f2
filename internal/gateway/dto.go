package gateway

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/betbot/tradegate/clob/client"
	"github.com/betbot/tradegate/clob/types"
	"github.com/betbot/tradegate/internal/marketdata"
	"github.com/betbot/tradegate/internal/orderstore"
	"github.com/betbot/tradegate/pkg/ordermath"
)

// createOrderRequest is the simplified trade intent the automation tool
// sends. Amount and price accept JSON numbers or strings.
type createOrderRequest struct {
	TokenID    string           `json:"tokenId"`
	Side       string           `json:"side"`
	AmountUsd  *decimal.Decimal `json:"amountUsd"`
	LimitPrice *decimal.Decimal `json:"limitPrice"`
	OrderType  string           `json:"orderType"` // GTC (default), FOK, FAK, GTD
}

func (r *createOrderRequest) intent() ordermath.TradeIntent {
	side, _ := ordermath.ParseSide(r.Side)
	return ordermath.TradeIntent{
		TokenID:    r.TokenID,
		Side:       side,
		AmountUsd:  r.AmountUsd,
		LimitPrice: r.LimitPrice,
	}
}

func (r *createOrderRequest) orderType() types.OrderType {
	switch r.OrderType {
	case "", string(types.OrderTypeGTC):
		return types.OrderTypeGTC
	case string(types.OrderTypeFOK):
		return types.OrderTypeFOK
	case string(types.OrderTypeFAK):
		return types.OrderTypeFAK
	case string(types.OrderTypeGTD):
		return types.OrderTypeGTD
	default:
		return ""
	}
}

// createOrderResponse echoes the normalized parameters next to the venue
// acknowledgment so the caller sees what was actually placed.
type createOrderResponse struct {
	Order  orderstore.Record `json:"order"`
	Status string            `json:"status"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// writeNormalizeError maps normalizer failures onto client errors:
// MissingField -> 400, InvalidOrderParams -> 422 with offending values.
func writeNormalizeError(c *gin.Context, err error) {
	var missing *ordermath.MissingFieldError
	if errors.As(err, &missing) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "MissingField",
			"field": missing.Field,
		})
		return
	}

	var invalid *ordermath.InvalidOrderParamsError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "InvalidOrderParams",
			"reason": invalid.Reason,
			"size":   invalid.Size,
			"price":  invalid.Price,
		})
		return
	}

	writeError(c, http.StatusInternalServerError, err.Error())
}

// writeVenueError maps venue-call failures: venue 4xx/5xx pass through
// status context as 502 (404 stays 404), transport errors become 502.
func writeVenueError(c *gin.Context, err error) {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
		writeError(c, http.StatusNotFound, err.Error())
		return
	}
	writeError(c, http.StatusBadGateway, err.Error())
}

// requireSession aborts with 503 while the session is not ready.
func (s *Server) requireSession(c *gin.Context) (sessionHandles, bool) {
	clob, builder, provider, err := s.session.Ready()
	if err != nil {
		writeError(c, http.StatusServiceUnavailable, err.Error())
		return sessionHandles{}, false
	}
	return sessionHandles{clob: clob, builder: builder, provider: provider}, true
}

type sessionHandles struct {
	clob     *client.Client
	builder  *client.OrderBuilder
	provider *marketdata.Provider
}
