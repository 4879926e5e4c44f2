package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/betbot/tradegate/clob/client"
	"github.com/betbot/tradegate/clob/types"
	"github.com/betbot/tradegate/internal/orderstore"
	"github.com/betbot/tradegate/pkg/logger"
	"github.com/betbot/tradegate/pkg/ordermath"
)

// handleCreateOrder: trade intent -> normalize -> sign -> submit.
func (s *Server) handleCreateOrder(c *gin.Context) {
	h, ok := s.requireSession(c)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json body")
		return
	}
	orderType := req.orderType()
	if orderType == "" {
		writeError(c, http.StatusBadRequest, "invalid orderType: "+req.OrderType)
		return
	}

	intent := req.intent()

	// Required-field failures must fire before any venue call, so run the
	// normalizer against empty metadata first when something is missing.
	if intent.TokenID == "" || intent.Side == "" || intent.AmountUsd == nil {
		_, err := ordermath.Normalize(intent, ordermath.MarketMetadata{})
		writeNormalizeError(c, err)
		return
	}

	ctx := c.Request.Context()
	meta, err := h.provider.Metadata(ctx, intent.TokenID, intent.LimitPrice == nil)
	if err != nil {
		writeVenueError(c, err)
		return
	}

	norm, err := ordermath.Normalize(intent, meta)
	if err != nil {
		writeNormalizeError(c, err)
		return
	}

	signed, err := h.builder.BuildOrder(ctx, &client.OrderArgs{
		TokenID: intent.TokenID,
		Price:   norm.Price,
		Size:    norm.Size,
		Side:    norm.Side,
		NegRisk: norm.NegRisk,
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}

	resp, err := h.clob.PostOrder(ctx, signed, orderType)
	if err != nil {
		writeVenueError(c, err)
		return
	}
	if !resp.Success {
		writeError(c, http.StatusBadGateway, "venue rejected order: "+resp.ErrorMsg)
		return
	}

	rec := s.orders.Put(orderstore.Record{
		ID:      resp.OrderID,
		TokenID: intent.TokenID,
		Side:    norm.Side,
		Price:   norm.Price,
		Size:    norm.Size,
		NegRisk: norm.NegRisk,
		Status:  resp.Status,
	})

	logger.WithFields(map[string]interface{}{
		"orderID": rec.ID,
		"tokenID": rec.TokenID,
		"side":    rec.Side,
		"price":   rec.Price.String(),
		"size":    rec.Size.String(),
	}).Info("order submitted")

	c.JSON(http.StatusCreated, createOrderResponse{Order: rec, Status: resp.Status})
}

// handleListOrders returns locally tracked orders; ?live=true also asks
// the venue for currently open orders.
func (s *Server) handleListOrders(c *gin.Context) {
	h, ok := s.requireSession(c)
	if !ok {
		return
	}

	out := gin.H{"orders": s.orders.List()}

	if c.Query("live") == "true" {
		open, err := h.clob.GetOpenOrders(c.Request.Context(), nil)
		if err != nil {
			writeVenueError(c, err)
			return
		}
		out["open"] = open
	}

	c.JSON(http.StatusOK, out)
}

// handleGetOrder serves the local record, falling back to the venue.
func (s *Server) handleGetOrder(c *gin.Context) {
	h, ok := s.requireSession(c)
	if !ok {
		return
	}
	orderID := c.Param("orderID")

	if rec, found := s.orders.Get(orderID); found {
		c.JSON(http.StatusOK, gin.H{"order": rec})
		return
	}

	open, err := h.clob.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		writeVenueError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": open})
}

// handleCancelOrder cancels one order at the venue.
func (s *Server) handleCancelOrder(c *gin.Context) {
	h, ok := s.requireSession(c)
	if !ok {
		return
	}
	orderID := c.Param("orderID")

	resp, err := h.clob.CancelOrder(c.Request.Context(), orderID)
	if err != nil {
		writeVenueError(c, err)
		return
	}

	for _, id := range resp.Canceled {
		s.orders.SetStatus(id, "canceled")
	}

	c.JSON(http.StatusOK, gin.H{
		"canceled":    resp.Canceled,
		"notCanceled": resp.NotCanceled,
	})
}

// handleCancelAll cancels every open order for the wallet.
func (s *Server) handleCancelAll(c *gin.Context) {
	h, ok := s.requireSession(c)
	if !ok {
		return
	}

	resp, err := h.clob.CancelAll(c.Request.Context())
	if err != nil {
		writeVenueError(c, err)
		return
	}

	for _, id := range resp.Canceled {
		s.orders.SetStatus(id, "canceled")
	}

	c.JSON(http.StatusOK, gin.H{
		"canceled":    resp.Canceled,
		"notCanceled": resp.NotCanceled,
	})
}

// handleBalance reports the wallet's collateral balance and allowance.
func (s *Server) handleBalance(c *gin.Context) {
	h, ok := s.requireSession(c)
	if !ok {
		return
	}

	_, _, sigType, _ := s.session.Status()
	balance, err := h.clob.GetBalanceAllowance(c.Request.Context(), &types.BalanceAllowanceParams{
		AssetType:     types.AssetTypeCollateral,
		SignatureType: &sigType,
	})
	if err != nil {
		writeVenueError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}
