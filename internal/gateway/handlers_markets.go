package gateway

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// handleMarket serves midpoint/tick/negRisk/top-of-book for a token.
func (s *Server) handleMarket(c *gin.Context) {
	h, ok := s.requireSession(c)
	if !ok {
		return
	}

	snap, err := h.provider.Snapshot(c.Request.Context(), c.Param("tokenID"))
	if err != nil {
		writeVenueError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// handleSession exposes the typed readiness state.
func (s *Server) handleSession(c *gin.Context) {
	state, address, sigType, lastErr := s.session.Status()

	out := gin.H{
		"state":         state,
		"signatureType": int(sigType),
	}
	if address != (common.Address{}) {
		out["address"] = address.Hex()
	}
	if lastErr != nil {
		out["error"] = lastErr.Error()
	}
	c.JSON(http.StatusOK, out)
}
