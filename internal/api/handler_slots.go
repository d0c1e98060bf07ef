package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"party-status-backend/internal/parse"
)

// GetSlots handles GET /api/slots?at=<RFC3339>. It evaluates the slots for
// the venue day containing at, defaulting to now.
func (h *Handler) GetSlots(c *gin.Context) {
	at := h.engine.CurrentTime()
	if raw := c.Query("at"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'at' timestamp format. Use RFC3339."})
			return
		}
		at = parsed
	}

	date := parse.DateIn(at, h.engine.Location())
	parties, err := h.parties.Parties(c.Request.Context(), date)
	if err != nil {
		h.log.Error().Err(err).Str("date", date).Msg("error fetching parties for slots")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": internalError})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"at":    at.In(h.engine.Location()).Format(time.RFC3339),
		"date":  date,
		"slots": h.engine.Assign(parties, at),
	})
}

// GetBoard handles GET /api/board, returning the latest board tick.
func (h *Handler) GetBoard(c *gin.Context) {
	if h.board == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "board is not running"})
		return
	}
	snap, ok := h.board.Snapshot()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "board is not ready"})
		return
	}
	if snap.Error != "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalError})
		return
	}
	c.JSON(http.StatusOK, snap)
}
