package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"party-status-backend/internal/model"
	"party-status-backend/internal/parse"
)

const internalError = "Internal Server Error"

// GetParties handles GET /api/parties?date=YYYY-MM-DD.
// Without a date it uses today's date at the venue.
func (h *Handler) GetParties(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = parse.DateIn(h.engine.CurrentTime(), h.engine.Location())
	} else if _, err := time.Parse(time.DateOnly, date); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'date' format. Use YYYY-MM-DD."})
		return
	}

	parties, err := h.parties.Parties(c.Request.Context(), date)
	if err != nil {
		h.log.Error().Err(err).Str("date", date).Msg("error fetching parties")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": internalError})
		return
	}
	if parties == nil {
		parties = []model.Party{}
	}

	c.JSON(http.StatusOK, gin.H{"parties": parties})
}
