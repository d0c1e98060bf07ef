package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"party-status-backend/internal/model"
)

type putSubscriptionRequest struct {
	Endpoint string   `json:"endpoint" binding:"required"`
	P256DH   string   `json:"p256dh" binding:"required"`
	Auth     string   `json:"auth" binding:"required"`
	Sections []string `json:"sections"`
}

// PutSubscription creates or replaces a push subscription.
func (h *Handler) PutSubscription(c *gin.Context) {
	if !h.pushEnabled(c) {
		return
	}

	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sections := make([]model.Section, 0, len(req.Sections))
	for _, s := range req.Sections {
		sec := model.Section(s)
		if !sec.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown section: " + s})
			return
		}
		sections = append(sections, sec)
	}

	h.registry.Put(model.PushSubscription{
		Endpoint: req.Endpoint,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
		Sections: sections,
	})
	c.Status(http.StatusCreated)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription handles the deletion of a subscription.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	if !h.pushEnabled(c) {
		return
	}

	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	h.registry.Delete(req.Endpoint)
	c.Status(http.StatusNoContent)
}

// rawQueryParam reads a query value without URL decoding; push endpoints
// are URLs themselves and are stored as sent.
func rawQueryParam(rawQuery, key string) (string, bool) {
	for _, kv := range strings.Split(rawQuery, "&") {
		if strings.HasPrefix(kv, key+"=") {
			return kv[len(key)+1:], true
		}
	}
	return "", false
}

// GetSubscription returns the sections a subscription watches.
func (h *Handler) GetSubscription(c *gin.Context) {
	if !h.pushEnabled(c) {
		return
	}

	raw, ok := rawQueryParam(c.Request.URL.RawQuery, "endpoint")
	if !ok || raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint is required"})
		return
	}

	sub, found := h.registry.Get(raw)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
		return
	}

	sections := sub.Sections
	if sections == nil {
		sections = []model.Section{}
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

func (h *Handler) pushEnabled(c *gin.Context) bool {
	if h.registry == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push notifications are not configured"})
		return false
	}
	return true
}
