package controllers

import (
	"net/http"
	"os"

	"pushbridge/services"

	"github.com/gin-gonic/gin"
)

// DispatchController is the internal hook the host hits when it bypasses the
// event bus (small installs without Kafka).
type DispatchController struct {
	Lifecycle *services.LifecycleAdapter
}

// constructor
func NewDispatchController(lc *services.LifecycleAdapter) *DispatchController {
	return &DispatchController{Lifecycle: lc}
}

type DispatchReq struct {
	UserID uint              `json:"user_id" binding:"required"`
	Title  string            `json:"title" binding:"required"`
	Body   string            `json:"body" binding:"required"`
	Data   map[string]string `json:"data"`
}

// POST /internal/dispatch — shared-secret protected, not user-facing.
func (dc *DispatchController) Dispatch(c *gin.Context) {
	key := os.Getenv("INTERNAL_API_KEY")
	if key == "" || c.GetHeader("X-Internal-Key") != key {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid internal key"})
		return
	}

	var req DispatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dc.Lifecycle.PushNotification(req.UserID, services.NotificationPayload{
		Title: req.Title,
		Body:  req.Body,
		Data:  req.Data,
	})

	c.JSON(http.StatusAccepted, gin.H{"message": "dispatch queued"})
}
