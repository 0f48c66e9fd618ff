package controllers

import (
	"errors"
	"net/http"

	"pushbridge/services"

	"github.com/gin-gonic/gin"
)

type SubscriptionController struct {
	Registry *services.RegistryService
}

// constructor
func NewSubscriptionController(reg *services.RegistryService) *SubscriptionController {
	return &SubscriptionController{Registry: reg}
}

type RegisterDeviceReq struct {
	Token           string `json:"token" binding:"required"`
	Platform        string `json:"platform" binding:"required,oneof=ios android"`
	ApplicationName string `json:"application_name"`
}

type DisableDeviceReq struct {
	Token string `json:"token" binding:"required"`
}

// POST /push/register
func (sc *SubscriptionController) Register(c *gin.Context) {
	uid := c.GetUint("userID")

	var req RegisterDeviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := sc.Registry.Register(c.Request.Context(), uid, req.Token, req.Platform, req.ApplicationName)
	if err != nil {
		var gwErr *services.GatewayError
		switch {
		case errors.Is(err, services.ErrBadPlatform):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &gwErr):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// POST /push/disable
func (sc *SubscriptionController) Disable(c *gin.Context) {
	uid := c.GetUint("userID")

	var req DisableDeviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := sc.Registry.Disable(c.Request.Context(), uid, req.Token)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

// GET /push/status?token=...
func (sc *SubscriptionController) Status(c *gin.Context) {
	uid := c.GetUint("userID")

	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	sub, err := sc.Registry.Status(c.Request.Context(), uid, token)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}
