package controllers

import (
    "net/http"

    "pushbridge/models"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"
)

type NotificationController struct {
    DB *gorm.DB
}

// constructor
func NewNotificationController(db *gorm.DB) *NotificationController {
    return &NotificationController{DB: db}
}

// GET /notifications/unread
func (nc *NotificationController) ListUnread(c *gin.Context) {
    uid := c.GetUint("userID")

    var notes []models.Notification
    if err := nc.DB.
        Where("user_id = ? AND read = ?", uid, false).
        Order("created_at DESC").
        Find(&notes).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    c.JSON(http.StatusOK, gin.H{
        "notifications": notes,
        "unread":        len(notes),
    })
}

// PUT /notifications/read-all
func (nc *NotificationController) ReadAll(c *gin.Context) {
    uid := c.GetUint("userID")

    if err := nc.DB.Model(&models.Notification{}).
        Where("user_id = ? AND read = ?", uid, false).
        Update("read", true).Error; err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    c.JSON(http.StatusOK, gin.H{"message": "notifications marked read"})
}
