package routes

import (
    "net/http"

    "pushbridge/controllers"
    "pushbridge/middlewares"

    "github.com/gin-gonic/gin"
)

type Controllers struct {
    Auth         *controllers.AuthController
    Subscription *controllers.SubscriptionController
    Notification *controllers.NotificationController
    Realtime     *controllers.RealtimeController
    Dispatch     *controllers.DispatchController
}

func SetupRouter(ctrl Controllers) *gin.Engine {
    r := gin.Default()

    r.GET("/health", func(c *gin.Context) {
        c.JSON(http.StatusOK, gin.H{"status": "ok"})
    })

    // Public auth routes
    auth := r.Group("/auth")
    {
        auth.POST("/register", ctrl.Auth.Register)
        auth.POST("/login", ctrl.Auth.Login)
    }

    // Protected routes
    authed := r.Group("/")
    authed.Use(middlewares.AuthMiddleware())
    {
        authed.POST("/auth/logout", ctrl.Auth.Logout)

        push := authed.Group("/push")
        {
            push.POST("/register", ctrl.Subscription.Register)
            push.POST("/disable", ctrl.Subscription.Disable)
            push.GET("/status", ctrl.Subscription.Status)
        }

        notifications := authed.Group("/notifications")
        {
            notifications.GET("/unread", ctrl.Notification.ListUnread)
            notifications.PUT("/read-all", ctrl.Notification.ReadAll)
        }

        authed.GET("/ws", ctrl.Realtime.NotificationsWS)
    }

    // Internal host hook, shared-secret protected inside the handler
    r.POST("/internal/dispatch", ctrl.Dispatch.Dispatch)

    return r
}
