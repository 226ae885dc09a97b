package routes

import (
	"github.com/gin-gonic/gin"

	"clinic-server/models"
	"clinic-server/types"
	ws "clinic-server/websocket"
)

// RegisterScheduleFeedRoutes registers the staff websocket feed. Each
// connected client receives booking create/cancel events as they happen;
// practitioners only see their own schedule.
func RegisterScheduleFeedRoutes(router *gin.RouterGroup, hub *ws.Hub) {
	router.GET("/agenda", func(c *gin.Context) {
		user := c.MustGet("user").(models.User)
		if !user.IsStaff() {
			respondError(c, types.NewForbiddenError("Access denied"))
			return
		}

		ws.ServeWebSocket(hub, c.Writer, c.Request, user.ID, user.Role)
	})
}
