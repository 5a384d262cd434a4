package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the queue API. Debug endpoints sit behind the admin token;
// an empty token disables them entirely.
func NewRouter(h *Handler, adminToken string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", h.GetHealth)

	api := r.Group("/api/v1")
	{
		api.GET("/communities/:community/queues", h.GetStatus)
		api.POST("/communities/:community/queues/:size/members", h.PostJoin)
		api.DELETE("/communities/:community/queues/:size/members/:participant", h.DeleteMember)
		api.POST("/communities/:community/queues/:size/responses", h.PostResponse)
	}

	admin := r.Group("/api/v1/admin", requireAdminToken(adminToken))
	{
		admin.PUT("/debug-mode", h.PutDebugMode)
		admin.POST("/communities/:community/queues/:size/fill", h.PostFill)
	}

	return r
}

func requireAdminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" || c.GetHeader("X-Admin-Token") != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, Error{Message: "unauthorized"})
			return
		}
		c.Next()
	}
}
