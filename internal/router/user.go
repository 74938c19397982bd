package router

import "github.com/gin-gonic/gin"

func (r *Router) userRoutes(version *gin.RouterGroup) {
	users := version.Group("/users")
	{
		// All user routes require a bearer token
		users.Use(r.authMw.RequireAuth())
		{
			users.GET("/me", r.userHandler.GetMe)
		}
	}
}
