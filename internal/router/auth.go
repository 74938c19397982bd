package router

import "github.com/gin-gonic/gin"

func (r *Router) authRoutes(version *gin.RouterGroup) {
	auth := version.Group("/auth")
	{
		// Public routes (no authentication required)
		auth.POST("/register", r.authHandler.Register)
		auth.POST("/verify-email", r.authHandler.VerifyEmail)
		auth.POST("/login", r.authHandler.Login)
		auth.POST("/forgot-password", r.authHandler.ForgotPassword)
		auth.POST("/reset-password", r.authHandler.ResetPassword)
		auth.POST("/refresh-token", r.authHandler.RefreshToken)

		// Protected routes (bearer token required)
		protected := auth.Group("")
		protected.Use(r.authMw.RequireAuth())
		{
			protected.POST("/logout", r.authHandler.Logout)
		}
	}
}
