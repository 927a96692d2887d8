package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hrkey/referencehub/internal/config"
	"hrkey/referencehub/internal/handler/middleware"
	jwtpkg "hrkey/referencehub/pkg/jwt"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	jwtManager *jwtpkg.Manager,
	authHandler *AuthHandler,
	invitationHandler *InvitationHandler,
	referenceHandler *ReferenceHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public auth routes
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	// Public referee routes; the invitation token in the path is the only
	// credential.
	r.GET("/api/v1/invitations/:token", invitationHandler.View)
	r.POST("/api/v1/invitations/:token/reference", invitationHandler.Submit)

	// Protected requester routes
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(jwtManager))
	{
		protected.POST("/auth/logout", authHandler.Logout)

		protected.POST("/invitations", invitationHandler.Create)
		protected.GET("/invitations", invitationHandler.List)

		protected.GET("/references", referenceHandler.List)
		protected.GET("/references/:id", referenceHandler.Get)
	}

	return r
}
