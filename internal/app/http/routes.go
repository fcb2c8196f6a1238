package httpEngine

import (
	"net/http"
	"time"

	"schoolhub-server/internal/controllers"
	"schoolhub-server/internal/logics"
	"schoolhub-server/internal/middlewares"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RegisterRoutes sets up all the server routes.
func RegisterRoutes(e *echo.Echo) {
	// Basic health check
	e.GET("/", func(c echo.Context) error {
		sess, err := session.Get("session", c)
		if err != nil {
			return err
		}
		if err := sess.Save(c.Request(), c.Response()); err != nil {
			return err
		}
		return c.String(http.StatusOK, "Hello, from SchoolHub Server!")
	})

	// Tighter limits for credential endpoints: per IP plus email when posted.
	loginLimiter := middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      5,
				Burst:     10,
				ExpiresIn: 1 * time.Hour,
			},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			email := ""
			if req := ctx.Request(); req.Method == "POST" {
				email = ctx.FormValue("email")
			}
			id := ctx.RealIP()
			if email != "" {
				id += ":" + email
			}
			return id, nil
		},
		ErrorHandler: func(ctx echo.Context, err error) error {
			return ctx.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "Too many requests. Please try again later.",
			})
		},
		DenyHandler: func(ctx echo.Context, identifier string, err error) error {
			return ctx.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "Too many requests. Please try again later.",
			})
		},
	}

	// Authentication endpoints
	authGroup := e.Group("/auth")
	authGroup.Use(middlewares.SessionMiddleware)
	{
		authGroup.GET("/login", controllers.LoginStateHandler)
		authGroup.POST("/login", controllers.LoginHandler, middleware.RateLimiterWithConfig(loginLimiter))
		authGroup.POST("/verify-code", controllers.VerifyCodeHandler, middleware.RateLimiterWithConfig(loginLimiter))
		authGroup.POST("/resend-code", controllers.ResendCodeHandler, middleware.RateLimiterWithConfig(loginLimiter))

		authGroup.POST("/logout", controllers.LogoutHandler, middlewares.AuthMiddleware)
		authGroup.POST("/check-password", controllers.CheckPasswordHandler, middlewares.AuthMiddleware)
		authGroup.POST("/change-password", controllers.ChangePasswordHandler, middlewares.AuthMiddleware)
		authGroup.GET("/profile", controllers.ProfileHandler, middlewares.AuthMiddleware)
		authGroup.POST("/profile", controllers.UpdateProfileHandler, middlewares.AuthMiddleware)
	}

	// Announcement management endpoints
	notificationGroup := e.Group("/notifications")
	notificationGroup.Use(middlewares.SessionMiddleware, middlewares.AuthMiddleware)
	{
		notificationGroup.GET("", controllers.ListNotificationsHandler, middlewares.RequirePermission(logics.PermNotificationList))
		notificationGroup.POST("", controllers.StoreNotificationHandler, middlewares.RequirePermission(logics.PermNotificationCreate))
		notificationGroup.GET("/users", controllers.NotificationUserListHandler, middlewares.RequirePermission(logics.PermNotificationCreate))
		notificationGroup.DELETE("/:id", controllers.DeleteNotificationHandler, middlewares.RequirePermission(logics.PermNotificationDelete))
	}

	// Token-authenticated mobile API endpoints
	apiGroup := e.Group("/api")
	apiGroup.Use(middlewares.JWTMiddleware)
	{
		apiGroup.GET("/announcements", controllers.AnnouncementsHandler)
	}
}
