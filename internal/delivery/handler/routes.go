package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/lovesinghal31/backendcourse/internal/application/interfaces"
)

func RegisterRoutes(e *echo.Echo, h *Handler, tokens interfaces.TokenIssuer) {
	users := e.Group("/api/v1/users")

	users.POST("/register", h.Register)
	users.POST("/register/verify", h.VerifyRegistration)
	users.POST("/login", h.Login)
	users.POST("/login/verify", h.VerifyLogin)
	users.POST("/refresh-token", h.RefreshToken)

	auth := users.Group("", RequireAuth(tokens))
	auth.POST("/logout", h.Logout)
	auth.POST("/change-password", h.ChangePassword)
	auth.GET("/current-user", h.GetCurrentUser)
	auth.PATCH("/update-account", h.UpdateAccountDetails)
	auth.PATCH("/avatar", h.UpdateAvatar)
	auth.PATCH("/cover-image", h.UpdateCoverImage)
	auth.GET("/c/:username", h.GetChannelProfile)
	auth.GET("/history", h.GetWatchHistory)
}
