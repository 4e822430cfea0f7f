package handler

import (
	"pereval/internal/app/middleware"
	"pereval/internal/app/role"
	"pereval/internal/app/storage"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует REST API маршруты
func (h *Handler) RegisterRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api/v1")

	// ============ Перевалы - публичные эндпоинты ============
	submit := api.Group("/submitData")
	{
		submit.POST("", h.SubmitData)
		submit.GET("/", h.ListByEmail)
		submit.GET("/:id", h.GetPereval)
		submit.PATCH("/:id", h.UpdatePereval)
	}

	// ============ Справочники ============
	api.GET("/areas", h.ListAreas)
	api.GET("/activities", h.ListActivities)

	// ============ Модерация - только для модераторов ============
	moderation := api.Group("/moderation")
	moderation.Use(authMiddleware.WithAuthCheck(role.Moderator))
	{
		moderation.POST("/logout", h.Logout)
		moderation.PATCH("/:id", h.SetStatus)
	}

	router.GET("/ping", h.Ping)
}

// RegisterStatic раздает загруженные изображения, если они хранятся на диске
func (h *Handler) RegisterStatic(router *gin.Engine) {
	local, ok := h.Images.(*storage.LocalStore)
	if !ok {
		return
	}
	router.Static(local.URLPrefix(), local.Root())
}
