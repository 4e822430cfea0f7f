package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pereval/internal/app/dto"
	"pereval/internal/app/middleware"
	"pereval/internal/app/redis"
	"pereval/internal/app/repository"
	"pereval/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const jsonContentType = "application/json; charset=utf-8"

// ============ Перевалы ============

// SubmitData создает перевал
// @Summary Добавление перевала
// @Description Принимает перевал с пользователем, координатами, уровнем сложности и изображениями.
// @Description Пользователь ищется по email: существующий используется как есть, присланные ФИО и телефон игнорируются.
// @Description Изображения передаются в base64 (или data URI) либо ключом уже загруженного объекта.
// @Tags Pereval
// @Accept json
// @Produce json
// @Param request body dto.CreatePerevalRequest true "Данные перевала"
// @Success 200 {object} dto.IDResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.IDResponse
// @Router /api/v1/submitData [post]
func (h *Handler) SubmitData(ctx *gin.Context) {
	var req dto.CreatePerevalRequest
	if !h.bindJSON(ctx, &req) {
		return
	}
	in := req.ToInput()

	var uploaded []string
	for i := range in.Images {
		key, isNew, err := h.storeImage(ctx.Request.Context(), in.Images[i].Data)
		if err != nil {
			h.removeImages(context.Background(), uploaded)
			h.imageError(ctx, i, err)
			return
		}
		if isNew {
			uploaded = append(uploaded, key)
		}
		in.Images[i].Data = key
	}

	pereval, err := h.Repository.CreatePereval(ctx.Request.Context(), in)
	if err != nil {
		h.removeImages(context.Background(), uploaded)
		if errors.Is(err, repository.ErrUnknownReference) {
			h.badRequest(ctx, nonFieldErrors, err)
			return
		}
		logrus.Errorf("create pereval: %v", err)
		ctx.JSON(http.StatusInternalServerError, dto.IDResponse{
			Status:  http.StatusInternalServerError,
			Message: "failed to save pereval",
		})
		return
	}

	logrus.Infof("pereval %d submitted by %s", pereval.ID, in.User.Email)
	ctx.JSON(http.StatusOK, dto.IDResponse{
		Status:  http.StatusOK,
		Message: "success",
		ID:      &pereval.ID,
	})
}

// GetPereval возвращает перевал по id
// @Summary Получение перевала
// @Description Возвращает перевал со всеми вложенными данными, включая статус модерации
// @Tags Pereval
// @Produce json
// @Param id path int true "ID перевала"
// @Success 200 {object} dto.DataResponse{data=dto.PerevalResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.DataResponse
// @Router /api/v1/submitData/{id} [get]
func (h *Handler) GetPereval(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}
	reqCtx := ctx.Request.Context()

	if h.Cache != nil {
		body, err := h.Cache.GetPereval(reqCtx, id)
		if err == nil {
			ctx.Data(http.StatusOK, jsonContentType, body)
			return
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			logrus.Warnf("cache get pereval %d: %v", id, err)
		}
	}

	pereval, err := h.Repository.GetPereval(reqCtx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.DataResponse{
				Status:  http.StatusNotFound,
				Message: "not found",
			})
			return
		}
		logrus.Errorf("get pereval %d: %v", id, err)
		h.errorResponse(ctx, http.StatusInternalServerError, "failed to load pereval")
		return
	}

	body, err := json.Marshal(dto.DataResponse{
		Status:  http.StatusOK,
		Message: "success",
		Data:    dto.NewPerevalResponse(pereval, h.imageURL(reqCtx)),
	})
	if err != nil {
		logrus.Errorf("marshal pereval %d: %v", id, err)
		h.errorResponse(ctx, http.StatusInternalServerError, "failed to load pereval")
		return
	}

	if h.Cache != nil {
		if err = h.Cache.SetPereval(reqCtx, id, body); err != nil {
			logrus.Warnf("cache set pereval %d: %v", id, err)
		}
	}
	ctx.Data(http.StatusOK, jsonContentType, body)
}

// UpdatePereval редактирует перевал
// @Summary Редактирование перевала
// @Description Частичное обновление: присланные поля перезаписываются, координаты и уровень сливаются по полям.
// @Description Изображение с id изменяется, без id добавляется. images_to_delete - id изображений для удаления.
// @Description Доступно только для записей со статусом new. Данные пользователя не меняются.
// @Tags Pereval
// @Accept json
// @Produce json
// @Param id path int true "ID перевала"
// @Param request body dto.UpdatePerevalRequest true "Изменяемые поля"
// @Success 200 {object} dto.IDResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.DataResponse
// @Failure 500 {object} dto.IDResponse
// @Router /api/v1/submitData/{id} [patch]
func (h *Handler) UpdatePereval(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.UpdatePerevalRequest
	if !h.bindJSON(ctx, &req) {
		return
	}
	patch := req.ToPatch()

	var uploaded []string
	for i := range patch.Images {
		if patch.Images[i].Data == nil {
			continue
		}
		key, isNew, err := h.storeImage(ctx.Request.Context(), *patch.Images[i].Data)
		if err != nil {
			h.removeImages(context.Background(), uploaded)
			h.imageError(ctx, i, err)
			return
		}
		if isNew {
			uploaded = append(uploaded, key)
		}
		patch.Images[i].Data = &key
	}

	released, err := h.Repository.UpdatePereval(ctx.Request.Context(), id, patch)
	if err != nil {
		h.removeImages(context.Background(), uploaded)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			ctx.JSON(http.StatusNotFound, dto.DataResponse{
				Status:  http.StatusNotFound,
				Message: "not found",
			})
		case errors.Is(err, repository.ErrNotEditable):
			h.errorResponse(ctx, http.StatusBadRequest, repository.ErrNotEditable.Error())
		case errors.Is(err, repository.ErrImageNotFound):
			h.badRequest(ctx, "images", err)
		case errors.Is(err, repository.ErrUnknownReference):
			h.badRequest(ctx, nonFieldErrors, err)
		default:
			logrus.Errorf("update pereval %d: %v", id, err)
			ctx.JSON(http.StatusInternalServerError, dto.IDResponse{
				Status:  http.StatusInternalServerError,
				Message: "failed to update pereval",
			})
		}
		return
	}

	h.removeImages(context.Background(), released)
	h.invalidate(ctx.Request.Context(), id)

	ctx.JSON(http.StatusOK, dto.IDResponse{
		Status:  http.StatusOK,
		Message: "edited",
		ID:      &id,
	})
}

// ListByEmail возвращает перевалы пользователя
// @Summary Перевалы пользователя
// @Description Все перевалы, отправленные пользователем с указанным email (точное совпадение)
// @Tags Pereval
// @Produce json
// @Param user__email query string true "Email пользователя"
// @Success 200 {object} dto.DataResponse{data=[]dto.PerevalResponse}
// @Failure 404 {object} dto.DataResponse
// @Router /api/v1/submitData/ [get]
func (h *Handler) ListByEmail(ctx *gin.Context) {
	email := strings.TrimSpace(ctx.Query("user__email"))
	if email == "" {
		ctx.JSON(http.StatusNotFound, dto.DataResponse{
			Status:  http.StatusNotFound,
			Message: "user__email is required",
			Data:    []dto.PerevalResponse{},
		})
		return
	}

	perevals, err := h.Repository.ListPerevalsByEmail(ctx.Request.Context(), email)
	if err != nil {
		logrus.Errorf("list perevals of %s: %v", email, err)
		h.errorResponse(ctx, http.StatusInternalServerError, "failed to load perevals")
		return
	}

	if len(perevals) == 0 {
		ctx.JSON(http.StatusNotFound, dto.DataResponse{
			Status:  http.StatusNotFound,
			Message: "not found",
			Data:    []dto.PerevalResponse{},
		})
		return
	}

	imageURL := h.imageURL(ctx.Request.Context())
	result := make([]dto.PerevalResponse, 0, len(perevals))
	for i := range perevals {
		result = append(result, dto.NewPerevalResponse(&perevals[i], imageURL))
	}

	ctx.JSON(http.StatusOK, dto.DataResponse{
		Status:  http.StatusOK,
		Message: "success",
		Data:    result,
	})
}

// ============ Справочники ============

// ListAreas возвращает справочник районов
// @Summary Районы перевалов
// @Tags Reference
// @Produce json
// @Success 200 {object} dto.DataResponse{data=[]dto.AreaResponse}
// @Router /api/v1/areas [get]
func (h *Handler) ListAreas(ctx *gin.Context) {
	areas, err := h.Repository.ListAreas(ctx.Request.Context())
	if err != nil {
		logrus.Errorf("list areas: %v", err)
		h.errorResponse(ctx, http.StatusInternalServerError, "failed to load areas")
		return
	}

	result := make([]dto.AreaResponse, 0, len(areas))
	for _, a := range areas {
		result = append(result, dto.NewAreaResponse(a))
	}
	ctx.JSON(http.StatusOK, dto.DataResponse{Status: http.StatusOK, Message: "success", Data: result})
}

// ListActivities возвращает справочник видов активности
// @Summary Виды активности
// @Tags Reference
// @Produce json
// @Success 200 {object} dto.DataResponse{data=[]dto.ActivityResponse}
// @Router /api/v1/activities [get]
func (h *Handler) ListActivities(ctx *gin.Context) {
	types, err := h.Repository.ListActivityTypes(ctx.Request.Context())
	if err != nil {
		logrus.Errorf("list activity types: %v", err)
		h.errorResponse(ctx, http.StatusInternalServerError, "failed to load activities")
		return
	}

	result := make([]dto.ActivityResponse, 0, len(types))
	for _, t := range types {
		result = append(result, dto.ActivityResponse{ID: t.ID, Title: t.Title})
	}
	ctx.JSON(http.StatusOK, dto.DataResponse{Status: http.StatusOK, Message: "success", Data: result})
}

// ============ Модерация ============

// SetStatus меняет статус модерации
// @Summary Смена статуса модерации
// @Description new -> pending, pending -> accepted|rejected|new, accepted|rejected -> pending
// @Tags Moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID перевала"
// @Param request body dto.ModerationRequest true "Новый статус"
// @Success 200 {object} dto.IDResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.DataResponse
// @Router /api/v1/moderation/{id} [patch]
func (h *Handler) SetStatus(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.ModerationRequest
	if !h.bindJSON(ctx, &req) {
		return
	}

	err = h.Repository.SetStatus(ctx.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			ctx.JSON(http.StatusNotFound, dto.DataResponse{
				Status:  http.StatusNotFound,
				Message: "not found",
			})
		case errors.Is(err, repository.ErrStatusTransition):
			h.errorResponse(ctx, http.StatusBadRequest, err.Error())
		default:
			logrus.Errorf("set status of pereval %d: %v", id, err)
			h.errorResponse(ctx, http.StatusInternalServerError, "failed to change status")
		}
		return
	}

	h.invalidate(ctx.Request.Context(), id)
	logrus.Infof("pereval %d moved to %s by moderator %d", id, req.Status, ctx.GetUint(middleware.ContextUserID))

	ctx.JSON(http.StatusOK, dto.IDResponse{
		Status:  http.StatusOK,
		Message: "status changed",
		ID:      &id,
	})
}

// Logout отзывает токен модератора до истечения его срока
// @Summary Выход модератора
// @Tags Moderation
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StatusResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/moderation/logout [post]
func (h *Handler) Logout(ctx *gin.Context) {
	if h.Blacklist == nil {
		h.errorResponse(ctx, http.StatusServiceUnavailable, "token revocation is not configured")
		return
	}

	token := ctx.GetString(middleware.ContextToken)
	ttl := time.Until(time.Unix(ctx.GetInt64(middleware.ContextTokenExpiresAt), 0))
	if ttl <= 0 {
		ttl = time.Hour
	}

	if err := h.Blacklist.WriteJWTToBlacklist(ctx.Request.Context(), token, ttl); err != nil {
		logrus.Errorf("blacklist token: %v", err)
		h.errorResponse(ctx, http.StatusInternalServerError, "failed to revoke token")
		return
	}
	ctx.JSON(http.StatusOK, dto.StatusResponse{
		Status:  http.StatusOK,
		Message: "logged out",
	})
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *Handler) Ping(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// ============ Вспомогательные функции ============

func (h *Handler) errorResponse(ctx *gin.Context, statusCode int, message string) {
	ctx.JSON(statusCode, dto.ErrorResponse{
		Status:  statusCode,
		Message: message,
	})
}

func (h *Handler) badRequest(ctx *gin.Context, field string, err error) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Status:  http.StatusBadRequest,
		Message: "bad request",
		Errors:  map[string][]string{field: {err.Error()}},
	})
}

// imageError отвечает на ошибку сохранения i-го изображения
func (h *Handler) imageError(ctx *gin.Context, i int, err error) {
	if errors.Is(err, storage.ErrInvalidDataURI) || errors.Is(err, storage.ErrImageTooLarge) {
		h.badRequest(ctx, fmt.Sprintf("images[%d].data", i), err)
		return
	}
	logrus.Errorf("store image: %v", err)
	ctx.JSON(http.StatusInternalServerError, dto.IDResponse{
		Status:  http.StatusInternalServerError,
		Message: "failed to store image",
	})
}
