package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pereval/internal/app/ds"
	"pereval/internal/app/dto"
	"pereval/internal/app/repository"
	"pereval/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const nonFieldErrors = "non_field_errors"

var phoneRegexp = regexp.MustCompile(`^\+?(\d{1,3})?[-.\s]?\(?\d{1,3}\)?[-.\s]?\d{1,3}[-.\s]?\d{2,3}[-.\s]?\d{2,3}$`)

// PerevalCache - кэш представлений перевалов (реализуется redis.Client)
type PerevalCache interface {
	GetPereval(ctx context.Context, id uint) ([]byte, error)
	SetPereval(ctx context.Context, id uint, data []byte) error
	InvalidatePereval(ctx context.Context, id uint) error
}

// TokenBlacklist отзывает токены модераторов (реализуется redis.Client)
type TokenBlacklist interface {
	WriteJWTToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

type Handler struct {
	Repository *repository.Repository
	Images     storage.ImageStore
	Cache      PerevalCache   // nil - кэш выключен
	Blacklist  TokenBlacklist // nil - отзыв токенов недоступен
}

func NewHandler(r *repository.Repository, images storage.ImageStore, cache PerevalCache) (*Handler, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}
	return &Handler{
		Repository: r,
		Images:     images,
		Cache:      cache,
	}, nil
}

// RegisterValidators подключает к валидатору gin правила phone и level
// и имена полей из json тегов
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected gin validator engine")
	}

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		phone := fl.Field().String()
		return len(phone) <= 17 && phoneRegexp.MatchString(phone)
	}); err != nil {
		return fmt.Errorf("register phone validator: %w", err)
	}

	if err := v.RegisterValidation("level", func(fl validator.FieldLevel) bool {
		return ds.IsLevelValue(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register level validator: %w", err)
	}
	return nil
}

// bindJSON разбирает тело запроса. При ошибке отвечает 400 с ошибками по полям
func (h *Handler) bindJSON(ctx *gin.Context, obj interface{}) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		logrus.Infof("bad request body: %v", err)
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Status:  http.StatusBadRequest,
			Message: "bad request",
			Errors:  validationErrors(err),
		})
		return false
	}
	return true
}

// validationErrors переводит ошибки binding в словарь "json путь -> сообщения"
func validationErrors(err error) map[string][]string {
	result := map[string][]string{}

	var (
		fieldErrs validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			field := fieldPath(fe.Namespace())
			result[field] = append(result[field], fieldMessage(fe))
		}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = nonFieldErrors
		}
		result[field] = append(result[field], fmt.Sprintf("Invalid value, expected %s.", typeErr.Type.String()))
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		result[nonFieldErrors] = append(result[nonFieldErrors], "Request body is not valid JSON.")
	default:
		result[nonFieldErrors] = append(result[nonFieldErrors], err.Error())
	}
	return result
}

// CreatePerevalRequest.user.email -> user.email
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "phone":
		return "Phone number must be entered in a valid format."
	case "level":
		return fmt.Sprintf("%q is not a valid choice.", fe.Value())
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fe.Value())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if fe.Kind() == reflect.String && fe.Param() == "1" {
			return "This field may not be blank."
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}

// parseID читает :id из пути
func parseID(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", ctx.Param("id"))
	}
	return uint(id), nil
}

// imageURL превращает ключ объекта в ссылку. При ошибке хранилища отдается сам ключ
func (h *Handler) imageURL(ctx context.Context) func(string) string {
	return func(key string) string {
		url, err := h.Images.URL(ctx, key)
		if err != nil {
			logrus.Warnf("cant build url for image %s: %v", key, err)
			return key
		}
		return url
	}
}

// storeImage сохраняет base64 данные в хранилище и возвращает ключ объекта.
// Строка, не являющаяся base64 изображением, считается ключом уже сохраненного объекта
func (h *Handler) storeImage(ctx context.Context, raw string) (key string, uploaded bool, err error) {
	data, ok, err := storage.DecodeImageData(raw)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return strings.TrimSpace(raw), false, nil
	}
	key, err = h.Images.Save(ctx, data)
	if err != nil {
		return "", false, err
	}
	return key, true, nil
}

// removeImages удаляет объекты из хранилища. Ошибки только логируются
func (h *Handler) removeImages(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := h.Images.Delete(ctx, key); err != nil {
			logrus.Warnf("cant delete image %s: %v", key, err)
		}
	}
}

func (h *Handler) invalidate(ctx context.Context, id uint) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.InvalidatePereval(ctx, id); err != nil {
		logrus.Warnf("cant invalidate cache for pereval %d: %v", id, err)
	}
}
