package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"pereval/internal/app/config"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxImageSize - максимальный размер одного изображения после декодирования
const MaxImageSize = 10 << 20

var (
	ErrImageTooLarge  = errors.New("image is larger than 10 MiB")
	ErrInvalidDataURI = errors.New("image data uri is not valid base64")
)

// ImageStore хранит бинарные данные изображений перевалов.
// Ключ, который возвращает Save, записывается в pereval_images.data
type ImageStore interface {
	Save(ctx context.Context, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
	URL(ctx context.Context, key string) (string, error)
}

// New создает хранилище по типу из конфигурации
func New(ctx context.Context, cfg config.StorageConfig) (ImageStore, error) {
	switch cfg.Type {
	case config.StorageMinIO:
		return NewMinIOClient(ctx, cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.Bucket, cfg.UseSSL)
	case config.StorageS3:
		return NewS3Client(ctx, cfg)
	case config.StorageLocal:
		return NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

// DecodeImageData разбирает поле data из запроса.
// Поддерживается base64 и data URI (data:image/png;base64,...).
// Если строка не является base64 изображения, это ссылка на уже сохраненный объект: ok = false
func DecodeImageData(raw string) (data []byte, ok bool, err error) {
	raw = strings.TrimSpace(raw)
	dataURI := strings.HasPrefix(raw, "data:")
	if dataURI {
		idx := strings.Index(raw, ";base64,")
		if idx < 0 {
			return nil, false, ErrInvalidDataURI
		}
		data, err = base64.StdEncoding.DecodeString(raw[idx+len(";base64,"):])
		if err != nil || len(data) == 0 {
			return nil, false, ErrInvalidDataURI
		}
	} else {
		data, err = base64.StdEncoding.DecodeString(raw)
		if err != nil || len(data) == 0 {
			return nil, false, nil
		}
	}

	if len(data) > MaxImageSize {
		return nil, false, ErrImageTooLarge
	}
	if !dataURI && !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return nil, false, nil
	}
	return data, true, nil
}

// objectKey генерирует уникальное имя объекта на латинице:
// pereval_images/2024/05/17/<uuid>.<ext>
func objectKey(data []byte) (key string, contentType string) {
	mt := mimetype.Detect(data)
	return fmt.Sprintf("pereval_images/%s/%s%s",
		time.Now().Format("2006/01/02"),
		uuid.New().String(),
		mt.Extension()), mt.String()
}
