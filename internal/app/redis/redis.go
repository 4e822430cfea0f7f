package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"pereval/internal/app/config"

	"github.com/go-redis/redis/v8"
)

const (
	servicePrefix    = "pereval."
	perevalPrefix    = servicePrefix + "pass."
	jwtPrefix        = servicePrefix + "jwt."
	defaultCacheTTL  = 10 * time.Minute
	blacklistedValue = "true"
)

// ErrCacheMiss - значения нет в кэше
var ErrCacheMiss = errors.New("cache miss")

type Client struct {
	cfg    config.RedisConfig
	client *redis.Client
}

// New подключается к Redis и проверяет соединение
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	client := &Client{cfg: cfg}
	if client.cfg.CacheTTL <= 0 {
		client.cfg.CacheTTL = defaultCacheTTL
	}

	client.client = redis.NewClient(&redis.Options{
		Addr:        cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Username:    cfg.User,
		Password:    cfg.Password,
		DialTimeout: cfg.DialTimeout,
		ReadTimeout: cfg.ReadTimeout,
	})

	if _, err := client.client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("cant ping redis: %w", err)
	}

	return client, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func perevalKey(id uint) string {
	return perevalPrefix + strconv.FormatUint(uint64(id), 10)
}

func jwtKey(token string) string {
	return jwtPrefix + token
}

// GetPereval возвращает сериализованный ответ по перевалу или ErrCacheMiss
func (c *Client) GetPereval(ctx context.Context, id uint) ([]byte, error) {
	data, err := c.client.Get(ctx, perevalKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return data, err
}

func (c *Client) SetPereval(ctx context.Context, id uint, data []byte) error {
	return c.client.Set(ctx, perevalKey(id), data, c.cfg.CacheTTL).Err()
}

func (c *Client) InvalidatePereval(ctx context.Context, id uint) error {
	return c.client.Del(ctx, perevalKey(id)).Err()
}

// WriteJWTToBlacklist отзывает токен до истечения ttl
func (c *Client) WriteJWTToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	return c.client.Set(ctx, jwtKey(token), blacklistedValue, ttl).Err()
}

// CheckJWTInBlacklist сообщает, отозван ли токен
func (c *Client) CheckJWTInBlacklist(ctx context.Context, token string) (bool, error) {
	err := c.client.Get(ctx, jwtKey(token)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
