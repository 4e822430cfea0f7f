package api

import (
	"context"

	"pereval/internal/app/config"
	"pereval/internal/app/handler"
	"pereval/internal/app/middleware"
	"pereval/internal/app/redis"
	"pereval/internal/app/repository"
	"pereval/internal/app/storage"
	"pereval/internal/pkg"

	_ "pereval/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// @title Pereval API
// @version 1.0
// @description API для добавления и модерации перевалов
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func StartServer() {
	logrus.Info("Starting server")
	ctx := context.Background()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("ошибка чтения конфигурации: %v", err)
	}
	cfg.ConfigureLogger()

	repo, err := repository.Open(cfg.Database)
	if err != nil {
		logrus.Fatalf("ошибка инициализации репозитория: %v", err)
	}
	defer repo.Close()

	images, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logrus.Fatalf("ошибка инициализации хранилища изображений: %v", err)
	}

	var (
		cache     handler.PerevalCache
		blacklist middleware.Blacklist
	)
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient, err = redis.New(ctx, cfg.Redis)
		if err != nil {
			logrus.Fatalf("ошибка подключения к redis: %v", err)
		}
		defer redisClient.Close()
		cache, blacklist = redisClient, redisClient
	} else {
		logrus.Warn("REDIS_HOST не задан, кэш и выход модератора отключены")
	}

	h, err := handler.NewHandler(repo, images, cache)
	if err != nil {
		logrus.Fatalf("ошибка инициализации обработчиков: %v", err)
	}
	if redisClient != nil {
		h.Blacklist = redisClient
	}

	if cfg.JWT.Token == "" {
		logrus.Warn("JWT_SECRET не задан, модерация недоступна")
	}
	am := middleware.NewAuthMiddleware(blacklist, cfg)

	r := gin.Default()
	r.Use(cors.New(corsConfig(cfg.CORS)))

	pkg.NewApp(cfg, r, h, am).RunApp()
	logrus.Info("Server down")
}

func corsConfig(c config.CORSConfig) cors.Config {
	cc := cors.DefaultConfig()
	cc.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	cc.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	if len(c.AllowOrigins) == 0 || (len(c.AllowOrigins) == 1 && c.AllowOrigins[0] == "*") {
		cc.AllowAllOrigins = true
		return cc
	}
	cc.AllowOrigins = c.AllowOrigins
	return cc
}
