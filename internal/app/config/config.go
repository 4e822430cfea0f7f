package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pereval/internal/app/dsn"

	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceHost string
	ServicePort int
	LogLevel    string
	Database    DatabaseConfig
	Storage     StorageConfig
	Redis       RedisConfig
	JWT         JWTConfig
	CORS        CORSConfig
}

// Типы базы данных
const (
	DatabasePostgres = "postgres"
	DatabaseSQLite   = "sqlite"
)

type DatabaseConfig struct {
	Type string
	DSN  string // для postgres, если пусто - собирается из DB_* переменных
	Path string // файл базы для sqlite
}

// Типы хранилища изображений
const (
	StorageMinIO = "minio"
	StorageS3    = "s3"
	StorageLocal = "local"
)

type StorageConfig struct {
	Type      string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	MediaRoot string // каталог для локального хранилища
	MediaURL  string // префикс, по которому раздаются локальные файлы
}

type RedisConfig struct {
	Host        string
	Password    string
	Port        int
	User        string
	DialTimeout time.Duration
	ReadTimeout time.Duration
	CacheTTL    time.Duration
}

type JWTConfig struct {
	Token         string
	SigningMethod jwt.SigningMethod
}

type CORSConfig struct {
	AllowOrigins []string
}

const (
	envRedisHost = "REDIS_HOST"
	envRedisPort = "REDIS_PORT"
	envRedisUser = "REDIS_USER"
	envRedisPass = "REDIS_PASSWORD"
	envJWTSecret = "JWT_SECRET"
)

func setDefaults() {
	viper.SetDefault("servicehost", "0.0.0.0")
	viper.SetDefault("serviceport", 8080)
	viper.SetDefault("loglevel", "info")

	viper.SetDefault("database.type", DatabasePostgres)
	viper.SetDefault("database.dsn", "")
	viper.SetDefault("database.path", "pereval.db")

	viper.SetDefault("storage.type", StorageLocal)
	viper.SetDefault("storage.endpoint", "localhost:9000")
	viper.SetDefault("storage.accesskey", "")
	viper.SetDefault("storage.secretkey", "")
	viper.SetDefault("storage.bucket", "pereval")
	viper.SetDefault("storage.region", "us-east-1")
	viper.SetDefault("storage.usessl", false)
	viper.SetDefault("storage.mediaroot", "media")
	viper.SetDefault("storage.mediaurl", "/media")

	viper.SetDefault("redis.cachettl", 10*time.Minute)

	viper.SetDefault("cors.alloworigins", []string{"*"})
}

func NewConfig() (*Config, error) {
	var err error

	configName := "config"
	_ = godotenv.Load()
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	setDefaults()
	viper.SetConfigName(configName)
	viper.SetConfigType("toml")
	viper.AddConfigPath("config")
	viper.AddConfigPath(".")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		log.Warnf("config file %s not found, using defaults and environment", configName)
	} else {
		viper.WatchConfig()
	}

	cfg := &Config{}
	err = viper.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Database.Type == DatabasePostgres && cfg.Database.DSN == "" {
		cfg.Database.DSN = dsn.FromEnv()
	}

	cfg.JWT = JWTConfig{
		Token:         os.Getenv(envJWTSecret),
		SigningMethod: jwt.SigningMethodHS256,
	}

	// Redis не обязателен: без REDIS_HOST кэш отключен
	if host := os.Getenv(envRedisHost); host != "" {
		cfg.Redis.Host = host
	}
	if port := os.Getenv(envRedisPort); port != "" {
		cfg.Redis.Port, err = strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("redis port must be int value: %w", err)
		}
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if pass := os.Getenv(envRedisPass); pass != "" {
		cfg.Redis.Password = pass
	}
	if user := os.Getenv(envRedisUser); user != "" {
		cfg.Redis.User = user
	}
	cfg.Redis.DialTimeout = 10 * time.Second
	cfg.Redis.ReadTimeout = 10 * time.Second

	if err = cfg.validate(); err != nil {
		return nil, err
	}

	log.Info("config parsed")

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Type {
	case DatabasePostgres:
		if c.Database.DSN == "" {
			return errors.New("database dsn is empty, set database.dsn or DB_HOST")
		}
	case DatabaseSQLite:
	default:
		return fmt.Errorf("unsupported database type %q", c.Database.Type)
	}

	switch c.Storage.Type {
	case StorageMinIO, StorageS3, StorageLocal:
	default:
		return fmt.Errorf("unsupported storage type %q", c.Storage.Type)
	}
	return nil
}

// ConfigureLogger выставляет уровень логирования logrus
func (c *Config) ConfigureLogger() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warnf("unknown log level %q, using info", c.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
