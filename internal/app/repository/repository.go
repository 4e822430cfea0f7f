package repository

import (
	"errors"
	"fmt"
	"time"

	"pereval/internal/app/config"
	"pereval/internal/app/ds"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrNotFound         = errors.New("pereval not found")
	ErrNotEditable      = errors.New("editing is allowed only for records with status 'new'")
	ErrImageNotFound    = errors.New("image not found")
	ErrUnknownReference = errors.New("unknown reference")
	ErrStatusTransition = errors.New("status transition is not allowed")
)

type Repository struct {
	db *gorm.DB
}

// Open подключается к базе по конфигурации (postgres или sqlite)
func Open(cfg config.DatabaseConfig) (*Repository, error) {
	switch cfg.Type {
	case config.DatabasePostgres:
		return New(postgres.Open(cfg.DSN))
	case config.DatabaseSQLite:
		repo, err := New(sqlite.Open(cfg.Path))
		if err != nil {
			return nil, err
		}
		// SQLite допускает одного писателя, держим одно соединение
		sqlDB, err := repo.db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.Type)
	}
}

func New(dialector gorm.Dialector) (*Repository, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(logrus.StandardLogger(), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	return &Repository{
		db: db,
	}, nil
}

// Migrate создает или обновляет все таблицы
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&ds.User{},
		&ds.Coords{},
		&ds.Level{},
		&ds.PerevalArea{},
		&ds.ActivityType{},
		&ds.PerevalAdded{},
		&ds.PerevalImage{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close закрывает пул соединений
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Блокировка строк поддерживается только в postgres
func (r *Repository) lockRows() bool {
	return r.db.Dialector.Name() == "postgres"
}
