package repository

import (
	"context"
	"strings"

	"pereval/internal/app/ds"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserInput struct {
	Email string
	Fam   string
	Name  string
	Otc   *string
	Phone *string
}

// FindOrCreateUser возвращает пользователя по email, создавая его при отсутствии.
// Данные существующего пользователя не меняются, присланные поля отбрасываются
func (r *Repository) FindOrCreateUser(ctx context.Context, in UserInput) (*ds.User, bool, error) {
	var (
		user    *ds.User
		created bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, created, err = findOrCreateUser(tx, in)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return user, created, nil
}

// Вставка с ON CONFLICT DO NOTHING и последующий поиск: параллельная отправка
// с тем же email не приводит к ошибке уникальности
func findOrCreateUser(tx *gorm.DB, in UserInput) (*ds.User, bool, error) {
	email := strings.TrimSpace(in.Email)

	candidate := ds.User{
		Email:    email,
		Fam:      in.Fam,
		Name:     in.Name,
		Otc:      in.Otc,
		Phone:    in.Phone,
		IsActive: true,
	}
	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&candidate)
	if result.Error != nil {
		return nil, false, result.Error
	}

	var user ds.User
	if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, false, err
	}
	return &user, result.RowsAffected > 0, nil
}
