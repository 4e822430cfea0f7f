package repository

import (
	"context"
	"errors"
	"fmt"

	"pereval/internal/app/ds"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultActivityTypes - справочник видов активности для начального заполнения
var DefaultActivityTypes = []string{
	"пешком",
	"лыжи",
	"катамаран",
	"байдарка",
	"плот",
	"сплав",
	"велосипед",
	"автомобиль",
	"мотоцикл",
	"парус",
	"верхом",
}

func (r *Repository) ListAreas(ctx context.Context) ([]ds.PerevalArea, error) {
	var areas []ds.PerevalArea
	err := r.db.WithContext(ctx).Order("id").Find(&areas).Error
	return areas, err
}

func (r *Repository) CreateArea(ctx context.Context, title string, parentID *uint) (*ds.PerevalArea, error) {
	area := ds.PerevalArea{Title: title, ParentID: parentID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if parentID != nil {
			if err := ensureArea(tx, *parentID); err != nil {
				return err
			}
		}
		return tx.Create(&area).Error
	})
	if err != nil {
		return nil, err
	}
	return &area, nil
}

func (r *Repository) ListActivityTypes(ctx context.Context) ([]ds.ActivityType, error) {
	var types []ds.ActivityType
	err := r.db.WithContext(ctx).Order("id").Find(&types).Error
	return types, err
}

// SeedActivityTypes добавляет отсутствующие виды активности, возвращает число добавленных
func (r *Repository) SeedActivityTypes(ctx context.Context, titles []string) (int64, error) {
	if len(titles) == 0 {
		return 0, nil
	}
	types := make([]ds.ActivityType, len(titles))
	for i, title := range titles {
		types[i] = ds.ActivityType{Title: title}
	}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "title"}},
		DoNothing: true,
	}).Create(&types)
	return result.RowsAffected, result.Error
}

func ensureArea(tx *gorm.DB, id uint) error {
	var area ds.PerevalArea
	if err := tx.Select("id").First(&area, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: area %d", ErrUnknownReference, id)
		}
		return err
	}
	return nil
}

func loadActivities(tx *gorm.DB, ids []uint) ([]ds.ActivityType, error) {
	if len(ids) == 0 {
		return []ds.ActivityType{}, nil
	}
	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	var activities []ds.ActivityType
	if err := tx.Where("id IN ?", ids).Order("id").Find(&activities).Error; err != nil {
		return nil, err
	}
	if len(activities) != len(unique) {
		return nil, fmt.Errorf("%w: activity types %v", ErrUnknownReference, ids)
	}
	return activities, nil
}
