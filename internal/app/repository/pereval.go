package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pereval/internal/app/ds"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CoordsInput struct {
	Latitude  float64
	Longitude float64
	Height    *int
}

type LevelInput struct {
	Winter string
	Summer string
	Autumn string
	Spring string
}

// ImageInput - изображение, уже сохраненное в хранилище. Data - ключ объекта
type ImageInput struct {
	Data  string
	Title string
}

// Данные для создания перевала
type PerevalInput struct {
	User        UserInput
	Coords      CoordsInput
	Level       LevelInput
	BeautyTitle *string
	Title       string
	OtherTitles *string
	Connect     *string
	AreaID      *uint
	ActivityIDs []uint
	Images      []ImageInput
}

type CoordsPatch struct {
	Latitude  *float64
	Longitude *float64
	Height    *int
}

type LevelPatch struct {
	Winter *string
	Summer *string
	Autumn *string
	Spring *string
}

// ImagePatch: с ID - изменение существующего изображения, без ID - новое
type ImagePatch struct {
	ID    *uint
	Data  *string
	Title *string
}

// Частичное обновление перевала. nil означает "не менять"
type PerevalPatch struct {
	BeautyTitle    *string
	Title          *string
	OtherTitles    *string
	Connect        *string
	Coords         *CoordsPatch
	Level          *LevelPatch
	AreaID         *uint
	ActivityIDs    *[]uint
	Images         []ImagePatch
	ImagesToDelete []uint
}

// Допустимые переходы статуса модерации
var statusTransitions = map[string][]string{
	ds.StatusNew:      {ds.StatusPending},
	ds.StatusPending:  {ds.StatusNew, ds.StatusAccepted, ds.StatusRejected},
	ds.StatusAccepted: {ds.StatusPending},
	ds.StatusRejected: {ds.StatusPending},
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Coords").
		Preload("Level").
		Preload("Area").
		Preload("Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order("spr_activities_types.id")
		}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("pereval_images.id")
		})
}

// CreatePereval создает перевал со всеми вложенными записями в одной транзакции
func (r *Repository) CreatePereval(ctx context.Context, in PerevalInput) (*ds.PerevalAdded, error) {
	var pereval ds.PerevalAdded

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, _, err := findOrCreateUser(tx, in.User)
		if err != nil {
			return fmt.Errorf("user: %w", err)
		}

		// Координаты и уровень создаются всегда заново
		coords := ds.Coords{
			Latitude:  in.Coords.Latitude,
			Longitude: in.Coords.Longitude,
			Height:    in.Coords.Height,
		}
		if err = tx.Create(&coords).Error; err != nil {
			return fmt.Errorf("coords: %w", err)
		}

		level := ds.Level{
			Winter: in.Level.Winter,
			Summer: in.Level.Summer,
			Autumn: in.Level.Autumn,
			Spring: in.Level.Spring,
		}
		if err = tx.Create(&level).Error; err != nil {
			return fmt.Errorf("level: %w", err)
		}

		if in.AreaID != nil {
			if err = ensureArea(tx, *in.AreaID); err != nil {
				return err
			}
		}
		activities, err := loadActivities(tx, in.ActivityIDs)
		if err != nil {
			return err
		}

		now := time.Now()
		pereval = ds.PerevalAdded{
			UserID:      user.ID,
			CoordsID:    coords.ID,
			LevelID:     &level.ID,
			BeautyTitle: in.BeautyTitle,
			Title:       in.Title,
			OtherTitles: in.OtherTitles,
			Connect:     in.Connect,
			AddTime:     now,
			Status:      ds.StatusNew,
			AreaID:      in.AreaID,
		}
		if err = tx.Omit(clause.Associations).Create(&pereval).Error; err != nil {
			return fmt.Errorf("pereval: %w", err)
		}

		if len(activities) > 0 {
			if err = tx.Model(&pereval).Association("Activities").Append(activities); err != nil {
				return fmt.Errorf("activities: %w", err)
			}
		}

		for _, img := range in.Images {
			image := ds.PerevalImage{
				PerevalID: pereval.ID,
				DateAdded: now,
				Data:      img.Data,
				Title:     img.Title,
			}
			if err = tx.Create(&image).Error; err != nil {
				return fmt.Errorf("image: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &pereval, nil
}

// GetPereval возвращает перевал со всеми вложенными записями
func (r *Repository) GetPereval(ctx context.Context, id uint) (*ds.PerevalAdded, error) {
	var pereval ds.PerevalAdded
	err := withDetails(r.db.WithContext(ctx)).First(&pereval, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pereval, nil
}

// ListPerevalsByEmail возвращает все перевалы пользователя (точное совпадение email)
func (r *Repository) ListPerevalsByEmail(ctx context.Context, email string) ([]ds.PerevalAdded, error) {
	var perevals []ds.PerevalAdded
	err := withDetails(r.db.WithContext(ctx)).
		Joins("JOIN users ON users.id = pereval_added.user_id").
		Where("users.email = ?", email).
		Order("pereval_added.id").
		Find(&perevals).Error
	if err != nil {
		return nil, err
	}
	return perevals, nil
}

// UpdatePereval применяет частичное обновление в одной транзакции.
// Возвращает ключи объектов хранилища, на которые больше не ссылается ни одно изображение
func (r *Repository) UpdatePereval(ctx context.Context, id uint, patch PerevalPatch) ([]string, error) {
	var released []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx
		if r.lockRows() {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var pereval ds.PerevalAdded
		if err := query.First(&pereval, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Редактировать можно только до начала модерации
		if pereval.Status != ds.StatusNew {
			return ErrNotEditable
		}

		updates := map[string]interface{}{}
		if patch.BeautyTitle != nil {
			updates["beauty_title"] = *patch.BeautyTitle
		}
		if patch.Title != nil {
			updates["title"] = *patch.Title
		}
		if patch.OtherTitles != nil {
			updates["other_titles"] = *patch.OtherTitles
		}
		if patch.Connect != nil {
			updates["connect"] = *patch.Connect
		}
		if patch.AreaID != nil {
			if err := ensureArea(tx, *patch.AreaID); err != nil {
				return err
			}
			updates["area_id"] = *patch.AreaID
		}
		if len(updates) > 0 {
			if err := tx.Model(&ds.PerevalAdded{}).Where("id = ?", pereval.ID).Updates(updates).Error; err != nil {
				return fmt.Errorf("pereval: %w", err)
			}
		}

		if err := mergeCoords(tx, pereval.CoordsID, patch.Coords); err != nil {
			return err
		}
		if err := mergeLevel(tx, &pereval, patch.Level); err != nil {
			return err
		}

		if patch.ActivityIDs != nil {
			activities, err := loadActivities(tx, *patch.ActivityIDs)
			if err != nil {
				return err
			}
			if err = tx.Model(&pereval).Association("Activities").Replace(activities); err != nil {
				return fmt.Errorf("activities: %w", err)
			}
		}

		now := time.Now()
		for _, img := range patch.Images {
			if img.ID == nil {
				image := ds.PerevalImage{
					PerevalID: pereval.ID,
					DateAdded: now,
				}
				if img.Data != nil {
					image.Data = *img.Data
				}
				if img.Title != nil {
					image.Title = *img.Title
				}
				if err := tx.Create(&image).Error; err != nil {
					return fmt.Errorf("image: %w", err)
				}
				continue
			}

			var stored ds.PerevalImage
			err := tx.Where("id = ? AND pereval_id = ?", *img.ID, pereval.ID).First(&stored).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: id %d", ErrImageNotFound, *img.ID)
				}
				return err
			}

			imageUpdates := map[string]interface{}{}
			if img.Title != nil {
				imageUpdates["title"] = *img.Title
			}
			if img.Data != nil && *img.Data != stored.Data {
				imageUpdates["data"] = *img.Data
				released = append(released, stored.Data)
			}
			if len(imageUpdates) > 0 {
				if err = tx.Model(&stored).Updates(imageUpdates).Error; err != nil {
					return fmt.Errorf("image %d: %w", stored.ID, err)
				}
			}
		}

		// Отсутствующие изображения пропускаем
		if len(patch.ImagesToDelete) > 0 {
			var doomed []ds.PerevalImage
			err := tx.Where("pereval_id = ? AND id IN ?", pereval.ID, patch.ImagesToDelete).Find(&doomed).Error
			if err != nil {
				return err
			}
			if len(doomed) > 0 {
				if err = tx.Delete(&doomed).Error; err != nil {
					return fmt.Errorf("delete images: %w", err)
				}
				for _, img := range doomed {
					released = append(released, img.Data)
				}
			}
		}

		var err error
		released, err = unreferenced(tx, released)
		return err
	})
	if err != nil {
		return nil, err
	}

	return released, nil
}

// SetStatus меняет статус модерации
func (r *Repository) SetStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx
		if r.lockRows() {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var pereval ds.PerevalAdded
		if err := query.First(&pereval, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !canTransit(pereval.Status, status) {
			return fmt.Errorf("%w: %s -> %s", ErrStatusTransition, pereval.Status, status)
		}

		return tx.Model(&ds.PerevalAdded{}).Where("id = ?", pereval.ID).Update("status", status).Error
	})
}

func canTransit(from, to string) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Поля координат сливаются по одному, отсутствующие не меняются
func mergeCoords(tx *gorm.DB, coordsID uint, patch *CoordsPatch) error {
	if patch == nil {
		return nil
	}
	updates := map[string]interface{}{}
	if patch.Latitude != nil {
		updates["latitude"] = *patch.Latitude
	}
	if patch.Longitude != nil {
		updates["longitude"] = *patch.Longitude
	}
	if patch.Height != nil {
		updates["height"] = *patch.Height
	}
	if len(updates) == 0 {
		return nil
	}
	if err := tx.Model(&ds.Coords{}).Where("id = ?", coordsID).Updates(updates).Error; err != nil {
		return fmt.Errorf("coords: %w", err)
	}
	return nil
}

func mergeLevel(tx *gorm.DB, pereval *ds.PerevalAdded, patch *LevelPatch) error {
	if patch == nil {
		return nil
	}
	updates := map[string]interface{}{}
	if patch.Winter != nil {
		updates["winter"] = *patch.Winter
	}
	if patch.Summer != nil {
		updates["summer"] = *patch.Summer
	}
	if patch.Autumn != nil {
		updates["autumn"] = *patch.Autumn
	}
	if patch.Spring != nil {
		updates["spring"] = *patch.Spring
	}
	if len(updates) == 0 {
		return nil
	}

	// У записей без уровня создаем его
	if pereval.LevelID == nil {
		level := ds.Level{}
		if err := tx.Create(&level).Error; err != nil {
			return fmt.Errorf("level: %w", err)
		}
		if err := tx.Model(&ds.PerevalAdded{}).Where("id = ?", pereval.ID).Update("level_id", level.ID).Error; err != nil {
			return fmt.Errorf("level: %w", err)
		}
		pereval.LevelID = &level.ID
	}

	if err := tx.Model(&ds.Level{}).Where("id = ?", *pereval.LevelID).Updates(updates).Error; err != nil {
		return fmt.Errorf("level: %w", err)
	}
	return nil
}

// unreferenced оставляет только ключи, на которые не ссылается ни одна строка pereval_images
func unreferenced(tx *gorm.DB, keys []string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	seen := make(map[string]bool, len(keys))
	var result []string
	for _, key := range keys {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		var count int64
		if err := tx.Model(&ds.PerevalImage{}).Where("data = ?", key).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			result = append(result, key)
		}
	}
	return result, nil
}
