package ds

import "time"

// Статусы модерации
const (
	StatusNew      = "new"      // новый
	StatusPending  = "pending"  // модератор взял в работу
	StatusAccepted = "accepted" // модерация прошла успешно
	StatusRejected = "rejected" // модерация прошла, информация не принята
)

// Перевал, добавленный пользователем
type PerevalAdded struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;index"`
	CoordsID    uint      `gorm:"not null;uniqueIndex"`
	LevelID     *uint     `gorm:"index"`
	BeautyTitle *string   `gorm:"type:varchar(255)"`
	Title       string    `gorm:"type:varchar(255);not null"`
	OtherTitles *string   `gorm:"type:varchar(255)"`
	Connect     *string   `gorm:"type:text"`
	AddTime     time.Time `gorm:"not null;<-:create"` // Дата добавления, после создания не меняется
	Status      string    `gorm:"type:varchar(30);not null;default:'new'"`
	AreaID      *uint     `gorm:"index"`

	User       User           `gorm:"foreignKey:UserID"`
	Coords     Coords         `gorm:"foreignKey:CoordsID"`
	Level      *Level         `gorm:"foreignKey:LevelID"`
	Area       *PerevalArea   `gorm:"foreignKey:AreaID;constraint:OnDelete:SET NULL"`
	Images     []PerevalImage `gorm:"foreignKey:PerevalID;constraint:OnDelete:CASCADE"`
	Activities []ActivityType `gorm:"many2many:pereval_added_activities"`
}

func (PerevalAdded) TableName() string {
	return "pereval_added"
}

// Изображение перевала. Data хранит ключ объекта в хранилище
type PerevalImage struct {
	ID        uint      `gorm:"primaryKey"`
	PerevalID uint      `gorm:"not null;index"`
	DateAdded time.Time `gorm:"not null;<-:create"`
	Data      string    `gorm:"type:varchar(255);not null"`
	Title     string    `gorm:"type:varchar(255);not null"`
}

func (PerevalImage) TableName() string {
	return "pereval_images"
}
