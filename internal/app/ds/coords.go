package ds

// Координаты перевала. Одна запись принадлежит ровно одному перевалу
type Coords struct {
	ID        uint    `gorm:"primaryKey"`
	Latitude  float64 `gorm:"type:decimal(10,8);not null"`
	Longitude float64 `gorm:"type:decimal(11,8);not null"`
	Height    *int
}

func (Coords) TableName() string {
	return "coords"
}
