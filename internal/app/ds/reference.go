package ds

// Район перевала (иерархический справочник)
type PerevalArea struct {
	ID       uint   `gorm:"primaryKey"`
	Title    string `gorm:"type:varchar(255);not null"`
	ParentID *uint  `gorm:"index"`
}

func (PerevalArea) TableName() string {
	return "pereval_areas"
}

// Вид активности (пешком, лыжи, катамаран...)
type ActivityType struct {
	ID    uint   `gorm:"primaryKey"`
	Title string `gorm:"type:varchar(255);not null;uniqueIndex"`
}

func (ActivityType) TableName() string {
	return "spr_activities_types"
}
