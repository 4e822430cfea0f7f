package ds

// Пользователь, отправивший перевал. Email однозначно идентифицирует пользователя
type User struct {
	ID       uint    `gorm:"primaryKey"`
	Email    string  `gorm:"type:varchar(254);uniqueIndex;not null"`
	Fam      string  `gorm:"type:varchar(255);not null"` // Фамилия
	Name     string  `gorm:"type:varchar(255);not null"` // Имя
	Otc      *string `gorm:"type:varchar(255)"`          // Отчество
	Phone    *string `gorm:"type:varchar(17)"`
	IsActive bool    `gorm:"type:boolean;default:true;not null"`
}

func (User) TableName() string {
	return "users"
}
