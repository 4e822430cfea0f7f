package ds

// Категории трудности (кириллические А и Б)
const (
	LevelNone = ""
	Level1A   = "1А"
	Level1B   = "1Б"
	Level2A   = "2А"
	Level2B   = "2Б"
	Level3A   = "3А"
	Level3B   = "3Б"
)

// LevelValues - допустимые значения категории трудности по сезону
var LevelValues = []string{LevelNone, Level1A, Level1B, Level2A, Level2B, Level3A, Level3B}

// Уровень сложности перевала по сезонам
type Level struct {
	ID     uint   `gorm:"primaryKey"`
	Winter string `gorm:"type:varchar(2);default:''"`
	Summer string `gorm:"type:varchar(2);default:''"`
	Autumn string `gorm:"type:varchar(2);default:''"`
	Spring string `gorm:"type:varchar(2);default:''"`
}

func (Level) TableName() string {
	return "levels"
}

// IsLevelValue проверяет, входит ли значение в шкалу категорий
func IsLevelValue(v string) bool {
	for _, l := range LevelValues {
		if l == v {
			return true
		}
	}
	return false
}
