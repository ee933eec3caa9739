package analytics

import "strings"

// BrandOther метка для моделей, не подошедших ни под одно ключевое слово
const BrandOther = "Другие"

// brandKeyword правило классификации: подстрока в названии модели → бренд
type brandKeyword struct {
	keyword string // уже в нижнем регистре
	brand   string
}

// Порядок имеет значение: выигрывает первое совпадение.
// Новый бренд добавляется строкой в этот список.
var brandKeywords = []brandKeyword{
	{"voge", "VOGE"},
	{"bmw", "BMW"},
	{"honda", "Honda"},
	{"yamaha", "Yamaha"},
	{"kawasaki", "Kawasaki"},
	{"suzuki", "Suzuki"},
	{"ducati", "Ducati"},
	{"ktm", "KTM"},
	{"harley", "Harley-Davidson"},
	{"racer", "Racer"},
}

// BrandFromModel определяет бренд по названию модели через поиск
// подстроки без учета регистра. Это эвристика, а не справочник:
// если ключевое слово не найдено, модель уходит в "Другие".
func BrandFromModel(modelName string) string {
	lower := strings.ToLower(modelName)
	for _, kw := range brandKeywords {
		if strings.Contains(lower, kw.keyword) {
			return kw.brand
		}
	}
	return BrandOther
}
