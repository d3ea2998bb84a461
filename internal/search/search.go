package search

import (
	"strings"

	"bloodconnect/internal/domain"
)

// AllTypes значение селектора группы крови, отключающее фильтр
const AllTypes = "All Types"

// DonorCriteria критерии одного поиска доноров.
// Query сравнивается как есть, без обрезки пробелов.
type DonorCriteria struct {
	BloodType string
	Query     string
}

// Donors возвращает подпоследовательность donations, удовлетворяющую всем
// активным предикатам, в исходном порядке
func Donors(donations []domain.Donation, c DonorCriteria) []domain.Donation {
	out := make([]domain.Donation, 0, len(donations))
	for _, d := range donations {
		if c.BloodType != "" && c.BloodType != AllTypes && d.BloodType != c.BloodType {
			continue
		}
		if c.Query != "" && !containsIgnoreCase(d.Name, c.Query) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Medicines фильтрует каталог по подстроке названия, сохраняя порядок
func Medicines(medicines []domain.Medicine, query string) []domain.Medicine {
	out := make([]domain.Medicine, 0, len(medicines))
	for _, m := range medicines {
		if query != "" && !containsIgnoreCase(m.Name, query) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
