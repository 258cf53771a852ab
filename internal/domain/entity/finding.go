package entity

// Severity уровень клинической срочности находки
type Severity string

const (
	SeverityNormal   Severity = "normal"   // Патологий нет
	SeverityLow      Severity = "low"      // Низкая срочность
	SeverityModerate Severity = "moderate" // Средняя срочность
	SeverityHigh     Severity = "high"     // Высокая срочность
	SeverityCritical Severity = "critical" // Требует немедленной реакции
)

// severityRank порядок уровней для сравнения
var severityRank = map[Severity]int{
	SeverityNormal:   0,
	SeverityLow:      1,
	SeverityModerate: 2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Rank возвращает числовой ранг уровня срочности (неизвестный уровень — 0).
func (s Severity) Rank() int {
	return severityRank[s]
}

// Finding представляет одну обнаруженную патологию
type Finding struct {
	Label    string   `json:"condition"` // Название патологии
	Score    float64  `json:"score"`     // Вероятность от классификатора, [0,1]
	Severity Severity `json:"severity"`  // Уровень клинической срочности
}
