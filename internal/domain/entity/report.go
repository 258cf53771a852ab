package entity

// Explanation объясняет одну находку: что видно, где и что делать дальше.
type Explanation struct {
	RadiologicalFinding string   `json:"radiological_finding"` // Рентгенологическая находка
	VisualPattern       string   `json:"visual_pattern"`       // Типичная визуальная картина
	VisualEvidence      string   `json:"visual_evidence"`      // Что именно увидела модель на этом снимке
	ClinicalContext     string   `json:"clinical_context"`     // Клинический контекст
	Recommendation      string   `json:"recommendation"`       // Рекомендация по дальнейшим действиям
	Severity            Severity `json:"severity"`             // Уровень срочности
	Region              string   `json:"region"`               // Анатомическая зона
	ConfidencePct       float64  `json:"confidence_pct"`       // Уверенность в процентах
}

// ProbabilityEntry пара метка-вероятность; срез сохраняет порядок по убыванию.
type ProbabilityEntry struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ModelInfo статические сведения о классификаторе для отчёта.
type ModelInfo struct {
	Name       string `json:"name"`
	TrainedOn  string `json:"trained_on"`
	ClassCount int    `json:"pathologies_count"`
	XAIMethod  string `json:"xai_method"`
}

// PredictionReport итоговый отчёт по одному снимку. После возврата из
// оркестратора отчёт не изменяется.
type PredictionReport struct {
	Prediction    string                 `json:"prediction"`             // Основной диагноз или "Normal"
	Confidence    float64                `json:"confidence"`             // Уверенность основного диагноза
	Probabilities []ProbabilityEntry     `json:"probabilities"`          // Все классы по убыванию, округлены до 4 знаков
	Heatmap       []byte                 `json:"-"`                      // Наложенная тепловая карта (JPEG), nil если не строилась
	HeatmapB64    string                 `json:"heatmap_b64,omitempty"`  // То же в base64 для JSON-ответа
	HeatmapNote   string                 `json:"heatmap_note,omitempty"` // Причина отсутствия тепловой карты
	Region        string                 `json:"region"`                 // Анатомическая зона пика активации
	Findings      []Finding              `json:"findings"`               // До 8 находок по убыванию score
	Explanations  map[string]Explanation `json:"xai_details"`            // До 5 объяснений по меткам
	Narrative     string                 `json:"explanation"`            // Краткое итоговое описание
	ModelInfo     ModelInfo              `json:"model_info"`             // Метаданные классификатора
}
