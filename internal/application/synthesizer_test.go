package app

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"diagno-bot/internal/domain/entity"
)

func TestSynthesizer_ConfidenceQualifiers(t *testing.T) {
	s := NewExplanationSynthesizer()

	exp := s.BuildExplanation("Pneumonia", 0.75, "Left Lower Lobe", 0.9)
	require.Contains(t, exp.VisualEvidence, "strong activation")
	require.Contains(t, exp.VisualEvidence, "75.0% confidence")
	require.Contains(t, exp.VisualEvidence, "Left Lower Lobe")
	require.Contains(t, exp.VisualEvidence, "90% peak activation")

	exp = s.BuildExplanation("Pneumonia", 0.50, "Left Lower Lobe", 0.9)
	require.Contains(t, exp.VisualEvidence, "moderate activation")

	exp = s.BuildExplanation("Pneumonia", 0.49, "Left Lower Lobe", 0.9)
	require.Contains(t, exp.VisualEvidence, "weak activation")
}

func TestSynthesizer_KnownConditionUsesKnowledgeBase(t *testing.T) {
	s := NewExplanationSynthesizer()

	exp := s.BuildExplanation("Pneumothorax", 0.88, "Right Upper Lobe", 0.95)
	require.Equal(t, entity.SeverityCritical, exp.Severity)
	require.Contains(t, exp.RadiologicalFinding, "pleural space")
	require.Contains(t, exp.Recommendation, "Urgent")
	require.Equal(t, 88.0, exp.ConfidencePct)
	require.Equal(t, "Right Upper Lobe", exp.Region)
}

func TestSynthesizer_UnknownConditionFallsBack(t *testing.T) {
	s := NewExplanationSynthesizer()

	exp := s.BuildExplanation("Mystery", 0.66, "Left Middle Lobe", 0.5)
	require.Equal(t, entity.SeverityModerate, exp.Severity)
	require.Contains(t, exp.RadiologicalFinding, "Mystery")
	require.Contains(t, exp.Recommendation, "Mystery")
	require.Contains(t, exp.Recommendation, "66% confidence")
}

func TestSynthesizer_LowConfidencePrefix(t *testing.T) {
	s := NewExplanationSynthesizer()

	exp := s.BuildExplanation("Pneumonia", 0.39, "Left Lower Lobe", 0.5)
	require.True(t, strings.HasPrefix(exp.Recommendation, "Low confidence finding (39%)."))
	require.Contains(t, exp.Recommendation, "Antibiotic therapy")

	exp = s.BuildExplanation("Pneumonia", 0.40, "Left Lower Lobe", 0.5)
	require.False(t, strings.HasPrefix(exp.Recommendation, "Low confidence"))
}

func TestSynthesizer_BuildExplanationsBounded(t *testing.T) {
	s := NewExplanationSynthesizer()

	findings := make([]entity.Finding, 9)
	for i := range findings {
		findings[i] = entity.Finding{
			Label: fmt.Sprintf("Condition%02d", i),
			Score: 0.9 - float64(i)*0.01,
		}
	}

	out := s.BuildExplanations(findings, "Condition00", "Left Upper Lobe", 0.97)
	require.Len(t, out, 5)

	// Настоящий пик — только у главной находки, у остальных подставное 50%.
	require.Contains(t, out["Condition00"].VisualEvidence, "97% peak activation")
	require.Contains(t, out["Condition01"].VisualEvidence, "50% peak activation")
}

func TestSynthesizer_Narrative(t *testing.T) {
	s := NewExplanationSynthesizer()

	primary := entity.Finding{Label: "Edema", Score: 0.715}
	exp := s.BuildExplanation("Edema", primary.Score, "Bilateral / Central Middle Zone", 0.8)

	n := s.Narrative(primary, exp)
	require.Contains(t, n, "Primary finding: Edema detected with 71.5% confidence.")
	require.Contains(t, n, exp.VisualEvidence)
	require.Contains(t, n, exp.Recommendation)
}
