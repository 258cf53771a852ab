package knowledge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"diagno-bot/internal/domain/entity"
)

func TestLookupKnownCondition(t *testing.T) {
	e := Lookup("Pneumothorax")
	require.Equal(t, entity.SeverityCritical, e.SeverityHint)
	require.Contains(t, e.Finding, "pleural space")
}

func TestLookupUnknownConditionFallsBack(t *testing.T) {
	e := Lookup("Totally Unknown")
	require.Equal(t, entity.SeverityModerate, e.SeverityHint)
	require.Contains(t, e.Finding, "Totally Unknown")
	require.Equal(t, "Clinical correlation recommended.", e.ClinicalContext)
}

func TestRecommendationUrgencyTable(t *testing.T) {
	require.Contains(t, Recommendation("Mass", 90), "oncology referral")
	require.Contains(t, Recommendation("Cardiomegaly", 90), "Echocardiogram")
}

func TestRecommendationGenericFallback(t *testing.T) {
	rec := Recommendation("Mystery", 72)
	require.Contains(t, rec, "Mystery")
	require.Contains(t, rec, "72% confidence")
}

func TestRecommendationLowConfidencePrefix(t *testing.T) {
	rec := Recommendation("Mass", 39)
	require.True(t, strings.HasPrefix(rec, "Low confidence finding (39%)."))
	require.Contains(t, rec, "oncology referral")

	require.False(t, strings.HasPrefix(Recommendation("Mass", 40), "Low confidence"))
}

func TestNormalExplanationIsCanonical(t *testing.T) {
	e := NormalExplanation()
	require.Equal(t, entity.SeverityNormal, e.Severity)
	require.Equal(t, entity.RegionNoFocal, e.Region)
	require.Equal(t, 100.0, e.ConfidencePct)
}

func TestAllEntriesHaveSeverity(t *testing.T) {
	for _, label := range Labels() {
		e := Lookup(label)
		require.NotEmpty(t, e.Finding, label)
		require.NotEmpty(t, e.VisualPattern, label)
		require.NotEmpty(t, e.ClinicalContext, label)
		require.Greater(t, e.SeverityHint.Rank(), 0, label)
	}
}
