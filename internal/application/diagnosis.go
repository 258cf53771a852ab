package app

import (
	"context"
	"errors"
	"log"
	"sort"

	"diagno-bot/internal/domain/entity"
	"diagno-bot/internal/domain/port"
	"diagno-bot/internal/knowledge"
)

// maxFindings ограничение списка находок в отчёте
const maxFindings = 8

// DiagnosisService оркестратор анализа снимка: классификация, адаптивная
// детекция, локализация главной находки и сборка итогового отчёта.
type DiagnosisService struct {
	classifier   port.Classifier
	preprocessor port.Preprocessor
	renderer     port.HeatmapRenderer
	analyzer     *ScoreAnalyzer
	localizer    *ActivationLocalizer
	synthesizer  *ExplanationSynthesizer
}

// NewDiagnosisService создаёт сервис диагностики.
func NewDiagnosisService(classifier port.Classifier, preprocessor port.Preprocessor, renderer port.HeatmapRenderer) *DiagnosisService {
	return &DiagnosisService{
		classifier:   classifier,
		preprocessor: preprocessor,
		renderer:     renderer,
		analyzer:     NewScoreAnalyzer(),
		localizer:    NewActivationLocalizer(),
		synthesizer:  NewExplanationSynthesizer(),
	}
}

// AnalyzeImage принимает сырые байты снимка, прогоняет весь конвейер и
// возвращает готовый отчёт.
func (s *DiagnosisService) AnalyzeImage(ctx context.Context, imageData []byte) (*entity.PredictionReport, error) {
	if s.classifier == nil {
		return nil, errors.New("classifier is not configured")
	}
	if s.preprocessor == nil {
		return nil, errors.New("preprocessor is not configured")
	}

	input, err := s.preprocessor.Prepare(ctx, imageData)
	if err != nil {
		return nil, err
	}

	scores, err := s.classifier.Scores(ctx, input)
	if err != nil {
		return nil, err
	}

	return s.buildReport(ctx, input, imageData, scores)
}

// buildReport выполняет анализ поверх уже полученного вектора вероятностей.
func (s *DiagnosisService) buildReport(ctx context.Context, input *port.InputTensor, imageData []byte, scores []float64) (*entity.PredictionReport, error) {
	labels := s.classifier.Labels()

	analysis, err := s.analyzer.Analyze(labels, scores)
	if err != nil {
		return nil, err
	}

	report := &entity.PredictionReport{
		Prediction:    analysis.Primary.Label,
		Confidence:    analysis.Primary.Score,
		Probabilities: sortedProbabilities(labels, scores),
		ModelInfo:     s.classifier.ModelInfo(),
	}

	if analysis.IsNormal {
		report.Region = entity.RegionNoFocal
		report.Findings = []entity.Finding{analysis.Primary}
		report.Explanations = map[string]entity.Explanation{
			"Normal": knowledge.NormalExplanation(),
		}
		report.Narrative = s.synthesizer.NormalNarrative()
		return report, nil
	}

	// Локализация только для главной находки. Сбой хука не валит отчёт:
	// деградируем до регион-по-умолчанию и явно фиксируем причину.
	region := entity.RegionDefault
	primaryPeak := secondaryPeakIntensity
	classIdx := indexOf(labels, analysis.Primary.Label)

	cam, locErr := s.localize(ctx, input, classIdx)
	if locErr != nil {
		log.Printf("grad-cam failed for %q: %v", analysis.Primary.Label, locErr)
		report.HeatmapNote = "localization unavailable: " + locErr.Error()
	} else {
		region = entity.MapLungRegion(cam.PeakRow, cam.PeakCol, cam.Height, cam.Width)
		primaryPeak = cam.Peak
		if s.renderer != nil {
			rendered, renderErr := s.renderer.Render(imageData, cam)
			if renderErr != nil {
				log.Printf("heatmap render failed: %v", renderErr)
				report.HeatmapNote = "heatmap rendering failed: " + renderErr.Error()
			} else {
				report.Heatmap = rendered
			}
		}
	}

	report.Region = region
	report.Findings = boundFindings(analysis.Findings)
	report.Explanations = s.synthesizer.BuildExplanations(analysis.Findings, analysis.Primary.Label, region, primaryPeak)
	report.Narrative = s.synthesizer.Narrative(analysis.Primary, report.Explanations[analysis.Primary.Label])
	return report, nil
}

// localize запускает захват градиентов и строит карту активаций.
func (s *DiagnosisService) localize(ctx context.Context, input *port.InputTensor, classIdx int) (*entity.ActivationMap, error) {
	if classIdx < 0 {
		return nil, errors.New("primary label is missing from classifier labels")
	}
	capture, err := s.classifier.CaptureGradCAM(ctx, input, classIdx)
	if err != nil {
		return nil, err
	}
	return s.localizer.Localize(capture)
}

// boundFindings ограничивает список находок размером отчёта.
func boundFindings(findings []entity.Finding) []entity.Finding {
	if len(findings) > maxFindings {
		findings = findings[:maxFindings]
	}
	out := make([]entity.Finding, len(findings))
	copy(out, findings)
	return out
}

// sortedProbabilities собирает полный список вероятностей по убыванию,
// округляя значения до четырёх знаков.
func sortedProbabilities(labels []string, scores []float64) []entity.ProbabilityEntry {
	out := make([]entity.ProbabilityEntry, len(labels))
	for i, label := range labels {
		out[i] = entity.ProbabilityEntry{Label: label, Score: roundTo(scores[i], 4)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// indexOf возвращает индекс метки или -1.
func indexOf(labels []string, label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}
