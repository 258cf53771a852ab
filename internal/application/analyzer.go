package app

import (
	"fmt"
	"math"
	"sort"

	"diagno-bot/internal/domain/entity"
	"diagno-bot/internal/knowledge"
)

// ScoreAnalyzer выделяет реальные находки из вектора вероятностей. Плоский
// порог здесь не работает: баллы классификатора и на нормальных, и на
// патологических снимках кучкуются около середины сигмоиды. Поэтому патология
// засчитывается, только если её балл статистически выше шумового фона ЭТОГО
// снимка и при этом модель однозначно положительна в абсолютных величинах.
type ScoreAnalyzer struct {
	ZFactor     float64 // Сколько стандартных отклонений выше среднего требуется
	AbsMinimum  float64 // Жёсткий нижний порог, ниже которого находка не засчитывается
	SpreadFloor float64 // Минимальный разброс баллов, без него снимок считается нормой
}

// NewScoreAnalyzer создаёт анализатор с проверенными на практике порогами.
func NewScoreAnalyzer() *ScoreAnalyzer {
	return &ScoreAnalyzer{
		ZFactor:     2.0,
		AbsMinimum:  0.60,
		SpreadFloor: 0.04,
	}
}

// AnalysisResult итог анализа вектора вероятностей
type AnalysisResult struct {
	Findings  []entity.Finding // Находки по убыванию балла (пусто для нормы)
	Primary   entity.Finding   // Главная находка или синтетическая "Normal"
	IsNormal  bool             // Находок нет
	Mean      float64          // Среднее по вектору
	Std       float64          // Стандартное отклонение по вектору
	Threshold float64          // mean + ZFactor*std (0 при норме по разбросу)
}

// Analyze применяет адаптивное правило детекции к вектору вероятностей.
// Метки и баллы идут в родном порядке классификатора; при равных баллах этот
// порядок сохраняется.
func (a *ScoreAnalyzer) Analyze(labels []string, scores []float64) (*AnalysisResult, error) {
	if err := validateVector(labels, scores); err != nil {
		return nil, err
	}

	mean, std := meanStd(scores)

	res := &AnalysisResult{Mean: mean, Std: std}

	// Слишком тесный кластер: разделить сигнал и шум на этом снимке нельзя.
	if std < a.SpreadFloor {
		res.IsNormal = true
		res.Primary = normalFinding(scores)
		return res, nil
	}

	threshold := mean + a.ZFactor*std
	res.Threshold = threshold

	for i, s := range scores {
		if s >= threshold && s >= a.AbsMinimum {
			res.Findings = append(res.Findings, entity.Finding{
				Label:    labels[i],
				Score:    s,
				Severity: knowledge.SeverityFor(labels[i]),
			})
		}
	}

	// Стабильная сортировка: при равных баллах остаётся порядок классификатора.
	sort.SliceStable(res.Findings, func(i, j int) bool {
		return res.Findings[i].Score > res.Findings[j].Score
	})

	if len(res.Findings) == 0 {
		res.IsNormal = true
		res.Primary = normalFinding(scores)
		return res, nil
	}

	res.Primary = res.Findings[0]
	return res, nil
}

// normalFinding строит синтетическую находку "Normal" с уверенностью 1-max.
func normalFinding(scores []float64) entity.Finding {
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}
	return entity.Finding{
		Label:    "Normal",
		Score:    1.0 - maxScore,
		Severity: entity.SeverityNormal,
	}
}

// validateVector отклоняет некорректный вход до запуска анализа.
func validateVector(labels []string, scores []float64) error {
	if len(scores) < 2 {
		return fmt.Errorf("probability vector is too short: %d", len(scores))
	}
	if len(labels) != len(scores) {
		return fmt.Errorf("labels/scores length mismatch: %d != %d", len(labels), len(scores))
	}
	seen := make(map[string]struct{}, len(labels))
	for i, label := range labels {
		if _, ok := seen[label]; ok {
			return fmt.Errorf("duplicate label %q", label)
		}
		seen[label] = struct{}{}

		s := scores[i]
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return fmt.Errorf("score for %q is not finite", label)
		}
		if s < 0 || s > 1 {
			return fmt.Errorf("score for %q is out of [0,1]: %f", label, s)
		}
	}
	return nil
}

// meanStd считает среднее и популяционное стандартное отклонение.
// Статистика пересчитывается на каждый запрос: распределение баллов одной и
// той же модели заметно плавает от снимка к снимку.
func meanStd(scores []float64) (mean, std float64) {
	for _, s := range scores {
		mean += s
	}
	mean /= float64(len(scores))

	var variance float64
	for _, s := range scores {
		d := s - mean
		variance += d * d
	}
	variance /= float64(len(scores))
	return mean, math.Sqrt(variance)
}
