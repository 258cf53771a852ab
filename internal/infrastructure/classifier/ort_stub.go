//go:build !ort
// +build !ort

package classifier

import (
	"context"
	"errors"

	"diagno-bot/internal/domain/entity"
	"diagno-bot/internal/domain/port"
)

type ORTClassifier struct {
	labels    []string
	inputSize int
}

// NewORTClassifier создаёт классификатор-заглушку (без ONNX Runtime).
func NewORTClassifier(cfg Config) (*ORTClassifier, error) {
	cfg.applyDefaults()
	return &ORTClassifier{labels: cfg.Labels, inputSize: cfg.InputSize}, nil
}

// Close ничего не освобождает в сборке без тега ort.
func (c *ORTClassifier) Close() error {
	return nil
}

// Labels возвращает метки классов.
func (c *ORTClassifier) Labels() []string {
	return c.labels
}

// ModelInfo возвращает статические метаданные модели.
func (c *ORTClassifier) ModelInfo() entity.ModelInfo {
	return modelInfo(len(c.labels))
}

// Scores возвращает ошибку, если сборка без тега ort.
func (c *ORTClassifier) Scores(ctx context.Context, input *port.InputTensor) ([]float64, error) {
	_ = ctx
	_ = input
	return nil, errors.New("ort build tag is not enabled")
}

// CaptureGradCAM возвращает ошибку, если сборка без тега ort.
func (c *ORTClassifier) CaptureGradCAM(ctx context.Context, input *port.InputTensor, classIdx int) (*entity.GradCAMCapture, error) {
	_ = ctx
	_ = input
	_ = classIdx
	return nil, errors.New("ort build tag is not enabled")
}

// Проверка реализации интерфейса
var _ port.Classifier = (*ORTClassifier)(nil)
