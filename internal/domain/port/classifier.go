package port

import (
	"context"

	"diagno-bot/internal/domain/entity"
)

// InputTensor нормализованный вход классификатора (1×1×H×W в формате xrv).
type InputTensor struct {
	Height int
	Width  int
	Data   []float32 // значения в диапазоне [-1024, 1024], построчно
}

// Classifier интерфейс предобученного мультиклассового классификатора
type Classifier interface {
	// Labels возвращает метки классов в родном порядке модели
	Labels() []string

	// ModelInfo возвращает статические метаданные модели
	ModelInfo() entity.ModelInfo

	// Scores выполняет прямой проход и возвращает вероятности по классам,
	// в том же порядке, что и Labels
	Scores(ctx context.Context, input *InputTensor) ([]float64, error)

	// CaptureGradCAM выполняет прямой и обратный проход для целевого класса и
	// возвращает активации последнего блока вместе с градиентами. Захват
	// принадлежит только этому вызову: реализация не имеет права хранить его
	// в разделяемых полях (иначе параллельные запросы перепутают пары).
	CaptureGradCAM(ctx context.Context, input *InputTensor, classIdx int) (*entity.GradCAMCapture, error)
}
