package port

import (
	"context"

	"diagno-bot/internal/domain/entity"
)

// Preprocessor интерфейс подготовки снимка под формат классификатора
type Preprocessor interface {
	// Prepare декодирует изображение и приводит его к входному тензору модели
	Prepare(ctx context.Context, imageData []byte) (*InputTensor, error)
}

// HeatmapRenderer интерфейс отрисовки тепловой карты поверх снимка
type HeatmapRenderer interface {
	// Render накладывает карту активаций на исходный снимок и возвращает JPEG
	Render(imageData []byte, cam *entity.ActivationMap) ([]byte, error)
}
