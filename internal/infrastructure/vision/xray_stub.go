//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"diagno-bot/internal/domain/entity"
	"diagno-bot/internal/domain/port"
)

type XRayProcessor struct {
	InputSize    int
	MinImageSide int
	BlendWeight  float64
	JPEGQuality  int
}

// NewXRayProcessor создаёт процессор-заглушку (без OpenCV).
func NewXRayProcessor() *XRayProcessor {
	return &XRayProcessor{
		InputSize:    224,
		MinImageSide: 128,
		BlendWeight:  0.6,
		JPEGQuality:  90,
	}
}

// Prepare возвращает ошибку, если сборка без тега gocv.
func (p *XRayProcessor) Prepare(ctx context.Context, imageData []byte) (*port.InputTensor, error) {
	_ = ctx
	_ = imageData
	return nil, errors.New("gocv build tag is not enabled")
}

// Render возвращает ошибку, если сборка без тега gocv.
func (p *XRayProcessor) Render(imageData []byte, cam *entity.ActivationMap) ([]byte, error) {
	_ = imageData
	_ = cam
	return nil, errors.New("gocv build tag is not enabled")
}
