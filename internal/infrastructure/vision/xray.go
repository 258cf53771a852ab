//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"gocv.io/x/gocv"

	"diagno-bot/internal/domain/entity"
	"diagno-bot/internal/domain/port"
)

// XRayProcessor готовит снимок под вход классификатора и рисует тепловые
// карты. Реализует порты Preprocessor и HeatmapRenderer.
type XRayProcessor struct {
	InputSize    int     // Сторона входного тензора модели
	MinImageSide int     // Минимальный размер снимка
	BlendWeight  float64 // Максимальная доля тепловой карты в наложении
	JPEGQuality  int     // Качество итогового JPEG
}

// NewXRayProcessor создаёт процессор под вход 224×224.
func NewXRayProcessor() *XRayProcessor {
	return &XRayProcessor{
		InputSize:    224,
		MinImageSide: 128,
		BlendWeight:  0.6,
		JPEGQuality:  90,
	}
}

// Prepare декодирует снимок, приводит его к квадрату 224×224 в оттенках
// серого и нормализует значения в диапазон [-1024, 1024].
func (p *XRayProcessor) Prepare(ctx context.Context, imageData []byte) (*port.InputTensor, error) {
	_ = ctx
	gray, err := gocv.IMDecode(imageData, gocv.IMReadGrayScale)
	if err != nil || gray.Empty() {
		if !gray.Empty() {
			gray.Close()
		}
		return nil, errors.New("failed to decode image")
	}
	defer gray.Close()

	if gray.Cols() < p.MinImageSide || gray.Rows() < p.MinImageSide {
		return nil, fmt.Errorf("image is too small (%dx%d)", gray.Cols(), gray.Rows())
	}

	// Центральный квадратный кроп, затем стандартный размер.
	side := minInt(gray.Cols(), gray.Rows())
	x0 := (gray.Cols() - side) / 2
	y0 := (gray.Rows() - side) / 2
	cropped := gray.Region(image.Rect(x0, y0, x0+side, y0+side))
	defer cropped.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(cropped, &resized, image.Pt(p.InputSize, p.InputSize), 0, 0, gocv.InterpolationArea)

	// Нормализация в формат torchxrayvision: [0,255] -> [-1024, 1024].
	data := make([]float32, p.InputSize*p.InputSize)
	for y := 0; y < p.InputSize; y++ {
		for x := 0; x < p.InputSize; x++ {
			v := float32(resized.GetUCharAt(y, x))
			data[y*p.InputSize+x] = v/255.0*2048.0 - 1024.0
		}
	}

	return &port.InputTensor{
		Height: p.InputSize,
		Width:  p.InputSize,
		Data:   data,
	}, nil
}

// Render накладывает карту активаций на снимок цветовым спектром (jet:
// синий → зелёный → жёлтый → красный) и возвращает JPEG. Доля тепловой карты
// в каждом пикселе пропорциональна активации: модель подсвечивает только то,
// на что реально смотрела.
func (p *XRayProcessor) Render(imageData []byte, cam *entity.ActivationMap) ([]byte, error) {
	if cam == nil || len(cam.Values) == 0 {
		return nil, errors.New("activation map is empty")
	}

	orig, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err != nil || orig.Empty() {
		if !orig.Empty() {
			orig.Close()
		}
		return nil, errors.New("failed to decode image")
	}
	defer orig.Close()

	base := gocv.NewMat()
	defer base.Close()
	gocv.Resize(orig, &base, image.Pt(cam.Width, cam.Height), 0, 0, gocv.InterpolationArea)

	// Карта активаций в 8-битном виде для цветовой шкалы.
	camMat := gocv.NewMatWithSize(cam.Height, cam.Width, gocv.MatTypeCV8UC1)
	defer camMat.Close()
	for y := 0; y < cam.Height; y++ {
		for x := 0; x < cam.Width; x++ {
			camMat.SetUCharAt(y, x, uint8(clamp01(cam.ValueAt(y, x))*255.0))
		}
	}

	heat := gocv.NewMat()
	defer heat.Close()
	gocv.ApplyColorMap(camMat, &heat, gocv.ColormapJet)

	// Поэлементное смешение с альфой, взвешенной интенсивностью активации.
	blended := gocv.NewMatWithSize(cam.Height, cam.Width, gocv.MatTypeCV8UC3)
	defer blended.Close()
	for y := 0; y < cam.Height; y++ {
		for x := 0; x < cam.Width; x++ {
			alpha := clamp01(cam.ValueAt(y, x)) * p.BlendWeight
			for c := 0; c < 3; c++ {
				b := float64(base.GetUCharAt(y, x*3+c))
				h := float64(heat.GetUCharAt(y, x*3+c))
				blended.SetUCharAt(y, x*3+c, uint8(clamp01((b*(1-alpha)+h*alpha)/255.0)*255.0))
			}
		}
	}

	img, err := blended.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.JPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
