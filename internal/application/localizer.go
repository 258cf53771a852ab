package app

import (
	"errors"
	"fmt"
	"math"

	"diagno-bot/internal/domain/entity"
)

// ErrEmptyCapture возвращается, если хук классификатора не захватил тензоры.
// Молча отдавать нулевую или устаревшую карту нельзя: вызывающий слой должен
// явно перейти на деградированный путь без тепловой карты.
var ErrEmptyCapture = errors.New("grad-cam capture is empty")

// normEpsilon защита от деления на ноль при нормировке константной карты.
const normEpsilon = 1e-8

// ActivationLocalizer строит карту свидетельств Grad-CAM из захваченных
// активаций и градиентов одного прохода. Сам локализатор состояния не хранит:
// весь изменяемый материал приходит аргументом и живёт в рамках одного вызова,
// поэтому параллельные запросы друг другу не мешают.
type ActivationLocalizer struct {
	OutHeight int // Высота итоговой карты (разрешение входа модели)
	OutWidth  int // Ширина итоговой карты
}

// NewActivationLocalizer создаёт локализатор под входное разрешение 224×224.
func NewActivationLocalizer() *ActivationLocalizer {
	return &ActivationLocalizer{OutHeight: 224, OutWidth: 224}
}

// Localize превращает захват в нормированную карту [0,1] с координатами пика.
func (l *ActivationLocalizer) Localize(capture *entity.GradCAMCapture) (*entity.ActivationMap, error) {
	if capture == nil || len(capture.Activations.Data) == 0 || len(capture.Gradients.Data) == 0 {
		return nil, ErrEmptyCapture
	}
	act, grad := capture.Activations, capture.Gradients
	if act.Channels != grad.Channels || act.Height != grad.Height || act.Width != grad.Width {
		return nil, fmt.Errorf("activation/gradient shape mismatch: %dx%dx%d vs %dx%dx%d",
			act.Channels, act.Height, act.Width, grad.Channels, grad.Height, grad.Width)
	}
	if len(act.Data) != act.Size() || len(grad.Data) != grad.Size() {
		return nil, fmt.Errorf("capture data length does not match shape")
	}

	// Вес канала — среднее градиента по пространству.
	weights := make([]float64, act.Channels)
	spatial := act.Height * act.Width
	for c := 0; c < act.Channels; c++ {
		var sum float64
		base := c * spatial
		for i := 0; i < spatial; i++ {
			sum += float64(grad.Data[base+i])
		}
		weights[c] = sum / float64(spatial)
	}

	// Взвешенная сумма каналов с отсечением отрицательных свидетельств.
	cam := make([]float64, spatial)
	for c := 0; c < act.Channels; c++ {
		w := weights[c]
		base := c * spatial
		for i := 0; i < spatial; i++ {
			cam[i] += w * float64(act.Data[base+i])
		}
	}
	for i := range cam {
		if cam[i] < 0 {
			cam[i] = 0
		}
	}

	normalize(cam)

	resized := resizeBilinear(cam, act.Height, act.Width, l.OutHeight, l.OutWidth)

	// Интерполяция съедает крайние значения, поэтому после масштабирования
	// карта нормируется повторно: минимум ровно 0, максимум ровно 1.
	normalize(resized)

	peakRow, peakCol, peak := argmax2D(resized, l.OutHeight, l.OutWidth)
	return &entity.ActivationMap{
		Height:  l.OutHeight,
		Width:   l.OutWidth,
		Values:  resized,
		PeakRow: peakRow,
		PeakCol: peakCol,
		Peak:    peak,
	}, nil
}

// normalize выполняет min-max нормировку на месте. Для неконстантной карты
// минимум становится ровно 0, максимум ровно 1; константная карта обнуляется
// через эпсилон-защиту от деления на ноль.
func normalize(values []float64) {
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	denom := maxV - minV
	if denom == 0 {
		denom = normEpsilon
	}
	for i, v := range values {
		values[i] = (v - minV) / denom
	}
}

// resizeBilinear увеличивает карту до целевого размера билинейной
// интерполяцией. Готовые библиотеки масштабируют изображения в целочисленных
// каналах, а здесь нужна карта во float без потери точности, поэтому
// интерполяция написана по соседним узлам вручную.
func resizeBilinear(src []float64, srcH, srcW, dstH, dstW int) []float64 {
	if srcH == dstH && srcW == dstW {
		out := make([]float64, len(src))
		copy(out, src)
		return out
	}

	out := make([]float64, dstH*dstW)
	scaleY := float64(srcH) / float64(dstH)
	scaleX := float64(srcW) / float64(dstW)

	for y := 0; y < dstH; y++ {
		srcY := (float64(y)+0.5)*scaleY - 0.5
		if srcY < 0 {
			srcY = 0
		}
		y0 := int(math.Floor(srcY))
		y1 := y0 + 1
		if y1 > srcH-1 {
			y1 = srcH - 1
		}
		fy := srcY - float64(y0)

		for x := 0; x < dstW; x++ {
			srcX := (float64(x)+0.5)*scaleX - 0.5
			if srcX < 0 {
				srcX = 0
			}
			x0 := int(math.Floor(srcX))
			x1 := x0 + 1
			if x1 > srcW-1 {
				x1 = srcW - 1
			}
			fx := srcX - float64(x0)

			top := src[y0*srcW+x0]*(1-fx) + src[y0*srcW+x1]*fx
			bottom := src[y1*srcW+x0]*(1-fx) + src[y1*srcW+x1]*fx
			out[y*dstW+x] = top*(1-fy) + bottom*fy
		}
	}
	return out
}

// argmax2D находит координаты и значение максимума карты.
func argmax2D(values []float64, h, w int) (row, col int, peak float64) {
	peak = values[0]
	for i, v := range values {
		if v > peak {
			peak = v
			row = i / w
			col = i % w
		}
	}
	return row, col, peak
}
