package app

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"diagno-bot/internal/domain/entity"
)

// captureFor строит захват 1×H×W с единичными градиентами: карта повторяет
// сами активации.
func captureFor(h, w int, activations []float64) *entity.GradCAMCapture {
	act := make([]float32, h*w)
	grad := make([]float32, h*w)
	for i, v := range activations {
		act[i] = float32(v)
		grad[i] = 1.0
	}
	return &entity.GradCAMCapture{
		Activations: entity.FeatureMap{Channels: 1, Height: h, Width: w, Data: act},
		Gradients:   entity.FeatureMap{Channels: 1, Height: h, Width: w, Data: grad},
	}
}

func TestLocalizer_NormalizationBounds(t *testing.T) {
	l := NewActivationLocalizer()

	capture := captureFor(7, 7, ramp(49))
	cam, err := l.Localize(capture)
	require.NoError(t, err)
	require.Equal(t, 224, cam.Height)
	require.Equal(t, 224, cam.Width)
	require.Len(t, cam.Values, 224*224)

	minV, maxV := cam.Values[0], cam.Values[0]
	for _, v := range cam.Values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	require.Equal(t, 0.0, minV)
	require.Equal(t, 1.0, maxV)
	require.Equal(t, 1.0, cam.Peak)
}

func TestLocalizer_ConstantMapIsFinite(t *testing.T) {
	l := NewActivationLocalizer()

	values := make([]float64, 49)
	for i := range values {
		values[i] = 3.5
	}
	cam, err := l.Localize(captureFor(7, 7, values))
	require.NoError(t, err)
	for _, v := range cam.Values {
		require.False(t, math.IsNaN(v))
		require.False(t, math.IsInf(v, 0))
	}
}

func TestLocalizer_PeakFollowsActivation(t *testing.T) {
	l := &ActivationLocalizer{OutHeight: 8, OutWidth: 8}

	values := make([]float64, 64)
	values[3*8+5] = 9.0 // максимум в (3,5)
	cam, err := l.Localize(captureFor(8, 8, values))
	require.NoError(t, err)
	require.Equal(t, 3, cam.PeakRow)
	require.Equal(t, 5, cam.PeakCol)
	require.Equal(t, 1.0, cam.Peak)
}

func TestLocalizer_NegativeEvidenceIsClipped(t *testing.T) {
	l := &ActivationLocalizer{OutHeight: 4, OutWidth: 4}

	// Отрицательный вес канала инвертирует вклад; после ReLU и нормировки
	// максимум оказывается там, где взвешенная сумма была наибольшей.
	act := []float32{
		1, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 2,
	}
	grad := []float32{
		-1, -1, -1, -1,
		-1, -1, -1, -1,
		-1, -1, -1, -1,
		-1, -1, -1, -1,
	}
	capture := &entity.GradCAMCapture{
		Activations: entity.FeatureMap{Channels: 1, Height: 4, Width: 4, Data: act},
		Gradients:   entity.FeatureMap{Channels: 1, Height: 4, Width: 4, Data: grad},
	}

	cam, err := l.Localize(capture)
	require.NoError(t, err)
	// Вся положительная часть срезана в ноль: карта константная и конечная.
	for _, v := range cam.Values {
		require.False(t, math.IsNaN(v))
	}
}

func TestLocalizer_EmptyCapture(t *testing.T) {
	l := NewActivationLocalizer()

	_, err := l.Localize(nil)
	require.ErrorIs(t, err, ErrEmptyCapture)

	_, err = l.Localize(&entity.GradCAMCapture{})
	require.ErrorIs(t, err, ErrEmptyCapture)
}

func TestLocalizer_ShapeMismatch(t *testing.T) {
	l := NewActivationLocalizer()

	capture := &entity.GradCAMCapture{
		Activations: entity.FeatureMap{Channels: 1, Height: 2, Width: 2, Data: make([]float32, 4)},
		Gradients:   entity.FeatureMap{Channels: 1, Height: 3, Width: 3, Data: make([]float32, 9)},
	}
	_, err := l.Localize(capture)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrEmptyCapture)
}

func TestLocalizer_ConcurrentCallsDoNotInterfere(t *testing.T) {
	l := &ActivationLocalizer{OutHeight: 16, OutWidth: 16}

	left := make([]float64, 256)
	left[16*2+2] = 5.0
	right := make([]float64, 256)
	right[16*13+13] = 5.0

	refLeft, err := l.Localize(captureFor(16, 16, left))
	require.NoError(t, err)
	refRight, err := l.Localize(captureFor(16, 16, right))
	require.NoError(t, err)

	const rounds = 50
	leftCams := make([]*entity.ActivationMap, rounds)
	rightCams := make([]*entity.ActivationMap, rounds)

	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			leftCams[i], _ = l.Localize(captureFor(16, 16, left))
		}(i)
		go func(i int) {
			defer wg.Done()
			rightCams[i], _ = l.Localize(captureFor(16, 16, right))
		}(i)
	}
	wg.Wait()

	for i := 0; i < rounds; i++ {
		require.NotNil(t, leftCams[i])
		require.Equal(t, refLeft.PeakRow, leftCams[i].PeakRow)
		require.Equal(t, refLeft.PeakCol, leftCams[i].PeakCol)
		require.NotNil(t, rightCams[i])
		require.Equal(t, refRight.PeakRow, rightCams[i].PeakRow)
		require.Equal(t, refRight.PeakCol, rightCams[i].PeakCol)
	}
}

// ramp возвращает монотонно растущие значения 0..n-1.
func ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}
