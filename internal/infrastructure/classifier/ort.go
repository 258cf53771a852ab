//go:build ort
// +build ort

package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"diagno-bot/internal/domain/entity"
	"diagno-bot/internal/domain/port"
)

// Имена входов и выходов экспортированного графа.
const (
	inputName       = "input"       // [1,1,H,W] float32
	targetName      = "target"      // [1] int64, индекс целевого класса
	logitsName      = "logits"      // [1,N] float32
	activationsName = "activations" // [1,C,h,w] float32, последний плотный блок
	gradientsName   = "gradients"   // [1,C,h,w] float32, d(logit[target])/d(activations)
)

// ortInit среда ONNX Runtime инициализируется один раз на процесс.
var (
	ortInit    sync.Once
	ortInitErr error
)

// ORTClassifier классификатор поверх ONNX Runtime
type ORTClassifier struct {
	session   *ort.DynamicAdvancedSession
	labels    []string
	inputSize int
}

// NewORTClassifier загружает модель. Загрузка дорогая и выполняется один раз
// при старте процесса; недоступная модель — фатальная ошибка запуска.
func NewORTClassifier(cfg Config) (*ORTClassifier, error) {
	cfg.applyDefaults()
	if cfg.ModelPath == "" {
		return nil, errors.New("model path is required")
	}

	ortInit.Do(func() {
		if cfg.OrtDLL != "" {
			ort.SetSharedLibraryPath(cfg.OrtDLL)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	if ortInitErr != nil {
		return nil, fmt.Errorf("initialize onnxruntime: %w", ortInitErr)
	}

	session, err := ort.NewDynamicAdvancedSession(
		cfg.ModelPath,
		[]string{inputName, targetName},
		[]string{logitsName, activationsName, gradientsName},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", cfg.ModelPath, err)
	}

	return &ORTClassifier{
		session:   session,
		labels:    cfg.Labels,
		inputSize: cfg.InputSize,
	}, nil
}

// Close освобождает сессию ONNX Runtime.
func (c *ORTClassifier) Close() error {
	if c.session != nil {
		return c.session.Destroy()
	}
	return nil
}

// Labels возвращает метки классов в родном порядке модели.
func (c *ORTClassifier) Labels() []string {
	return c.labels
}

// ModelInfo возвращает статические метаданные модели.
func (c *ORTClassifier) ModelInfo() entity.ModelInfo {
	return modelInfo(len(c.labels))
}

// Scores выполняет прямой проход и возвращает сигмоидные вероятности.
func (c *ORTClassifier) Scores(ctx context.Context, input *port.InputTensor) ([]float64, error) {
	logits, _, err := c.run(ctx, input, 0)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, len(logits))
	for i, v := range logits {
		scores[i] = sigmoid(float64(v))
	}
	if len(scores) != len(c.labels) {
		return nil, fmt.Errorf("model returned %d scores for %d labels", len(scores), len(c.labels))
	}
	return scores, nil
}

// CaptureGradCAM выполняет проход для целевого класса и возвращает свежую
// пару активации+градиенты. Захват копируется из выходных тензоров сессии,
// поэтому параллельные вызовы не делят изменяемое состояние.
func (c *ORTClassifier) CaptureGradCAM(ctx context.Context, input *port.InputTensor, classIdx int) (*entity.GradCAMCapture, error) {
	if classIdx < 0 || classIdx >= len(c.labels) {
		return nil, fmt.Errorf("class index %d is out of range", classIdx)
	}
	_, capture, err := c.run(ctx, input, classIdx)
	if err != nil {
		return nil, err
	}
	if capture == nil {
		return nil, errors.New("model did not produce grad-cam outputs")
	}
	return capture, nil
}

// run выполняет один проход графа и копирует все выходы.
func (c *ORTClassifier) run(ctx context.Context, input *port.InputTensor, classIdx int) ([]float32, *entity.GradCAMCapture, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if input == nil || len(input.Data) != input.Height*input.Width {
		return nil, nil, errors.New("invalid input tensor")
	}
	if input.Height != c.inputSize || input.Width != c.inputSize {
		return nil, nil, fmt.Errorf("input must be %dx%d, got %dx%d", c.inputSize, c.inputSize, input.Height, input.Width)
	}

	inShape := ort.NewShape(1, 1, int64(input.Height), int64(input.Width))
	inTensor, err := ort.NewTensor(inShape, input.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer inTensor.Destroy()

	targetTensor, err := ort.NewTensor(ort.NewShape(1), []int64{int64(classIdx)})
	if err != nil {
		return nil, nil, fmt.Errorf("create target tensor: %w", err)
	}
	defer targetTensor.Destroy()

	outputs := make([]ort.Value, 3)
	if err := c.session.Run([]ort.Value{inTensor, targetTensor}, outputs); err != nil {
		return nil, nil, fmt.Errorf("run model: %w", err)
	}
	defer func() {
		for _, out := range outputs {
			if out != nil {
				out.Destroy()
			}
		}
	}()

	logits, _, err := tensorData(outputs[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read logits: %w", err)
	}

	actData, actShape, err := tensorData(outputs[1])
	if err != nil {
		return nil, nil, fmt.Errorf("read activations: %w", err)
	}
	gradData, gradShape, err := tensorData(outputs[2])
	if err != nil {
		return nil, nil, fmt.Errorf("read gradients: %w", err)
	}

	act, err := featureMap(actData, actShape)
	if err != nil {
		return nil, nil, fmt.Errorf("activations: %w", err)
	}
	grad, err := featureMap(gradData, gradShape)
	if err != nil {
		return nil, nil, fmt.Errorf("gradients: %w", err)
	}

	return logits, &entity.GradCAMCapture{Activations: act, Gradients: grad}, nil
}

// tensorData копирует данные float32-тензора вместе с формой.
func tensorData(v ort.Value) ([]float32, []int64, error) {
	t, ok := v.(*ort.Tensor[float32])
	if !ok {
		return nil, nil, errors.New("output is not a float32 tensor")
	}
	src := t.GetData()
	out := make([]float32, len(src))
	copy(out, src)
	return out, t.GetShape(), nil
}

// featureMap превращает выход [1,C,h,w] в FeatureMap.
func featureMap(data []float32, shape []int64) (entity.FeatureMap, error) {
	if len(shape) != 4 || shape[0] != 1 {
		return entity.FeatureMap{}, fmt.Errorf("unexpected shape %v", shape)
	}
	fm := entity.FeatureMap{
		Channels: int(shape[1]),
		Height:   int(shape[2]),
		Width:    int(shape[3]),
		Data:     data,
	}
	if len(data) != fm.Size() {
		return entity.FeatureMap{}, fmt.Errorf("data length %d does not match shape %v", len(data), shape)
	}
	return fm, nil
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// Проверка реализации интерфейса
var _ port.Classifier = (*ORTClassifier)(nil)
