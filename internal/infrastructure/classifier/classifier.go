// Package classifier содержит адаптер предобученного классификатора грудных
// рентгенограмм поверх ONNX Runtime. Модель — DenseNet121 из torchxrayvision,
// экспортированная в ONNX с дополнительными выходами: активациями последнего
// плотного блока и градиентом логита целевого класса по этим активациям.
package classifier

import "diagno-bot/internal/domain/entity"

// Config настройки адаптера классификатора
type Config struct {
	ModelPath string   // Путь к .onnx файлу модели
	OrtDLL    string   // Путь к библиотеке ONNX Runtime (пусто — системная)
	Labels    []string // Метки классов; пусто — стандартные 18 патологий
	InputSize int      // Сторона входа модели (по умолчанию 224)
}

// DefaultLabels метки 18 патологий в родном порядке модели
// densenet121-res224-all из torchxrayvision.
func DefaultLabels() []string {
	return []string{
		"Atelectasis",
		"Consolidation",
		"Infiltration",
		"Pneumothorax",
		"Edema",
		"Emphysema",
		"Fibrosis",
		"Effusion",
		"Pneumonia",
		"Pleural_Thickening",
		"Cardiomegaly",
		"Nodule",
		"Mass",
		"Hernia",
		"Lung Lesion",
		"Fracture",
		"Lung Opacity",
		"Enlarged Cardiomediastinum",
	}
}

// applyDefaults заполняет незаданные поля конфигурации.
func (c *Config) applyDefaults() {
	if len(c.Labels) == 0 {
		c.Labels = DefaultLabels()
	}
	if c.InputSize == 0 {
		c.InputSize = 224
	}
}

// modelInfo собирает статические метаданные модели для отчёта.
func modelInfo(classCount int) entity.ModelInfo {
	return entity.ModelInfo{
		Name:       "DenseNet121 (torchxrayvision)",
		TrainedOn:  "NIH ChestX-ray14 + CheXpert + MIMIC + PadChest",
		ClassCount: classCount,
		XAIMethod:  "Gradient-weighted Class Activation Mapping (Grad-CAM)",
	}
}
