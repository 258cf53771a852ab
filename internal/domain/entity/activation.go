package entity

// FeatureMap хранит тензор последнего свёрточного блока (C×H×W, плоский срез).
type FeatureMap struct {
	Channels int
	Height   int
	Width    int
	Data     []float32 // длина Channels*Height*Width, порядок CHW
}

// At возвращает значение канала c в точке (y, x).
func (f FeatureMap) At(c, y, x int) float32 {
	return f.Data[(c*f.Height+y)*f.Width+x]
}

// Size возвращает ожидаемую длину среза данных.
func (f FeatureMap) Size() int {
	return f.Channels * f.Height * f.Width
}

// GradCAMCapture содержит активации и градиенты одного прямого+обратного прохода.
// Пара всегда принадлежит ровно одному вызову классификатора: захват возвращается
// из вызова напрямую и нигде не хранится между запросами.
type GradCAMCapture struct {
	Activations FeatureMap // активации последнего блока
	Gradients   FeatureMap // градиент логита целевого класса по активациям
}

// ActivationMap нормированная карта свидетельств Grad-CAM
type ActivationMap struct {
	Height  int
	Width   int
	Values  []float64 // значения [0,1], построчно
	PeakRow int       // строка максимума
	PeakCol int       // столбец максимума
	Peak    float64   // значение в максимуме
}

// ValueAt возвращает значение карты в точке (y, x).
func (m ActivationMap) ValueAt(y, x int) float64 {
	return m.Values[y*m.Width+x]
}
