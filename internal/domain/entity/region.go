package entity

import "fmt"

// RegionNoFocal метка региона для нормального снимка.
const RegionNoFocal = "Bilateral / No focal abnormality"

// RegionDefault регион по умолчанию, если локализация не удалась.
const RegionDefault = "Bilateral / Central"

// MapLungRegion переводит пиксель пика тепловой карты в название зоны лёгких.
// Вертикаль: верхняя треть, средняя треть, нижняя; горизонталь: левая (<0.40),
// правая (>0.60), иначе центральная. Функция детерминированная и без побочных
// эффектов.
func MapLungRegion(peakRow, peakCol, imageH, imageW int) string {
	yNorm := float64(peakRow) / float64(imageH)
	xNorm := float64(peakCol) / float64(imageW)

	var zoneV string
	switch {
	case yNorm < 0.33:
		zoneV = "Upper"
	case yNorm < 0.66:
		zoneV = "Middle"
	default:
		zoneV = "Lower"
	}

	var zoneH string
	switch {
	case xNorm < 0.40:
		zoneH = "Left"
	case xNorm > 0.60:
		zoneH = "Right"
	default:
		zoneH = "Bilateral / Central"
	}

	if zoneH == "Bilateral / Central" {
		return fmt.Sprintf("Bilateral / Central %s Zone", zoneV)
	}
	return fmt.Sprintf("%s %s Lobe", zoneH, zoneV)
}
