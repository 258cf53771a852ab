package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapLungRegionCorners(t *testing.T) {
	require.Equal(t, "Left Upper Lobe", MapLungRegion(0, 0, 224, 224))
	require.Equal(t, "Right Lower Lobe", MapLungRegion(223, 223, 224, 224))
}

func TestMapLungRegionCenter(t *testing.T) {
	// x=0.5 попадает в центральную полосу [0.40, 0.60]
	require.Equal(t, "Bilateral / Central Middle Zone", MapLungRegion(112, 112, 224, 224))
}

func TestMapLungRegionVerticalBoundary(t *testing.T) {
	// y≈0.6607: граница 0.66 не проходит условие "< 0.66" — зона Lower
	require.Equal(t, "Bilateral / Central Lower Zone", MapLungRegion(148, 112, 224, 224))

	// Ровно на границе трети: 0.33 не меньше 0.33 — зона Middle
	require.Equal(t, "Bilateral / Central Middle Zone", MapLungRegion(33, 50, 100, 100))
	require.Equal(t, "Bilateral / Central Lower Zone", MapLungRegion(66, 50, 100, 100))
}

func TestMapLungRegionHorizontalBoundary(t *testing.T) {
	// x=0.40 не меньше 0.40 — центральная полоса; x=0.60 не больше 0.60 — тоже
	require.Equal(t, "Bilateral / Central Upper Zone", MapLungRegion(0, 40, 100, 100))
	require.Equal(t, "Bilateral / Central Upper Zone", MapLungRegion(0, 60, 100, 100))
	require.Equal(t, "Left Upper Lobe", MapLungRegion(0, 39, 100, 100))
	require.Equal(t, "Right Upper Lobe", MapLungRegion(0, 61, 100, 100))
}
