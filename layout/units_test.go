package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		back := pt * PtToMm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

// TestUnitsRoundTrip 验证 mm↔逻辑单位换算。
func TestUnitsRoundTrip(t *testing.T) {
	if got := MMToUnits(25.4); math.Abs(got-96) > 1e-9 {
		t.Fatalf("25.4mm 应为 96 单位，实际 %g", got)
	}
	for _, mm := range []float64{0, 1, A4WidthMM, A4HeightMM} {
		if back := UnitsToMM(MMToUnits(mm)); math.Abs(back-mm) > 1e-9 {
			t.Fatalf("mm→units→mm 往返误差: in=%g back=%g", mm, back)
		}
	}
}
