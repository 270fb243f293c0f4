package layout

// Unit conversions. Logical units are CSS pixels (96 per inch); physical
// page sizes are given in millimetres.

const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm

	// UnitsPerMM converts millimetres to logical units.
	UnitsPerMM = 96.0 / 25.4
)

// A4 page size in millimetres.
const (
	A4WidthMM  = 210.0
	A4HeightMM = 297.0
)

// MMToUnits converts millimetres to logical units.
func MMToUnits(mm float64) float64 { return mm * UnitsPerMM }

// UnitsToMM converts logical units to millimetres.
func UnitsToMM(u float64) float64 { return u / UnitsPerMM }
