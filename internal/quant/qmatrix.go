// Package quant implements quantization-matrix synthesis and scaling,
// scalar quantize/dequantize, and zig-zag ordering for the QuadMind block
// pipeline.
package quant

// Base 8x8 luma and chroma quantization tables, the two JPEG-style base
// tables tiled to build matrices for other block sizes.
var (
	BaseLuma = [64]float64{
		16, 11, 10, 16, 24, 40, 51, 61,
		12, 12, 14, 19, 26, 58, 60, 55,
		14, 13, 16, 24, 40, 57, 69, 56,
		14, 17, 22, 29, 51, 87, 80, 62,
		18, 22, 37, 56, 68, 109, 103, 77,
		24, 35, 55, 64, 81, 104, 113, 92,
		49, 64, 78, 87, 103, 121, 120, 101,
		72, 92, 95, 98, 112, 100, 103, 99,
	}

	BaseChroma = [64]float64{
		17, 18, 24, 47, 99, 99, 99, 99,
		18, 21, 26, 66, 99, 99, 99, 99,
		24, 26, 56, 99, 99, 99, 99, 99,
		47, 66, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
	}
)

// Matrix is a dense N*N quantization matrix (row-major, m[y*N+x]).
type Matrix struct {
	N int
	M []float64
}

// BuildMatrix synthesizes an N*N quantization matrix. When
// genTable is true, the "generated" mode is used: m[y,x] = x+y+1. When
// false, the matrix is tiled from an 8x8 base table via (y mod 8, x mod 8).
func BuildMatrix(n int, base *[64]float64, genTable bool) *Matrix {
	m := make([]float64, n*n)
	if genTable {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				m[y*n+x] = float64(x + y + 1)
			}
		}
	} else {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				m[y*n+x] = base[(y%8)*8+(x%8)]
			}
		}
	}
	return &Matrix{N: n, M: m}
}

// QualityFactor maps a quality value (1-100) to the scaling factor f used
// by Scale. genTable selects the regime:
//   - true:  Q>=50 -> f = 200-2Q; else f = 5000/Q
//   - false: f = 25*(101-Q)*0.01
func QualityFactor(quality int, genTable bool) float64 {
	q := float64(quality)
	if genTable {
		if quality >= 50 {
			return 200 - 2*q
		}
		return 5000 / q
	}
	return 25 * (101 - q) * 0.01
}

// Scale returns a new matrix with q' = max(1, (q*f+50)/100) applied
// elementwise.
func (m *Matrix) Scale(factor float64) *Matrix {
	out := make([]float64, len(m.M))
	for i, q := range m.M {
		v := (q*factor + 50) / 100
		if v < 1 {
			v = 1
		}
		out[i] = v
	}
	return &Matrix{N: m.N, M: out}
}

// ScaleForQuality is a convenience wrapper combining QualityFactor and
// Scale for a single quality value.
func (m *Matrix) ScaleForQuality(quality int, genTable bool) *Matrix {
	return m.Scale(QualityFactor(quality, genTable))
}

// ScaleForColumnRamp returns a new matrix where each column x is scaled by
// the quality factor for absolute column startX+x, rather than one factor
// for the whole matrix. This gives the per-column compression-rate ramp
// continuous variation within a single block, not just block-to-block.
func (m *Matrix) ScaleForColumnRamp(startX, mw, qstart int, genTable bool) *Matrix {
	n := m.N
	factors := make([]float64, n)
	for x := 0; x < n; x++ {
		factors[x] = QualityFactor(PerColumnQuality(startX+x, mw, qstart), genTable)
	}
	out := make([]float64, len(m.M))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			i := y*n + x
			v := (m.M[i]*factors[x] + 50) / 100
			if v < 1 {
				v = 1
			}
			out[i] = v
		}
	}
	return &Matrix{N: n, M: out}
}
