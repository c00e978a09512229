package quant

import "math"

// Quantize computes F'[i] = round(F[i] / q'[i]) into dst (an int32 buffer),
//
func Quantize(f []float64, q *Matrix, dst []int32) {
	for i, v := range f {
		step := q.M[i]
		dst[i] = int32(math.Round(v / step))
	}
}

// Dequantize computes F[i] = F'[i] * q'[i] into dst
func Dequantize(fq []int32, q *Matrix, dst []float64) {
	for i, v := range fq {
		dst[i] = float64(v) * q.M[i]
	}
}

// PerColumnQuality returns the quality value used for column x out of a
// padded width mw, ramping from qstart to 100:
//
//	quality(x) = qstart + (x/mw)*(100-qstart)
//
// The ramp is continuous across the whole image, not block-local, so
// callers must pass the block's absolute column (start_x + local x).
func PerColumnQuality(absoluteX, mw, qstart int) int {
	q := float64(qstart) + (float64(absoluteX)/float64(mw))*float64(100-qstart)
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	return int(math.Round(q))
}
