package dct

// Forward computes the naive, non-separable forward DCT-II of an N*N block
// (row-major, block[y*N+x]) into dst:
//
//	F[v,u] = Alpha[v,u] * (2/N) * sum_y sum_x block[y,x]*T0[u*N+x]*T0[v*N+y]
//
// The summation order (x innermost, y outer, u outer to v) is fixed so
// results are bit-reproducible across callers; separability is deliberately
// not exploited here (the fast path is where that optimization lives).
func Forward(t *Tables, block, dst []float64) {
	n := t.N
	scale := 2.0 / float64(n)
	for v := 0; v < n; v++ {
		for u := 0; u < n; u++ {
			sum := 0.0
			for y := 0; y < n; y++ {
				rowSum := 0.0
				for x := 0; x < n; x++ {
					rowSum += block[y*n+x] * t.T0[u*n+x]
				}
				sum += rowSum * t.T0[v*n+y]
			}
			dst[v*n+u] = t.Alpha[v*n+u] * scale * sum
		}
	}
}

// Inverse computes the naive inverse DCT-II (IDCT) of an N*N coefficient
// block F into dst:
//
//	block[y,x] = (2/N) * sum_v sum_u Alpha[v,u]*F[v,u]*T1[x*N+u]*T1[y*N+v]
func Inverse(t *Tables, f, dst []float64) {
	n := t.N
	scale := 2.0 / float64(n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			sum := 0.0
			for v := 0; v < n; v++ {
				rowSum := 0.0
				for u := 0; u < n; u++ {
					rowSum += t.Alpha[v*n+u] * f[v*n+u] * t.T1[x*n+u]
				}
				sum += rowSum * t.T1[y*n+v]
			}
			dst[y*n+x] = scale * sum
		}
	}
}
