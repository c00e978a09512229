package quant

import "sync"

// ZigZag is the row-major-index -> zig-zag-position permutation table for a
// given block size N
type ZigZag struct {
	N int
	Z []int // Z[rowMajorIndex] = zigZagPosition
}

var zigzagCache sync.Map // map[int]*ZigZag

// GetZigZag returns the memoized zig-zag table for block size n, building
// it on first use by walking anti-diagonals and reversing direction on odd
// diagonals.
func GetZigZag(n int) *ZigZag {
	if v, ok := zigzagCache.Load(n); ok {
		return v.(*ZigZag)
	}
	z := buildZigZag(n)
	actual, _ := zigzagCache.LoadOrStore(n, z)
	return actual.(*ZigZag)
}

func buildZigZag(n int) *ZigZag {
	z := make([]int, n*n)
	pos := 0
	for d := 0; d < 2*n-1; d++ {
		if d%2 == 0 {
			// Even diagonal: walk from bottom-left to top-right (y decreasing).
			y := d
			x := 0
			if y > n-1 {
				y = n - 1
				x = d - y
			}
			for y >= 0 && x < n {
				z[y*n+x] = pos
				pos++
				y--
				x++
			}
		} else {
			// Odd diagonal: walk from top-right to bottom-left (y increasing).
			x := d
			y := 0
			if x > n-1 {
				x = n - 1
				y = d - x
			}
			for x >= 0 && y < n {
				z[y*n+x] = pos
				pos++
				x--
				y++
			}
		}
	}
	return &ZigZag{N: n, Z: z}
}

// Forward stores out[z.Z[i]] = f[i] for each i, zig-zag ordering the
// already-quantized integer matrix into an int32 buffer
func (z *ZigZag) Forward(f []int32, out []int32) {
	for i, v := range f {
		out[z.Z[i]] = v
	}
}

// Inverse stores f[i] = in[z.Z[i]] for each i, the inverse zig-zag mapping.
func (z *ZigZag) Inverse(in []int32, f []int32) {
	for i := range f {
		f[i] = in[z.Z[i]]
	}
}
