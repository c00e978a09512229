package dct

import (
	"math"
	"sync"
)

// Sizes lists the nine block sizes QuadMind accepts.
var Sizes = [9]int{2, 4, 8, 16, 32, 64, 128, 256, 512}

// BlockSizeIndex returns log2(n)-1, the dispatch index used to select a
// fast-kernel implementation for block size n. Returns
// -1 if n is not one of the nine accepted sizes.
func BlockSizeIndex(n int) int {
	for i, s := range Sizes {
		if s == n {
			return i
		}
	}
	return -1
}

// Kernel is the contract the nine fixed-size fast DCT routines must satisfy.
// Forward/Inverse operate on a flat N*N row-major block of signed,
// pre-offset values (roughly [-128,127] before Forward, and the caller adds
// 128 and clamps after Inverse).
//
// The actual fast radix-2 implementations are out of scope here: callers
// that have access to real hardware- or assembly-optimized kernels register
// them via RegisterKernel, which overrides the default (a mathematically
// equivalent row/column-separable DCT-II, not radix-2 butterfly optimized)
// for one block size index.
type Kernel struct {
	Forward func(block, dst []float64)
	Inverse func(f, dst []float64)
}

var (
	kernelMu sync.RWMutex
	kernels  [9]*Kernel
)

// RegisterKernel installs a fast-kernel implementation for block size n,
// replacing the default separable fallback. n must be one of Sizes.
func RegisterKernel(n int, k *Kernel) {
	idx := BlockSizeIndex(n)
	if idx < 0 {
		return
	}
	kernelMu.Lock()
	kernels[idx] = k
	kernelMu.Unlock()
}

// FastForward runs the registered (or default separable) fast forward DCT
// for block size n.
func FastForward(n int, block, dst []float64) {
	idx := BlockSizeIndex(n)
	kernelMu.RLock()
	k := kernels[idx]
	kernelMu.RUnlock()
	if k != nil {
		k.Forward(block, dst)
		return
	}
	separableForward(n, block, dst)
}

// FastInverse runs the registered (or default separable) fast inverse DCT
// for block size n.
func FastInverse(n int, f, dst []float64) {
	idx := BlockSizeIndex(n)
	kernelMu.RLock()
	k := kernels[idx]
	kernelMu.RUnlock()
	if k != nil {
		k.Inverse(f, dst)
		return
	}
	separableInverse(n, f, dst)
}

// separableForward computes the same DCT-II as Forward but exploits
// separability (1D DCT over rows, then over columns), which is the
// standard fast-path reduction from O(N^4) to O(N^3) multiplications that
// the nine real fixed-size kernels further optimize with radix-2
// butterflies. Used as the default when no hardware kernel is registered
// for a given size.
func separableForward(n int, block, dst []float64) {
	tmp := make([]float64, n*n)
	row := make([]float64, n)
	out := make([]float64, n)

	// Rows
	for y := 0; y < n; y++ {
		copy(row, block[y*n:(y+1)*n])
		dct1D(row, out)
		copy(tmp[y*n:(y+1)*n], out)
	}

	// Columns
	col := make([]float64, n)
	outCol := make([]float64, n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			col[y] = tmp[y*n+x]
		}
		dct1D(col, outCol)
		for y := 0; y < n; y++ {
			dst[y*n+x] = outCol[y]
		}
	}
}

func separableInverse(n int, f, dst []float64) {
	tmp := make([]float64, n*n)
	col := make([]float64, n)
	outCol := make([]float64, n)

	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			col[y] = f[y*n+x]
		}
		idct1D(col, outCol)
		for y := 0; y < n; y++ {
			tmp[y*n+x] = outCol[y]
		}
	}

	row := make([]float64, n)
	out := make([]float64, n)
	for y := 0; y < n; y++ {
		copy(row, tmp[y*n:(y+1)*n])
		idct1D(row, out)
		copy(dst[y*n:(y+1)*n], out)
	}
}

// dct1D computes a 1D, orthonormalized DCT-II of length n.
func dct1D(in, out []float64) {
	n := len(in)
	scale := math.Sqrt(2.0 / float64(n))
	for u := 0; u < n; u++ {
		sum := 0.0
		for x := 0; x < n; x++ {
			sum += in[x] * math.Cos(float64(2*x+1)*float64(u)*math.Pi/float64(2*n))
		}
		a := 1.0
		if u == 0 {
			a = 1.0 / math.Sqrt2
		}
		out[u] = scale * a * sum
	}
}

// idct1D computes the matching 1D inverse DCT-II.
func idct1D(in, out []float64) {
	n := len(in)
	scale := math.Sqrt(2.0 / float64(n))
	for x := 0; x < n; x++ {
		sum := 0.0
		for u := 0; u < n; u++ {
			a := 1.0
			if u == 0 {
				a = 1.0 / math.Sqrt2
			}
			sum += a * in[u] * math.Cos(float64(2*x+1)*float64(u)*math.Pi/float64(2*n))
		}
		out[x] = scale * sum
	}
}
