// Package dct implements the naive table-based forward/inverse DCT used by
// QuadMind's block pipeline, plus the pluggable fast-kernel contract that
// the nine fixed-size fast radix-2 routines are assumed to satisfy (those
// nine routines are external collaborators, not implemented here).
package dct

import (
	"math"
	"sync"
)

// Tables holds the precomputed T0, T1 and alpha tables for a single block
// size N. They are immutable after construction and safe
// to share by reference across workers for the lifetime of a compression.
type Tables struct {
	N     int
	T0    []float64 // T0[x*N+y]
	T1    []float64 // T1[y*N+x]
	Alpha []float64 // Alpha[y*N+x]
}

var tableCache sync.Map // map[int]*Tables

// GetTables returns the memoized Tables for block size n, building them on
// first use. Tables are pure functions of n, so caching them once per
// compression (and across compressions) is safe and avoids rebuilding the
// same cosine tables for every block of a given size.
func GetTables(n int) *Tables {
	if v, ok := tableCache.Load(n); ok {
		return v.(*Tables)
	}
	t := buildTables(n)
	actual, _ := tableCache.LoadOrStore(n, t)
	return actual.(*Tables)
}

func buildTables(n int) *Tables {
	t0 := make([]float64, n*n)
	t1 := make([]float64, n*n)
	alpha := make([]float64, n*n)

	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			v := math.Cos(float64(2*y+1) * float64(x) * math.Pi / float64(2*n))
			t0[x*n+y] = v
			t1[y*n+x] = v
		}
	}

	for y := 0; y < n; y++ {
		ay := 1.0
		if y == 0 {
			ay = 1.0 / math.Sqrt2
		}
		for x := 0; x < n; x++ {
			ax := 1.0
			if x == 0 {
				ax = 1.0 / math.Sqrt2
			}
			alpha[y*n+x] = ay * ax
		}
	}

	return &Tables{N: n, T0: t0, T1: t1, Alpha: alpha}
}
