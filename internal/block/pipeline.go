// Package block implements the per-block JpegSteps pipeline:
// forward DCT, quantize, zig-zag, dequantize, inverse DCT, for a single
// N*N plane block.
//
// Pipeline mirrors a classic tile coder/decoder shape (InitTile,
// ApplyForwardTransform, EncodeCodeBlock) but collapses tile/resolution/
// band/code-block layers into a single per-block unit of work, since
// QuadMind has no wavelet subband hierarchy.
package block

import (
	"github.com/autergame/quadmind/internal/dct"
	"github.com/autergame/quadmind/internal/quant"
)

// Pipeline carries the read-only tables shared across workers for a single
// block size ("must be safely shared across workers when
// tables are read-only"). A Pipeline has no per-block mutable state; call
// sites create a Scratch per task.
type Pipeline struct {
	N      int
	Tables *dct.Tables
	ZigZag *quant.ZigZag
	Fast   bool
}

// New builds a Pipeline for block size n. The DCT and zig-zag tables are
// memoized process-wide (see internal/dct, internal/quant), so building
// many Pipelines for the same n is cheap.
func New(n int, fast bool) *Pipeline {
	return &Pipeline{
		N:      n,
		Tables: dct.GetTables(n),
		ZigZag: quant.GetZigZag(n),
		Fast:   fast,
	}
}

// Scratch holds the per-task temporary buffers for one block's worth of
// work ("per-block scratch (N^2 floats) is allocated per task").
type Scratch struct {
	shifted  []float64
	coeffs   []float64
	quantInt []int32
	dequant  []float64
	recon    []float64
}

// NewScratch allocates a Scratch sized for block size n.
func NewScratch(n int) *Scratch {
	n2 := n * n
	return &Scratch{
		shifted:  make([]float64, n2),
		coeffs:   make([]float64, n2),
		quantInt: make([]int32, n2),
		dequant:  make([]float64, n2),
		recon:    make([]float64, n2),
	}
}

// Result is the outcome of running Run on one block: the reconstructed
// pixel values (for visualization) and, if requested, the zig-zag ordered
// quantized coefficients (for the codestream).
type Result struct {
	Recon  []float64 // N*N reconstructed, pre-clamp/offset values
	ZigZag []int32   // N*N zig-zag ordered, nil unless captured
}

// Run executes the full six-step pipeline of on one N*N block
// of byte samples read from plane at (startX, startY) with stride rowStride,
// using q as the quantization matrix for this plane, writing the
// reconstructed (post-IDCT, pre-clamp) samples into s.recon and, if
// captureZigZag is true, the zig-zag ordered coefficients into the
// returned Result.
func (p *Pipeline) Run(plane []byte, rowStride, startX, startY int, q *quant.Matrix, s *Scratch, captureZigZag bool) Result {
	n := p.N

	// Step 1: load and level-shift.
	for y := 0; y < n; y++ {
		srcRow := (startY+y)*rowStride + startX
		for x := 0; x < n; x++ {
			s.shifted[y*n+x] = float64(plane[srcRow+x]) - 128
		}
	}

	// Step 2: forward DCT.
	if p.Fast {
		dct.FastForward(n, s.shifted, s.coeffs)
	} else {
		dct.Forward(p.Tables, s.shifted, s.coeffs)
	}

	// Step 3: quantize.
	quant.Quantize(s.coeffs, q, s.quantInt)

	var zz []int32
	if captureZigZag {
		zz = make([]int32, n*n)
		p.ZigZag.Forward(s.quantInt, zz)
	}

	// Step 5: dequantize.
	quant.Dequantize(s.quantInt, q, s.dequant)

	// Step 6: inverse DCT.
	if p.Fast {
		dct.FastInverse(n, s.dequant, s.recon)
	} else {
		dct.Inverse(p.Tables, s.dequant, s.recon)
	}

	return Result{Recon: s.recon, ZigZag: zz}
}

// WriteBack adds 128 to each reconstructed sample, clamps to [0,255], and
// writes the result into plane at (startX, startY) step 6.
func WriteBack(recon []float64, n int, plane []byte, rowStride, startX, startY int) {
	for y := 0; y < n; y++ {
		dstRow := (startY+y)*rowStride + startX
		for x := 0; x < n; x++ {
			v := recon[y*n+x] + 128
			plane[dstRow+x] = clampByte(v)
		}
	}
}

func clampByte(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v + 0.5)
}

// RunWithColumnQuality behaves like Run, but derives the quantization
// matrix from a per-column "compression rate" ramp instead of a single
// constant-quality matrix: column x of the block is scaled using the
// quality for absolute column startX+x, so the ramp varies continuously
// within the block, not just from block to block. base is the unscaled
// (pre-quality) matrix for this plane; qstart and mw parameterize the
// ramp; genTable selects the quality->factor regime.
func (p *Pipeline) RunWithColumnQuality(plane []byte, rowStride, startX, startY int, base *quant.Matrix, qstart, mw int, genTable bool, s *Scratch, captureZigZag bool) Result {
	q := base.ScaleForColumnRamp(startX, mw, qstart, genTable)
	return p.Run(plane, rowStride, startX, startY, q, s, captureZigZag)
}
