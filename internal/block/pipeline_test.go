package block

import (
	"testing"

	"github.com/autergame/quadmind/internal/quant"
)

func TestPipelineUniformBlock(t *testing.T) {
	n := 8
	p := New(n, false)
	s := NewScratch(n)

	plane := make([]byte, n*n)
	for i := range plane {
		plane[i] = 128
	}

	q := quant.BuildMatrix(n, &quant.BaseLuma, false).ScaleForQuality(90, false)
	res := p.Run(plane, n, 0, 0, q, s, true)

	out := make([]byte, n*n)
	WriteBack(res.Recon, n, out, n, 0, 0)

	for i, v := range out {
		if diff := int(v) - 128; diff < -1 || diff > 1 {
			t.Errorf("pixel %d = %d, want ~128", i, v)
		}
	}
}

func TestPipelineCapturesZigZag(t *testing.T) {
	n := 4
	p := New(n, false)
	s := NewScratch(n)
	plane := make([]byte, n*n)
	for i := range plane {
		plane[i] = byte(i * 16)
	}
	q := quant.BuildMatrix(n, &quant.BaseLuma, false).ScaleForQuality(50, false)

	withZZ := p.Run(plane, n, 0, 0, q, s, true)
	if len(withZZ.ZigZag) != n*n {
		t.Fatalf("expected zig-zag vector of length %d, got %d", n*n, len(withZZ.ZigZag))
	}

	withoutZZ := p.Run(plane, n, 0, 0, q, s, false)
	if withoutZZ.ZigZag != nil {
		t.Fatalf("expected nil zig-zag vector when not requested")
	}
}

func TestRunWithColumnQualityVariesWithinBlock(t *testing.T) {
	n := 32
	mw := n * 4
	qstart := 1

	base := quant.BuildMatrix(n, &quant.BaseLuma, false)
	ramped := base.ScaleForColumnRamp(0, mw, qstart, false)

	leftStep := ramped.M[0]
	rightStep := ramped.M[n-1]
	if leftStep == rightStep {
		t.Fatalf("expected quantization step to differ across columns of one block, got %v == %v", leftStep, rightStep)
	}

	leftQuality := quant.PerColumnQuality(0, mw, qstart)
	rightQuality := quant.PerColumnQuality(n-1, mw, qstart)
	if leftQuality == rightQuality {
		t.Fatalf("test setup invalid: expected different per-column quality at the block's two edges")
	}
}

func TestRunWithColumnQualityMatchesPerColumnScale(t *testing.T) {
	n := 16
	mw := n * 8
	plane := make([]byte, mw*n)
	for i := range plane {
		plane[i] = byte(i % 256)
	}

	base := quant.BuildMatrix(n, &quant.BaseLuma, false)
	startX := n * 3
	qstart := 10

	p := New(n, false)
	sA := NewScratch(n)
	sB := NewScratch(n)

	got := p.RunWithColumnQuality(plane, mw, startX, 0, base, qstart, mw, false, sA, true)

	want := base.ScaleForColumnRamp(startX, mw, qstart, false)
	wantRes := p.Run(plane, mw, startX, 0, want, sB, true)

	for i := range got.ZigZag {
		if got.ZigZag[i] != wantRes.ZigZag[i] {
			t.Fatalf("coefficient %d = %d, want %d", i, got.ZigZag[i], wantRes.ZigZag[i])
		}
	}
}

func TestPipelineFastMatchesNaiveOnEdge(t *testing.T) {
	n := 8
	mkPlane := func() []byte {
		plane := make([]byte, n*n)
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				if x < n/2 {
					plane[y*n+x] = 0
				} else {
					plane[y*n+x] = 255
				}
			}
		}
		return plane
	}

	q := quant.BuildMatrix(n, &quant.BaseLuma, false).ScaleForQuality(90, false)

	naive := New(n, false)
	fast := New(n, true)

	sN := NewScratch(n)
	sF := NewScratch(n)

	rN := naive.Run(mkPlane(), n, 0, 0, q, sN, false)
	rF := fast.Run(mkPlane(), n, 0, 0, q, sF, false)

	for i := range rN.Recon {
		if diff := rN.Recon[i] - rF.Recon[i]; diff > 0.5 || diff < -0.5 {
			t.Fatalf("idx %d: naive=%f fast=%f", i, rN.Recon[i], rF.Recon[i])
		}
	}
}
