package quadmind

import (
	"bytes"
	"testing"

	"github.com/autergame/quadmind/internal/imagebuf"
)

func uniformRGB(w, h int, r, g, b byte) []byte {
	buf := make([]byte, w*h*3)
	for i := 0; i < w*h; i++ {
		buf[i*3+0] = r
		buf[i*3+1] = g
		buf[i*3+2] = b
	}
	return buf
}

func TestRenderFixedUniformImage(t *testing.T) {
	rgb := uniformRGB(8, 8, 128, 128, 128)
	img := imagebuf.New(rgb, 8, 8)

	cfg := DefaultOptions()
	cfg.BlockSize = 8
	cfg.Quality = 90
	cfg.UseYCbCr = true
	cfg.SubsamplingIndex = imagebuf.Sub444

	if err := RenderFixed(img, cfg); err != nil {
		t.Fatalf("RenderFixed: %v", err)
	}

	for i, v := range img.Final {
		d := int(v) - 128
		if d < -1 || d > 1 {
			t.Fatalf("pixel byte %d = %d, want 128+-1", i, v)
		}
	}
}

func TestRenderFixedStepEdge(t *testing.T) {
	w, h := 16, 8
	rgb := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := (y*w + x) * 3
			var v byte
			if x >= w/2 {
				v = 255
			}
			rgb[off+0], rgb[off+1], rgb[off+2] = v, v, v
		}
	}
	img := imagebuf.New(rgb, w, h)

	cfg := DefaultOptions()
	cfg.BlockSize = 8
	cfg.Quality = 10
	cfg.UseYCbCr = true

	if err := RenderFixed(img, cfg); err != nil {
		t.Fatalf("RenderFixed: %v", err)
	}

	var leftSum, rightSum int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := (y*w + x) * 3
			v := int(img.Final[off])
			if x < w/2 {
				leftSum += v
			} else {
				rightSum += v
			}
		}
	}
	n := (w / 2) * h
	leftMean := leftSum / n
	rightMean := rightSum / n
	if leftMean > 20 {
		t.Errorf("left mean = %d, want <= 20", leftMean)
	}
	if rightMean < 235 {
		t.Errorf("right mean = %d, want >= 235", rightMean)
	}
}

func TestRenderQuadMindConstantImageSingleLeaf(t *testing.T) {
	rgb := uniformRGB(64, 64, 100, 100, 100)
	img := imagebuf.New(rgb, 64, 64)

	cfg := DefaultOptions()
	cfg.QuadTree.MaxDepth = 10
	cfg.QuadTree.MinSize = 4
	cfg.QuadTree.MaxSize = 64
	cfg.QuadTree.ThresholdErr = 1
	cfg.QuadTree.UsePow2 = true

	leaves, coeffs, err := RenderQuadMind(img, cfg)
	if err != nil {
		t.Fatalf("RenderQuadMind: %v", err)
	}
	if len(leaves) != 1 {
		t.Fatalf("got %d leaves, want 1", len(leaves))
	}
	if len(coeffs) != 1 {
		t.Fatalf("got %d coefficient sets, want 1", len(coeffs))
	}
	for p := 0; p < 3; p++ {
		if len(coeffs[0][p]) != leaves[0].Width()*leaves[0].Height() {
			t.Errorf("plane %d coefficient count = %d, want %d", p, len(coeffs[0][p]), leaves[0].Width()*leaves[0].Height())
		}
	}
}

func TestSaveLoadQuadMindRoundTrip(t *testing.T) {
	rgb := uniformRGB(32, 32, 200, 50, 10)
	img := imagebuf.New(rgb, 32, 32)

	cfg := DefaultOptions()
	cfg.QuadTree.MaxSize = 32
	cfg.QuadTree.MinSize = 4
	cfg.QuadTree.ThresholdErr = 5

	leaves, coeffs, err := RenderQuadMind(img, cfg)
	if err != nil {
		t.Fatalf("RenderQuadMind: %v", err)
	}

	var buf bytes.Buffer
	if err := SaveQuadMind(&buf, img, cfg, leaves, coeffs); err != nil {
		t.Fatalf("SaveQuadMind: %v", err)
	}

	loaded, loadedCfg, err := LoadQuadMind(&buf)
	if err != nil {
		t.Fatalf("LoadQuadMind: %v", err)
	}
	if loaded.W != img.W || loaded.H != img.H {
		t.Fatalf("loaded dims = %dx%d, want %dx%d", loaded.W, loaded.H, img.W, img.H)
	}
	if loadedCfg.Quality != cfg.Quality {
		t.Errorf("loaded quality = %d, want %d", loadedCfg.Quality, cfg.Quality)
	}
	if len(loaded.Final) != img.W*img.H*3 {
		t.Fatalf("loaded Final length = %d, want %d", len(loaded.Final), img.W*img.H*3)
	}

	for i, v := range loaded.Final {
		want := img.Final[i]
		d := int(v) - int(want)
		if d < -2 || d > 2 {
			t.Fatalf("byte %d = %d, want ~%d (encode/decode should agree byte-for-byte)", i, v, want)
		}
	}
}

func TestDeterminismSerialVsParallel(t *testing.T) {
	rgb := make([]byte, 64*64*3)
	for i := range rgb {
		rgb[i] = byte((i * 37) % 256)
	}

	run := func(threads bool) []byte {
		img := imagebuf.New(append([]byte(nil), rgb...), 64, 64)
		cfg := DefaultOptions()
		cfg.BlockSize = 8
		cfg.UseThreads = threads
		if err := RenderFixed(img, cfg); err != nil {
			t.Fatalf("RenderFixed(threads=%v): %v", threads, err)
		}
		return img.Final
	}

	serial := run(false)
	parallel := run(true)
	if !bytes.Equal(serial, parallel) {
		t.Fatal("serial and parallel outputs differ")
	}
}

func TestRenderFixedCompressionRateVariesWithinBlock(t *testing.T) {
	n := 32
	rgb := make([]byte, n*n*3)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			off := (y*n + x) * 3
			var v byte
			if (x+y)%2 == 0 {
				v = 0
			} else {
				v = 255
			}
			rgb[off+0], rgb[off+1], rgb[off+2] = v, v, v
		}
	}
	// The ramp scales each coefficient column u of the block by the quality
	// for absolute column startX+u, so the checkerboard's high-u energy is
	// quantized near the ramp's high end. A single quality for the whole
	// block, taken at the block's start column (QualityStart), quantizes
	// those coefficients far more coarsely.
	render := func(useRamp bool) int {
		img := imagebuf.New(append([]byte(nil), rgb...), n, n)
		cfg := DefaultOptions()
		cfg.BlockSize = n
		cfg.UseYCbCr = false
		cfg.SubsamplingIndex = imagebuf.Sub444
		cfg.UseCompressionRate = useRamp
		cfg.QualityStart = 1
		cfg.Quality = cfg.QualityStart
		if useRamp {
			cfg.Quality = 100
		}

		if err := RenderFixed(img, cfg); err != nil {
			t.Fatalf("RenderFixed: %v", err)
		}

		sum := 0
		for i := 0; i < n*n*3; i += 3 {
			d := int(img.Final[i]) - int(rgb[i])
			if d < 0 {
				d = -d
			}
			sum += d
		}
		return sum
	}

	rampErr := render(true)
	blockStartErr := render(false)
	if rampErr >= blockStartErr {
		t.Fatalf("expected the within-block ramp to reconstruct high-frequency detail better than one quality per block: ramp=%d blockStart=%d", rampErr, blockStartErr)
	}
}

func TestRenderFixedInvalidConfig(t *testing.T) {
	img := imagebuf.New(uniformRGB(8, 8, 1, 2, 3), 8, 8)
	cfg := DefaultOptions()
	cfg.BlockSize = 3
	if err := RenderFixed(img, cfg); err == nil {
		t.Fatal("expected error for invalid block size")
	}
}
