package quadtree

import "testing"

func constantImage(w, h int, r, g, b byte) []byte {
	img := make([]byte, w*h*3)
	for i := 0; i < w*h; i++ {
		img[i*3+0] = r
		img[i*3+1] = g
		img[i*3+2] = b
	}
	return img
}

func TestConstantImageSingleLeaf(t *testing.T) {
	img := constantImage(64, 64, 100, 100, 100)
	cfg := Config{MaxDepth: 10, MinSize: 4, MaxSize: 64, ThresholdErr: 1}
	leaves := Build(cfg, 64, 64, RGBErrorFn(img, 64, 64))

	if len(leaves) != 1 {
		t.Fatalf("got %d leaves, want 1", len(leaves))
	}
	l := leaves[0]
	if l.Left != 0 || l.Top != 0 || l.Right != 64 || l.Bottom != 64 {
		t.Fatalf("leaf = %+v, want full (0,0,64,64)", l)
	}
}

func TestCheckerboardAll4x4Leaves(t *testing.T) {
	w, h := 64, 64
	img := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := (x/4 + y/4) % 2
			var v byte
			if cell == 1 {
				v = 255
			}
			off := (y*w + x) * 3
			img[off+0] = v
			img[off+1] = v
			img[off+2] = v
		}
	}

	cfg := Config{MaxDepth: 10, MinSize: 2, MaxSize: 64, ThresholdErr: 1}
	leaves := Build(cfg, w, h, RGBErrorFn(img, w, h))

	if len(leaves) != 256 {
		t.Fatalf("got %d leaves, want 256", len(leaves))
	}
	for _, l := range leaves {
		if l.Width() != 4 || l.Height() != 4 {
			t.Fatalf("leaf %+v has size %dx%d, want 4x4", l, l.Width(), l.Height())
		}
	}
}

func TestLeavesCoverRoot(t *testing.T) {
	img := constantImage(32, 32, 10, 200, 30)
	// Force a mixed split by seeding varied pixel values in one quadrant.
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			off := (y*32 + x) * 3
			img[off] = byte((x * 17) % 256)
		}
	}

	cfg := Config{MaxDepth: 10, MinSize: 2, MaxSize: 32, ThresholdErr: 5}
	leaves := Build(cfg, 32, 32, RGBErrorFn(img, 32, 32))

	covered := make([][]bool, 32)
	for i := range covered {
		covered[i] = make([]bool, 32)
	}
	for _, l := range leaves {
		for y := l.Top; y < l.Bottom; y++ {
			for x := l.Left; x < l.Right; x++ {
				if covered[y][x] {
					t.Fatalf("pixel (%d,%d) covered by multiple leaves", x, y)
				}
				covered[y][x] = true
			}
		}
	}
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if !covered[y][x] {
				t.Fatalf("pixel (%d,%d) not covered by any leaf", x, y)
			}
		}
	}
}

func TestNextPow2(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 5: 8, 64: 64, 65: 128}
	for in, want := range cases {
		if got := NextPow2(in); got != want {
			t.Errorf("NextPow2(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestHistogramEmptyRegion(t *testing.T) {
	img := constantImage(4, 4, 1, 2, 3)
	v, e := RGBErrorFn(img, 4, 4)(10, 10, 20, 20)
	if v != [3]byte{0, 0, 0} || e != 0 {
		t.Fatalf("empty region: got color=%v err=%f, want (0,0,0)/0", v, e)
	}
}
