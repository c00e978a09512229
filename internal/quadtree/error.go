package quadtree

import "math"

// RGBErrorFn returns an ErrorFn computing histogram-based
// error metric over a region of an original (unpadded) W*H RGB image.
// Coordinates outside [0,w)x[0,h) are clamped to the image bounds, since
// quad-tree rectangles are defined over the padded root which may exceed
// the original image.
func RGBErrorFn(rgb []byte, w, h int) ErrorFn {
	return func(left, top, right, bottom int) ([3]byte, float64) {
		l, t, r, b := left, top, right, bottom
		if l < 0 {
			l = 0
		}
		if t < 0 {
			t = 0
		}
		if r > w {
			r = w
		}
		if b > h {
			b = h
		}
		if r <= l || b <= t {
			return [3]byte{0, 0, 0}, 0
		}

		var hist [3][256]int
		for y := t; y < b; y++ {
			row := y * w * 3
			for x := l; x < r; x++ {
				px := row + x*3
				hist[0][rgb[px+0]]++
				hist[1][rgb[px+1]]++
				hist[2][rgb[px+2]]++
			}
		}

		var v [3]float64
		var e [3]float64
		for p := 0; p < 3; p++ {
			v[p], e[p] = histogramValueError(&hist[p])
		}

		combined := 0.299*e[0] + 0.587*e[1] + 0.114*e[2]
		color := [3]byte{byte(v[0] + 0.5), byte(v[1] + 0.5), byte(v[2] + 0.5)}
		return color, combined
	}
}

// histogramValueError computes the weighted average value and standard
// deviation ("error") of a 256-bin histogram:
//
//	v = sum(i*h[i]) / sum(h[i])
//	e = sqrt( sum(h[i]*(v-i)^2) / sum(h[i]) )
//
// An empty histogram yields (0,0) infallible-arithmetic
// policy.
func histogramValueError(h *[256]int) (value, errv float64) {
	total := 0
	sum := 0.0
	for i, count := range h {
		total += count
		sum += float64(i) * float64(count)
	}
	if total == 0 {
		return 0, 0
	}
	v := sum / float64(total)

	variance := 0.0
	for i, count := range h {
		d := v - float64(i)
		variance += float64(count) * d * d
	}
	variance /= float64(total)

	return v, math.Sqrt(variance)
}
