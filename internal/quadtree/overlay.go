package quadtree

// DrawLeafGrid draws 1px horizontal and vertical lines at rgb=(128,128,128)
// along each leaf's perimeter, clipped to the W*H RGB buffer. This is an
// optional debug overlay for visualizing the partition.
func DrawLeafGrid(rgb []byte, w, h int, leaves []Leaf) {
	gray := byte(128)
	setPixel := func(x, y int) {
		if x < 0 || x >= w || y < 0 || y >= h {
			return
		}
		off := (y*w + x) * 3
		rgb[off+0] = gray
		rgb[off+1] = gray
		rgb[off+2] = gray
	}

	// Borders are drawn at the leaf's exact boundary coordinate, shared with
	// the neighboring leaf, and only pulled inward when that boundary would
	// fall outside the image.
	clampEdge := func(v, limit int) int {
		if v >= limit {
			return limit - 1
		}
		return v
	}

	for _, leaf := range leaves {
		bottom := clampEdge(leaf.Bottom, h)
		right := clampEdge(leaf.Right, w)
		for x := leaf.Left; x <= right; x++ {
			setPixel(x, leaf.Top)
			setPixel(x, bottom)
		}
		for y := leaf.Top; y <= bottom; y++ {
			setPixel(leaf.Left, y)
			setPixel(right, y)
		}
	}
}
