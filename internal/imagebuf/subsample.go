package imagebuf

// Subsampling indices, selected via SubsamplingIndex in [0,5].
const (
	Sub444 = iota
	Sub440
	Sub422
	Sub420
	Sub411
	Sub410
)

// NumSubsamplingModes is the number of recognized subsampling patterns.
const NumSubsamplingModes = 6

// Subsample rewrites the planar buffers in-place according to a 2-row by
// 4-column cell pattern selected by index. When useYCbCr is true, plane 0
// (luma) is left untouched; when false, all three planes are processed.
//
// The padded dimensions (MW, MH) are assumed to satisfy MW % 4 == 0 and
// MH % 2 == 0 ;
// any trailing partial cell is simply skipped.
func (img *Image) Subsample(useYCbCr bool, index int) {
	firstPlane := 0
	if useYCbCr {
		firstPlane = 1
	}
	for p := firstPlane; p < 3; p++ {
		subsamplePlane(img.Planes[p], img.MW, img.MH, index)
	}
}

func subsamplePlane(plane []byte, mw, mh, index int) {
	for y := 0; y+1 < mh; y += 2 {
		row0 := y * mw
		row1 := row0 + mw
		for x := 0; x+3 < mw; x += 4 {
			switch index {
			case Sub444:
				// identity

			case Sub440:
				plane[row1+x+0] = plane[row0+x+0]
				plane[row1+x+1] = plane[row0+x+1]
				plane[row1+x+2] = plane[row0+x+2]
				plane[row1+x+3] = plane[row0+x+3]

			case Sub422:
				plane[row0+x+1] = plane[row0+x+0]
				plane[row0+x+3] = plane[row0+x+2]
				plane[row1+x+1] = plane[row1+x+0]
				plane[row1+x+3] = plane[row1+x+2]

			case Sub420:
				plane[row0+x+1] = plane[row0+x+0]
				plane[row0+x+3] = plane[row0+x+2]
				plane[row1+x+0] = plane[row0+x+0]
				plane[row1+x+1] = plane[row0+x+0]
				plane[row1+x+2] = plane[row0+x+2]
				plane[row1+x+3] = plane[row0+x+2]

			case Sub411:
				plane[row0+x+1] = plane[row0+x+0]
				plane[row0+x+2] = plane[row0+x+0]
				plane[row0+x+3] = plane[row0+x+0]
				plane[row1+x+1] = plane[row1+x+0]
				plane[row1+x+2] = plane[row1+x+0]
				plane[row1+x+3] = plane[row1+x+0]

			case Sub410:
				plane[row0+x+1] = plane[row0+x+0]
				plane[row0+x+2] = plane[row0+x+0]
				plane[row0+x+3] = plane[row0+x+0]
				plane[row1+x+0] = plane[row0+x+0]
				plane[row1+x+1] = plane[row0+x+0]
				plane[row1+x+2] = plane[row0+x+0]
				plane[row1+x+3] = plane[row0+x+0]
			}
		}
	}
}
