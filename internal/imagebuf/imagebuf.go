// Package imagebuf implements planar RGB/YCbCr storage, padding and chroma
// subsampling for the QuadMind block codec.
//
// An Image owns three MW×MH planar buffers (interpreted as R,G,B or
// Y,Cb,Cr depending on the active colorspace) padded up from a W×H RGB
// source. The region outside W×H is filled with the neutral value 0x80 so
// it never biases block quantization.
package imagebuf

import "math"

// Neutral is the fill value written into the out-of-bounds padding region.
const Neutral = 0x80

// Image holds the original RGB source and the padded planar working
// buffers used by the block codecs.
type Image struct {
	// W, H are the displayed (unpadded) dimensions.
	W, H int

	// MW, MH are the padded dimensions; always >= W, H respectively.
	MW, MH int

	// RGB is the original row-major, 3-bytes-per-pixel source buffer.
	RGB []byte

	// Planes holds the three MW*MH planar working buffers.
	Planes [3][]byte

	// Final is the reconstructed W*H*3 RGB output buffer, populated by
	// YCbCrToRGB or RGBPlanesToRGB after a codec pass.
	Final []byte
}

// New creates an Image from a decoded W×H RGB buffer. Planar buffers are
// not allocated until RoundUpSize or RoundUpTo is called.
func New(rgb []byte, w, h int) *Image {
	return &Image{
		W:   w,
		H:   h,
		RGB: rgb,
	}
}

// RoundUpSize computes MW = ceil(W/b)*b and MH = ceil(H/b)*b and
// (re)allocates the planar buffers accordingly. Called at the start of
// each compression round_up_size.
func (img *Image) RoundUpSize(b int) {
	img.MW = ceilMul(img.W, b)
	img.MH = ceilMul(img.H, b)
	for i := range img.Planes {
		img.Planes[i] = make([]byte, img.MW*img.MH)
	}
}

// RoundUpTo allocates padded planar buffers sized to the given MW, MH
// directly (used by the QuadMind codec, whose padding is derived from
// leaf geometry rather than a single block size).
func (img *Image) RoundUpTo(mw, mh int) {
	img.MW = mw
	img.MH = mh
	for i := range img.Planes {
		img.Planes[i] = make([]byte, img.MW*img.MH)
	}
}

func ceilMul(v, b int) int {
	if b <= 0 {
		return v
	}
	return ((v + b - 1) / b) * b
}

// ToYCbCr fills the three planar buffers from the RGB source using
// ITU-R-style coefficients . Only the W×H region is read
// from RGB; FillOutbound must be called separately to pad the rest.
func (img *Image) ToYCbCr() {
	for y := 0; y < img.H; y++ {
		srcRow := y * img.W * 3
		dstRow := y * img.MW
		for x := 0; x < img.W; x++ {
			r := float64(img.RGB[srcRow+x*3+0])
			g := float64(img.RGB[srcRow+x*3+1])
			b := float64(img.RGB[srcRow+x*3+2])

			yv := 0.299*r + 0.587*g + 0.114*b
			cb := -0.168*r - 0.331*g + 0.500*b + 128
			cr := 0.500*r - 0.418*g - 0.081*b + 128

			img.Planes[0][dstRow+x] = clampByte(yv)
			img.Planes[1][dstRow+x] = clampByte(cb)
			img.Planes[2][dstRow+x] = clampByte(cr)
		}
	}
}

// ToRGBPlanes copies the RGB source directly into the three planar
// buffers (identity colorspace), used when UseYCbCr is false.
func (img *Image) ToRGBPlanes() {
	for y := 0; y < img.H; y++ {
		srcRow := y * img.W * 3
		dstRow := y * img.MW
		for x := 0; x < img.W; x++ {
			img.Planes[0][dstRow+x] = img.RGB[srcRow+x*3+0]
			img.Planes[1][dstRow+x] = img.RGB[srcRow+x*3+1]
			img.Planes[2][dstRow+x] = img.RGB[srcRow+x*3+2]
		}
	}
}

// FillOutbound sets planar pixels with x >= W or y >= H to Neutral.
func (img *Image) FillOutbound() {
	for y := 0; y < img.MH; y++ {
		row := y * img.MW
		for x := 0; x < img.MW; x++ {
			if x >= img.W || y >= img.H {
				img.Planes[0][row+x] = Neutral
				img.Planes[1][row+x] = Neutral
				img.Planes[2][row+x] = Neutral
			}
		}
	}
}

// YCbCrToRGB reconstructs a W*H*3 RGB buffer from the three planar
// buffers using the inverse YCbCr transform, writing into img.Final.
func (img *Image) YCbCrToRGB() {
	img.Final = make([]byte, img.W*img.H*3)
	for y := 0; y < img.H; y++ {
		srcRow := y * img.MW
		dstRow := y * img.W * 3
		for x := 0; x < img.W; x++ {
			yv := float64(img.Planes[0][srcRow+x])
			cb := float64(img.Planes[1][srcRow+x]) - 128
			cr := float64(img.Planes[2][srcRow+x]) - 128

			r := yv + 1.402*cr
			g := yv - 0.344*cb - 0.714*cr
			b := yv + 1.772*cb

			img.Final[dstRow+x*3+0] = clampByte(r)
			img.Final[dstRow+x*3+1] = clampByte(g)
			img.Final[dstRow+x*3+2] = clampByte(b)
		}
	}
}

// RGBPlanesToRGB copies the planar buffers back into a W*H*3 RGB buffer
// (identity colorspace), writing into img.Final.
func (img *Image) RGBPlanesToRGB() {
	img.Final = make([]byte, img.W*img.H*3)
	for y := 0; y < img.H; y++ {
		srcRow := y * img.MW
		dstRow := y * img.W * 3
		for x := 0; x < img.W; x++ {
			img.Final[dstRow+x*3+0] = img.Planes[0][srcRow+x]
			img.Final[dstRow+x*3+1] = img.Planes[1][srcRow+x]
			img.Final[dstRow+x*3+2] = img.Planes[2][srcRow+x]
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
	return byte(math.Round(v))
}
