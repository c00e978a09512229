// Package quadmind implements the core of an experimental block-based
// image compression engine: a color transform, optional chroma
// subsampling, a fixed-grid or adaptive quad-tree block partition, and
// per-block JPEG-style DCT/quantization processing. A second path
// serializes the quad-tree leaf geometry and zig-zag coefficients into a
// signed, integrity-checked, compressed container file and reconstructs
// an image from it.
//
// Basic usage, fixed grid:
//
//	img := imagebuf.New(rgb, w, h)
//	cfg := quadmind.DefaultOptions()
//	err := quadmind.RenderFixed(img, cfg)
//
// Basic usage, QuadMind adaptive codec with persistence:
//
//	leaves, coeffs, err := quadmind.RenderQuadMind(img, cfg)
//	err = quadmind.SaveQuadMind(w, img, cfg, leaves, coeffs)
//	...
//	img2, cfg2, err := quadmind.LoadQuadMind(r)
package quadmind

import (
	"io"

	"github.com/autergame/quadmind/internal/block"
	"github.com/autergame/quadmind/internal/container"
	"github.com/autergame/quadmind/internal/dct"
	"github.com/autergame/quadmind/internal/imagebuf"
	"github.com/autergame/quadmind/internal/quant"
	"github.com/autergame/quadmind/internal/quadtree"
)

// SaveQuadMind writes img's leaf geometry and coefficients (as produced by
// RenderQuadMind) to w in the signed, compressed container format that
// LoadQuadMind reads back.
func SaveQuadMind(w io.Writer, img *imagebuf.Image, cfg *Config, leaves []quadtree.Leaf, coeffs []LeafCoefficients) error {
	entries := make([]container.GeometryEntry, len(leaves))
	flat := make([][3][]int32, len(leaves))
	for i, l := range leaves {
		entries[i] = container.GeometryEntry{
			X:             uint32(l.Left),
			Y:             uint32(l.Top),
			BlockSizeLog2: blockSizeLog2(l.Width()),
		}
		flat[i] = coeffs[i]
	}

	geomSection, err := container.NewSection(container.MarkerSQNJStart, container.MarkerSQNJEnd, container.EncodeGeometry(entries))
	if err != nil {
		return wrapContainerErr("SaveQuadMind", err)
	}
	coeffSection, err := container.NewSection(container.MarkerSDCTStart, container.MarkerSDCTEnd, container.EncodeCoefficients(flat))
	if err != nil {
		return wrapContainerErr("SaveQuadMind", err)
	}

	f := &container.File{
		Header: container.Header{
			Width:        uint32(img.W),
			Height:       uint32(img.H),
			Quality:      float32(cfg.Quality),
			UseYCbCr:     cfg.UseYCbCr,
			UseThreads:   cfg.UseThreads,
			UseFastDCT:   cfg.UseFastDCT,
			UseGenQTable: cfg.UseGenQTable,
		},
		Geometry: geomSection,
		Coeffs:   coeffSection,
	}

	if err := container.Write(w, f); err != nil {
		return wrapContainerErr("SaveQuadMind", err)
	}
	return nil
}

// LoadQuadMind reads a container from r and reconstructs the image it
// describes: the leaf geometry and coefficients are dequantized,
// inverse-DCT'd, and written into a fresh imagebuf.Image's Final buffer.
// The Config returned reflects the flags stored in the container's header;
// its QuadTree field is left zero since partition geometry is not
// reconstructible from the stored leaf list alone.
func LoadQuadMind(r io.Reader) (*imagebuf.Image, *Config, error) {
	f, err := container.Read(r)
	if err != nil {
		return nil, nil, wrapContainerErr("LoadQuadMind", err)
	}

	geomData, err := container.VerifySection(f.Geometry)
	if err != nil {
		return nil, nil, wrapContainerErr("LoadQuadMind", err)
	}
	entries, err := container.DecodeGeometry(geomData)
	if err != nil {
		return nil, nil, wrapContainerErr("LoadQuadMind", err)
	}

	blockSizes := make([]int, len(entries))
	for i, e := range entries {
		blockSizes[i] = 1 << e.BlockSizeLog2
	}

	coeffData, err := container.VerifySection(f.Coeffs)
	if err != nil {
		return nil, nil, wrapContainerErr("LoadQuadMind", err)
	}
	perLeaf, err := container.DecodeCoefficients(coeffData, blockSizes)
	if err != nil {
		return nil, nil, wrapContainerErr("LoadQuadMind", err)
	}

	cfg := &Config{
		Quality:      int(f.Header.Quality),
		UseYCbCr:     f.Header.UseYCbCr,
		UseThreads:   f.Header.UseThreads,
		UseFastDCT:   f.Header.UseFastDCT,
		UseGenQTable: f.Header.UseGenQTable,
	}

	img := imagebuf.New(nil, int(f.Header.Width), int(f.Header.Height))

	maxRight, maxBottom := 0, 0
	for i, e := range entries {
		n := blockSizes[i]
		if right := int(e.X) + n; right > maxRight {
			maxRight = right
		}
		if bottom := int(e.Y) + n; bottom > maxBottom {
			maxBottom = bottom
		}
	}
	// Leaves disjointly tile the full padded rectangle, so decodeLeaves
	// below writes every plane pixel; no separate fill_outbound pass is
	// needed here.
	img.RoundUpTo(maxRight, maxBottom)

	decodeLeaves(img, cfg, entries, blockSizes, perLeaf)

	if cfg.UseYCbCr {
		img.YCbCrToRGB()
	} else {
		img.RGBPlanesToRGB()
	}

	return img, cfg, nil
}

type sizeMatrices struct {
	luma, chroma *quant.Matrix
}

func decodeLeaves(img *imagebuf.Image, cfg *Config, entries []container.GeometryEntry, blockSizes []int, perLeaf [][3][]int32) {
	// Q-matrices are built once per distinct block size, serially, before
	// the parallel pass, mirroring RenderQuadMind's pre-build step: the
	// worker closures below only read bySize, never write it.
	bySize := make(map[int]*sizeMatrices)
	for _, n := range blockSizes {
		if _, ok := bySize[n]; ok {
			continue
		}
		bySize[n] = &sizeMatrices{
			luma:   quant.BuildMatrix(n, &quant.BaseLuma, cfg.UseGenQTable).ScaleForQuality(cfg.Quality, cfg.UseGenQTable),
			chroma: quant.BuildMatrix(n, &quant.BaseChroma, cfg.UseGenQTable).ScaleForQuality(cfg.Quality, cfg.UseGenQTable),
		}
	}

	runParallel(len(entries), cfg.UseThreads, func(index int) {
		n := blockSizes[index]
		m := bySize[n]
		e := entries[index]

		zz := quant.GetZigZag(n)
		tables := dct.GetTables(n)
		dequant := make([]float64, n*n)
		recon := make([]float64, n*n)
		quantInt := make([]int32, n*n)

		for plane := 0; plane < 3; plane++ {
			q := m.luma
			if plane > 0 {
				q = m.chroma
			}
			zz.Inverse(perLeaf[index][plane], quantInt)
			quant.Dequantize(quantInt, q, dequant)
			if cfg.UseFastDCT {
				dct.FastInverse(n, dequant, recon)
			} else {
				dct.Inverse(tables, dequant, recon)
			}

			block.WriteBack(recon, n, img.Planes[plane], img.MW, int(e.X), int(e.Y))
		}
	})
}

// blockSizeLog2 returns log2(n) as a uint8, for n a power of two.
func blockSizeLog2(n int) uint8 {
	var log2 uint8
	for n > 1 {
		n >>= 1
		log2++
	}
	return log2
}
