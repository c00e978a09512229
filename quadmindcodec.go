package quadmind

import (
	"github.com/autergame/quadmind/internal/block"
	"github.com/autergame/quadmind/internal/imagebuf"
	"github.com/autergame/quadmind/internal/quant"
	"github.com/autergame/quadmind/internal/quadtree"
)

// LeafCoefficients holds the captured zig-zag coefficient vectors for one
// quad-tree leaf, in (luma, chroma, chroma) order.
type LeafCoefficients [3][]int32

// RenderQuadMind runs the QuadMind adaptive codec, writing
// the reconstructed RGB into img.Final and returning the leaf list and
// their captured zig-zag coefficients, ready for Save.
func RenderQuadMind(img *imagebuf.Image, cfg *Config) ([]quadtree.Leaf, []LeafCoefficients, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	qt := cfg.QuadTree

	// Step 1: build the leaf list against the original RGB image.
	rootW, rootH := img.W, img.H
	if qt.UsePow2 {
		s := quadtree.NextPow2(maxInt(img.W, img.H))
		rootW, rootH = s, s
	}
	leaves := quadtree.Build(quadtree.Config{
		MaxDepth:     qt.MaxDepth,
		MinSize:      qt.MinSize,
		MaxSize:      qt.MaxSize,
		ThresholdErr: qt.ThresholdErr,
		UsePow2:      qt.UsePow2,
		UseDrawLine:  qt.UseDrawLine,
	}, rootW, rootH, quadtree.RGBErrorFn(img.RGB, img.W, img.H))

	// Step 2: derive MW, MH from leaf bounds, rounded up to max_size.
	maxRight, maxBottom := 0, 0
	for _, l := range leaves {
		if l.Right > maxRight {
			maxRight = l.Right
		}
		if l.Bottom > maxBottom {
			maxBottom = l.Bottom
		}
	}
	mw := ceilMul(maxRight, qt.MaxSize)
	mh := ceilMul(maxBottom, qt.MaxSize)
	img.RoundUpTo(mw, mh)

	// Step 3: colorspace + fill_outbound + subsampling.
	if cfg.UseYCbCr {
		img.ToYCbCr()
	} else {
		img.ToRGBPlanes()
	}
	img.FillOutbound()
	img.Subsample(cfg.UseYCbCr, cfg.SubsamplingIndex)

	// Step 4: pre-build tables and Q-matrices per distinct block size.
	type sizeTables struct {
		pipe       *block.Pipeline
		luma       *quant.Matrix
		chroma     *quant.Matrix
		lumaBase   *quant.Matrix
		chromaBase *quant.Matrix
	}
	bySize := make(map[int]*sizeTables)
	for _, l := range leaves {
		n := l.Width()
		if _, ok := bySize[n]; ok {
			continue
		}
		lumaBase := quant.BuildMatrix(n, &quant.BaseLuma, cfg.UseGenQTable)
		chromaBase := quant.BuildMatrix(n, &quant.BaseChroma, cfg.UseGenQTable)
		bySize[n] = &sizeTables{
			pipe:       block.New(n, cfg.UseFastDCT),
			luma:       lumaBase.ScaleForQuality(cfg.Quality, cfg.UseGenQTable),
			chroma:     chromaBase.ScaleForQuality(cfg.Quality, cfg.UseGenQTable),
			lumaBase:   lumaBase,
			chromaBase: chromaBase,
		}
	}

	// Step 5/6: run the pipeline per leaf, capturing zig-zag coefficients.
	coeffs := make([]LeafCoefficients, len(leaves))
	runParallel(len(leaves), cfg.UseThreads, func(index int) {
		l := leaves[index]
		n := l.Width()
		st := bySize[n]
		s := block.NewScratch(n)

		var lc LeafCoefficients
		for plane := 0; plane < 3; plane++ {
			q := st.luma
			base := st.lumaBase
			if plane > 0 {
				q = st.chroma
				base = st.chromaBase
			}

			var res block.Result
			if cfg.UseCompressionRate {
				res = st.pipe.RunWithColumnQuality(img.Planes[plane], img.MW, l.Left, l.Top, base, cfg.QualityStart, img.MW, cfg.UseGenQTable, s, true)
			} else {
				res = st.pipe.Run(img.Planes[plane], img.MW, l.Left, l.Top, q, s, true)
			}
			block.WriteBack(res.Recon, n, img.Planes[plane], img.MW, l.Left, l.Top)
			lc[plane] = res.ZigZag
		}
		coeffs[index] = lc
	})

	// Post-pass.
	if cfg.UseYCbCr {
		img.YCbCrToRGB()
	} else {
		img.RGBPlanesToRGB()
	}
	if qt.UseDrawLine {
		quadtree.DrawLeafGrid(img.Final, img.W, img.H, leaves)
	}

	return leaves, coeffs, nil
}

func ceilMul(v, b int) int {
	if b <= 0 {
		return v
	}
	return ((v + b - 1) / b) * b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
