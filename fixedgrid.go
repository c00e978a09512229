package quadmind

import (
	"github.com/autergame/quadmind/internal/block"
	"github.com/autergame/quadmind/internal/imagebuf"
	"github.com/autergame/quadmind/internal/quant"
)

// RenderFixed runs the fixed-grid codec  over img, writing
// the reconstructed RGB into img.Final: a single pre-pass/main-pass/
// post-pass sequence since QuadMind has no resolution hierarchy.
func RenderFixed(img *imagebuf.Image, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	n := cfg.BlockSize

	// Pre-pass.
	img.RoundUpSize(n)
	if cfg.UseYCbCr {
		img.ToYCbCr()
	} else {
		img.ToRGBPlanes()
	}
	img.FillOutbound()
	img.Subsample(cfg.UseYCbCr, cfg.SubsamplingIndex)

	luma := quant.BuildMatrix(n, &quant.BaseLuma, cfg.UseGenQTable).ScaleForQuality(cfg.Quality, cfg.UseGenQTable)
	chroma := quant.BuildMatrix(n, &quant.BaseChroma, cfg.UseGenQTable).ScaleForQuality(cfg.Quality, cfg.UseGenQTable)
	lumaBase := quant.BuildMatrix(n, &quant.BaseLuma, cfg.UseGenQTable)
	chromaBase := quant.BuildMatrix(n, &quant.BaseChroma, cfg.UseGenQTable)

	pipe := block.New(n, cfg.UseFastDCT)

	blocksX := img.MW / n
	blocksY := img.MH / n
	numBlocks := blocksX * blocksY

	runParallel(numBlocks, cfg.UseThreads, func(index int) {
		bx := index % blocksX
		by := index / blocksX
		startX := bx * n
		startY := by * n

		s := block.NewScratch(n)
		for plane := 0; plane < 3; plane++ {
			q := luma
			base := lumaBase
			if plane > 0 {
				q = chroma
				base = chromaBase
			}

			var res block.Result
			if cfg.UseCompressionRate {
				res = pipe.RunWithColumnQuality(img.Planes[plane], img.MW, startX, startY, base, cfg.QualityStart, img.MW, cfg.UseGenQTable, s, false)
			} else {
				res = pipe.Run(img.Planes[plane], img.MW, startX, startY, q, s, false)
			}
			block.WriteBack(res.Recon, n, img.Planes[plane], img.MW, startX, startY)
		}
	})

	// Post-pass.
	if cfg.UseYCbCr {
		img.YCbCrToRGB()
	} else {
		img.RGBPlanesToRGB()
	}
	return nil
}
