package quadmind

import "github.com/autergame/quadmind/internal/imagebuf"

// QuadTreeConfig configures the adaptive partitioner (Component F).
type QuadTreeConfig struct {
	// MaxDepth bounds the recursion depth of the split.
	MaxDepth int

	// MinSize and MaxSize bound leaf dimensions; both must be powers of
	// two in {2,4,...,512} and MinSize <= MaxSize.
	MinSize, MaxSize int

	// ThresholdErr is the combined weighted-stddev error above which a
	// node is split, subject to MaxDepth/MinSize.
	ThresholdErr float64

	// UsePow2 pads the root rectangle up to the next power of two on
	// each side before partitioning.
	UsePow2 bool

	// UseDrawLine overlays a 1px perimeter grid on the reconstructed
	// image after the codec pass.
	UseDrawLine bool
}

// Config holds the encoding options shared by the fixed-grid and
// QuadMind codecs.
type Config struct {
	// BlockSize is the fixed-grid tile size; ignored by the QuadMind
	// codec, which derives block sizes from the quad-tree leaves.
	BlockSize int

	// Quality is the base quantization quality in [1,100].
	Quality int

	// QualityStart is the starting quality for the per-column
	// compression-rate ramp; only used when UseCompressionRate is true.
	QualityStart int

	// UseGenQTable selects the generated Q-matrix family (m[y,x] =
	// x+y+1) and its quality-factor regime, over the tiled-8x8-base
	// family.
	UseGenQTable bool

	// UseFastDCT selects the fast DCT path (a kernel registered with
	// dct.RegisterKernel, else the separable fallback) over the naive
	// table-based transform.
	UseFastDCT bool

	// UseCompressionRate enables the per-column quality ramp, starting
	// at QualityStart on the leftmost column and rising toward 100 at the
	// right edge; RenderFixed and RenderQuadMind do not read Quality while
	// it is enabled.
	UseCompressionRate bool

	// UseYCbCr selects the YCbCr colorspace over raw RGB planes.
	UseYCbCr bool

	// SubsamplingIndex selects one of the six chroma subsampling
	// patterns (imagebuf.Sub444 .. imagebuf.Sub410).
	SubsamplingIndex int

	// UseThreads enables the block-parallel worker pool.
	UseThreads bool

	// QuadTree configures the adaptive partitioner; only used by
	// RenderQuadMind.
	QuadTree QuadTreeConfig
}

// DefaultOptions returns the default encoding configuration.
func DefaultOptions() *Config {
	return &Config{
		BlockSize:          8,
		Quality:            75,
		QualityStart:       10,
		UseGenQTable:       false,
		UseFastDCT:         false,
		UseCompressionRate: false,
		UseYCbCr:           true,
		SubsamplingIndex:   imagebuf.Sub444,
		UseThreads:         true,
		QuadTree: QuadTreeConfig{
			MaxDepth:     8,
			MinSize:      4,
			MaxSize:      64,
			ThresholdErr: 8,
			UsePow2:      true,
			UseDrawLine:  false,
		},
	}
}

var validBlockSizes = map[int]bool{
	2: true, 4: true, 8: true, 16: true, 32: true,
	64: true, 128: true, 256: true, 512: true,
}

// Validate checks cfg eagerly, returning a structured ErrInvalidConfig or
// ErrUnsupportedBlockSize error on the first violation found.
func (c *Config) Validate() error {
	if !validBlockSizes[c.BlockSize] {
		return &Error{Kind: ErrUnsupportedBlockSize, Op: "Validate",
			Err: invalidBlockSizeErr(c.BlockSize)}
	}
	if c.Quality < 1 || c.Quality > 100 {
		return &Error{Kind: ErrInvalidConfig, Op: "Validate", Err: invalidRangeErr("Quality", 1, 100, c.Quality)}
	}
	if c.UseCompressionRate && (c.QualityStart < 1 || c.QualityStart > 100) {
		return &Error{Kind: ErrInvalidConfig, Op: "Validate", Err: invalidRangeErr("QualityStart", 1, 100, c.QualityStart)}
	}
	if c.SubsamplingIndex < 0 || c.SubsamplingIndex >= imagebuf.NumSubsamplingModes {
		return &Error{Kind: ErrInvalidConfig, Op: "Validate", Err: invalidRangeErr("SubsamplingIndex", 0, imagebuf.NumSubsamplingModes-1, c.SubsamplingIndex)}
	}
	// Subsample processes 4-column cells, so the padded width must be a
	// multiple of 4. For the fixed-grid codec that width is blocksX*BlockSize,
	// which is only guaranteed a multiple of 4 when BlockSize >= 4.
	if c.BlockSize == 2 && c.SubsamplingIndex != imagebuf.Sub444 {
		return &Error{Kind: ErrInvalidConfig, Op: "Validate", Err: invalidBlockSizeFor2x2Err("BlockSize")}
	}
	return c.QuadTree.validate(c.SubsamplingIndex)
}

func (q *QuadTreeConfig) validate(subsamplingIndex int) error {
	if !validBlockSizes[q.MinSize] {
		return &Error{Kind: ErrUnsupportedBlockSize, Op: "Validate", Err: invalidBlockSizeErr(q.MinSize)}
	}
	if !validBlockSizes[q.MaxSize] {
		return &Error{Kind: ErrUnsupportedBlockSize, Op: "Validate", Err: invalidBlockSizeErr(q.MaxSize)}
	}
	if q.MinSize > q.MaxSize {
		return &Error{Kind: ErrInvalidConfig, Op: "Validate", Err: minExceedsMaxErr(q.MinSize, q.MaxSize)}
	}
	if q.MaxDepth < 0 {
		return &Error{Kind: ErrInvalidConfig, Op: "Validate", Err: invalidRangeErr("MaxDepth", 0, 1<<30, q.MaxDepth)}
	}
	// The padded root rectangle is rounded up to a multiple of MaxSize; with
	// MaxSize == 2 that rounding only guarantees a multiple of 2, not the
	// multiple of 4 that Subsample's 4-column cells require.
	if q.MaxSize == 2 && subsamplingIndex != imagebuf.Sub444 {
		return &Error{Kind: ErrInvalidConfig, Op: "Validate", Err: invalidBlockSizeFor2x2Err("QuadTree.MaxSize")}
	}
	return nil
}
