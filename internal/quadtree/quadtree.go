// Package quadtree implements the adaptive quad-tree partitioner used by
// the QuadMind codec . Nodes are stored in a contiguous
// arena indexed by handle flattening recommendation;
// the tree itself is discarded after Build, leaving only a flat leaf list.
package quadtree

// Handle indexes a node in an arena. The Handle -1 (handleNone) denotes
// "no child".
type Handle int32

const handleNone Handle = -1

// Config holds the partitioner's configuration (Quad-Tree).
type Config struct {
	MaxDepth      int
	MinSize       int
	MaxSize       int
	ThresholdErr  float64
	UsePow2       bool
	UseDrawLine   bool
}

// Leaf describes one leaf rectangle and its representative color, in
// padded-image coordinates.
type Leaf struct {
	Left, Top, Right, Bottom int
	Color                    [3]byte
}

// Width returns right-left (== bottom-top by invariant).
func (l Leaf) Width() int { return l.Right - l.Left }

// Height returns bottom-top (== right-left by invariant).
func (l Leaf) Height() int { return l.Bottom - l.Top }

// node is an interior or leaf node in the build-time arena.
type node struct {
	left, top, right, bottom int
	depth                    int
	color                    [3]byte
	err                      float64
	children                 [4]Handle // TL, TR, BL, BR
}

func (n *node) isLeaf() bool { return n.children[0] == handleNone }

func (n *node) widthBlockSize() int  { return n.right - n.left }
func (n *node) heightBlockSize() int { return n.bottom - n.top }

// ErrorFn computes, for a rectangle in image coordinates, the per-plane
// histogram-based error and representative color used as the split
// criterion . Implementations read only the W*H region of
// whatever image representation they wrap (the original RGB image, per
// step 1).
type ErrorFn func(left, top, right, bottom int) (color [3]byte, err float64)

// Build constructs the quad-tree over a root rectangle (0,0,S,S) per
// and returns the flat leaf list. S is computed by the caller
// (the next power of two >= max(w,h) when cfg.UsePow2, else the image's
// own w,h passed directly as rootW, rootH).
func Build(cfg Config, rootW, rootH int, errFn ErrorFn) []Leaf {
	arena := make([]node, 0, 64)

	var build func(left, top, right, bottom, depth int) Handle
	build = func(left, top, right, bottom, depth int) Handle {
		color, err := errFn(left, top, right, bottom)

		n := node{
			left: left, top: top, right: right, bottom: bottom,
			depth: depth, color: color, err: err,
			children: [4]Handle{handleNone, handleNone, handleNone, handleNone},
		}

		w := n.widthBlockSize()
		h := n.heightBlockSize()

		mustSplitForSize := w > cfg.MaxSize && h > cfg.MaxSize
		mayErrorSplit := depth <= cfg.MaxDepth && err >= cfg.ThresholdErr &&
			w > cfg.MinSize && h > cfg.MinSize

		if mustSplitForSize || mayErrorSplit {
			mx := left + (right-left)/2
			my := top + (bottom-top)/2

			idx := Handle(len(arena))
			arena = append(arena, n)

			tl := build(left, top, mx, my, depth+1)
			tr := build(mx, top, right, my, depth+1)
			bl := build(left, my, mx, bottom, depth+1)
			br := build(mx, my, right, bottom, depth+1)

			arena[idx].children = [4]Handle{tl, tr, bl, br}
			return idx
		}

		idx := Handle(len(arena))
		arena = append(arena, n)
		return idx
	}

	root := build(0, 0, rootW, rootH, 0)

	var leaves []Leaf
	var collect func(h Handle)
	collect = func(h Handle) {
		n := &arena[h]
		if n.isLeaf() {
			leaves = append(leaves, Leaf{
				Left: n.left, Top: n.top, Right: n.right, Bottom: n.bottom,
				Color: n.color,
			})
			return
		}
		for _, c := range n.children {
			collect(c)
		}
	}
	collect(root)

	return leaves
}

// NextPow2 returns the smallest power of two >= v (v > 0).
func NextPow2(v int) int {
	p := 1
	for p < v {
		p <<= 1
	}
	return p
}
