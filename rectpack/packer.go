// Package rectpack packs axis-aligned rectangles of known pixel dimensions
// into as small a rectangular atlas as possible. Callers submit sizes keyed
// by opaque identifiers and receive back placement rectangles; compositing
// pixels and remapping coordinates is left to the caller.
package rectpack

import (
	"fmt"
	"slices"
	"time"

	"github.com/maruel/natural"
)

// DefaultSize is a sane default for the maximum extent of the packing area,
// based on the maximum texture size of many modern GPUs.
const DefaultSize = 4096

const (
	// maxBinDimension caps bin growth and binary search for the tree and
	// guillotine strategies.
	maxBinDimension = 20000
	// maxRectsBinSize caps the incremental growth loop of the MaxRects and
	// Skyline strategies.
	maxRectsBinSize = 8192
	// maxSpacing caps both margin and padding.
	maxSpacing = 64
	// defaultGrowthStep is the per-axis increment used when a bin must be
	// enlarged to admit an unplaceable size.
	defaultGrowthStep = 32
	// defaultAspectPenalty weights the quadratic non-square penalty applied
	// to candidate bins during the guillotine search.
	defaultAspectPenalty = 0.15
	// defaultSolverTimeout bounds the constraint-solver search when the
	// caller does not supply a budget.
	defaultSolverTimeout = 5 * time.Second
)

// Strategy selects the packing algorithm used for a run.
type Strategy int

const (
	// BinaryTree splits free space into a binary tree of nodes, growing
	// the bin whenever a size does not fit. Fast with adequate quality.
	BinaryTree Strategy = iota
	// MaxRects maintains a list of disjoint maximal free rectangles and
	// tries multiple placement heuristics across growing bin sizes.
	MaxRects
	// Guillotine splits free space with full-width or full-height cuts and
	// binary-searches candidate bin dimensions across several input
	// orderings.
	Guillotine
	// Skyline tracks the top contour of placed rectangles and inserts at
	// the lowest admissible level.
	Skyline
	// Solver formulates non-overlap and bounds constraints over integer
	// coordinates and searches for an exact arrangement.
	Solver
)

// String returns the canonical name of the strategy.
func (s Strategy) String() string {
	switch s {
	case BinaryTree:
		return "BinaryTree"
	case MaxRects:
		return "MaxRects"
	case Guillotine:
		return "Guillotine"
	case Skyline:
		return "Skyline"
	case Solver:
		return "Solver"
	}
	return "Unknown"
}

// ParseStrategy resolves the name of a packing strategy, returning an error
// for unrecognized names.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "BinaryTree":
		return BinaryTree, nil
	case "MaxRects":
		return MaxRects, nil
	case "Guillotine":
		return Guillotine, nil
	case "Skyline":
		return Skyline, nil
	case "Solver":
		return Solver, nil
	}
	return 0, fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, name)
}

// SolverMode selects how the constraint-solver strategy chooses the bin it
// solves for.
type SolverMode int

const (
	// SolverPowerOfTwo tries ascending power-of-two candidate sizes whose
	// area can hold the total item surface area. This is the default.
	SolverPowerOfTwo SolverMode = iota
	// SolverFixedSize solves for the exact size given by FixedWidth and
	// FixedHeight, failing if infeasible.
	SolverFixedSize
	// SolverSquare finds the minimal square that admits an arrangement.
	SolverSquare
	// SolverMinimal minimizes width+height of the bounding rectangle.
	SolverMinimal
)

// Config carries the strategy selection and per-strategy tuning for one
// packing run. The zero value selects the BinaryTree strategy with no
// padding; use the field defaults noted below for the rest.
type Config struct {
	// Strategy is the packing algorithm to run.
	Strategy Strategy

	// Heuristic pins a single placement rule for the MaxRects or Skyline
	// strategies. Zero lets MaxRects try its full ring and Skyline use
	// BottomLeft.
	Heuristic Heuristic

	// Margin is the minimum gap in pixels enforced between adjacent placed
	// rectangles (MaxRects only). Clamped to 64.
	Margin int

	// Padding is added to all four sides of every size before packing and
	// stripped from the reported placements afterward, avoiding bleed at
	// atlas seams. Clamped to 64.
	Padding int

	// AllowRotate permits a size to be rotated 90 degrees when the
	// alternate orientation packs more efficiently. Honored by the
	// MaxRects, Guillotine, and Skyline strategies.
	AllowRotate bool

	// GrowthStep is the per-axis increment applied when the MaxRects or
	// Skyline working bin must grow. Default: 32.
	GrowthStep int

	// AspectPenalty weights the quadratic penalty applied to non-square
	// candidate bins during the guillotine search. Default: 0.15.
	AspectPenalty float64

	// SolverMode selects bin sizing for the Solver strategy.
	SolverMode SolverMode

	// FixedWidth and FixedHeight give the exact bin for SolverFixedSize.
	FixedWidth  int
	FixedHeight int

	// SolverTimeout bounds the solver search. Default: 5s.
	SolverTimeout time.Duration
}

func (cfg *Config) normalize() {
	cfg.Margin = max(0, min(cfg.Margin, maxSpacing))
	cfg.Padding = max(0, min(cfg.Padding, maxSpacing))
	if cfg.GrowthStep <= 0 {
		cfg.GrowthStep = defaultGrowthStep
	}
	if cfg.AspectPenalty <= 0 {
		cfg.AspectPenalty = defaultAspectPenalty
	}
	if cfg.SolverTimeout <= 0 {
		cfg.SolverTimeout = defaultSolverTimeout
	}
}

// Result holds the outcome of a successful packing run.
type Result struct {
	// Width and Height are the dimensions of the smallest atlas containing
	// every placement.
	Width  int `json:"width"`
	Height int `json:"height"`
	// Placements maps each submitted identifier to its placement.
	Placements map[string]Rect `json:"placements"`
}

// Used computes the ratio of placed surface area to atlas area, in the
// range of 0.0 and 1.0.
func (r *Result) Used() float64 {
	if r.Width == 0 || r.Height == 0 {
		return 0
	}
	var area int
	for _, rect := range r.Placements {
		area += rect.Area()
	}
	return float64(area) / float64(r.Width*r.Height)
}

// newResult builds a Result from placed rectangles, trimming the atlas to
// the occupied bounding box.
func newResult(rects []Rect) *Result {
	w, h := boundingSize(rects)
	result := &Result{
		Width:      w,
		Height:     h,
		Placements: make(map[string]Rect, len(rects)),
	}
	for _, rect := range rects {
		result.Placements[rect.ID] = rect
	}
	return result
}

// Pack places every size into a single atlas using the configured strategy,
// returning the placement for each identifier. The order of sizes is
// significant for the BinaryTree and Skyline strategies; MaxRects,
// Guillotine, and Solver order their input internally.
//
// Either every size receives a placement or an error wrapping one of the
// package sentinels is returned; no partial results are produced.
func Pack(sizes []Size, cfg Config) (*Result, error) {
	if err := validate(sizes); err != nil {
		return nil, err
	}
	cfg.normalize()

	switch cfg.Strategy {
	case BinaryTree:
		return packBinaryTree(sizes, cfg)
	case MaxRects:
		return packMaxRects(sizes, cfg)
	case Guillotine:
		return packGuillotine(sizes, cfg)
	case Skyline:
		return packSkyline(sizes, cfg)
	case Solver:
		return packSolver(sizes, cfg)
	}
	return nil, fmt.Errorf("%w: unknown strategy %d", ErrInvalidInput, cfg.Strategy)
}

// PackMap is a convenience for callers holding sizes keyed by identifier.
// Go maps have no iteration order, so entries are submitted in natural
// string order of their identifiers, keeping results deterministic for the
// order-sensitive strategies.
func PackMap(sizes map[string]Size, cfg Config) (*Result, error) {
	ids := make([]string, 0, len(sizes))
	for id := range sizes {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		if a == b {
			return 0
		}
		if natural.Less(a, b) {
			return -1
		}
		return 1
	})

	ordered := make([]Size, len(ids))
	for i, id := range ids {
		size := sizes[id]
		size.ID = id
		ordered[i] = size
	}
	return Pack(ordered, cfg)
}

// validate rejects inputs no strategy can accept: empty sets, non-positive
// dimensions, and duplicate identifiers.
func validate(sizes []Size) error {
	if len(sizes) == 0 {
		return fmt.Errorf("%w: no sizes to pack", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(sizes))
	for i := range sizes {
		sz := &sizes[i]
		if sz.Width <= 0 || sz.Height <= 0 {
			return fmt.Errorf("%w: size %q has non-positive dimensions (%dx%d)",
				ErrInvalidInput, sz.ID, sz.Width, sz.Height)
		}
		if _, ok := seen[sz.ID]; ok {
			return fmt.Errorf("%w: duplicate identifier %q", ErrInvalidInput, sz.ID)
		}
		seen[sz.ID] = struct{}{}
	}
	return nil
}

// paddedSizes returns a copy of sizes grown by the configured padding.
func paddedSizes(sizes []Size, padding int) []Size {
	padded := slices.Clone(sizes)
	for i := range padded {
		padSize(&padded[i], padding)
	}
	return padded
}

// finishPlacements strips padding from every placement and assembles the
// final result. The atlas bounds are taken before de-padding so the
// reserved seam space survives on every side.
func finishPlacements(rects []Rect, padding int) *Result {
	w, h := boundingSize(rects)
	for i := range rects {
		unpadRect(&rects[i], padding)
	}
	result := newResult(rects)
	result.Width, result.Height = w, h
	return result
}

// totalArea sums the surface area of all sizes.
func totalArea(sizes []Size) int {
	var area int
	for i := range sizes {
		area += sizes[i].Area()
	}
	return area
}
