package rectpack

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// po2Sizes are the candidate atlas dimensions for power-of-two solving, in
// ascending area order with squares preferred over elongated bins.
var po2Sizes = [][2]int{
	{128, 128}, {256, 128}, {128, 256},
	{256, 256}, {512, 256}, {256, 512},
	{512, 512}, {1024, 512}, {512, 1024},
	{1024, 1024}, {2048, 1024}, {1024, 2048},
	{2048, 2048}, {4096, 2048}, {2048, 4096},
	{4096, 4096}, {8192, 4096}, {4096, 8192},
	{8192, 8192}, {16384, 8192}, {8192, 16384},
	{16384, 16384},
}

// po2CandidateAttempts bounds how many power-of-two candidates are tried
// before the input is declared unsatisfiable.
const po2CandidateAttempts = 4

// solverCtl carries the shared deadline across feasibility checks. The
// clock is sampled once per batch of search nodes to keep the hot path
// cheap.
type solverCtl struct {
	deadline time.Time
	nodes    int
}

var errSolverDeadline = fmt.Errorf("%w: search budget exhausted", ErrTimeout)

func (c *solverCtl) tick() error {
	c.nodes++
	if c.nodes&1023 == 0 && time.Now().After(c.deadline) {
		return errSolverDeadline
	}
	return nil
}

// packSolver searches for an exact arrangement satisfying pairwise
// non-overlap and bin-bounds constraints over integer coordinates. The
// model never rotates; every size keeps its submitted orientation.
func packSolver(sizes []Size, cfg Config) (*Result, error) {
	padded := paddedSizes(sizes, cfg.Padding)

	area := totalArea(padded)
	maxW, maxH := 0, 0
	for i := range padded {
		maxW = max(maxW, padded[i].Width)
		maxH = max(maxH, padded[i].Height)
	}

	ctl := &solverCtl{deadline: time.Now().Add(cfg.SolverTimeout)}

	switch cfg.SolverMode {
	case SolverFixedSize:
		if cfg.FixedWidth <= 0 || cfg.FixedHeight <= 0 {
			return nil, fmt.Errorf("%w: fixed-size solving requires positive FixedWidth and FixedHeight",
				ErrInvalidInput)
		}
		packed, ok, err := solveFit(padded, cfg.FixedWidth, cfg.FixedHeight, ctl)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: no arrangement fits %dx%d",
				ErrUnsatisfiable, cfg.FixedWidth, cfg.FixedHeight)
		}
		return finishPlacements(packed, cfg.Padding), nil

	case SolverPowerOfTwo:
		attempts := 0
		for _, c := range po2Sizes {
			if c[0]*c[1] < area {
				continue
			}
			if attempts++; attempts > po2CandidateAttempts {
				break
			}
			if c[0] < maxW || c[1] < maxH {
				continue
			}
			packed, ok, err := solveFit(padded, c[0], c[1], ctl)
			if err != nil {
				return nil, err
			}
			if ok {
				return finishPlacements(packed, cfg.Padding), nil
			}
		}
		return nil, fmt.Errorf("%w: no power-of-two candidate up to 16384x16384 admits an arrangement",
			ErrUnsatisfiable)

	case SolverSquare:
		side := max(maxW, maxH, ceilSqrt(area))
		for ; side <= maxBinDimension; side++ {
			packed, ok, err := solveFit(padded, side, side, ctl)
			if err != nil {
				return nil, err
			}
			if ok {
				return finishPlacements(packed, cfg.Padding), nil
			}
		}
		return nil, fmt.Errorf("%w: no square up to %dx%d admits an arrangement",
			ErrBinSizeExceeded, maxBinDimension, maxBinDimension)

	case SolverMinimal:
		// Enumerate bins by ascending width+height so the first feasible
		// candidate minimizes the objective exactly.
		for total := maxW + maxH; total <= 2*maxBinDimension; total++ {
			for w := maxW; w <= total-maxH; w++ {
				h := total - w
				if w > maxBinDimension || h > maxBinDimension || w*h < area {
					continue
				}
				packed, ok, err := solveFit(padded, w, h, ctl)
				if err != nil {
					return nil, err
				}
				if ok {
					return finishPlacements(packed, cfg.Padding), nil
				}
			}
		}
		return nil, fmt.Errorf("%w: no bin up to %dx%d admits an arrangement",
			ErrBinSizeExceeded, maxBinDimension, maxBinDimension)
	}
	return nil, fmt.Errorf("%w: unknown solver mode %d", ErrInvalidInput, cfg.SolverMode)
}

func ceilSqrt(area int) int {
	s := int(math.Sqrt(float64(area)))
	for s*s < area {
		s++
	}
	return s
}

// solveFit decides whether every size fits in a width-by-height bin without
// overlap, returning a witness arrangement when one exists. The search is
// exhaustive over bottom-left-justified placements: any feasible
// arrangement can be normalized so each rectangle rests against the bin
// edge or another rectangle on both axes, so exploring only those
// coordinates preserves completeness.
func solveFit(sizes []Size, width, height int, ctl *solverCtl) ([]Rect, bool, error) {
	if totalArea(sizes) > width*height {
		return nil, false, nil
	}
	for i := range sizes {
		if sizes[i].Width > width || sizes[i].Height > height {
			return nil, false, nil
		}
	}

	// Larger sizes first prunes the search tree far earlier.
	ordered := slices.Clone(sizes)
	slices.SortStableFunc(ordered, SortArea)

	placed := make([]Rect, 0, len(ordered))
	ok, err := placeNext(ordered, 0, width, height, &placed, ctl)
	if err != nil || !ok {
		return nil, false, err
	}
	return placed, true, nil
}

func placeNext(sizes []Size, k, width, height int, placed *[]Rect, ctl *solverCtl) (bool, error) {
	if k == len(sizes) {
		return true, nil
	}
	if err := ctl.tick(); err != nil {
		return false, err
	}
	sz := sizes[k]

	xs := []int{0}
	ys := []int{0}
	for i := range *placed {
		xs = append(xs, (*placed)[i].Right())
		ys = append(ys, (*placed)[i].Bottom())
	}
	slices.Sort(xs)
	xs = slices.Compact(xs)
	slices.Sort(ys)
	ys = slices.Compact(ys)

	for _, y := range ys {
		if y+sz.Height > height {
			break
		}
	nextX:
		for _, x := range xs {
			if x+sz.Width > width {
				break
			}
			cand := NewRect(x, y, sz.Width, sz.Height)
			for i := range *placed {
				if (*placed)[i].Intersects(cand) {
					continue nextX
				}
			}
			cand.ID = sz.ID

			*placed = append(*placed, cand)
			ok, err := placeNext(sizes, k+1, width, height, placed, ctl)
			if ok || err != nil {
				return ok, err
			}
			*placed = (*placed)[:len(*placed)-1]
		}
	}
	return false, nil
}
