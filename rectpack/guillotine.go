package rectpack

import (
	"fmt"
	"math"
	"slices"
)

// guillotineDiscardStep tunes the bin-size binary search. The magnitude is
// the step at which coarse halving stops; a negative value additionally
// performs that many single-pixel shrink attempts before settling.
const guillotineDiscardStep = -4

// binDimension selects which bin dimensions the binary search varies.
type binDimension int

const (
	dimBoth binDimension = iota
	dimWidth
	dimHeight
)

// createdSplits holds the leftover spaces produced by cutting a free space
// around an inserted rectangle. A negative count marks a failed insertion;
// at most two splits are ever produced.
type createdSplits struct {
	count int
	a, b  Rect
}

func failedSplits() createdSplits {
	return createdSplits{count: -1}
}

func (s createdSplits) valid() bool {
	return s.count >= 0
}

// betterThan prefers insertions that fragment the free space less.
func (s createdSplits) betterThan(other createdSplits) bool {
	return s.count < other.count
}

// insertAndSplit fits a width/height request into the top-left corner of a
// free space and cuts the remainder with one full-length guillotine cut
// along the larger free dimension.
func insertAndSplit(width, height int, sp Rect) createdSplits {
	freeW := sp.Width - width
	freeH := sp.Height - height

	if freeW < 0 || freeH < 0 {
		return failedSplits()
	}
	if freeW == 0 && freeH == 0 {
		return createdSplits{}
	}
	if freeW > 0 && freeH == 0 {
		return createdSplits{count: 1, a: NewRect(sp.X+width, sp.Y, freeW, sp.Height)}
	}
	if freeW == 0 && freeH > 0 {
		return createdSplits{count: 1, a: NewRect(sp.X, sp.Y+height, sp.Width, freeH)}
	}

	if freeW > freeH {
		return createdSplits{
			count: 2,
			a:     NewRect(sp.X+width, sp.Y, freeW, sp.Height),
			b:     NewRect(sp.X, sp.Y+height, width, freeH),
		}
	}
	return createdSplits{
		count: 2,
		a:     NewRect(sp.X, sp.Y+height, sp.Width, freeH),
		b:     NewRect(sp.X+width, sp.Y, freeW, height),
	}
}

// emptySpaces tracks the free spaces of one guillotine bin. Spaces are
// scanned newest-first so recently created small splits are filled before
// older large ones.
type emptySpaces struct {
	spaces      []Rect
	allowRotate bool
}

func newEmptySpaces(width, height int, allowRotate bool) *emptySpaces {
	return &emptySpaces{
		spaces:      []Rect{NewRect(0, 0, width, height)},
		allowRotate: allowRotate,
	}
}

// insert places a size into the first space that admits it in either
// orientation, preferring whichever orientation creates fewer splits and
// the normal orientation on ties.
func (es *emptySpaces) insert(sz Size) (Rect, bool) {
	for i := len(es.spaces) - 1; i >= 0; i-- {
		sp := es.spaces[i]

		normal := insertAndSplit(sz.Width, sz.Height, sp)
		flipped := failedSplits()
		if es.allowRotate && sz.Width != sz.Height {
			flipped = insertAndSplit(sz.Height, sz.Width, sp)
		}

		rotated := false
		chosen := normal
		switch {
		case normal.valid() && flipped.valid():
			if flipped.betterThan(normal) {
				chosen = flipped
				rotated = true
			}
		case flipped.valid():
			chosen = flipped
			rotated = true
		case !normal.valid():
			continue
		}

		// Swap-remove the consumed space, then push the splits so they are
		// examined first on the next insertion.
		es.spaces[i] = es.spaces[len(es.spaces)-1]
		es.spaces = es.spaces[:len(es.spaces)-1]
		if chosen.count >= 1 {
			es.spaces = append(es.spaces, chosen.a)
		}
		if chosen.count == 2 {
			es.spaces = append(es.spaces, chosen.b)
		}

		rect := NewRect(sp.X, sp.Y, sz.Width, sz.Height)
		if rotated {
			rect.Width, rect.Height = sz.Height, sz.Width
			rect.Rotated = true
		}
		rect.ID = sz.ID
		return rect, true
	}
	return Rect{}, false
}

// tryPackAll attempts to place every size, in order, into a single bin of
// the given dimensions.
func tryPackAll(sizes []Size, width, height int, allowRotate bool) ([]Rect, bool) {
	es := newEmptySpaces(width, height, allowRotate)
	packed := make([]Rect, 0, len(sizes))
	for i := range sizes {
		rect, ok := es.insert(sizes[i])
		if !ok {
			return nil, false
		}
		packed = append(packed, rect)
	}
	return packed, true
}

// tryWithDimension binary-searches candidate bin sizes along the selected
// dimension(s), starting from half the given bin and halving the step after
// every probe. On success it shrinks, on failure it grows; the search ends
// when the step reaches the discard threshold after a success, or when
// growth exceeds the starting bin.
func tryWithDimension(sizes []Size, dim binDimension, startW, startH, discardStep int, allowRotate bool) (int, int, []Rect) {
	candW, candH := startW, startH
	var step int
	switch dim {
	case dimBoth:
		candW /= 2
		candH /= 2
		step = candW / 2
	case dimWidth:
		candW /= 2
		step = candW / 2
	default:
		candH /= 2
		step = candH / 2
	}

	prevW, prevH := startW, startH
	var best []Rect
	for {
		packed, ok := tryPackAll(sizes, candW, candH, allowRotate)
		if ok {
			prevW, prevH = candW, candH
			best = packed

			if step <= abs(discardStep) {
				if discardStep < 0 && -discardStep > 1 {
					// Final single-pixel shrink attempts.
					remaining := -discardStep
					for remaining > 0 && step <= 1 {
						switch dim {
						case dimBoth:
							candW--
							candH--
						case dimWidth:
							candW--
						default:
							candH--
						}
						packed, ok = tryPackAll(sizes, candW, candH, allowRotate)
						if !ok {
							break
						}
						prevW, prevH = candW, candH
						best = packed
						remaining--
					}
				}
				return prevW, prevH, best
			}

			switch dim {
			case dimBoth:
				candW -= step
				candH -= step
			case dimWidth:
				candW -= step
			default:
				candH -= step
			}
		} else {
			switch dim {
			case dimBoth:
				candW += step
				candH += step
				if candW*candH > startW*startH {
					return startW, startH, best
				}
			case dimWidth:
				candW += step
				if candW > startW {
					return startW, startH, best
				}
			default:
				candH += step
				if candH > startH {
					return startW, startH, best
				}
			}
		}
		step = max(1, step/2)
	}
}

// findBestBinSize searches for the smallest bin admitting every size:
// first varying both dimensions together, then refining width and height
// independently from the best square-ish result.
func findBestBinSize(sizes []Size, maxSide, discardStep int, allowRotate bool) (int, int, []Rect) {
	bestW, bestH, best := tryWithDimension(sizes, dimBoth, maxSide, maxSide, discardStep, allowRotate)
	if best == nil {
		return 0, 0, nil
	}

	if w, h, packed := tryWithDimension(sizes, dimWidth, bestW, bestH, discardStep, allowRotate); packed != nil && w*h < bestW*bestH {
		bestW, bestH, best = w, h, packed
	}
	if w, h, packed := tryWithDimension(sizes, dimHeight, bestW, bestH, discardStep, allowRotate); packed != nil && w*h < bestW*bestH {
		bestW, bestH, best = w, h, packed
	}
	return bestW, bestH, best
}

// packGuillotine runs the bin-size search once per input ordering and keeps
// the arrangement whose bin minimizes area weighted by the configured
// aspect penalty, favoring square-ish atlases over marginally smaller
// slivers.
func packGuillotine(sizes []Size, cfg Config) (*Result, error) {
	padded := paddedSizes(sizes, cfg.Padding)

	area := totalArea(padded)
	maxDim := 0
	for i := range padded {
		maxDim = max(maxDim, padded[i].MaxSide())
	}
	maxSide := min(max(maxDim*2, int(1.5*math.Sqrt(float64(area)))), maxBinDimension)

	orderings := []SortFunc{SortArea, SortPerimeter, SortMaxSide, SortWidth, SortHeight}

	bestScore := math.Inf(1)
	var bestPacked []Rect
	for _, less := range orderings {
		ordered := slices.Clone(padded)
		slices.SortStableFunc(ordered, less)

		w, h, packed := findBestBinSize(ordered, maxSide, guillotineDiscardStep, cfg.AllowRotate)
		if packed == nil {
			continue
		}
		aspect := max(float64(w)/float64(h), float64(h)/float64(w))
		score := float64(w*h) * (1 + cfg.AspectPenalty*(aspect-1)*(aspect-1))
		if score < bestScore {
			bestScore = score
			bestPacked = packed
		}
	}
	if bestPacked == nil {
		return nil, fmt.Errorf("%w: no ordering fits within %dx%d",
			ErrBinSizeExceeded, maxSide, maxSide)
	}
	return finishPlacements(bestPacked, cfg.Padding), nil
}
