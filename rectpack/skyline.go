package rectpack

import (
	"fmt"
	"math"
	"slices"
)

// skylineNode is one horizontal segment of the skyline contour. The
// segments always tile the full bin width in ascending x order.
type skylineNode struct {
	x, y, width int
}

// skylineRun is the state of one skyline attempt at a fixed bin size. With
// the MinWaste rule, the area buried below each placement is recycled
// through a secondary free-rectangle map instead of being lost.
type skylineRun struct {
	binWidth    int
	binHeight   int
	allowRotate bool
	useWasteMap bool
	skyline     []skylineNode
	wasteRects  []Rect
	packed      []Rect
}

func newSkylineRun(width, height int, heuristic Heuristic, allowRotate bool) *skylineRun {
	return &skylineRun{
		binWidth:    width,
		binHeight:   height,
		allowRotate: allowRotate,
		useWasteMap: heuristic == MinWaste,
		skyline:     []skylineNode{{x: 0, y: 0, width: width}},
	}
}

// packSkyline places sizes in caller order at growing bin sizes. The
// default placement rule is BottomLeft; Config.Heuristic may select
// MinWaste instead.
func packSkyline(sizes []Size, cfg Config) (*Result, error) {
	switch cfg.Heuristic {
	case 0, BottomLeft, MinWaste:
	default:
		return nil, fmt.Errorf("%w: heuristic %v is not valid for Skyline",
			ErrInvalidInput, cfg.Heuristic)
	}

	padded := paddedSizes(sizes, cfg.Padding)

	width := seedBinSize(totalArea(padded))
	height := width
	for {
		run := newSkylineRun(width, height, cfg.Heuristic, cfg.AllowRotate)
		if run.insertAll(padded) {
			return finishPlacements(run.packed, cfg.Padding), nil
		}
		width += cfg.GrowthStep
		height += cfg.GrowthStep
		if width > maxRectsBinSize || height > maxRectsBinSize {
			return nil, fmt.Errorf("%w: no arrangement within %dx%d",
				ErrBinSizeExceeded, maxRectsBinSize, maxRectsBinSize)
		}
	}
}

func (p *skylineRun) insertAll(sizes []Size) bool {
	for i := range sizes {
		if !p.insert(sizes[i]) {
			return false
		}
	}
	return true
}

func (p *skylineRun) insert(sz Size) bool {
	if p.useWasteMap {
		if rect, ok := p.insertWaste(sz); ok {
			p.packed = append(p.packed, rect)
			return true
		}
	}

	var node Rect
	var index int
	if p.useWasteMap {
		node, index = p.findMinWaste(sz.Width, sz.Height)
	} else {
		node, index = p.findBottomLeft(sz.Width, sz.Height)
	}
	if node.Height == 0 {
		return false
	}

	p.addLevel(index, node)
	node.ID = sz.ID
	p.packed = append(p.packed, node)
	return true
}

// testFit reports whether a size placed at the given segment stays inside
// the bin, returning the level it would rest on. The level is the highest
// skyline segment under the span of the placement.
func (p *skylineRun) testFit(index, width, height int) (int, bool) {
	x := p.skyline[index].x
	if x+width > p.binWidth {
		return 0, false
	}

	y := p.skyline[index].y
	widthLeft := width
	for i := index; widthLeft > 0; i++ {
		y = max(y, p.skyline[i].y)
		if y+height > p.binHeight {
			return 0, false
		}
		widthLeft -= p.skyline[i].width
	}
	return y, true
}

// computeWaste sums the area trapped between the placement level and the
// skyline segments it spans.
func (p *skylineRun) computeWaste(index, width, y int) int {
	wasted := 0
	rectLeft := p.skyline[index].x
	rectRight := rectLeft + width

	for i := index; i < len(p.skyline) && p.skyline[i].x < rectRight; i++ {
		if p.skyline[i].x+p.skyline[i].width <= rectLeft {
			break
		}
		left := p.skyline[i].x
		right := min(rectRight, left+p.skyline[i].width)
		wasted += (right - left) * (y - p.skyline[i].y)
	}
	return wasted
}

// addWaste records the trapped area below a placement as free rectangles
// for later reuse.
func (p *skylineRun) addWaste(index, width, y int) {
	rectLeft := p.skyline[index].x
	rectRight := rectLeft + width

	for i := index; i < len(p.skyline) && p.skyline[i].x < rectRight; i++ {
		if p.skyline[i].x+p.skyline[i].width <= rectLeft {
			break
		}
		left := p.skyline[i].x
		right := min(rectRight, left+p.skyline[i].width)
		if h := y - p.skyline[i].y; h > 0 {
			p.wasteRects = append(p.wasteRects, NewRect(left, p.skyline[i].y, right-left, h))
		}
	}
}

// addLevel commits a placement: the new segment is inserted at its index
// and the segments it shadows are shrunk or removed, then adjacent
// segments at equal height are merged.
func (p *skylineRun) addLevel(index int, rect Rect) {
	if p.useWasteMap {
		p.addWaste(index, rect.Width, rect.Y)
	}

	p.skyline = slices.Insert(p.skyline, index, skylineNode{
		x:     rect.X,
		y:     rect.Y + rect.Height,
		width: rect.Width,
	})

	for i := index + 1; i < len(p.skyline); i++ {
		if p.skyline[i].x >= p.skyline[i-1].x+p.skyline[i-1].width {
			break
		}
		shrink := p.skyline[i-1].x + p.skyline[i-1].width - p.skyline[i].x
		p.skyline[i].x += shrink
		p.skyline[i].width -= shrink
		if p.skyline[i].width > 0 {
			break
		}
		p.skyline = slices.Delete(p.skyline, i, i+1)
		i--
	}

	for i := 0; i < len(p.skyline)-1; i++ {
		if p.skyline[i].y == p.skyline[i+1].y {
			p.skyline[i].width += p.skyline[i+1].width
			p.skyline = slices.Delete(p.skyline, i+1, i+2)
			i--
		}
	}
}

// findBottomLeft selects the segment minimizing the top edge of the
// placement, breaking ties on the narrower segment.
func (p *skylineRun) findBottomLeft(width, height int) (Rect, int) {
	bestHeight := math.MaxInt
	bestWidth := math.MaxInt
	bestIndex := -1
	var node Rect

	consider := func(i, w, h int, rotated bool) {
		y, ok := p.testFit(i, w, h)
		if !ok {
			return
		}
		if y+h < bestHeight || (y+h == bestHeight && p.skyline[i].width < bestWidth) {
			bestHeight = y + h
			bestWidth = p.skyline[i].width
			bestIndex = i
			node = NewRect(p.skyline[i].x, y, w, h)
			node.Rotated = rotated
		}
	}

	for i := range p.skyline {
		consider(i, width, height, false)
		if p.allowRotate && width != height {
			consider(i, height, width, true)
		}
	}
	return node, bestIndex
}

// findMinWaste selects the segment minimizing the area buried below the
// placement, breaking ties on the lower top edge.
func (p *skylineRun) findMinWaste(width, height int) (Rect, int) {
	bestWasted := math.MaxInt
	bestHeight := math.MaxInt
	bestIndex := -1
	var node Rect

	consider := func(i, w, h int, rotated bool) {
		y, ok := p.testFit(i, w, h)
		if !ok {
			return
		}
		wasted := p.computeWaste(i, w, y)
		if wasted < bestWasted || (wasted == bestWasted && y+h < bestHeight) {
			bestWasted = wasted
			bestHeight = y + h
			bestIndex = i
			node = NewRect(p.skyline[i].x, y, w, h)
			node.Rotated = rotated
		}
	}

	for i := range p.skyline {
		consider(i, width, height, false)
		if p.allowRotate && width != height {
			consider(i, height, width, true)
		}
	}
	return node, bestIndex
}

// insertWaste tries to place a size in the recycled area below earlier
// placements, choosing the free rectangle with the least leftover area and
// splitting its remainder with a guillotine cut.
func (p *skylineRun) insertWaste(sz Size) (Rect, bool) {
	bestArea := math.MaxInt
	bestIndex := -1
	bestRotated := false

	for i := range p.wasteRects {
		fr := &p.wasteRects[i]
		fits := fr.Width >= sz.Width && fr.Height >= sz.Height
		fitsRotated := p.allowRotate && fr.Width >= sz.Height && fr.Height >= sz.Width
		if !fits && !fitsRotated {
			continue
		}
		if areaFit := fr.Area() - sz.Area(); areaFit < bestArea {
			bestArea = areaFit
			bestIndex = i
			bestRotated = !fits
		}
	}
	if bestIndex < 0 {
		return Rect{}, false
	}

	sp := p.wasteRects[bestIndex]
	w, h := sz.Width, sz.Height
	if bestRotated {
		w, h = h, w
	}
	splits := insertAndSplit(w, h, sp)

	p.wasteRects[bestIndex] = p.wasteRects[len(p.wasteRects)-1]
	p.wasteRects = p.wasteRects[:len(p.wasteRects)-1]
	if splits.count >= 1 {
		p.wasteRects = append(p.wasteRects, splits.a)
	}
	if splits.count == 2 {
		p.wasteRects = append(p.wasteRects, splits.b)
	}

	rect := NewRect(sp.X, sp.Y, w, h)
	rect.Rotated = bestRotated
	rect.ID = sz.ID
	return rect, true
}
