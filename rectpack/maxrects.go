package rectpack

import (
	"fmt"
	"math"
	"slices"
)

// positionFunc scores the best free rectangle for a width/height request.
// The returned rectangle has zero height when no free rectangle admits the
// request. Lower scores win; score1 is primary and score2 breaks ties.
type positionFunc func(p *maxRectsRun, width, height int) (Rect, int, int)

// maxRectsRun is the state of one MaxRects attempt at a fixed bin size:
// a flat set of disjoint maximal free rectangles plus the placements made
// so far.
type maxRectsRun struct {
	binWidth    int
	binHeight   int
	margin      int
	allowRotate bool
	findNode    positionFunc
	freeRects   []Rect
	packed      []Rect

	// Minimum dimensions among the sizes still waiting to be placed. Free
	// rectangles below these thresholds can never hold anything and are
	// pruned.
	minWidthReq  int
	minHeightReq int
	minAreaReq   int
}

func newMaxRectsRun(width, height int, heuristic Heuristic, cfg Config) *maxRectsRun {
	p := &maxRectsRun{
		binWidth:    width,
		binHeight:   height,
		margin:      cfg.Margin,
		allowRotate: cfg.AllowRotate,
	}
	switch heuristic {
	case BestLongSideFit:
		p.findNode = findPositionBestLongSideFit
	case BestAreaFit:
		p.findNode = findPositionBestAreaFit
	case BottomLeft:
		p.findNode = findPositionBottomLeft
	case ContactPoint:
		p.findNode = findPositionContactPoint
	default:
		p.findNode = findPositionBestShortSideFit
	}
	p.freeRects = append(p.freeRects, NewRect(0, 0, width, height))
	return p
}

// packMaxRects tries the heuristic ring at growing bin sizes and keeps the
// arrangement with the smallest occupied bounding box. Config.Heuristic
// pins the ring to a single rule.
func packMaxRects(sizes []Size, cfg Config) (*Result, error) {
	ring := maxRectsRing
	if cfg.Heuristic != 0 {
		if cfg.Heuristic == MinWaste {
			return nil, fmt.Errorf("%w: heuristic %v is not valid for MaxRects",
				ErrInvalidInput, cfg.Heuristic)
		}
		ring = []Heuristic{cfg.Heuristic}
	}

	padded := paddedSizes(sizes, cfg.Padding)

	bestOccupied := math.MaxInt
	var bestPacked []Rect
	for _, heuristic := range ring {
		packed, ok := runMaxRects(padded, heuristic, cfg)
		if !ok {
			continue
		}
		w, h := boundingSize(packed)
		if occupied := w * h; occupied < bestOccupied {
			bestOccupied = occupied
			bestPacked = packed
		}
	}
	if bestPacked == nil {
		return nil, fmt.Errorf("%w: no heuristic produced an arrangement within %dx%d",
			ErrBinSizeExceeded, maxRectsBinSize, maxRectsBinSize)
	}
	return finishPlacements(bestPacked, cfg.Padding), nil
}

// seedBinSize returns the smallest power-of-two square able to hold the
// given surface area, capped at the growth limit.
func seedBinSize(area int) int {
	size := 2
	for size*size < area && size <= maxRectsBinSize/2 {
		size <<= 1
	}
	return min(size, maxRectsBinSize)
}

// runMaxRects attempts to place every size with a single heuristic, growing
// the bin by the configured step whenever any size cannot be placed.
func runMaxRects(sizes []Size, heuristic Heuristic, cfg Config) ([]Rect, bool) {
	width := seedBinSize(totalArea(sizes))
	height := width
	for {
		run := newMaxRectsRun(width, height, heuristic, cfg)
		if packed, ok := run.insertAll(sizes); ok {
			return packed, true
		}
		width += cfg.GrowthStep
		height += cfg.GrowthStep
		if width > maxRectsBinSize || height > maxRectsBinSize {
			return nil, false
		}
	}
}

// insertAll places sizes one per iteration, always choosing the size whose
// best position scores lowest across the whole remaining set. Placement
// fails as a whole the moment any remaining size has no admissible
// position.
func (p *maxRectsRun) insertAll(sizes []Size) ([]Rect, bool) {
	remaining := slices.Clone(sizes)
	for len(remaining) > 0 {
		p.updateMinRequests(remaining)

		bestScore1 := math.MaxInt
		bestScore2 := math.MaxInt
		bestIndex := -1
		var bestNode Rect

		for i := range remaining {
			node, score1, score2 := p.findNode(p, remaining[i].Width, remaining[i].Height)
			if node.Height == 0 {
				return nil, false
			}
			if score1 < bestScore1 || (score1 == bestScore1 && score2 < bestScore2) {
				bestScore1 = score1
				bestScore2 = score2
				bestNode = node
				bestNode.ID = remaining[i].ID
				bestIndex = i
			}
		}
		if bestIndex < 0 {
			return nil, false
		}

		p.placeRect(bestNode)
		remaining = slices.Delete(remaining, bestIndex, bestIndex+1)
	}
	return p.packed, true
}

func (p *maxRectsRun) updateMinRequests(remaining []Size) {
	p.minWidthReq = math.MaxInt
	p.minHeightReq = math.MaxInt
	p.minAreaReq = math.MaxInt
	for i := range remaining {
		p.minWidthReq = min(p.minWidthReq, remaining[i].Width)
		p.minHeightReq = min(p.minHeightReq, remaining[i].Height)
		p.minAreaReq = min(p.minAreaReq, remaining[i].Area())
	}
}

// placeRect commits a placement, splitting every overlapping free rectangle
// into its leftover pieces and pruning the result.
func (p *maxRectsRun) placeRect(node Rect) {
	var created []Rect
	for i := 0; i < len(p.freeRects); {
		if p.splitFreeNode(p.freeRects[i], node, &created) {
			p.freeRects = slices.Delete(p.freeRects, i, i+1)
		} else {
			i++
		}
	}
	p.freeRects = append(p.freeRects, created...)
	p.pruneFreeList()
	p.packed = append(p.packed, node)
}

// splitFreeNode reports whether the free rectangle overlaps the used one,
// appending up to four leftover pieces (above, below, left, right). Each
// piece is shrunk by the margin on the side facing the used rectangle and
// dropped when too small for any remaining size.
func (p *maxRectsRun) splitFreeNode(free, used Rect, out *[]Rect) bool {
	if used.X >= free.Right() || used.Right() <= free.X ||
		used.Y >= free.Bottom() || used.Bottom() <= free.Y {
		return false
	}

	// Above the used rectangle.
	if free.Y < used.Y && used.Y < free.Bottom() {
		h := used.Y - free.Y - p.margin
		if h >= p.minHeightReq && free.Width*h >= p.minAreaReq {
			*out = append(*out, NewRect(free.X, free.Y, free.Width, h))
		}
	}
	// Below.
	if used.Bottom() < free.Bottom() {
		h := free.Bottom() - used.Bottom() - p.margin
		if h >= p.minHeightReq && free.Width*h >= p.minAreaReq {
			*out = append(*out, NewRect(free.X, used.Bottom()+p.margin, free.Width, h))
		}
	}
	// Left.
	if free.X < used.X && used.X < free.Right() {
		w := used.X - free.X - p.margin
		if w >= p.minWidthReq && w*free.Height >= p.minAreaReq {
			*out = append(*out, NewRect(free.X, free.Y, w, free.Height))
		}
	}
	// Right.
	if used.Right() < free.Right() {
		w := free.Right() - used.Right() - p.margin
		if w >= p.minWidthReq && w*free.Height >= p.minAreaReq {
			*out = append(*out, NewRect(used.Right()+p.margin, free.Y, w, free.Height))
		}
	}
	return true
}

// pruneFreeList drops free rectangles too small for any remaining size and
// rectangles wholly contained in another free rectangle.
func (p *maxRectsRun) pruneFreeList() {
	survivors := p.freeRects[:0]
	for i := range p.freeRects {
		fr := p.freeRects[i]
		if fr.Width < p.minWidthReq || fr.Height < p.minHeightReq || fr.Area() < p.minAreaReq {
			continue
		}
		survivors = append(survivors, fr)
	}
	p.freeRects = survivors

	for i := 0; i < len(p.freeRects); i++ {
		for j := 0; j < len(p.freeRects); j++ {
			if i == j {
				continue
			}
			if p.freeRects[j].ContainsRect(p.freeRects[i]) {
				p.freeRects = slices.Delete(p.freeRects, i, i+1)
				i--
				break
			}
		}
	}
}

func findPositionBestShortSideFit(p *maxRectsRun, width, height int) (Rect, int, int) {
	var bestNode Rect
	bestShortSideFit := math.MaxInt
	bestLongSideFit := math.MaxInt

	consider := func(freeRect Rect, w, h int, rotated bool) {
		leftoverHoriz := abs(freeRect.Width - w)
		leftoverVert := abs(freeRect.Height - h)
		shortSideFit := min(leftoverHoriz, leftoverVert)
		longSideFit := max(leftoverHoriz, leftoverVert)

		if shortSideFit < bestShortSideFit ||
			(shortSideFit == bestShortSideFit && longSideFit < bestLongSideFit) {
			bestNode = NewRect(freeRect.X, freeRect.Y, w, h)
			bestNode.Rotated = rotated
			bestShortSideFit = shortSideFit
			bestLongSideFit = longSideFit
		}
	}

	for _, freeRect := range p.freeRects {
		if freeRect.Width >= width && freeRect.Height >= height {
			consider(freeRect, width, height, false)
		}
		if p.allowRotate && freeRect.Width >= height && freeRect.Height >= width {
			consider(freeRect, height, width, true)
		}
	}
	return bestNode, bestShortSideFit, bestLongSideFit
}

func findPositionBestLongSideFit(p *maxRectsRun, width, height int) (Rect, int, int) {
	var bestNode Rect
	bestShortSideFit := math.MaxInt
	bestLongSideFit := math.MaxInt

	consider := func(freeRect Rect, w, h int, rotated bool) {
		leftoverHoriz := abs(freeRect.Width - w)
		leftoverVert := abs(freeRect.Height - h)
		shortSideFit := min(leftoverHoriz, leftoverVert)
		longSideFit := max(leftoverHoriz, leftoverVert)

		if longSideFit < bestLongSideFit ||
			(longSideFit == bestLongSideFit && shortSideFit < bestShortSideFit) {
			bestNode = NewRect(freeRect.X, freeRect.Y, w, h)
			bestNode.Rotated = rotated
			bestShortSideFit = shortSideFit
			bestLongSideFit = longSideFit
		}
	}

	for _, freeRect := range p.freeRects {
		if freeRect.Width >= width && freeRect.Height >= height {
			consider(freeRect, width, height, false)
		}
		if p.allowRotate && freeRect.Width >= height && freeRect.Height >= width {
			consider(freeRect, height, width, true)
		}
	}
	return bestNode, bestLongSideFit, bestShortSideFit
}

func findPositionBestAreaFit(p *maxRectsRun, width, height int) (Rect, int, int) {
	var bestNode Rect
	bestAreaFit := math.MaxInt
	bestShortSideFit := math.MaxInt
	requestArea := width * height

	consider := func(freeRect Rect, w, h int, rotated bool) {
		areaFit := freeRect.Area() - requestArea
		shortSideFit := min(abs(freeRect.Width-w), abs(freeRect.Height-h))

		if areaFit < bestAreaFit ||
			(areaFit == bestAreaFit && shortSideFit < bestShortSideFit) {
			bestNode = NewRect(freeRect.X, freeRect.Y, w, h)
			bestNode.Rotated = rotated
			bestAreaFit = areaFit
			bestShortSideFit = shortSideFit
		}
	}

	for _, freeRect := range p.freeRects {
		if freeRect.Width >= width && freeRect.Height >= height {
			consider(freeRect, width, height, false)
		}
		if p.allowRotate && freeRect.Width >= height && freeRect.Height >= width {
			consider(freeRect, height, width, true)
		}
	}
	return bestNode, bestAreaFit, bestShortSideFit
}

func findPositionBottomLeft(p *maxRectsRun, width, height int) (Rect, int, int) {
	var bestNode Rect
	bestY := math.MaxInt
	bestX := math.MaxInt

	consider := func(freeRect Rect, w, h int, rotated bool) {
		topSideY := freeRect.Y + h
		if topSideY < bestY || (topSideY == bestY && freeRect.X < bestX) {
			bestNode = NewRect(freeRect.X, freeRect.Y, w, h)
			bestNode.Rotated = rotated
			bestY = topSideY
			bestX = freeRect.X
		}
	}

	for _, freeRect := range p.freeRects {
		if freeRect.Width >= width && freeRect.Height >= height {
			consider(freeRect, width, height, false)
		}
		if p.allowRotate && freeRect.Width >= height && freeRect.Height >= width {
			consider(freeRect, height, width, true)
		}
	}
	return bestNode, bestY, bestX
}

// findPositionContactPoint negates its score so the shared lower-is-better
// comparison selects the greatest contact length.
func findPositionContactPoint(p *maxRectsRun, width, height int) (Rect, int, int) {
	var bestNode Rect
	bestContactScore := -1

	consider := func(freeRect Rect, w, h int, rotated bool) {
		score := p.contactPointScore(freeRect.X, freeRect.Y, w, h)
		if score > bestContactScore {
			bestNode = NewRect(freeRect.X, freeRect.Y, w, h)
			bestNode.Rotated = rotated
			bestContactScore = score
		}
	}

	for _, freeRect := range p.freeRects {
		if freeRect.Width >= width && freeRect.Height >= height {
			consider(freeRect, width, height, false)
		}
		if p.allowRotate && freeRect.Width >= height && freeRect.Height >= width {
			consider(freeRect, height, width, true)
		}
	}
	return bestNode, -bestContactScore, math.MaxInt
}

// commonIntervalLength returns 0 when the intervals are disjoint, or the
// length of their overlap otherwise.
func commonIntervalLength(i1start, i1end, i2start, i2end int) int {
	if i1end < i2start || i2end < i1start {
		return 0
	}
	return min(i1end, i2end) - max(i1start, i2start)
}

func (p *maxRectsRun) contactPointScore(x, y, width, height int) int {
	score := 0
	if x == 0 || x+width == p.binWidth {
		score += height
	}
	if y == 0 || y+height == p.binHeight {
		score += width
	}
	for _, used := range p.packed {
		if used.X == x+width || used.Right() == x {
			score += commonIntervalLength(used.Y, used.Bottom(), y, y+height)
		}
		if used.Y == y+height || used.Bottom() == y {
			score += commonIntervalLength(used.X, used.Right(), x, x+width)
		}
	}
	return score
}
