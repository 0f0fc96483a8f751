package rectpack

// Heuristic selects the rule used to choose a free rectangle when more than
// one candidate can hold the size being placed.
//
// The MaxRects strategy accepts BestShortSideFit, BestLongSideFit,
// BestAreaFit, BottomLeft, and ContactPoint; when no heuristic is pinned it
// tries all five and keeps the tightest arrangement. The Skyline strategy
// accepts BottomLeft and MinWaste. The remaining strategies define their own
// placement rules and ignore this value.
type Heuristic int

const (
	// BestShortSideFit minimizes the lesser leftover side, breaking ties on
	// the greater leftover side.
	BestShortSideFit Heuristic = iota + 1
	// BestLongSideFit minimizes the greater leftover side, breaking ties on
	// the lesser leftover side.
	BestLongSideFit
	// BestAreaFit minimizes leftover area, breaking ties on the lesser
	// leftover side.
	BestAreaFit
	// BottomLeft minimizes the y-coordinate of the placed bottom edge,
	// breaking ties on x.
	BottomLeft
	// ContactPoint maximizes the total edge length touching the bin
	// boundary or previously placed rectangles. This is the only rule where
	// a greater score wins.
	ContactPoint
	// MinWaste minimizes the surface area wasted below the placed
	// rectangle (Skyline only).
	MinWaste
)

// String returns the canonical name of the heuristic.
func (h Heuristic) String() string {
	switch h {
	case BestShortSideFit:
		return "BestShortSideFit"
	case BestLongSideFit:
		return "BestLongSideFit"
	case BestAreaFit:
		return "BestAreaFit"
	case BottomLeft:
		return "BottomLeft"
	case ContactPoint:
		return "ContactPoint"
	case MinWaste:
		return "MinWaste"
	}
	return "Unknown"
}

// ParseHeuristic resolves the name of a placement heuristic. Zero is
// returned for an empty or unrecognized name, which Pack treats as "use the
// strategy default".
func ParseHeuristic(name string) Heuristic {
	switch name {
	case "BestShortSideFit":
		return BestShortSideFit
	case "BestLongSideFit":
		return BestLongSideFit
	case "BestAreaFit":
		return BestAreaFit
	case "BottomLeft":
		return BottomLeft
	case "ContactPoint":
		return ContactPoint
	case "MinWaste":
		return MinWaste
	}
	return 0
}

// maxRectsRing is the fixed order in which the MaxRects strategy tries its
// placement rules when no single heuristic is pinned.
var maxRectsRing = []Heuristic{
	BestShortSideFit,
	BestLongSideFit,
	BestAreaFit,
	BottomLeft,
	ContactPoint,
}
