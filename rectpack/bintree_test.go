package rectpack

import (
	"errors"
	"testing"
)

func TestBinTreeQuadrants(t *testing.T) {
	sizes := []Size{
		NewSize("q1", 50, 50),
		NewSize("q2", 50, 50),
		NewSize("q3", 50, 50),
		NewSize("q4", 50, 50),
	}
	result, err := Pack(sizes, Config{Strategy: BinaryTree})
	if err != nil {
		t.Fatal(err)
	}
	if result.Width != 100 || result.Height != 100 {
		t.Fatalf("expected 100x100 atlas, got %dx%d", result.Width, result.Height)
	}

	occupied := make(map[Point]string)
	for id, rect := range result.Placements {
		if rect.X%50 != 0 || rect.Y%50 != 0 {
			t.Fatalf("%q not aligned to quadrant grid: %v", id, &rect)
		}
		if prev, ok := occupied[rect.Point]; ok {
			t.Fatalf("%q and %q share position %v", id, prev, rect.Point)
		}
		occupied[rect.Point] = id
	}
}

func TestBinTreeCallerOrder(t *testing.T) {
	// The first size fixes the initial bin, so order changes the layout.
	a := []Size{NewSize("wide", 100, 20), NewSize("tall", 20, 100)}
	b := []Size{NewSize("tall", 20, 100), NewSize("wide", 100, 20)}

	ra, err := Pack(a, Config{Strategy: BinaryTree})
	if err != nil {
		t.Fatal(err)
	}
	rb, err := Pack(b, Config{Strategy: BinaryTree})
	if err != nil {
		t.Fatal(err)
	}

	widePoint := ra.Placements["wide"].Point
	if !widePoint.Eq(Point{}) {
		t.Errorf("wide should anchor the first layout, got %v", widePoint)
	}
	tallPoint := rb.Placements["tall"].Point
	if !tallPoint.Eq(Point{}) {
		t.Errorf("tall should anchor the second layout, got %v", tallPoint)
	}
}

func TestBinTreeGrowthLimit(t *testing.T) {
	sizes := []Size{
		NewSize("seed", 10, 10),
		NewSize("vast", maxBinDimension, maxBinDimension),
	}
	_, err := Pack(sizes, Config{Strategy: BinaryTree})
	if !errors.Is(err, ErrBinSizeExceeded) {
		t.Fatalf("expected ErrBinSizeExceeded, got %v", err)
	}
}

func TestBinTreeFindNodePrefersRight(t *testing.T) {
	tree := newBinTree(100, 100)
	idx := tree.findNode(60, 100)
	tree.splitNode(idx, 60, 100)

	// Right leaf (40 wide) must be offered before the empty down leaf.
	next := tree.findNode(40, 50)
	if next < 0 {
		t.Fatal("no node found")
	}
	if node := tree.nodes[next]; node.x != 60 || node.y != 0 {
		t.Fatalf("expected right leaf at (60,0), got (%d,%d)", node.x, node.y)
	}
}

func TestBinTreeDeterministic(t *testing.T) {
	sizes := testSizes()
	first, err := Pack(sizes, Config{Strategy: BinaryTree})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		next, err := Pack(sizes, Config{Strategy: BinaryTree})
		if err != nil {
			t.Fatal(err)
		}
		for id, rect := range first.Placements {
			if got := next.Placements[id]; got != rect {
				t.Fatalf("placement for %q changed between runs: %v vs %v", id, &rect, &got)
			}
		}
	}
}
