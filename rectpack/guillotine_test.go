package rectpack

import (
	"reflect"
	"testing"
)

func TestInsertAndSplitExact(t *testing.T) {
	splits := insertAndSplit(50, 40, NewRect(10, 20, 50, 40))
	if !splits.valid() || splits.count != 0 {
		t.Fatalf("exact fit should create no splits, got %+v", splits)
	}
}

func TestInsertAndSplitTooBig(t *testing.T) {
	splits := insertAndSplit(51, 40, NewRect(0, 0, 50, 40))
	if splits.valid() {
		t.Fatalf("oversized insert should fail, got %+v", splits)
	}
}

func TestInsertAndSplitOneDimension(t *testing.T) {
	// Exact height leaves a single split to the right.
	splits := insertAndSplit(30, 40, NewRect(0, 0, 50, 40))
	if splits.count != 1 {
		t.Fatalf("expected 1 split, got %+v", splits)
	}
	want := NewRect(30, 0, 20, 40)
	if splits.a != want {
		t.Fatalf("expected split %v, got %v", &want, &splits.a)
	}
}

func TestInsertAndSplitTwoDimensions(t *testing.T) {
	// Wider leftover splits horizontally first: the bigger piece keeps the
	// full space height.
	splits := insertAndSplit(20, 30, NewRect(0, 0, 100, 40))
	if splits.count != 2 {
		t.Fatalf("expected 2 splits, got %+v", splits)
	}
	bigger := NewRect(20, 0, 80, 40)
	lesser := NewRect(0, 30, 20, 10)
	if splits.a != bigger || splits.b != lesser {
		t.Fatalf("unexpected splits %v / %v", &splits.a, &splits.b)
	}

	// Taller leftover splits vertically first.
	splits = insertAndSplit(30, 20, NewRect(0, 0, 40, 100))
	bigger = NewRect(0, 20, 40, 80)
	lesser = NewRect(30, 0, 10, 20)
	if splits.a != bigger || splits.b != lesser {
		t.Fatalf("unexpected splits %v / %v", &splits.a, &splits.b)
	}
}

func TestEmptySpacesInsertRotates(t *testing.T) {
	es := newEmptySpaces(100, 50, true)
	rect, ok := es.insert(NewSize("tall", 50, 100))
	if !ok {
		t.Fatal("insert failed")
	}
	if !rect.Rotated || rect.Width != 100 || rect.Height != 50 {
		t.Fatalf("expected rotated 100x50 placement, got %v", &rect)
	}
}

func TestGuillotinePack(t *testing.T) {
	sizes := testSizes()
	result, err := Pack(sizes, Config{Strategy: Guillotine})
	if err != nil {
		t.Fatal(err)
	}
	requireValidLayout(t, sizes, result, false)
}

func TestGuillotineRotatePairsUp(t *testing.T) {
	sizes := []Size{
		NewSize("a", 100, 50),
		NewSize("b", 50, 100),
	}
	result, err := Pack(sizes, Config{Strategy: Guillotine, AllowRotate: true})
	if err != nil {
		t.Fatal(err)
	}
	requireValidLayout(t, sizes, result, true)

	// With rotation the pair tiles a 100x100 square exactly.
	if area := result.Width * result.Height; area > 100*100 {
		t.Fatalf("expected a 10000px² atlas, got %dx%d", result.Width, result.Height)
	}
}

func TestGuillotineSquarePreference(t *testing.T) {
	sizes := []Size{
		NewSize("a", 64, 64),
		NewSize("b", 64, 64),
		NewSize("c", 64, 64),
		NewSize("d", 64, 64),
	}
	result, err := Pack(sizes, Config{Strategy: Guillotine})
	if err != nil {
		t.Fatal(err)
	}
	requireValidLayout(t, sizes, result, false)

	// Four identical squares should land in a 2x2 grid rather than a strip.
	if result.Width != 128 || result.Height != 128 {
		t.Fatalf("expected 128x128, got %dx%d", result.Width, result.Height)
	}
}

func TestGuillotineDeterministic(t *testing.T) {
	sizes := testSizes()
	first, err := Pack(sizes, Config{Strategy: Guillotine})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		next, err := Pack(sizes, Config{Strategy: Guillotine})
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, next) {
			t.Fatal("results differ between identical runs")
		}
	}
}
