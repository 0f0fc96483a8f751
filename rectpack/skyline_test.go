package rectpack

import (
	"errors"
	"reflect"
	"testing"
)

func TestSkylineBottomLeft(t *testing.T) {
	sizes := testSizes()
	result, err := Pack(sizes, Config{Strategy: Skyline})
	if err != nil {
		t.Fatal(err)
	}
	requireValidLayout(t, sizes, result, false)
}

func TestSkylineMinWaste(t *testing.T) {
	sizes := testSizes()
	result, err := Pack(sizes, Config{Strategy: Skyline, Heuristic: MinWaste})
	if err != nil {
		t.Fatal(err)
	}
	requireValidLayout(t, sizes, result, false)
}

func TestSkylineRejectsHeuristic(t *testing.T) {
	_, err := Pack(testSizes(), Config{Strategy: Skyline, Heuristic: ContactPoint})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSkylineRotate(t *testing.T) {
	sizes := []Size{
		NewSize("wide", 120, 30),
		NewSize("tall", 30, 120),
		NewSize("block", 50, 50),
	}
	result, err := Pack(sizes, Config{Strategy: Skyline, AllowRotate: true})
	if err != nil {
		t.Fatal(err)
	}
	requireValidLayout(t, sizes, result, true)
}

func TestSkylineWasteReuse(t *testing.T) {
	// The ledge trapped under the wide top rectangle should be recycled
	// for the small piece instead of raising the skyline.
	sizes := []Size{
		NewSize("tall", 40, 100),
		NewSize("lid", 100, 20),
		NewSize("chip", 20, 20),
	}
	result, err := Pack(sizes, Config{Strategy: Skyline, Heuristic: MinWaste})
	if err != nil {
		t.Fatal(err)
	}
	requireValidLayout(t, sizes, result, false)
}

func TestSkylineContour(t *testing.T) {
	run := newSkylineRun(100, 100, BottomLeft, false)
	if !run.insert(NewSize("base", 100, 10)) {
		t.Fatal("base insert failed")
	}
	if !run.insert(NewSize("box", 40, 40)) {
		t.Fatal("box insert failed")
	}

	// One segment at the box top, one at the base top.
	want := []skylineNode{{x: 0, y: 50, width: 40}, {x: 40, y: 10, width: 60}}
	if !reflect.DeepEqual(run.skyline, want) {
		t.Fatalf("unexpected skyline %+v", run.skyline)
	}
}

func TestSkylineDeterministic(t *testing.T) {
	sizes := testSizes()
	first, err := Pack(sizes, Config{Strategy: Skyline, Heuristic: MinWaste})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		next, err := Pack(sizes, Config{Strategy: Skyline, Heuristic: MinWaste})
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, next) {
			t.Fatal("results differ between identical runs")
		}
	}
}
