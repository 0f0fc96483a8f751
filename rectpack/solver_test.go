package rectpack

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolverFixedExact(t *testing.T) {
	sizes := []Size{NewSize("l", 50, 50), NewSize("r", 50, 50)}
	cfg := Config{
		Strategy:    Solver,
		SolverMode:  SolverFixedSize,
		FixedWidth:  100,
		FixedHeight: 50,
	}
	result := mustPack(t, sizes, cfg)
	requireValidLayout(t, sizes, result, false)
	assert.Equal(t, 100, result.Width)
	assert.Equal(t, 50, result.Height)
}

func TestSolverFixedUnsatisfiable(t *testing.T) {
	sizes := []Size{NewSize("l", 50, 50), NewSize("r", 50, 50)}
	cfg := Config{
		Strategy:    Solver,
		SolverMode:  SolverFixedSize,
		FixedWidth:  60,
		FixedHeight: 60,
	}
	_, err := Pack(sizes, cfg)
	require.ErrorIs(t, err, ErrUnsatisfiable)
}

func TestSolverFixedRequiresDimensions(t *testing.T) {
	cfg := Config{Strategy: Solver, SolverMode: SolverFixedSize, FixedWidth: 128}
	_, err := Pack(solverSizes(), cfg)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSolverPowerOfTwo(t *testing.T) {
	sizes := solverSizes()
	result := mustPack(t, sizes, Config{Strategy: Solver, SolverMode: SolverPowerOfTwo})
	requireValidLayout(t, sizes, result, false)

	// The first candidate, 128x128, comfortably holds the fixture.
	assert.LessOrEqual(t, result.Width, 128)
	assert.LessOrEqual(t, result.Height, 128)
}

func TestSolverPowerOfTwoUnsatisfiable(t *testing.T) {
	// Taller than the largest candidate bin.
	sizes := []Size{NewSize("tower", 8, 17000)}
	cfg := Config{Strategy: Solver, SolverMode: SolverPowerOfTwo}
	_, err := Pack(sizes, cfg)
	require.ErrorIs(t, err, ErrUnsatisfiable)
}

func TestSolverSquare(t *testing.T) {
	sizes := []Size{
		NewSize("a", 10, 10),
		NewSize("b", 10, 10),
		NewSize("c", 10, 10),
	}
	result := mustPack(t, sizes, Config{Strategy: Solver, SolverMode: SolverSquare})
	requireValidLayout(t, sizes, result, false)

	// Three 10x10 squares cannot share an 18x18 or 19x19 bin, so the
	// minimal square is 20x20.
	require.Equal(t, 20, max(result.Width, result.Height))
}

func TestSolverMinimal(t *testing.T) {
	sizes := []Size{
		NewSize("h", 30, 10),
		NewSize("v", 10, 30),
	}
	result := mustPack(t, sizes, Config{Strategy: Solver, SolverMode: SolverMinimal})
	requireValidLayout(t, sizes, result, false)

	// Optimal width+height for this pair is 70 (30x40 or 40x30).
	assert.Equal(t, 70, result.Width+result.Height)
}

func TestSolverDeadline(t *testing.T) {
	ctl := &solverCtl{deadline: time.Now().Add(-time.Minute), nodes: 1023}
	sizes := []Size{NewSize("a", 10, 10), NewSize("b", 10, 10)}
	_, _, err := solveFit(sizes, 64, 64, ctl)
	require.ErrorIs(t, err, ErrTimeout)
}

func TestSolverDeterministic(t *testing.T) {
	sizes := solverSizes()
	cfg := Config{Strategy: Solver, SolverMode: SolverMinimal}
	first := mustPack(t, sizes, cfg)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, mustPack(t, sizes, cfg))
	}
}

func TestSolveFitWitness(t *testing.T) {
	sizes := []Size{
		NewSize("a", 20, 16),
		NewSize("b", 20, 16),
		NewSize("c", 40, 4),
	}
	ctl := &solverCtl{deadline: time.Now().Add(time.Second)}
	placed, ok, err := solveFit(sizes, 40, 20, ctl)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, placed, 3)

	for i, a := range placed {
		assert.LessOrEqual(t, a.Right(), 40)
		assert.LessOrEqual(t, a.Bottom(), 20)
		for _, b := range placed[i+1:] {
			assert.False(t, a.Intersects(b), "%v overlaps %v", &a, &b)
		}
	}
}
