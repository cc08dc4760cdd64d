package lnnd_test

import (
	"math"
	"testing"

	"github.com/patrikhermansson/descry/core"
	"github.com/patrikhermansson/descry/flat"
	"github.com/patrikhermansson/descry/lnnd"
)

// almostEqual compares two floating-point values with a tolerance.
func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// newLineIndex builds a 1-D index over the given positions.
func newLineIndex(t *testing.T, positions ...float32) *flat.FlatIndex {
	t.Helper()
	idx := flat.NewFlatIndex(1)
	for _, p := range positions {
		if err := idx.Add([]float32{p}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	return idx
}

func TestLNND_LocalisedRatio(t *testing.T) {
	// Reference set 0,1,3,7 with k=1. Self-distances: 1, 1, 2, 4.
	idx := newLineIndex(t, 0, 1, 3, 7)
	model, err := lnnd.New(core.FixedK(1)).Fit(idx)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	tests := []struct {
		name  string
		point float32
		want  float64
	}{
		// Query 4: nearest is 3 (distance 1, local scale 2), ratio 0.5.
		{"half local scale", 4, 1 / 1.5},
		// Query 7: coincident, ratio 0/4 = 0.
		{"coincident point", 7, 1},
		// Query 11: distance 4 to point 7, whose self-distance is 4: l = 1.
		{"ratio one", 11, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores, err := model.Query([][]float32{{tt.point}})
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if !almostEqual(scores[0], tt.want, 1e-6) {
				t.Errorf("score = %v, want %v", scores[0], tt.want)
			}
		})
	}
}

func TestLNND_ZeroOverZero(t *testing.T) {
	// Duplicate reference points at 0 have a self-distance of 0, so a
	// coincident query point has ratio 0/0, defined as 1, and scores 0.5.
	idx := newLineIndex(t, 0, 0, 5)
	model, err := lnnd.New(core.FixedK(1)).Fit(idx)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	scores, err := model.Query([][]float32{{0}})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if !almostEqual(scores[0], 0.5, 1e-9) {
		t.Errorf("score = %v, want 0.5 by the 0/0 = 1 convention", scores[0])
	}
}

func TestLNND_InfiniteRatio(t *testing.T) {
	// A positive distance over a zero local scale gives an infinite ratio,
	// which the transform maps to score 0.
	idx := newLineIndex(t, 0, 0, 5)
	model, err := lnnd.New(core.FixedK(1)).Fit(idx)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	scores, err := model.Query([][]float32{{1}})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if scores[0] != 0 {
		t.Errorf("score = %v, want 0 for an infinite ratio", scores[0])
	}
}

func TestLNND_BatchAlwaysScoresEveryPoint(t *testing.T) {
	// A degenerate point in a batch never aborts the query: every point
	// still receives a well-defined score.
	idx := newLineIndex(t, 0, 0, 5)
	model, err := lnnd.New(core.FixedK(1)).Fit(idx)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	scores, err := model.Query([][]float32{{0}, {1}, {5}})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	for i, s := range scores {
		if math.IsNaN(s) {
			t.Errorf("score %d is NaN, want a defined value", i)
		}
	}
}

func TestLNND_FitErrors(t *testing.T) {
	idx := newLineIndex(t, 0, 1, 2)

	if _, err := lnnd.New(core.FixedK(0)).Fit(idx); err == nil {
		t.Errorf("expected error for k = 0, but got none")
	}
	// k equal to the reference-set size cannot be served by a self-query,
	// and the index error propagates through Fit.
	if _, err := lnnd.New(core.FixedK(3)).Fit(idx); err == nil {
		t.Errorf("expected the self-query error to propagate, but got none")
	}
}

// cannedIndex serves fixed query results, for exercising distances a real
// index cannot produce.
type cannedIndex struct {
	count          int
	selfNeighbours [][]int
	selfDistances  [][]float64
	neighbours     [][]int
	distances      [][]float64
}

func (c *cannedIndex) Query(points [][]float32, k int) ([][]int, [][]float64, error) {
	return c.neighbours[:len(points)], c.distances[:len(points)], nil
}

func (c *cannedIndex) QuerySelf(k int) ([][]int, [][]float64, error) {
	return c.selfNeighbours, c.selfDistances, nil
}

func (c *cannedIndex) Stats() core.IndexStats {
	return core.IndexStats{Count: c.count, Dimension: 1, Distance: "euclidean"}
}

func TestLNND_NonFiniteDistanceScoresNaN(t *testing.T) {
	// A NaN neighbour distance marks a data problem upstream of the
	// descriptor. The ratio and the score stay NaN instead of being masked
	// to a valid score.
	index := &cannedIndex{
		count:          2,
		selfNeighbours: [][]int{{1}, {0}},
		selfDistances:  [][]float64{{1}, {1}},
		neighbours:     [][]int{{0}},
		distances:      [][]float64{{math.NaN()}},
	}
	model, err := lnnd.New(core.FixedK(1)).Fit(index)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	scores, err := model.Query([][]float32{{0}})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if !math.IsNaN(scores[0]) {
		t.Errorf("score = %v, want NaN for a NaN neighbour distance", scores[0])
	}
}
