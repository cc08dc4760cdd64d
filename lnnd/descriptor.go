// Package lnnd implements the Localised Nearest Neighbour Distance (LNND)
// data descriptor. The k-th neighbour distance of a query point is divided by
// the k-th neighbour self-distance of that neighbour, so that the score
// reflects distance relative to the local distance scale of the reference set.
package lnnd

import (
	"github.com/rs/zerolog/log"

	"github.com/patrikhermansson/descry/core"
)

// Descriptor holds the LNND hyperparameters.
type Descriptor struct {
	// K is the neighbour count, fixed or resolved from the reference-set size
	// at fit time.
	K core.K
}

// New creates an LNND descriptor.
func New(k core.K) *Descriptor {
	return &Descriptor{K: k}
}

// Fit resolves k and records, for every reference point, the distance to its
// own k-th nearest neighbour (excluding itself). These self-distances are the
// local scale denominators used at query time.
func (d *Descriptor) Fit(index core.NNIndex) (core.Description, error) {
	k, err := d.K.Resolve(index.Stats().Count)
	if err != nil {
		return nil, err
	}
	_, distances, err := index.QuerySelf(k)
	if err != nil {
		return nil, err
	}
	self := make([]float64, len(distances))
	for i := range distances {
		self[i] = distances[i][k-1]
	}
	log.Debug().Msgf("Fitted LNND with k=%d over %d reference points", k, len(self))
	return &Description{k: k, index: index, selfDistances: self}, nil
}

// Description is a fitted LNND model.
type Description struct {
	k             int
	index         core.NNIndex
	selfDistances []float64
}

// K returns the resolved neighbour count of this fit.
func (m *Description) K() int {
	return m.k
}

// Query scores every input point against the reference set. A point whose
// k-th neighbour distance equals that neighbour's own self-distance scores
// 0.5; coincident duplicates of a zero-scale neighbourhood score 1 by the
// 0/0 = 1 convention.
func (m *Description) Query(points [][]float32) ([]float64, error) {
	return core.QueryScores(m.index, m.k, points, m.aggregate)
}

// aggregate computes the localised distance ratio of one query point and maps
// it through the default proximity transform. Infinite ratios (a positive
// distance over a zero local scale) map to 0; NaN from non-finite index
// distances is preserved to surface upstream data problems.
func (m *Description) aggregate(neighbours []int, distances []float64) float64 {
	ratio := core.DivOr(distances[m.k-1], m.selfDistances[neighbours[m.k-1]], 1)
	return core.ShiftedReciprocal(ratio)
}

// Check that the types implement the core descriptor protocol.
var (
	_ core.Descriptor  = (*Descriptor)(nil)
	_ core.Description = (*Description)(nil)
)
