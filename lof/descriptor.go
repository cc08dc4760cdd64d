// Package lof implements the Local Outlier Factor (LOF) data descriptor of
// Breunig et al. The local reachability density of a query point is compared
// against the densities of its k nearest reference points; a point in a much
// sparser region than its neighbours gets a factor above 1 and a score below
// 0.5.
package lof

import (
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"

	"github.com/patrikhermansson/descry/core"
)

// Descriptor holds the LOF hyperparameters.
type Descriptor struct {
	// K is the neighbour count, fixed or resolved from the reference-set size
	// at fit time.
	K core.K
}

// New creates a LOF descriptor.
func New(k core.K) *Descriptor {
	return &Descriptor{K: k}
}

// Fit resolves k and precomputes, for every reference point, its k-th
// neighbour self-distance and its local reachability density. The
// self-distances act as the floor of the reachability distances on both the
// reference and the query side.
func (d *Descriptor) Fit(index core.NNIndex) (core.Description, error) {
	k, err := d.K.Resolve(index.Stats().Count)
	if err != nil {
		return nil, err
	}
	neighbours, distances, err := index.QuerySelf(k)
	if err != nil {
		return nil, err
	}
	m := &Description{k: k, index: index}
	m.selfDistances = make([]float64, len(distances))
	for i := range distances {
		m.selfDistances[i] = distances[i][k-1]
	}
	m.lrd = make([]float64, len(distances))
	for i := range distances {
		m.lrd[i] = m.reachabilityDensity(neighbours[i], distances[i])
	}
	log.Debug().Msgf("Fitted LOF with k=%d over %d reference points", k, len(m.lrd))
	return m, nil
}

// Description is a fitted LOF model.
type Description struct {
	k             int
	index         core.NNIndex
	selfDistances []float64
	lrd           []float64
}

// K returns the resolved neighbour count of this fit.
func (m *Description) K() int {
	return m.k
}

// Query scores every input point against the reference set. Points of
// typical local density score about 0.5; outliers score towards 0.
func (m *Description) Query(points [][]float32) ([]float64, error) {
	return core.QueryScores(m.index, m.k, points, m.aggregate)
}

// reachabilityDensity computes the local reachability density of a point from
// its k neighbour positions and distances: the reciprocal mean of the
// reachability distances, where each distance is floored by the neighbour's
// own k-th neighbour self-distance. A neighbourhood of coincident duplicates
// has zero mean reachability and infinite density.
func (m *Description) reachabilityDensity(neighbours []int, distances []float64) float64 {
	reach := make([]float64, len(distances))
	for j, d := range distances {
		reach[j] = math.Max(d, m.selfDistances[neighbours[j]])
	}
	return 1 / stat.Mean(reach, nil)
}

// aggregate computes the LOF statistic of one query point: the mean density
// of its neighbours over its own density, mapped through the default
// proximity transform. The indeterminate Inf/Inf case, where both sides are
// degenerate duplicates, is defined as factor 1 (typical). NaN carried in
// from a non-finite index distance is preserved to surface upstream data
// problems.
func (m *Description) aggregate(neighbours []int, distances []float64) float64 {
	density := m.reachabilityDensity(neighbours, distances)
	neighbourDensities := make([]float64, len(neighbours))
	for j, n := range neighbours {
		neighbourDensities[j] = m.lrd[n]
	}
	mean := stat.Mean(neighbourDensities, nil)
	factor := mean / density
	if math.IsNaN(factor) && !math.IsNaN(mean) && !math.IsNaN(density) {
		factor = 1
	}
	return core.ShiftedReciprocal(factor)
}

// Check that the types implement the core descriptor protocol.
var (
	_ core.Descriptor  = (*Descriptor)(nil)
	_ core.Description = (*Description)(nil)
)
