// Package nnd implements the Nearest Neighbour Distance (NND) data
// descriptor. The score of a query point is an OWA aggregate of the
// proximities of its k nearest reference points; with the default trimmed
// aggregation this is the proximity of the k-th nearest neighbour alone.
package nnd

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/patrikhermansson/descry/core"
	"github.com/patrikhermansson/descry/owa"
)

// Descriptor holds the NND hyperparameters. The zero value is not usable;
// construct with New and optionally override the exported fields before
// fitting. A Descriptor is immutable once fitting starts and may be reused to
// fit multiple reference sets.
type Descriptor struct {
	// K is the neighbour count, fixed or resolved from the reference-set size
	// at fit time.
	K core.K

	// Proximity converts neighbour distances to proximities in [0, 1]. It
	// must be order-reversing on [0, inf).
	Proximity core.Proximity

	// Weights generates the OWA operator used to aggregate the k proximities,
	// instantiated with the resolved k at fit time. The operator may be
	// shorter than k but not longer.
	Weights owa.Family
}

// New creates an NND descriptor with the default proximity transform
// (1/(1+x)) and the default trimmed aggregation.
func New(k core.K) *Descriptor {
	return &Descriptor{
		K:         k,
		Proximity: core.ShiftedReciprocal,
		Weights:   owa.Trimmed,
	}
}

// Fit resolves k against the index's reference set and returns the fitted
// model. It fails if k resolves out of range or the OWA operator is longer
// than the resolved k.
func (d *Descriptor) Fit(index core.NNIndex) (core.Description, error) {
	k, err := d.K.Resolve(index.Stats().Count)
	if err != nil {
		return nil, err
	}
	op := d.Weights(k)
	if op.Len() > k {
		return nil, fmt.Errorf("owa operator %v has length %d, larger than k = %d",
			op, op.Len(), k)
	}
	log.Debug().Msgf("Fitted NND with k=%d, owa=%v", k, op)
	return &Description{
		k:         k,
		index:     index,
		proximity: d.Proximity,
		op:        op,
	}, nil
}

// Description is a fitted NND model.
type Description struct {
	k         int
	index     core.NNIndex
	proximity core.Proximity
	op        owa.Operator
}

// K returns the resolved neighbour count of this fit.
func (m *Description) K() int {
	return m.k
}

// Query scores every input point against the reference set. A point
// coincident with a reference point scores 1 under the default transform;
// distant points score towards 0.
func (m *Description) Query(points [][]float32) ([]float64, error) {
	return core.QueryScores(m.index, m.k, points, m.aggregate)
}

// aggregate transforms the k neighbour distances of one query point into
// proximities and applies the OWA soft maximum.
func (m *Description) aggregate(_ []int, distances []float64) float64 {
	proximities := make([]float64, len(distances))
	for i, d := range distances {
		proximities[i] = m.proximity(d)
	}
	return m.op.SoftMax(proximities)
}

// Check that the types implement the core descriptor protocol.
var (
	_ core.Descriptor  = (*Descriptor)(nil)
	_ core.Description = (*Description)(nil)
)
