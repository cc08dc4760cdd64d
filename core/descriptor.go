package core

import (
	"fmt"
)

// K is the neighbour-count hyperparameter of a descriptor: either a fixed
// positive integer, or a function from the reference-set size to such an
// integer. It is resolved once, at fit time, into a concrete integer.
type K struct {
	fixed    int
	fromSize func(int) int
}

// FixedK returns a K that always resolves to the given integer.
func FixedK(k int) K {
	return K{fixed: k}
}

// KFromSize returns a K that is resolved by applying f to the reference-set
// size at fit time.
func KFromSize(f func(size int) int) K {
	return K{fromSize: f}
}

// Resolve turns the hyperparameter into a concrete neighbour count for a
// reference set of the given size. It returns an error if the resolved value
// is not a positive integer no larger than the reference-set size.
func (k K) Resolve(size int) (int, error) {
	resolved := k.fixed
	if k.fromSize != nil {
		resolved = k.fromSize(size)
	}
	if resolved < 1 || resolved > size {
		return 0, fmt.Errorf("k = %d out of range [1, %d] for reference set of size %d",
			resolved, size, size)
	}
	return resolved, nil
}

// Descriptor holds the hyperparameters of a nearest-neighbour scoring
// algorithm. Fitting it against an index over a reference set produces a
// Description. A Descriptor is immutable and may fit multiple reference sets.
type Descriptor interface {

	// Fit resolves the hyperparameters against the index's reference set and
	// returns the fitted model.
	Fit(index NNIndex) (Description, error)
}

// Description is a fitted scoring model. It is immutable, holds a non-owning
// reference to the index it was fitted on, and may be queried concurrently as
// long as the index supports concurrent read-only queries.
type Description interface {

	// K returns the resolved neighbour count of this fit.
	K() int

	// Query scores every input point against the reference set, returning one
	// score per point in [0, 1]. Higher scores mean more typical of the
	// reference set, lower scores more anomalous.
	Query(points [][]float32) ([]float64, error)
}

// AggregateFunc turns the nearest-neighbour positions and distances of a
// single query point into its score.
type AggregateFunc func(neighbours []int, distances []float64) float64

// QueryScores is the shared query skeleton of all descriptors: it issues a
// single k-nearest-neighbour query for the batch and applies the variant's
// aggregation to each point. Index errors are propagated unchanged.
func QueryScores(index NNIndex, k int, points [][]float32, aggregate AggregateFunc) ([]float64, error) {
	neighbours, distances, err := index.Query(points, k)
	if err != nil {
		return nil, err
	}
	scores := make([]float64, len(points))
	for i := range points {
		scores[i] = aggregate(neighbours[i], distances[i])
	}
	return scores, nil
}
