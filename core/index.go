package core

// NNIndex represents a nearest-neighbour search structure over a fixed
// reference set. Descriptors consume it read-only: they issue queries at fit
// and query time and never mutate the index.
type NNIndex interface {

	// Query returns, for each input point, the reference-set positions and
	// distances of its k nearest reference points, sorted ascending by
	// distance. The outer slices are parallel, with k entries per point.
	Query(points [][]float32, k int) (neighbours [][]int, distances [][]float64, err error)

	// QuerySelf queries every reference point against the reference set
	// excluding the point itself, with the same shape as Query.
	QuerySelf(k int) (neighbours [][]int, distances [][]float64, err error)

	// Stats returns metadata about the index, such as count and dimensionality.
	Stats() IndexStats
}

// IndexStats contains metadata about the index.
type IndexStats struct {
	Count     int    // total number of indexed vectors
	Dimension int    // dimensionality of vectors
	Distance  string // name of the distance metric
}

// Neighbor holds a neighbor's id and its computed distance.
type Neighbor struct {
	ID       int
	Distance float64
}
