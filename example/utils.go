package example

import (
	"fmt"
	"math/rand"

	"github.com/patrikhermansson/descry/core"
)

// GenerateCluster samples points from a spherical Gaussian around the origin
// with the given standard deviation. The seed comes from the DESCRY_SEED
// environment variable, so demo runs are reproducible.
func GenerateCluster(numPoints, dimension int, stddev float64) [][]float32 {
	rnd := rand.New(rand.NewSource(core.GetSeed()))
	points := make([][]float32, numPoints)
	for i := range points {
		vec := make([]float32, dimension)
		for j := range vec {
			vec[j] = float32(rnd.NormFloat64() * stddev)
		}
		points[i] = vec
	}
	return points
}

// GenerateQueries returns a fixed set of labelled query points: the cluster
// centre, a point at the cluster edge, and two points progressively further
// outside it.
func GenerateQueries(dimension int) ([][]float32, []string) {
	offsets := []struct {
		label string
		shift float32
	}{
		{"centre", 0},
		{"edge", 1},
		{"outlier", 5},
		{"far outlier", 25},
	}
	queries := make([][]float32, len(offsets))
	labels := make([]string, len(offsets))
	for i, o := range offsets {
		vec := make([]float32, dimension)
		vec[0] = o.shift
		queries[i] = vec
		labels[i] = fmt.Sprintf("%s (%+.0f)", o.label, o.shift)
	}
	return queries, labels
}
