package core

import (
	"github.com/viterin/vek/vek32"
)

// Distances is a map of human-readable names to distance functions.
// You can use it to choose a distance metric by name.
var Distances = map[string]DistanceFunc{
	"euclidean":         Euclidean,
	"squared_euclidean": SquaredEuclidean,
	"manhattan":         Manhattan,
	"cosine":            CosineDistance,
}

// DistanceFunc computes the distance between two vectors.
// a: the first vector.
// b: the second vector.
// Returns the computed distance as a float64.
type DistanceFunc func(a, b []float32) float64

// Euclidean computes the Euclidean (L2) distance between two vectors.
func Euclidean(a, b []float32) float64 {
	checkVectors(a, b)
	return float64(vek32.Distance(a, b))
}

// SquaredEuclidean computes the squared Euclidean distance between two vectors.
func SquaredEuclidean(a, b []float32) float64 {
	checkVectors(a, b)
	d := float64(vek32.Distance(a, b))
	return d * d
}

// Manhattan computes the Manhattan (L1) distance between two vectors.
func Manhattan(a, b []float32) float64 {
	checkVectors(a, b)
	return float64(vek32.ManhattanDistance(a, b))
}

// CosineDistance computes the cosine distance between two vectors.
func CosineDistance(a, b []float32) float64 {
	checkVectors(a, b)
	return 1 - float64(vek32.CosineSimilarity(a, b))
}

// checkVectors validates that both vectors are non-empty and of equal length.
func checkVectors(a, b []float32) {
	if len(a) == 0 || len(b) == 0 {
		panic("vectors must not be empty")
	}
	if len(a) != len(b) {
		panic("vectors must have the same length")
	}
}
