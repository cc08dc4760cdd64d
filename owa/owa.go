// Package owa implements Ordered Weighted Averaging operators, which turn an
// array of values into a single soft maximum or soft minimum by sorting the
// values and applying a weighted sum to the top or bottom k of them.
package owa

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Operator is an Ordered Weighted Averaging (OWA) operator. It encodes a
// weight vector together with its polarity: maxLike operators approximate a
// maximum in the order their weights are given, min-like operators a minimum.
// The dual operator, computing the other extreme, is derived by reversing the
// weight vector; no separate object is stored.
//
// Weight i applies to the value of rank i+1 counted from the extreme the
// operation targets: SoftMax pairs the first weight with the largest value,
// SoftMin pairs it with the smallest. An Operator is immutable and safe for
// concurrent use.
type Operator struct {
	weights []float64
	maxLike bool
	name    string
}

// New creates an operator from a weight vector and its polarity. The weights
// should be non-negative and sum to 1; this is not enforced numerically, but
// the soft-extremum semantics only hold for such simplex vectors.
func New(weights []float64, maxLike bool) Operator {
	w := make([]float64, len(weights))
	copy(w, weights)
	return Operator{weights: w, maxLike: maxLike}
}

// Len returns the number of weights, which is the number of ranked values the
// operator consumes.
func (op Operator) Len() int {
	return len(op.weights)
}

// MaxLike reports whether the weights, in their stored order, approximate a
// maximum.
func (op Operator) MaxLike() bool {
	return op.maxLike
}

// Weights returns a copy of the weight vector.
func (op Operator) Weights() []float64 {
	w := make([]float64, len(op.weights))
	copy(w, op.weights)
	return w
}

// Dual returns the dual operator: the reversed weight vector with flipped
// polarity. For any k-length input v, op.SoftMin(v) == op.Dual().SoftMax(v)
// and vice versa.
func (op Operator) Dual() Operator {
	w := make([]float64, len(op.weights))
	copy(w, op.weights)
	floats.Reverse(w)
	return Operator{weights: w, maxLike: !op.maxLike}
}

// Equal reports whether two operators have elementwise equal weight vectors
// and the same polarity.
func (op Operator) Equal(other Operator) bool {
	return op.maxLike == other.maxLike && floats.Equal(op.weights, other.weights)
}

// String returns the operator's name if it has one, or its weight vector.
func (op Operator) String() string {
	if op.name != "" {
		return op.name
	}
	return fmt.Sprint(op.weights)
}

// SoftMax calculates the soft maximum of v: the weighted sum of the k largest
// values, ranked from the largest down. Requires len(v) >= Len(); callers
// supply at least as many neighbour values as there are weights.
func (op Operator) SoftMax(v []float64) float64 {
	return floats.Dot(op.weights, largestK(v, len(op.weights)))
}

// SoftMin calculates the soft minimum of v: the weighted sum of the k
// smallest values, ranked from the smallest up. Requires len(v) >= Len().
func (op Operator) SoftMin(v []float64) float64 {
	return floats.Dot(op.weights, smallestK(v, len(op.weights)))
}

// largestK returns the k largest values of v, sorted descending.
func largestK(v []float64, k int) []float64 {
	s := make([]float64, len(v))
	copy(s, v)
	sort.Float64s(s)
	s = s[len(s)-k:]
	floats.Reverse(s)
	return s
}

// smallestK returns the k smallest values of v, sorted ascending.
func smallestK(v []float64, k int) []float64 {
	s := make([]float64, len(v))
	copy(s, v)
	sort.Float64s(s)
	return s[:k]
}

// Family generates an operator of the requested length. The predefined
// families below all produce valid simplex weight vectors.
type Family func(k int) Operator

// Strict is the degenerate single-weight operator: its SoftMax selects the
// plain maximum and its SoftMin the plain minimum.
var Strict = Operator{weights: []float64{1}, maxLike: true, name: "strict"}

// Additive returns the operator with linearly increasing weights
// 2i/(k(k+1)) for i = 1..k.
func Additive(k int) Operator {
	w := make([]float64, k)
	for i := range w {
		w[i] = 2 * float64(i+1) / float64(k*(k+1))
	}
	return Operator{weights: w, maxLike: false, name: fmt.Sprintf("additive(%d)", k)}
}

// Exponential returns the operator with exponentially decaying weights
// 2^(k-1-j)/(2^k - 1) for j = 0..k-1. For k >= 32 the weights fall back to
// the geometric sequence 0.5^(j+1), whose sum is close enough to 1, to avoid
// overflowing 2^k.
func Exponential(k int) Operator {
	w := make([]float64, k)
	if k < 32 {
		denom := math.Pow(2, float64(k)) - 1
		for j := range w {
			w[j] = math.Pow(2, float64(k-1-j)) / denom
		}
	} else {
		p := 1.0
		for j := range w {
			p *= 0.5
			w[j] = p
		}
	}
	return Operator{weights: w, maxLike: true, name: fmt.Sprintf("exponential(%d)", k)}
}

// InvAdd returns the operator with weights proportional to 1/i, normalised to
// sum 1.
func InvAdd(k int) Operator {
	w := make([]float64, k)
	for i := range w {
		w[i] = 1 / float64(i+1)
	}
	floats.Scale(1/floats.Sum(w), w)
	return Operator{weights: w, maxLike: true, name: fmt.Sprintf("invadd(%d)", k)}
}

// Mean returns the operator with uniform weights 1/k, whose SoftMax and
// SoftMin are both the arithmetic mean of the k values.
func Mean(k int) Operator {
	w := make([]float64, k)
	for i := range w {
		w[i] = 1 / float64(k)
	}
	return Operator{weights: w, maxLike: false, name: fmt.Sprintf("mean(%d)", k)}
}

// Trimmed returns the operator with all weight on the k-th rank: its SoftMax
// is exactly the k-th largest value and its SoftMin the k-th smallest. Used
// as the default aggregation of the NND descriptor, it reduces the score to
// the plain k-th nearest neighbour distance.
func Trimmed(k int) Operator {
	w := make([]float64, k)
	w[k-1] = 1
	return Operator{weights: w, maxLike: false, name: fmt.Sprintf("trimmed(%d)", k)}
}
