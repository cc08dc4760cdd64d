// Package flat provides an exact brute-force nearest-neighbour index over a
// dense reference set. Reference points are identified by their insertion
// position, which is what descriptor fitted arrays are indexed by, so the set
// is append-only: once points are added they are never moved or removed.
package flat

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/patrikhermansson/descry/core"
)

// NewFlatIndex creates a new flat index for vectors of the given dimension,
// using the Euclidean distance.
func NewFlatIndex(dimension int) *FlatIndex {
	return &FlatIndex{
		dimension:    dimension,
		Distance:     core.Euclidean, // default distance function
		DistanceName: "euclidean",
	}
}

// FlatIndex is the main structure of the flat index. It holds the reference
// vectors in insertion order and scans all of them on every query.
type FlatIndex struct {
	mu           sync.RWMutex      // protects concurrent access
	dimension    int               // dimension of each vector
	vectors      [][]float32       // reference vectors, position = reference id
	Distance     core.DistanceFunc // function to compute distance between vectors
	DistanceName string            // name of the distance metric
}

// Add appends a single vector to the reference set.
func (f *FlatIndex) Add(vector []float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(vector) != f.dimension {
		return fmt.Errorf("vector dimension %d does not match index dimension %d",
			len(vector), f.dimension)
	}
	f.vectors = append(f.vectors, vector)
	return nil
}

// BulkAdd appends multiple vectors to the reference set.
func (f *FlatIndex) BulkAdd(vectors [][]float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Create a progress bar with a newline on completion.
	bar := progressbar.NewOptions(len(vectors),
		progressbar.OptionOnCompletion(func() { fmt.Print("\n") }),
	)
	for i, vector := range vectors {
		if len(vector) != f.dimension {
			return fmt.Errorf("vector dimension %d does not match index dimension %d at position %d",
				len(vector), f.dimension, i)
		}
		f.vectors = append(f.vectors, vector)
		if err := bar.Add(1); err != nil {
			return err
		}
	}
	return nil
}

// nearest scans the whole reference set and returns the positions and
// distances of the k nearest vectors to the query, ascending by distance.
// A non-negative exclude position is skipped. Caller holds the read lock.
func (f *FlatIndex) nearest(query []float32, k int, exclude int) ([]int, []float64) {
	neighbours := make([]core.Neighbor, 0, len(f.vectors))
	for id, vec := range f.vectors {
		if id == exclude {
			continue
		}
		neighbours = append(neighbours, core.Neighbor{ID: id, Distance: f.Distance(query, vec)})
	}
	sort.Slice(neighbours, func(i, j int) bool {
		return neighbours[i].Distance < neighbours[j].Distance
	})
	ids := make([]int, k)
	distances := make([]float64, k)
	for i := 0; i < k; i++ {
		ids[i] = neighbours[i].ID
		distances[i] = neighbours[i].Distance
	}
	return ids, distances
}

// runChunked splits n work items across the available CPUs and waits for all
// workers to finish.
func runChunked(n int, work func(start, end int)) {
	numWorkers := runtime.NumCPU()
	chunkSize := (n + numWorkers - 1) / numWorkers
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			work(start, end)
		}(start, end)
	}
	wg.Wait()
}

// Query returns, for each input point, the positions and distances of its k
// nearest reference points, sorted ascending by distance.
func (f *FlatIndex) Query(points [][]float32, k int) ([][]int, [][]float64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.vectors) == 0 {
		return nil, nil, errors.New("index is empty")
	}
	if k < 1 || k > len(f.vectors) {
		return nil, nil, fmt.Errorf("k = %d out of range [1, %d]", k, len(f.vectors))
	}
	for i, p := range points {
		if len(p) != f.dimension {
			return nil, nil, fmt.Errorf("query dimension %d does not match index dimension %d at position %d",
				len(p), f.dimension, i)
		}
	}

	neighbours := make([][]int, len(points))
	distances := make([][]float64, len(points))
	runChunked(len(points), func(start, end int) {
		for i := start; i < end; i++ {
			neighbours[i], distances[i] = f.nearest(points[i], k, -1)
		}
	})
	return neighbours, distances, nil
}

// QuerySelf queries every reference point against the reference set excluding
// the point itself.
func (f *FlatIndex) QuerySelf(k int) ([][]int, [][]float64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.vectors) == 0 {
		return nil, nil, errors.New("index is empty")
	}
	if k < 1 || k > len(f.vectors)-1 {
		return nil, nil, fmt.Errorf("k = %d out of range [1, %d] for self-query", k, len(f.vectors)-1)
	}

	neighbours := make([][]int, len(f.vectors))
	distances := make([][]float64, len(f.vectors))
	runChunked(len(f.vectors), func(start, end int) {
		for i := start; i < end; i++ {
			neighbours[i], distances[i] = f.nearest(f.vectors[i], k, i)
		}
	})
	return neighbours, distances, nil
}

// Stats returns some basic statistics about the index.
func (f *FlatIndex) Stats() core.IndexStats {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return core.IndexStats{
		Count:     len(f.vectors),
		Dimension: f.dimension,
		Distance:  f.DistanceName,
	}
}

// flatSerialized is used to serialize the index using gob.
type flatSerialized struct {
	Dimension    int
	Vectors      [][]float32
	DistanceName string
}

// GobEncode serializes the index to bytes using gob.
func (f *FlatIndex) GobEncode() ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ser := flatSerialized{
		Dimension:    f.dimension,
		Vectors:      f.vectors,
		DistanceName: f.DistanceName,
	}
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(ser); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode deserializes the index from gob data.
func (f *FlatIndex) GobDecode(data []byte) error {
	var ser flatSerialized
	dec := gob.NewDecoder(bytes.NewBuffer(data))
	if err := dec.Decode(&ser); err != nil {
		return err
	}
	distance, ok := core.Distances[ser.DistanceName]
	if !ok {
		return fmt.Errorf("unknown distance metric %q", ser.DistanceName)
	}
	f.dimension = ser.Dimension
	f.vectors = ser.Vectors
	f.Distance = distance
	f.DistanceName = ser.DistanceName
	return nil
}

// Save writes the index to the given writer using gob encoding.
func (f *FlatIndex) Save(w io.Writer) error {
	enc := gob.NewEncoder(w)
	return enc.Encode(f)
}

// Load reads the index from the given reader using gob encoding.
func (f *FlatIndex) Load(r io.Reader) error {
	dec := gob.NewDecoder(r)
	return dec.Decode(f)
}

// Check that FlatIndex implements the core.NNIndex interface.
var _ core.NNIndex = (*FlatIndex)(nil)

// Register FlatIndex for gob encoding.
func init() {
	gob.Register(&FlatIndex{})
}
