// Package index provides a flat in-memory vector index searched by
// inner product. Vectors are L2-normalized on insert so that inner
// product equals cosine similarity.
package index

import (
	"math"
	"sort"

	"github.com/maxoun/tg-bot-msc/internal/domain"
)

// SearchResult is one row returned by Search.
type SearchResult struct {
	Row   int
	Score float32
}

// Flat is a brute-force inner-product index. Build replaces the whole
// contents; there is no incremental insert or delete. After Build the
// index is immutable, so Search is safe for concurrent callers.
type Flat struct {
	dim     int
	vectors [][]float32
}

// NewFlat creates an empty index.
func NewFlat() *Flat {
	return &Flat{}
}

// Len returns the number of stored vectors.
func (f *Flat) Len() int {
	return len(f.vectors)
}

// Dimension returns the vector dimension, 0 for an empty index.
func (f *Flat) Dimension() int {
	return f.dim
}

// Build replaces the index contents with normalized copies of vectors.
// The dimension is recorded from the first vector; any later vector of a
// different length fails with a DIMENSION_MISMATCH error and leaves the
// previous contents untouched.
func (f *Flat) Build(vectors [][]float32) error {
	if len(vectors) == 0 {
		f.dim = 0
		f.vectors = nil
		return nil
	}

	dim := len(vectors[0])
	stored := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return domain.NewDimensionMismatch(dim, len(v))
		}
		stored[i] = normalizeL2(v)
	}

	f.dim = dim
	f.vectors = stored
	return nil
}

// Search normalizes query and returns the k highest-scoring rows sorted
// by descending score, ties broken by ascending row index. k is clamped
// to the number of stored vectors.
func (f *Flat) Search(query []float32, k int) []SearchResult {
	if k <= 0 || len(f.vectors) == 0 || len(query) != f.dim {
		return nil
	}
	if k > len(f.vectors) {
		k = len(f.vectors)
	}

	q := normalizeL2(query)

	results := make([]SearchResult, len(f.vectors))
	for i, v := range f.vectors {
		results[i] = SearchResult{Row: i, Score: dot(q, v)}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Row < results[j].Row
	})

	return results[:k]
}

// normalizeL2 returns a unit-length copy of v. A zero vector is returned
// as a plain copy since it cannot be normalized.
func normalizeL2(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)

	var norm2 float32
	for _, x := range v {
		norm2 += x * x
	}
	if norm2 == 0 {
		return out
	}

	inv := float32(1 / math.Sqrt(float64(norm2)))
	for i := range out {
		out[i] *= inv
	}
	return out
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
