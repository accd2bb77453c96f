package recognize

import "math"

// BatchSimilarities scores a query vector against a row-major matrix of
// stored vectors in one pass. Similarity is Euclidean distance folded into
// [0,1]: max(0, 1 - distance). Rows and query must share dim; the engine
// guarantees this by filtering at refresh time.
func BatchSimilarities(query []float32, flat []float32, dim int) []float64 {
	n := len(flat) / dim
	out := make([]float64, n)
	for i := range n {
		row := flat[i*dim : (i+1)*dim]
		var sum float64
		for j := range query {
			d := float64(query[j]) - float64(row[j])
			sum += d * d
		}
		out[i] = clampSimilarity(1 - math.Sqrt(sum))
	}
	return out
}

// Similarity scores a single pair of vectors. Mismatched or empty vectors
// score 0, the "no similarity" floor.
func Similarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return clampSimilarity(1 - math.Sqrt(sum))
}

func clampSimilarity(s float64) float64 {
	if s < 0 {
		return 0
	}
	return s
}
