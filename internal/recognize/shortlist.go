package recognize

import "github.com/coder/hnsw"

// hnswMaxNeighbors is the M parameter of the shortlist graph.
const hnswMaxNeighbors = 16

// buildShortlistIndex builds an HNSW graph over the snapshot's vectors,
// keyed by entry position. Euclidean distance matches the engine's scoring
// so graph order agrees with similarity order.
func buildShortlistIndex(snap *snapshot) *hnsw.Graph[int] {
	g := hnsw.NewGraph[int]()
	g.M = hnswMaxNeighbors
	g.Ml = 1.0 / float64(hnswMaxNeighbors)
	g.Distance = hnsw.EuclideanDistance

	for i := range snap.entries {
		row := snap.flat[i*snap.dim : (i+1)*snap.dim]
		g.Add(hnsw.MakeNode(i, row))
	}
	return g
}

// shortlist returns the entry positions of the k nearest stored vectors.
func shortlist(snap *snapshot, query []float32, k int) []int {
	if k > len(snap.entries) {
		k = len(snap.entries)
	}
	neighbors := snap.index.Search(query, k)
	ids := make([]int, len(neighbors))
	for i, n := range neighbors {
		ids[i] = n.Key
	}
	return ids
}
