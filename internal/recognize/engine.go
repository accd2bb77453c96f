// Package recognize implements face recognition for the attendance kiosk:
// an in-memory matching engine over enrolled embeddings, the HTTP client
// for the embedding-extraction service, and the orchestrator that turns a
// captured frame into an identified employee.
package recognize

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/coder/hnsw"

	"github.com/danprat/ABSEN-DESA/internal/store"
)

// DefaultShortlistK is how many nearest neighbors the HNSW shortlist pulls
// before exact re-scoring.
const DefaultShortlistK = 64

// Source supplies the enrolled vectors the engine caches.
type Source interface {
	ListActiveEmbeddings(ctx context.Context) ([]store.EnrolledEmbedding, error)
}

// Options tunes the matching engine.
type Options struct {
	// Dim is the embedding dimension; vectors of any other length are
	// skipped at refresh and can never match.
	Dim int
	// UseHNSW enables approximate candidate shortlisting on large
	// populations. Scores are always computed exactly; the graph only
	// narrows which vectors get scored, so the reported best score on a
	// no-match is the best within the shortlist.
	UseHNSW     bool
	HNSWMinSize int
}

// Match is the engine's answer for one query vector. EmployeeID zero
// means no enrolled employee reached the threshold; Score still carries
// the best similarity seen, for diagnostics and kiosk confidence display.
type Match struct {
	EmployeeID   int64
	EmployeeName string
	Score        float64
}

type entry struct {
	embeddingID  int64
	employeeID   int64
	employeeName string
}

// snapshot is an immutable view of the enrolled population. Refresh builds
// a complete replacement and swaps the pointer, so readers never observe a
// half-rebuilt cache.
type snapshot struct {
	entries []entry
	flat    []float32 // row-major, len(entries) rows of dim values
	dim     int
	index   *hnsw.Graph[int] // optional shortlist, keyed by entry position
}

// Engine answers "which employee matches this vector" from an in-memory
// cache of the embedding store. Enrollment changes call Invalidate; the
// next Match pays for the rebuild lazily. Under a racing Invalidate and
// Match at most one redundant refresh happens, never inconsistent data.
type Engine struct {
	source Source
	opts   Options

	mu          sync.Mutex // serializes refreshes
	snap        atomic.Pointer[snapshot]
	initialized atomic.Bool
	version     atomic.Uint64
}

func NewEngine(source Source, opts Options) *Engine {
	if opts.Dim <= 0 {
		opts.Dim = 128
	}
	if opts.HNSWMinSize <= 0 {
		opts.HNSWMinSize = 512
	}
	return &Engine{source: source, opts: opts}
}

// Refresh reloads every active employee's vectors, replacing the previous
// cache wholesale (there is no incremental path: enrollment is rare next
// to recognition traffic, and a full rebuild keeps correctness trivial).
// Returns the number of vectors loaded.
func (e *Engine) Refresh(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	embeddings, err := e.source.ListActiveEmbeddings(ctx)
	if err != nil {
		return 0, fmt.Errorf("load embeddings: %w", err)
	}

	snap := &snapshot{dim: e.opts.Dim}
	skipped := 0
	for _, emb := range embeddings {
		if len(emb.Vector) != e.opts.Dim {
			skipped++
			continue
		}
		snap.entries = append(snap.entries, entry{
			embeddingID:  emb.ID,
			employeeID:   emb.EmployeeID,
			employeeName: emb.EmployeeName,
		})
		snap.flat = append(snap.flat, emb.Vector...)
	}
	if skipped > 0 {
		log.Printf("recognition cache: skipped %d embedding(s) with dimension != %d", skipped, e.opts.Dim)
	}

	if e.opts.UseHNSW && len(snap.entries) >= e.opts.HNSWMinSize {
		snap.index = buildShortlistIndex(snap)
	}

	e.snap.Store(snap)
	e.version.Add(1)
	e.initialized.Store(true)
	return len(snap.entries), nil
}

// Invalidate marks the cache stale without clearing it. The next Match
// refreshes synchronously before answering.
func (e *Engine) Invalidate() {
	e.initialized.Store(false)
}

// Match finds the best-matching employee for a query vector. An employee
// is declared only when their best similarity reaches the threshold; the
// best score is returned either way. With several employees tied on the
// best score the first one encountered in cache order wins - deterministic
// for a given snapshot, but arbitrary; nothing should depend on it.
func (e *Engine) Match(ctx context.Context, vector []float32, threshold float64) (Match, error) {
	if !e.initialized.Load() {
		if _, err := e.Refresh(ctx); err != nil {
			return Match{}, err
		}
	}

	snap := e.snap.Load()
	if snap == nil || len(snap.entries) == 0 {
		return Match{}, nil
	}
	if len(vector) != snap.dim {
		return Match{}, fmt.Errorf("query vector has dimension %d, want %d", len(vector), snap.dim)
	}

	order, bestPerEmployee, names := e.scoreCandidates(vector, snap)

	var best Match
	for _, id := range order {
		if score := bestPerEmployee[id]; score > best.Score {
			best = Match{EmployeeID: id, EmployeeName: names[id], Score: score}
		}
	}
	if best.Score < threshold {
		return Match{Score: best.Score}, nil
	}
	return best, nil
}

// scoreCandidates computes each employee's best similarity, preserving
// first-encounter order for the deterministic tie-break.
func (e *Engine) scoreCandidates(vector []float32, snap *snapshot) ([]int64, map[int64]float64, map[int64]string) {
	bestPerEmployee := make(map[int64]float64)
	names := make(map[int64]string)
	var order []int64

	record := func(i int, sim float64) {
		ent := snap.entries[i]
		cur, seen := bestPerEmployee[ent.employeeID]
		if !seen {
			order = append(order, ent.employeeID)
			names[ent.employeeID] = ent.employeeName
		}
		if !seen || sim > cur {
			bestPerEmployee[ent.employeeID] = sim
		}
	}

	if snap.index != nil {
		for _, i := range shortlist(snap, vector, DefaultShortlistK) {
			row := snap.flat[i*snap.dim : (i+1)*snap.dim]
			record(i, Similarity(vector, row))
		}
		return order, bestPerEmployee, names
	}

	sims := BatchSimilarities(vector, snap.flat, snap.dim)
	for i, sim := range sims {
		record(i, sim)
	}
	return order, bestPerEmployee, names
}

// Version returns the monotonically increasing cache generation.
func (e *Engine) Version() uint64 { return e.version.Load() }

// Size returns the number of cached vectors.
func (e *Engine) Size() int {
	if snap := e.snap.Load(); snap != nil {
		return len(snap.entries)
	}
	return 0
}

// Initialized reports whether the cache is current.
func (e *Engine) Initialized() bool { return e.initialized.Load() }
