package recognize

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/jpeg"
	"net/http"
	"testing"

	"github.com/danprat/ABSEN-DESA/internal/config"
	"github.com/danprat/ABSEN-DESA/internal/store"
	"github.com/danprat/ABSEN-DESA/internal/store/mock"
)

func testFrame(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 16, 16)), nil); err != nil {
		t.Fatalf("encode frame: %v", err)
	}
	return buf.Bytes()
}

func newTestRecognizer(t *testing.T, st *mock.Store, vector []float32) *Recognizer {
	t.Helper()
	x := newTestExtractor(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{Embedding: vector})
	})
	cfg := &config.Config{
		Recognition: config.RecognitionConfig{Threshold: 0.40},
		Extractor:   config.ExtractorConfig{Dim: testDim, RecognizeMaxSize: 640, EnrollMaxSize: 1280},
	}
	return NewRecognizer(NewEngine(st, Options{Dim: testDim}), x, st, cfg)
}

func TestRecognize(t *testing.T) {
	st := mock.NewStore()
	vector := []float32{0.1, 0, 0, 0}
	budi := enroll(t, st, "Budi", vector)

	r := newTestRecognizer(t, st, vector)
	rec, err := r.Recognize(context.Background(), testFrame(t))
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if rec.Employee == nil || rec.Employee.ID != budi {
		t.Fatalf("expected the enrolled employee, got %+v", rec)
	}
	if rec.Score < 0.99 {
		t.Errorf("score = %f, want ~1.0", rec.Score)
	}
}

func TestRecognizeStaleCacheAfterDeactivation(t *testing.T) {
	st := mock.NewStore()
	vector := []float32{0.1, 0, 0, 0}
	budi := enroll(t, st, "Budi", vector)

	r := newTestRecognizer(t, st, vector)
	if _, err := r.Engine().Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// Deactivate after the cache snapshot was taken. The engine still
	// matches the vector, but the orchestrator must not hand back an
	// inactive employee.
	st.AddEmployee(store.Employee{ID: budi, Name: "Budi", IsActive: false})

	rec, err := r.Recognize(context.Background(), testFrame(t))
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if rec.Employee != nil {
		t.Errorf("deactivated employee must not be recognized, got %+v", rec.Employee)
	}
	if rec.Score < 0.99 {
		t.Errorf("score should still be reported, got %f", rec.Score)
	}
}
