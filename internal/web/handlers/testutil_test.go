package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/danprat/ABSEN-DESA/internal/attendance"
	"github.com/danprat/ABSEN-DESA/internal/config"
	"github.com/danprat/ABSEN-DESA/internal/recognize"
	"github.com/danprat/ABSEN-DESA/internal/store"
	"github.com/danprat/ABSEN-DESA/internal/store/mock"
)

const testDim = 4

// fixture wires the handler stack onto the in-memory store with a stub
// extractor server. The schedule covers the whole day for every weekday
// so recognition tests are independent of the wall clock.
type fixture struct {
	store      *mock.Store
	audit      *mock.AuditLog
	recognizer *recognize.Recognizer
	service    *attendance.Service
}

// newFixture builds the fixture. extract decides what the stub extractor
// returns for every request; nil installs a handler that fails the test
// when called.
func newFixture(t *testing.T, extract http.HandlerFunc) *fixture {
	t.Helper()

	if extract == nil {
		extract = func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected call to the extractor")
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
	srv := httptest.NewServer(extract)
	t.Cleanup(srv.Close)

	st := mock.NewStore()
	for dow := 0; dow < 7; dow++ {
		st.AddSchedule(store.DailySchedule{
			DayOfWeek:     dow,
			IsWorkday:     true,
			CheckInStart:  store.MustTimeOfDay("00:00"),
			CheckInEnd:    store.MustTimeOfDay("23:59"),
			CheckOutStart: store.MustTimeOfDay("23:59"),
		})
	}

	cfg := &config.Config{
		Extractor: config.ExtractorConfig{
			URL:              srv.URL,
			Dim:              testDim,
			RecognizeMaxSize: 640,
			EnrollMaxSize:    1280,
		},
		Recognition: config.RecognitionConfig{Threshold: 0.40},
	}

	audit := mock.NewAuditLog()
	engine := recognize.NewEngine(st, recognize.Options{Dim: testDim})
	extractor := recognize.NewExtractor(cfg.Extractor)

	return &fixture{
		store:      st,
		audit:      audit,
		recognizer: recognize.NewRecognizer(engine, extractor, st, cfg),
		service:    attendance.NewService(st, audit),
	}
}

// extractorReturning builds a stub extractor that always answers with the
// given vector.
func extractorReturning(vector []float32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"embedding": vector})
	}
}

// extractorNoFace builds a stub extractor that reports no face found.
func extractorNoFace() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{"error": "no_face"})
	}
}

// enrollEmployee registers an active employee with one face vector.
func (f *fixture) enrollEmployee(t *testing.T, name string, vector []float32) store.Employee {
	t.Helper()
	emp := f.store.AddEmployee(store.Employee{Name: name, IsActive: true})
	err := f.store.AddEmbedding(context.Background(), &store.FaceEmbedding{
		EmployeeID: emp.ID,
		Vector:     vector,
		IsPrimary:  true,
	})
	if err != nil {
		t.Fatalf("AddEmbedding: %v", err)
	}
	return emp
}

// testJPEG encodes a small valid JPEG frame.
func testJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8)), nil); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
