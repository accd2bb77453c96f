package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danprat/ABSEN-DESA/internal/attendance"
	"github.com/danprat/ABSEN-DESA/internal/config"
	"github.com/danprat/ABSEN-DESA/internal/recognize"
	"github.com/danprat/ABSEN-DESA/internal/store/mock"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st := mock.NewStore()
	audit := mock.NewAuditLog()
	cfg := &config.Config{
		Extractor:   config.ExtractorConfig{URL: "http://localhost:0", Dim: 4, RecognizeMaxSize: 640, EnrollMaxSize: 1280},
		Recognition: config.RecognitionConfig{Threshold: 0.40},
	}
	engine := recognize.NewEngine(st, recognize.Options{Dim: 4})
	recognizer := recognize.NewRecognizer(engine, recognize.NewExtractor(cfg.Extractor), st, cfg)

	return NewServer(Deps{
		Store:      st,
		Audit:      audit,
		Recognizer: recognizer,
		Attendance: attendance.NewService(st, audit),
		UploadDir:  t.TempDir(),
	}, 0, "127.0.0.1")
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/health", http.StatusOK},
		{http.MethodGet, "/api/v1/employees", http.StatusOK},
		{http.MethodGet, "/api/v1/attendance/today", http.StatusOK},
		{http.MethodGet, "/api/v1/schedule/today", http.StatusOK},
		{http.MethodGet, "/api/v1/recognition/cache", http.StatusOK},
		{http.MethodGet, "/api/v1/holidays", http.StatusOK},
		{http.MethodPost, "/api/v1/attendance/recognize", http.StatusBadRequest}, // no image
		{http.MethodGet, "/api/v1/nope", http.StatusNotFound},
		{http.MethodDelete, "/api/v1/employees", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			recorder := httptest.NewRecorder()
			srv.Router().ServeHTTP(recorder, req)
			if recorder.Code != tt.want {
				t.Errorf("%s %s = %d, want %d\nBody: %s", tt.method, tt.path, recorder.Code, tt.want, recorder.Body.String())
			}
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	recorder := httptest.NewRecorder()
	srv.Router().ServeHTTP(recorder, req)

	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse health body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}
