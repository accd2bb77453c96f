package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danprat/ABSEN-DESA/internal/holiday"
	"github.com/danprat/ABSEN-DESA/internal/store"
)

func TestListHolidays(t *testing.T) {
	f := newFixture(t, nil)
	f.store.AddHoliday(store.Holiday{
		Date:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Name:   "Tahun Baru",
		IsAuto: true,
	})
	f.store.AddHoliday(store.Holiday{
		Date: time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC),
		Name: "Natal",
	})
	handler := NewHolidaysHandler(f.store, nil)

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/holidays?year=2026", nil))
	assertStatusCode(t, recorder, http.StatusOK)

	var resp struct {
		Year     int           `json:"year"`
		Holidays []holidayView `json:"holidays"`
	}
	parseJSONResponse(t, recorder, &resp)
	if resp.Year != 2026 || len(resp.Holidays) != 1 || resp.Holidays[0].Name != "Tahun Baru" {
		t.Errorf("unexpected listing: %+v", resp)
	}

	t.Run("BadYear", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/holidays?year=soon", nil))
		assertStatusCode(t, recorder, http.StatusBadRequest)
	})
}

func TestCreateHoliday(t *testing.T) {
	f := newFixture(t, nil)
	handler := NewHolidaysHandler(f.store, nil)

	body := `{"date":"2026-06-01","name":"Hari Lahir Pancasila"}`
	recorder := httptest.NewRecorder()
	handler.Create(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/holidays", strings.NewReader(body)))
	assertStatusCode(t, recorder, http.StatusCreated)

	var resp holidayView
	parseJSONResponse(t, recorder, &resp)
	if resp.Date != "2026-06-01" || resp.IsAuto {
		t.Errorf("manual holiday: %+v", resp)
	}

	t.Run("DuplicateDate", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.Create(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/holidays", strings.NewReader(body)))
		assertStatusCode(t, recorder, http.StatusConflict)
	})

	t.Run("BadDate", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.Create(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/holidays",
			strings.NewReader(`{"date":"June 1st","name":"X"}`)))
		assertStatusCode(t, recorder, http.StatusBadRequest)
	})
}

func TestExcludeHoliday(t *testing.T) {
	f := newFixture(t, nil)
	f.store.AddHoliday(store.Holiday{
		Date:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Name:   "Tahun Baru",
		IsAuto: true,
	})
	handler := NewHolidaysHandler(f.store, nil)

	req := requestWithChiParams(
		httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"excluded":true}`)),
		map[string]string{"date": "2026-01-01"},
	)
	recorder := httptest.NewRecorder()
	handler.Exclude(recorder, req)
	assertStatusCode(t, recorder, http.StatusOK)

	var resp holidayView
	parseJSONResponse(t, recorder, &resp)
	if !resp.IsExcluded {
		t.Error("holiday not marked excluded")
	}

	t.Run("UnknownDate", func(t *testing.T) {
		req := requestWithChiParams(
			httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"excluded":true}`)),
			map[string]string{"date": "2026-08-17"},
		)
		recorder := httptest.NewRecorder()
		handler.Exclude(recorder, req)
		assertStatusCode(t, recorder, http.StatusNotFound)
	})
}

func TestSyncHolidays(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"tanggal": "2026-1-1", "keterangan": "Tahun Baru", "is_cuti": false},
			{"tanggal": "2026-3-19", "keterangan": "Hari Raya Nyepi", "is_cuti": false},
		})
	}))
	t.Cleanup(api.Close)

	f := newFixture(t, nil)
	syncer := holiday.NewSyncer(f.store, f.audit, api.URL)
	handler := NewHolidaysHandler(f.store, syncer)

	recorder := httptest.NewRecorder()
	handler.Sync(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/holidays/sync?year=2026", nil))
	assertStatusCode(t, recorder, http.StatusOK)

	var resp struct {
		Year    int `json:"year"`
		Added   int `json:"added"`
		Updated int `json:"updated"`
		Skipped int `json:"skipped"`
	}
	parseJSONResponse(t, recorder, &resp)
	if resp.Added != 2 || resp.Updated != 0 {
		t.Errorf("sync stats = %+v, want 2 added", resp)
	}

	t.Run("APIDown", func(t *testing.T) {
		broken := holiday.NewSyncer(f.store, f.audit, "http://127.0.0.1:1")
		handler := NewHolidaysHandler(f.store, broken)
		recorder := httptest.NewRecorder()
		handler.Sync(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/holidays/sync?year=2026", nil))
		assertStatusCode(t, recorder, http.StatusBadGateway)
	})
}
