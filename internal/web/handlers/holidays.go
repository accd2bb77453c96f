package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/danprat/ABSEN-DESA/internal/holiday"
	"github.com/danprat/ABSEN-DESA/internal/store"
)

// HolidaysHandler handles holiday listing, manual entry, exclusion, and
// sync from the public holiday API.
type HolidaysHandler struct {
	store  store.HolidayStore
	syncer *holiday.Syncer
}

// NewHolidaysHandler creates a new holidays handler.
func NewHolidaysHandler(st store.HolidayStore, syncer *holiday.Syncer) *HolidaysHandler {
	return &HolidaysHandler{store: st, syncer: syncer}
}

type holidayView struct {
	ID         int64  `json:"id"`
	Date       string `json:"date"`
	Name       string `json:"name"`
	IsAuto     bool   `json:"is_auto"`
	IsCuti     bool   `json:"is_cuti"`
	IsExcluded bool   `json:"is_excluded"`
}

func toHolidayView(h store.Holiday) holidayView {
	return holidayView{
		ID:         h.ID,
		Date:       h.Date.Format("2006-01-02"),
		Name:       h.Name,
		IsAuto:     h.IsAuto,
		IsCuti:     h.IsCuti,
		IsExcluded: h.IsExcluded,
	}
}

// List returns every holiday row in one year, excluded rows included.
func (h *HolidaysHandler) List(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	holidays, err := h.store.ListHolidays(r.Context(), year)
	if err != nil {
		log.Printf("list holidays for %d: %v", year, err)
		respondError(w, http.StatusInternalServerError, "failed to list holidays")
		return
	}

	out := make([]holidayView, 0, len(holidays))
	for _, hol := range holidays {
		out = append(out, toHolidayView(hol))
	}
	respondJSON(w, http.StatusOK, map[string]any{"year": year, "holidays": out})
}

type createHolidayRequest struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Name   string `json:"name"`
	IsCuti bool   `json:"is_cuti"`
}

// Create adds a manually entered holiday.
func (h *HolidaysHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	existing, err := h.store.GetHoliday(r.Context(), date)
	if err != nil {
		log.Printf("check holiday %s: %v", req.Date, err)
		respondError(w, http.StatusInternalServerError, "failed to create holiday")
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "a holiday already exists on this date")
		return
	}

	hol := &store.Holiday{Date: date, Name: req.Name, IsCuti: req.IsCuti}
	if err := h.store.CreateHoliday(r.Context(), hol); err != nil {
		log.Printf("create holiday %s: %v", req.Date, err)
		respondError(w, http.StatusInternalServerError, "failed to create holiday")
		return
	}
	respondJSON(w, http.StatusCreated, toHolidayView(*hol))
}

type excludeHolidayRequest struct {
	Excluded bool `json:"excluded"`
}

// Exclude toggles a date's exclusion flag. The row stays in place so the
// sync never re-imports an un-marked holiday.
func (h *HolidaysHandler) Exclude(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	var req excludeHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	hol, err := h.store.GetHoliday(r.Context(), date)
	if err != nil {
		log.Printf("get holiday %s: %v", date.Format("2006-01-02"), err)
		respondError(w, http.StatusInternalServerError, "failed to update holiday")
		return
	}
	if hol == nil {
		respondError(w, http.StatusNotFound, "no holiday on this date")
		return
	}

	hol.IsExcluded = req.Excluded
	if err := h.store.UpdateHoliday(r.Context(), hol); err != nil {
		log.Printf("update holiday %s: %v", date.Format("2006-01-02"), err)
		respondError(w, http.StatusInternalServerError, "failed to update holiday")
		return
	}
	respondJSON(w, http.StatusOK, toHolidayView(*hol))
}

// Sync imports one year of holidays from the public API.
func (h *HolidaysHandler) Sync(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearParam(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.syncer.Sync(r.Context(), year)
	if err != nil {
		log.Printf("holiday sync for %d: %v", year, err)
		respondError(w, http.StatusBadGateway, "holiday sync failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"year":    year,
		"added":   stats.Added,
		"updated": stats.Updated,
		"skipped": stats.Skipped,
	})
}
