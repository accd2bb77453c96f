package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/danprat/ABSEN-DESA/internal/recognize"
	"github.com/danprat/ABSEN-DESA/internal/store"
)

// FacesHandler handles face enrollment for employees.
type FacesHandler struct {
	store      store.Store
	recognizer *recognize.Recognizer
	audit      store.AuditSink
	uploadDir  string
}

// NewFacesHandler creates a new face enrollment handler. uploadDir is
// where enrollment photos are kept; audit may be nil.
func NewFacesHandler(st store.Store, recognizer *recognize.Recognizer, audit store.AuditSink, uploadDir string) *FacesHandler {
	return &FacesHandler{
		store:      st,
		recognizer: recognizer,
		audit:      audit,
		uploadDir:  uploadDir,
	}
}

// employeeFromPath loads the employee referenced by the {id} URL parameter.
func (h *FacesHandler) employeeFromPath(w http.ResponseWriter, r *http.Request) *store.Employee {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid employee id")
		return nil
	}
	emp, err := h.store.GetEmployee(r.Context(), id)
	if err != nil {
		log.Printf("get employee %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to load employee")
		return nil
	}
	if emp == nil {
		respondError(w, http.StatusNotFound, "employee not found")
		return nil
	}
	return emp
}

// savePhoto writes an enrollment shot to the upload directory under a
// random name and returns its public path.
func (h *FacesHandler) savePhoto(image []byte) (string, error) {
	dir := filepath.Join(h.uploadDir, "faces")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	name := uuid.NewString() + ".jpg"
	if err := os.WriteFile(filepath.Join(dir, name), image, 0o644); err != nil {
		return "", fmt.Errorf("write enrollment photo: %w", err)
	}
	return "/uploads/faces/" + name, nil
}

// Enroll extracts a face vector from an uploaded photo and stores it for
// the employee. The first vector becomes the primary one.
func (h *FacesHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	emp := h.employeeFromPath(w, r)
	if emp == nil {
		return
	}

	image, err := readImage(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	vector, err := h.recognizer.ExtractForEnrollment(r.Context(), image)
	if errors.Is(err, recognize.ErrNoFaceDetected) {
		respondError(w, http.StatusUnprocessableEntity, "no face detected")
		return
	}
	if err != nil {
		log.Printf("extract enrollment vector for employee %d: %v", emp.ID, err)
		respondError(w, http.StatusBadGateway, "face extraction unavailable")
		return
	}

	photoURL, err := h.savePhoto(image)
	if err != nil {
		log.Printf("save enrollment photo for employee %d: %v", emp.ID, err)
		respondError(w, http.StatusInternalServerError, "failed to save photo")
		return
	}

	count, err := h.store.CountEmbeddings(r.Context(), emp.ID)
	if err != nil {
		log.Printf("count embeddings for employee %d: %v", emp.ID, err)
		respondError(w, http.StatusInternalServerError, "failed to enroll face")
		return
	}

	emb := &store.FaceEmbedding{
		EmployeeID: emp.ID,
		Vector:     vector,
		PhotoURL:   photoURL,
		IsPrimary:  count == 0,
	}
	if err := h.store.AddEmbedding(r.Context(), emb); err != nil {
		log.Printf("add embedding for employee %d: %v", emp.ID, err)
		respondError(w, http.StatusInternalServerError, "failed to enroll face")
		return
	}

	// New vectors invalidate the matching cache; the next recognition
	// reloads lazily.
	h.recognizer.Engine().Invalidate()

	if h.audit != nil {
		h.audit.Record(r.Context(), store.AuditEntry{
			Action:      "face_enrolled",
			Entity:      "employee",
			EntityID:    emp.ID,
			Description: fmt.Sprintf("enrolled face vector %d for %s", emb.ID, sanitizeForLog(emp.Name)),
		})
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":         emb.ID,
		"employee":   emp.ID,
		"photo_url":  emb.PhotoURL,
		"is_primary": emb.IsPrimary,
		"enrolled":   count + 1,
	})
}

// embeddingView is the listing shape for one enrolled vector.
type embeddingView struct {
	ID        int64     `json:"id"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

// List returns the enrolled vectors for one employee (without the raw
// vector data).
func (h *FacesHandler) List(w http.ResponseWriter, r *http.Request) {
	emp := h.employeeFromPath(w, r)
	if emp == nil {
		return
	}

	embeddings, err := h.store.ListEmbeddings(r.Context(), emp.ID)
	if err != nil {
		log.Printf("list embeddings for employee %d: %v", emp.ID, err)
		respondError(w, http.StatusInternalServerError, "failed to list enrollments")
		return
	}

	out := make([]embeddingView, 0, len(embeddings))
	for _, emb := range embeddings {
		out = append(out, embeddingView{
			ID:        emb.ID,
			PhotoURL:  emb.PhotoURL,
			IsPrimary: emb.IsPrimary,
			CreatedAt: emb.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"employee":   emp.ID,
		"embeddings": out,
	})
}

// Delete removes one enrolled vector.
func (h *FacesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	emp := h.employeeFromPath(w, r)
	if emp == nil {
		return
	}

	embeddingID, err := strconv.ParseInt(chi.URLParam(r, "embeddingID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid embedding id")
		return
	}

	deleted, err := h.store.DeleteEmbedding(r.Context(), emp.ID, embeddingID)
	if err != nil {
		log.Printf("delete embedding %d: %v", embeddingID, err)
		respondError(w, http.StatusInternalServerError, "failed to delete enrollment")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "enrollment not found")
		return
	}

	h.recognizer.Engine().Invalidate()

	if h.audit != nil {
		h.audit.Record(r.Context(), store.AuditEntry{
			Action:      "face_deleted",
			Entity:      "employee",
			EntityID:    emp.ID,
			Description: fmt.Sprintf("deleted face vector %d", embeddingID),
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{"deleted": embeddingID})
}

// CacheStatus reports the matching engine's snapshot diagnostics.
func (h *FacesHandler) CacheStatus(w http.ResponseWriter, r *http.Request) {
	engine := h.recognizer.Engine()
	respondJSON(w, http.StatusOK, map[string]any{
		"initialized": engine.Initialized(),
		"size":        engine.Size(),
		"version":     engine.Version(),
		"threshold":   h.recognizer.Threshold(),
	})
}

// RefreshCache forces a synchronous reload of the matching snapshot.
func (h *FacesHandler) RefreshCache(w http.ResponseWriter, r *http.Request) {
	count, err := h.recognizer.Engine().Refresh(r.Context())
	if err != nil {
		log.Printf("refresh matching cache: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to refresh cache")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"loaded":  count,
		"version": h.recognizer.Engine().Version(),
	})
}
