package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/danprat/ABSEN-DESA/internal/store"
)

// EmployeesHandler handles employee listing and registration.
type EmployeesHandler struct {
	store store.Store
	audit store.AuditSink
}

// NewEmployeesHandler creates a new employees handler. audit may be nil.
func NewEmployeesHandler(st store.Store, audit store.AuditSink) *EmployeesHandler {
	return &EmployeesHandler{store: st, audit: audit}
}

type createEmployeeRequest struct {
	NIP      string `json:"nip"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// Create registers a new active employee.
func (h *EmployeesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	if req.NIP != "" {
		existing, err := h.store.FindEmployeeByNIP(r.Context(), req.NIP)
		if err != nil {
			log.Printf("find employee by nip: %v", err)
			respondError(w, http.StatusInternalServerError, "failed to create employee")
			return
		}
		if existing != nil {
			respondError(w, http.StatusConflict, "an employee with this NIP already exists")
			return
		}
	}

	emp := &store.Employee{
		NIP:      req.NIP,
		Name:     req.Name,
		Position: req.Position,
		Phone:    req.Phone,
		Email:    req.Email,
		IsActive: true,
	}
	if err := h.store.CreateEmployee(r.Context(), emp); err != nil {
		log.Printf("create employee %s: %v", sanitizeForLog(req.Name), err)
		respondError(w, http.StatusInternalServerError, "failed to create employee")
		return
	}

	if h.audit != nil {
		h.audit.Record(r.Context(), store.AuditEntry{
			Action:      "employee_created",
			Entity:      "employee",
			EntityID:    emp.ID,
			Description: "registered " + sanitizeForLog(emp.Name),
		})
	}

	respondJSON(w, http.StatusCreated, employeeView{
		ID:       emp.ID,
		Name:     emp.Name,
		Position: emp.Position,
	})
}

// employeeListItem extends the basic view with the enrollment count so
// admin screens can show who still needs a face on file.
type employeeListItem struct {
	employeeView
	NIP      string `json:"nip,omitempty"`
	Enrolled int    `json:"enrolled"`
}

// List returns all active employees with their enrollment counts.
func (h *EmployeesHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.ListActiveEmployees(r.Context())
	if err != nil {
		log.Printf("list employees: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list employees")
		return
	}

	out := make([]employeeListItem, 0, len(employees))
	for _, emp := range employees {
		count, err := h.store.CountEmbeddings(r.Context(), emp.ID)
		if err != nil {
			log.Printf("count embeddings for employee %d: %v", emp.ID, err)
			respondError(w, http.StatusInternalServerError, "failed to list employees")
			return
		}
		out = append(out, employeeListItem{
			employeeView: employeeView{
				ID:       emp.ID,
				Name:     emp.Name,
				Position: emp.Position,
				PhotoURL: emp.PhotoURL,
			},
			NIP:      emp.NIP,
			Enrolled: count,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"employees": out})
}

// Get returns one employee by ID.
func (h *EmployeesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	emp, err := h.store.GetEmployee(r.Context(), id)
	if err != nil {
		log.Printf("get employee %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to load employee")
		return
	}
	if emp == nil {
		respondError(w, http.StatusNotFound, "employee not found")
		return
	}

	respondJSON(w, http.StatusOK, employeeView{
		ID:       emp.ID,
		Name:     emp.Name,
		Position: emp.Position,
		PhotoURL: emp.PhotoURL,
	})
}
