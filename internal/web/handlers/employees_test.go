package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/danprat/ABSEN-DESA/internal/store"
)

func TestCreateEmployee(t *testing.T) {
	f := newFixture(t, nil)
	handler := NewEmployeesHandler(f.store, f.audit)

	body := `{"nip":"19870101","name":"Budi Santoso","position":"Sekretaris Desa"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	handler.Create(recorder, req)
	assertStatusCode(t, recorder, http.StatusCreated)

	var resp employeeView
	parseJSONResponse(t, recorder, &resp)
	if resp.ID == 0 || resp.Name != "Budi Santoso" || resp.Position != "Sekretaris Desa" {
		t.Errorf("unexpected create response: %+v", resp)
	}

	if entries := f.audit.Entries(); len(entries) != 1 || entries[0].Action != "employee_created" {
		t.Errorf("expected an employee_created audit entry, got %v", entries)
	}

	t.Run("DuplicateNIP", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/employees",
			strings.NewReader(`{"nip":"19870101","name":"Someone Else"}`))
		recorder := httptest.NewRecorder()
		handler.Create(recorder, req)
		assertStatusCode(t, recorder, http.StatusConflict)
	})

	t.Run("EmptyNIPNeverConflicts", func(t *testing.T) {
		for _, name := range []string{"Siti Rahayu", "Joko Widodo"} {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/employees",
				strings.NewReader(`{"name":"`+name+`"}`))
			recorder := httptest.NewRecorder()
			handler.Create(recorder, req)
			assertStatusCode(t, recorder, http.StatusCreated)
		}
	})

	t.Run("MissingName", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(`{"nip":"123"}`))
		recorder := httptest.NewRecorder()
		handler.Create(recorder, req)
		assertStatusCode(t, recorder, http.StatusBadRequest)
		assertJSONError(t, recorder, "name is required")
	})

	t.Run("InvalidBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader("not json"))
		recorder := httptest.NewRecorder()
		handler.Create(recorder, req)
		assertStatusCode(t, recorder, http.StatusBadRequest)
	})
}

func TestListEmployees(t *testing.T) {
	f := newFixture(t, nil)
	enrolled := f.enrollEmployee(t, "Budi Santoso", []float32{0.1, 0, 0, 0})
	f.store.AddEmployee(store.Employee{Name: "Siti Rahayu", IsActive: true})
	f.store.AddEmployee(store.Employee{Name: "Resigned", IsActive: false})
	handler := NewEmployeesHandler(f.store, f.audit)

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil))
	assertStatusCode(t, recorder, http.StatusOK)

	var resp struct {
		Employees []employeeListItem `json:"employees"`
	}
	parseJSONResponse(t, recorder, &resp)
	if len(resp.Employees) != 2 {
		t.Fatalf("expected 2 active employees, got %d", len(resp.Employees))
	}
	byID := make(map[int64]employeeListItem)
	for _, e := range resp.Employees {
		byID[e.ID] = e
	}
	if byID[enrolled.ID].Enrolled != 1 {
		t.Errorf("enrolled count = %d, want 1", byID[enrolled.ID].Enrolled)
	}
}

func TestGetEmployee(t *testing.T) {
	f := newFixture(t, nil)
	emp := f.store.AddEmployee(store.Employee{Name: "Budi Santoso", Position: "Kepala Desa", IsActive: true})
	handler := NewEmployeesHandler(f.store, f.audit)

	recorder := httptest.NewRecorder()
	handler.Get(recorder, requestWithChiParams(
		httptest.NewRequest(http.MethodGet, "/", nil),
		map[string]string{"id": strconv.FormatInt(emp.ID, 10)},
	))
	assertStatusCode(t, recorder, http.StatusOK)

	var resp employeeView
	parseJSONResponse(t, recorder, &resp)
	if resp.Name != "Budi Santoso" || resp.Position != "Kepala Desa" {
		t.Errorf("unexpected employee: %+v", resp)
	}

	t.Run("NotFound", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.Get(recorder, requestWithChiParams(
			httptest.NewRequest(http.MethodGet, "/", nil),
			map[string]string{"id": "999"},
		))
		assertStatusCode(t, recorder, http.StatusNotFound)
	})

	t.Run("BadID", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.Get(recorder, requestWithChiParams(
			httptest.NewRequest(http.MethodGet, "/", nil),
			map[string]string{"id": "abc"},
		))
		assertStatusCode(t, recorder, http.StatusBadRequest)
	})
}
