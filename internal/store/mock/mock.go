// Package mock provides an in-memory store.Store implementation for tests.
package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/danprat/ABSEN-DESA/internal/store"
)

// Store is an in-memory implementation of store.Store with the same
// write-once semantics the postgres backend enforces through its
// (employee_id, date) unique constraint.
type Store struct {
	mu         sync.RWMutex
	employees  map[int64]*store.Employee
	embeddings map[int64]*store.FaceEmbedding
	records    map[string]*store.AttendanceRecord
	schedules  []store.DailySchedule
	holidays   map[string]*store.Holiday
	settings   *store.WorkSettings
	nextID     int64

	// Error injection
	ListActiveEmbeddingsError error
	GetRecordError            error

	// Race injection. When set, the next matching write loses to a
	// simulated concurrent writer and reports won=false, with the rival
	// row left behind for the caller's re-read.
	LoseNextCheckInRace  bool
	LoseNextCheckOutRace bool
}

var _ store.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		employees:  make(map[int64]*store.Employee),
		embeddings: make(map[int64]*store.FaceEmbedding),
		records:    make(map[string]*store.AttendanceRecord),
		holidays:   make(map[string]*store.Holiday),
	}
}

func recordKey(employeeID int64, date time.Time) string {
	return fmt.Sprintf("%s/%d", date.Format("2006-01-02"), employeeID)
}

func dateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

func (s *Store) nextSequence() int64 {
	s.nextID++
	return s.nextID
}

// AddEmployee registers an employee, assigning an ID when missing.
func (s *Store) AddEmployee(emp store.Employee) store.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if emp.ID == 0 {
		emp.ID = s.nextSequence()
	}
	s.employees[emp.ID] = &emp
	return emp
}

// AddSchedule registers a day-of-week schedule row.
func (s *Store) AddSchedule(sched store.DailySchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedules = append(s.schedules, sched)
}

// AddHoliday registers a holiday row.
func (s *Store) AddHoliday(h store.Holiday) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.ID == 0 {
		h.ID = s.nextSequence()
	}
	s.holidays[dateKey(h.Date)] = &h
}

// SetSettings overrides the work settings returned by GetWorkSettings.
func (s *Store) SetSettings(settings store.WorkSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &settings
}

// --- EmployeeStore ---

func (s *Store) GetEmployee(ctx context.Context, id int64) (*store.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if emp, ok := s.employees[id]; ok {
		cp := *emp
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) ListActiveEmployees(ctx context.Context) ([]store.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.Employee
	for _, emp := range s.employees {
		if emp.IsActive {
			out = append(out, *emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) FindEmployeeByNIP(ctx context.Context, nip string) (*store.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, emp := range s.employees {
		if emp.NIP != "" && emp.NIP == nip {
			cp := *emp
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *Store) CreateEmployee(ctx context.Context, emp *store.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	emp.ID = s.nextSequence()
	cp := *emp
	s.employees[emp.ID] = &cp
	return nil
}

// --- EmbeddingStore ---

func (s *Store) ListActiveEmbeddings(ctx context.Context) ([]store.EnrolledEmbedding, error) {
	if s.ListActiveEmbeddingsError != nil {
		return nil, s.ListActiveEmbeddingsError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.EnrolledEmbedding
	for _, emb := range s.embeddings {
		emp, ok := s.employees[emb.EmployeeID]
		if !ok || !emp.IsActive {
			continue
		}
		out = append(out, store.EnrolledEmbedding{
			ID:           emb.ID,
			EmployeeID:   emb.EmployeeID,
			EmployeeName: emp.Name,
			Vector:       emb.Vector,
			IsPrimary:    emb.IsPrimary,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) AddEmbedding(ctx context.Context, emb *store.FaceEmbedding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	emb.ID = s.nextSequence()
	emb.CreatedAt = time.Now()
	cp := *emb
	s.embeddings[emb.ID] = &cp
	return nil
}

func (s *Store) ListEmbeddings(ctx context.Context, employeeID int64) ([]store.FaceEmbedding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.FaceEmbedding
	for _, emb := range s.embeddings {
		if emb.EmployeeID == employeeID {
			out = append(out, *emb)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CountEmbeddings(ctx context.Context, employeeID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, emb := range s.embeddings {
		if emb.EmployeeID == employeeID {
			count++
		}
	}
	return count, nil
}

func (s *Store) DeleteEmbedding(ctx context.Context, employeeID, embeddingID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	emb, ok := s.embeddings[embeddingID]
	if !ok || emb.EmployeeID != employeeID {
		return false, nil
	}
	delete(s.embeddings, embeddingID)
	return true, nil
}

// --- AttendanceStore ---

func (s *Store) GetRecord(ctx context.Context, employeeID int64, date time.Time) (*store.AttendanceRecord, error) {
	if s.GetRecordError != nil {
		return nil, s.GetRecordError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.records[recordKey(employeeID, date)]; ok {
		cp := *rec
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) InsertCheckIn(ctx context.Context, rec *store.AttendanceRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := recordKey(rec.EmployeeID, rec.Date)
	if _, exists := s.records[key]; exists {
		return false, nil
	}
	if s.LoseNextCheckInRace {
		s.LoseNextCheckInRace = false
		rival := *rec
		rival.ID = s.nextSequence()
		earlier := rec.CheckInAt.Add(-time.Minute)
		rival.CheckInAt = &earlier
		s.records[key] = &rival
		return false, nil
	}
	rec.ID = s.nextSequence()
	rec.CreatedAt = time.Now()
	cp := *rec
	s.records[key] = &cp
	return true, nil
}

func (s *Store) FillCheckIn(ctx context.Context, recordID int64, at time.Time, status store.AttendanceStatus, confidence float64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.ID != recordID {
			continue
		}
		if rec.CheckInAt != nil {
			return false, nil
		}
		rec.CheckInAt = &at
		rec.Status = status
		rec.Confidence = &confidence
		return true, nil
	}
	return false, nil
}

func (s *Store) SetCheckOut(ctx context.Context, recordID int64, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.ID != recordID {
			continue
		}
		if rec.CheckOutAt != nil {
			return false, nil
		}
		if s.LoseNextCheckOutRace {
			s.LoseNextCheckOutRace = false
			earlier := at.Add(-time.Minute)
			rec.CheckOutAt = &earlier
			return false, nil
		}
		rec.CheckOutAt = &at
		return true, nil
	}
	return false, nil
}

func (s *Store) InsertAbsent(ctx context.Context, employeeID int64, date time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := recordKey(employeeID, date)
	if _, exists := s.records[key]; exists {
		return false, nil
	}
	s.records[key] = &store.AttendanceRecord{
		ID:         s.nextSequence(),
		EmployeeID: employeeID,
		Date:       date,
		Status:     store.StatusAbsent,
		CreatedAt:  time.Now(),
	}
	return true, nil
}

func (s *Store) ListByDate(ctx context.Context, date time.Time) ([]store.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.AttendanceRecord
	for _, rec := range s.records {
		if store.SameDate(rec.Date, date) {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- ScheduleStore / HolidayStore / SettingsStore ---

func (s *Store) ListSchedules(ctx context.Context) ([]store.DailySchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]store.DailySchedule(nil), s.schedules...), nil
}

func (s *Store) GetHoliday(ctx context.Context, date time.Time) (*store.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if h, ok := s.holidays[dateKey(date)]; ok {
		cp := *h
		return &cp, nil
	}
	return nil, nil
}

func (s *Store) ListHolidays(ctx context.Context, year int) ([]store.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.Holiday
	for _, h := range s.holidays {
		if h.Date.Year() == year {
			out = append(out, *h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) CreateHoliday(ctx context.Context, h *store.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h.ID = s.nextSequence()
	cp := *h
	s.holidays[dateKey(h.Date)] = &cp
	return nil
}

func (s *Store) UpdateHoliday(ctx context.Context, h *store.Holiday) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *h
	s.holidays[dateKey(h.Date)] = &cp
	return nil
}

func (s *Store) GetWorkSettings(ctx context.Context) (*store.WorkSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings != nil {
		cp := *s.settings
		return &cp, nil
	}
	return &store.WorkSettings{
		CheckInStart:            store.MustTimeOfDay("07:00"),
		CheckInEnd:              store.MustTimeOfDay("08:00"),
		CheckOutStart:           store.MustTimeOfDay("16:00"),
		LateThresholdMinutes:    15,
		MinCheckoutGapMinutes:   3,
		FaceSimilarityThreshold: 0.40,
	}, nil
}

// AuditLog is an in-memory store.AuditSink that records entries.
type AuditLog struct {
	mu      sync.Mutex
	entries []store.AuditEntry
}

func NewAuditLog() *AuditLog { return &AuditLog{} }

func (a *AuditLog) Record(ctx context.Context, entry store.AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

// Entries returns a copy of everything recorded so far.
func (a *AuditLog) Entries() []store.AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]store.AuditEntry(nil), a.entries...)
}
