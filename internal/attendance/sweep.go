package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/danprat/ABSEN-DESA/internal/store"
)

// SweepAbsences creates ABSENT records for every active employee with no
// attendance record on the given date. Non-workdays and holidays are
// skipped entirely. Safe to re-run: employees with any existing record
// (whatever its status) are left alone, and concurrent sweeps deduplicate
// on the (employee, date) constraint. Returns the number of records created.
func (s *Service) SweepAbsences(ctx context.Context, date time.Time) (int, error) {
	dc, err := s.ResolveDate(ctx, date)
	if err != nil {
		return 0, err
	}
	if !dc.Day.IsWorkday || dc.Holiday.Active() {
		return 0, nil
	}

	employees, err := s.store.ListActiveEmployees(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active employees: %w", err)
	}

	created := 0
	for _, emp := range employees {
		inserted, err := s.store.InsertAbsent(ctx, emp.ID, dc.Date)
		if err != nil {
			return created, fmt.Errorf("mark %s absent: %w", emp.Name, err)
		}
		if inserted {
			created++
		}
	}

	if created > 0 {
		s.audit.Record(ctx, store.AuditEntry{
			Action:      "absence_sweep",
			Entity:      "attendance",
			Actor:       "system",
			Description: fmt.Sprintf("Marked %d employee(s) absent on %s", created, dc.Date.Format("2006-01-02")),
		})
	}
	return created, nil
}
