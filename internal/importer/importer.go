// Package importer copies employee rows from a legacy MariaDB HR
// database into the attendance store, deduplicating on NIP and on
// normalized name.
package importer

import (
	"context"
	"fmt"

	"github.com/danprat/ABSEN-DESA/internal/store"
	"github.com/danprat/ABSEN-DESA/internal/store/mariadb"
)

// Stats summarizes one import run.
type Stats struct {
	Imported int
	Skipped  int
}

// Progress is called once per legacy row, imported or not.
type Progress func()

// Importer copies legacy HR rows into the employee store.
type Importer struct {
	legacy *mariadb.Pool
	store  store.EmployeeStore
	audit  store.AuditSink
}

// New creates an importer. audit may be nil.
func New(legacy *mariadb.Pool, st store.EmployeeStore, audit store.AuditSink) *Importer {
	return &Importer{legacy: legacy, store: st, audit: audit}
}

// Run imports every legacy employee not already present. A row is a
// duplicate when its NIP is taken or, for rows without a NIP, when its
// normalized name matches an existing active employee. progress may be
// nil. Inactive legacy rows are skipped.
func (im *Importer) Run(ctx context.Context, progress Progress) (Stats, error) {
	var stats Stats

	legacy, err := im.legacy.ListEmployees(ctx)
	if err != nil {
		return stats, fmt.Errorf("read legacy employees: %w", err)
	}

	existing, err := im.store.ListActiveEmployees(ctx)
	if err != nil {
		return stats, fmt.Errorf("list existing employees: %w", err)
	}
	seenNames := make(map[string]bool, len(existing))
	for _, emp := range existing {
		seenNames[NormalizeName(emp.Name)] = true
	}

	for _, row := range legacy {
		if progress != nil {
			progress()
		}
		if !row.Active || row.Name == "" {
			stats.Skipped++
			continue
		}

		if row.NIP != "" {
			dup, err := im.store.FindEmployeeByNIP(ctx, row.NIP)
			if err != nil {
				return stats, fmt.Errorf("check NIP %s: %w", row.NIP, err)
			}
			if dup != nil {
				stats.Skipped++
				continue
			}
		} else if seenNames[NormalizeName(row.Name)] {
			stats.Skipped++
			continue
		}

		emp := &store.Employee{
			NIP:      row.NIP,
			Name:     row.Name,
			Position: row.Position,
			Phone:    row.Phone,
			Email:    row.Email,
			IsActive: true,
		}
		if err := im.store.CreateEmployee(ctx, emp); err != nil {
			return stats, fmt.Errorf("create employee %s: %w", row.Name, err)
		}
		seenNames[NormalizeName(row.Name)] = true
		stats.Imported++
	}

	if im.audit != nil && stats.Imported > 0 {
		im.audit.Record(ctx, store.AuditEntry{
			Action:      "legacy_import",
			Entity:      "employee",
			Description: fmt.Sprintf("imported %d employees from legacy HR (%d skipped)", stats.Imported, stats.Skipped),
		})
	}

	return stats, nil
}
