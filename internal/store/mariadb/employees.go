package mariadb

import (
	"context"
	"database/sql"
	"fmt"
)

// LegacyEmployee is one row of the HR database's pegawai table.
type LegacyEmployee struct {
	NIP      string
	Name     string
	Position string
	Phone    string
	Email    string
	Active   bool
}

// ListEmployees reads every employee row from the legacy HR schema,
// ordered by name so import output is stable.
func (p *Pool) ListEmployees(ctx context.Context) ([]LegacyEmployee, error) {
	query := `
		SELECT COALESCE(nip, ''), nama, COALESCE(jabatan, ''),
		       COALESCE(no_hp, ''), COALESCE(email, ''), COALESCE(aktif, 1)
		FROM pegawai
		ORDER BY nama
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query legacy employees: %w", err)
	}
	defer rows.Close()

	var employees []LegacyEmployee
	for rows.Next() {
		var emp LegacyEmployee
		var active sql.NullInt64
		if err := rows.Scan(&emp.NIP, &emp.Name, &emp.Position, &emp.Phone, &emp.Email, &active); err != nil {
			return nil, fmt.Errorf("scan legacy employee: %w", err)
		}
		emp.Active = !active.Valid || active.Int64 != 0
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate legacy employees: %w", err)
	}
	return employees, nil
}
