package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danprat/ABSEN-DESA/internal/store"
)

const employeeColumns = "id, nip, name, position, phone, email, photo_url, is_active, created_at, updated_at"

// GetEmployee retrieves one employee by ID. Returns nil when not found.
func (s *Store) GetEmployee(ctx context.Context, id int64) (*store.Employee, error) {
	query := "SELECT " + employeeColumns + " FROM employees WHERE id = $1"

	emp, err := scanEmployee(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query employee: %w", err)
	}
	return emp, nil
}

// ListActiveEmployees returns all active employees ordered by name.
func (s *Store) ListActiveEmployees(ctx context.Context) ([]store.Employee, error) {
	query := "SELECT " + employeeColumns + " FROM employees WHERE is_active ORDER BY name, id"

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query active employees: %w", err)
	}
	defer rows.Close()

	var employees []store.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}
	return employees, nil
}

// FindEmployeeByNIP looks an employee up by government employee number.
// Returns nil when no employee carries the number.
func (s *Store) FindEmployeeByNIP(ctx context.Context, nip string) (*store.Employee, error) {
	if nip == "" {
		return nil, nil
	}
	query := "SELECT " + employeeColumns + " FROM employees WHERE nip = $1"

	emp, err := scanEmployee(s.pool.QueryRow(ctx, query, nip))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query employee by nip: %w", err)
	}
	return emp, nil
}

// CreateEmployee inserts a new employee and fills in the assigned ID.
func (s *Store) CreateEmployee(ctx context.Context, emp *store.Employee) error {
	query := `
		INSERT INTO employees (nip, name, position, phone, email, photo_url, is_active)
		VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		emp.NIP,
		emp.Name,
		emp.Position,
		emp.Phone,
		emp.Email,
		emp.PhotoURL,
		emp.IsActive,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

func scanEmployee(scanner interface{ Scan(...any) error }) (*store.Employee, error) {
	var emp store.Employee
	var nip sql.NullString

	err := scanner.Scan(
		&emp.ID,
		&nip,
		&emp.Name,
		&emp.Position,
		&emp.Phone,
		&emp.Email,
		&emp.PhotoURL,
		&emp.IsActive,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan employee: %w", err)
	}
	if nip.Valid {
		emp.NIP = nip.String
	}
	return &emp, nil
}
