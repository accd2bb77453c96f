package postgres

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/danprat/ABSEN-DESA/internal/store"
)

// ListActiveEmbeddings returns every stored vector that belongs to an
// active employee, joined with the owner's identity. Insertion order is
// preserved so the matching engine's tie-break is stable across refreshes.
func (s *Store) ListActiveEmbeddings(ctx context.Context) ([]store.EnrolledEmbedding, error) {
	query := `
		SELECT f.id, f.employee_id, e.name, f.embedding, f.is_primary
		FROM face_embeddings f
		JOIN employees e ON e.id = f.employee_id
		WHERE e.is_active
		ORDER BY f.id
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query active embeddings: %w", err)
	}
	defer rows.Close()

	var embeddings []store.EnrolledEmbedding
	for rows.Next() {
		var emb store.EnrolledEmbedding
		var vec pgvector.Vector
		if err := rows.Scan(&emb.ID, &emb.EmployeeID, &emb.EmployeeName, &vec, &emb.IsPrimary); err != nil {
			return nil, fmt.Errorf("scan embedding: %w", err)
		}
		emb.Vector = vec.Slice()
		embeddings = append(embeddings, emb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate embeddings: %w", err)
	}
	return embeddings, nil
}

// AddEmbedding stores a new face vector and fills in the assigned ID.
func (s *Store) AddEmbedding(ctx context.Context, emb *store.FaceEmbedding) error {
	query := `
		INSERT INTO face_embeddings (employee_id, embedding, photo_url, is_primary)
		VALUES ($1, $2::vector, $3, $4)
		RETURNING id, created_at
	`

	vec := pgvector.NewVector(emb.Vector)
	err := s.pool.QueryRow(ctx, query, emb.EmployeeID, vec, emb.PhotoURL, emb.IsPrimary).
		Scan(&emb.ID, &emb.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert embedding: %w", err)
	}
	return nil
}

// ListEmbeddings returns all stored vectors for one employee.
func (s *Store) ListEmbeddings(ctx context.Context, employeeID int64) ([]store.FaceEmbedding, error) {
	query := `
		SELECT id, employee_id, embedding, photo_url, is_primary, created_at
		FROM face_embeddings
		WHERE employee_id = $1
		ORDER BY id
	`

	rows, err := s.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("query embeddings: %w", err)
	}
	defer rows.Close()

	var embeddings []store.FaceEmbedding
	for rows.Next() {
		var emb store.FaceEmbedding
		var vec pgvector.Vector
		if err := rows.Scan(&emb.ID, &emb.EmployeeID, &vec, &emb.PhotoURL, &emb.IsPrimary, &emb.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan embedding: %w", err)
		}
		emb.Vector = vec.Slice()
		embeddings = append(embeddings, emb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate embeddings: %w", err)
	}
	return embeddings, nil
}

// CountEmbeddings returns the number of vectors stored for one employee.
func (s *Store) CountEmbeddings(ctx context.Context, employeeID int64) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM face_embeddings WHERE employee_id = $1", employeeID).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count embeddings: %w", err)
	}
	return count, nil
}

// DeleteEmbedding removes one vector, scoped to its owner so a caller
// cannot delete another employee's enrollment. Reports whether a row
// was actually removed.
func (s *Store) DeleteEmbedding(ctx context.Context, employeeID, embeddingID int64) (bool, error) {
	result, err := s.pool.Exec(ctx,
		"DELETE FROM face_embeddings WHERE id = $1 AND employee_id = $2", embeddingID, employeeID)
	if err != nil {
		return false, fmt.Errorf("delete embedding: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete embedding rows affected: %w", err)
	}
	return affected > 0, nil
}
