package facilities

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marginpilot/backend/internal/models"
)

// Repository handles facility persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a facilities repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByBranch returns facilities for a branch, scoped to the tenant owner.
func (r *Repository) ListByBranch(ctx context.Context, ownerEmail string, branchID uuid.UUID) ([]models.Facility, error) {
	const q = `SELECT id, owner_email, branch_id, name, kind, bays, active, created_at, updated_at
		FROM facilities WHERE owner_email = $1 AND branch_id = $2 ORDER BY name`
	rows, err := r.pool.Query(ctx, q, ownerEmail, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Facility
	for rows.Next() {
		var f models.Facility
		if err := rows.Scan(&f.ID, &f.OwnerEmail, &f.BranchID, &f.Name, &f.Kind, &f.Bays, &f.Active, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

// GetByID returns a facility by ID scoped to the tenant owner, or (nil, nil) when absent.
func (r *Repository) GetByID(ctx context.Context, ownerEmail string, id uuid.UUID) (*models.Facility, error) {
	const q = `SELECT id, owner_email, branch_id, name, kind, bays, active, created_at, updated_at
		FROM facilities WHERE owner_email = $1 AND id = $2`
	var f models.Facility
	err := r.pool.QueryRow(ctx, q, ownerEmail, id).
		Scan(&f.ID, &f.OwnerEmail, &f.BranchID, &f.Name, &f.Kind, &f.Bays, &f.Active, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a facility.
func (r *Repository) Create(ctx context.Context, f *models.Facility) error {
	const q = `INSERT INTO facilities (id, owner_email, branch_id, name, kind, bays, active)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, f.OwnerEmail, f.BranchID, f.Name, string(f.Kind), f.Bays, f.Active).
		Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}

// Update modifies a facility scoped to the tenant owner.
func (r *Repository) Update(ctx context.Context, f *models.Facility) error {
	const q = `UPDATE facilities SET name = $3, kind = $4, bays = $5, active = $6, updated_at = NOW()
		WHERE owner_email = $1 AND id = $2
		RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, f.OwnerEmail, f.ID, f.Name, string(f.Kind), f.Bays, f.Active).
		Scan(&f.UpdatedAt)
}

// Delete removes a facility scoped to the tenant owner. Reports whether a row was deleted.
func (r *Repository) Delete(ctx context.Context, ownerEmail string, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM facilities WHERE owner_email = $1 AND id = $2`, ownerEmail, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
