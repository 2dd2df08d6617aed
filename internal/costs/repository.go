package costs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marginpilot/backend/internal/models"
)

// Repository handles cost item persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a costs repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListByBranch returns cost items for a branch, scoped to the tenant owner.
func (r *Repository) ListByBranch(ctx context.Context, ownerEmail string, branchID uuid.UUID) ([]models.CostItem, error) {
	const q = `SELECT id, owner_email, branch_id, category, name, amount, created_at, updated_at
		FROM cost_items WHERE owner_email = $1 AND branch_id = $2 ORDER BY category, name`
	rows, err := r.pool.Query(ctx, q, ownerEmail, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.CostItem
	for rows.Next() {
		var item models.CostItem
		if err := rows.Scan(&item.ID, &item.OwnerEmail, &item.BranchID, &item.Category, &item.Name, &item.Amount, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// GetByID returns a cost item scoped to the tenant owner, or (nil, nil) when absent.
func (r *Repository) GetByID(ctx context.Context, ownerEmail string, id uuid.UUID) (*models.CostItem, error) {
	const q = `SELECT id, owner_email, branch_id, category, name, amount, created_at, updated_at
		FROM cost_items WHERE owner_email = $1 AND id = $2`
	var item models.CostItem
	err := r.pool.QueryRow(ctx, q, ownerEmail, id).
		Scan(&item.ID, &item.OwnerEmail, &item.BranchID, &item.Category, &item.Name, &item.Amount, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a cost item.
func (r *Repository) Create(ctx context.Context, item *models.CostItem) error {
	const q = `INSERT INTO cost_items (id, owner_email, branch_id, category, name, amount)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, item.OwnerEmail, item.BranchID, string(item.Category), item.Name, item.Amount).
		Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

// Update modifies a cost item scoped to the tenant owner.
func (r *Repository) Update(ctx context.Context, item *models.CostItem) error {
	const q = `UPDATE cost_items SET category = $3, name = $4, amount = $5, updated_at = NOW()
		WHERE owner_email = $1 AND id = $2
		RETURNING updated_at`
	return r.pool.QueryRow(ctx, q, item.OwnerEmail, item.ID, string(item.Category), item.Name, item.Amount).
		Scan(&item.UpdatedAt)
}

// Delete removes a cost item scoped to the tenant owner. Reports whether a row was deleted.
func (r *Repository) Delete(ctx context.Context, ownerEmail string, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cost_items WHERE owner_email = $1 AND id = $2`, ownerEmail, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Totals holds per-category cost sums for a branch.
type Totals struct {
	Fixed    float64 `json:"fixed"`
	Variable float64 `json:"variable"`
	Total    float64 `json:"total"`
}

// TotalsByBranch returns the per-category monthly cost sums for a branch.
func (r *Repository) TotalsByBranch(ctx context.Context, ownerEmail string, branchID uuid.UUID) (Totals, error) {
	const q = `SELECT
		COALESCE(SUM(amount) FILTER (WHERE category = 'fixed'), 0),
		COALESCE(SUM(amount) FILTER (WHERE category = 'variable'), 0),
		COALESCE(SUM(amount), 0)
		FROM cost_items WHERE owner_email = $1 AND branch_id = $2`
	var t Totals
	err := r.pool.QueryRow(ctx, q, ownerEmail, branchID).Scan(&t.Fixed, &t.Variable, &t.Total)
	if err != nil {
		return Totals{}, err
	}
	return t, nil
}
