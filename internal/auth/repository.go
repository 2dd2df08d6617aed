package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/marginpilot/backend/internal/models"
)

// Repository handles profile persistence. The company document is stored as
// a JSONB column: it is owner-scoped and only ever read or replaced whole.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a profile repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetByEmail returns the profile with exactly this email, or (nil, nil) when absent.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	const q = `SELECT id, email, password_hash, company, company_owner_email, created_at, updated_at
		FROM profiles WHERE email = $1`
	var (
		p       models.Profile
		company []byte
	)
	err := r.pool.QueryRow(ctx, q, email).
		Scan(&p.ID, &p.Email, &p.Password, &company, &p.CompanyOwnerEmail, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(company) > 0 {
		if err := json.Unmarshal(company, &p.Company); err != nil {
			return nil, fmt.Errorf("decode company document: %w", err)
		}
	}
	return &p, nil
}

// Create inserts a new profile. The caller supplies an already-hashed password.
func (r *Repository) Create(ctx context.Context, p *models.Profile) error {
	company, err := json.Marshal(p.Company)
	if err != nil {
		return fmt.Errorf("encode company document: %w", err)
	}
	const q = `INSERT INTO profiles (id, email, password_hash, company, company_owner_email)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, p.Email, p.Password, company, p.CompanyOwnerEmail).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// UpdateCompany replaces the owner's company document.
func (r *Repository) UpdateCompany(ctx context.Context, ownerEmail string, company models.Company) error {
	doc, err := json.Marshal(company)
	if err != nil {
		return fmt.Errorf("encode company document: %w", err)
	}
	const q = `UPDATE profiles SET company = $2, updated_at = NOW() WHERE email = $1`
	tag, err := r.pool.Exec(ctx, q, ownerEmail, doc)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile not found: %s", ownerEmail)
	}
	return nil
}

// ClearOwnerRef removes the member's back-reference to an owner, but only if
// it currently points at that owner.
func (r *Repository) ClearOwnerRef(ctx context.Context, memberEmail, ownerEmail string) error {
	const q = `UPDATE profiles SET company_owner_email = NULL, updated_at = NOW()
		WHERE email = $1 AND company_owner_email = $2`
	_, err := r.pool.Exec(ctx, q, memberEmail, ownerEmail)
	return err
}

// UpdatePassword replaces the stored password hash.
func (r *Repository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	const q = `UPDATE profiles SET password_hash = $2, updated_at = NOW() WHERE email = $1`
	tag, err := r.pool.Exec(ctx, q, email, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile not found: %s", email)
	}
	return nil
}
