package targets

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles target settings persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a targets repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetSettings returns a branch's target settings, or DefaultSettings when the
// branch has not been configured yet.
func (r *Repository) GetSettings(ctx context.Context, ownerEmail string, branchID uuid.UUID) (Settings, error) {
	const q = `SELECT technicians, working_days, hours_per_day, efficiency_pct, utilization_pct,
		labor_rate, target_gp_pct, currency
		FROM target_settings WHERE owner_email = $1 AND branch_id = $2`
	var s Settings
	err := r.pool.QueryRow(ctx, q, ownerEmail, branchID).
		Scan(&s.Technicians, &s.WorkingDays, &s.HoursPerDay, &s.EfficiencyPct, &s.UtilizationPct,
			&s.LaborRate, &s.TargetGPPct, &s.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, err
	}
	return s, nil
}

// UpsertSettings stores a branch's target settings.
func (r *Repository) UpsertSettings(ctx context.Context, ownerEmail string, branchID uuid.UUID, s Settings) error {
	const q = `INSERT INTO target_settings
		(owner_email, branch_id, technicians, working_days, hours_per_day, efficiency_pct, utilization_pct, labor_rate, target_gp_pct, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (owner_email, branch_id) DO UPDATE SET
			technicians = EXCLUDED.technicians,
			working_days = EXCLUDED.working_days,
			hours_per_day = EXCLUDED.hours_per_day,
			efficiency_pct = EXCLUDED.efficiency_pct,
			utilization_pct = EXCLUDED.utilization_pct,
			labor_rate = EXCLUDED.labor_rate,
			target_gp_pct = EXCLUDED.target_gp_pct,
			currency = EXCLUDED.currency,
			updated_at = NOW()`
	_, err := r.pool.Exec(ctx, q, ownerEmail, branchID,
		s.Technicians, s.WorkingDays, s.HoursPerDay, s.EfficiencyPct, s.UtilizationPct,
		s.LaborRate, s.TargetGPPct, s.Currency)
	return err
}
