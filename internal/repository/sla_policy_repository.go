package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/helpdesk/internal/domain"
)

// SlaPolicyRepository persists tenant SLA policies. Writes that set
// is_default clear any other default with the same priority value in the
// same transaction, keeping at most one default per tenant and priority.
type SlaPolicyRepository interface {
	Create(ctx context.Context, policy *domain.SlaPolicy) error
	Update(ctx context.Context, policy *domain.SlaPolicy) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.SlaPolicy, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.SlaPolicy, error)
	ListActiveByTenant(ctx context.Context, tenantID string) ([]domain.SlaPolicy, error)
	Delete(ctx context.Context, tenantID, id string) error
}

type slaPolicyRepository struct {
	pool *pgxpool.Pool
}

// NewSlaPolicyRepository instantiates repository.
func NewSlaPolicyRepository(pool *pgxpool.Pool) SlaPolicyRepository {
	return &slaPolicyRepository{pool: pool}
}

const slaColumns = `id, tenant_id, name, priority, first_response_minutes, resolution_minutes,
               business_hours_only, is_active, is_default, created_at, updated_at`

func (r *slaPolicyRepository) Create(ctx context.Context, policy *domain.SlaPolicy) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if policy.IsDefault {
		if err := clearDefault(ctx, tx, policy.TenantID, policy.Priority, ""); err != nil {
			return err
		}
	}

	const query = `
        INSERT INTO sla_policies (tenant_id, name, priority, first_response_minutes, resolution_minutes,
            business_hours_only, is_active, is_default)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		policy.TenantID,
		policy.Name,
		policy.Priority,
		policy.FirstResponseMinutes,
		policy.ResolutionMinutes,
		policy.BusinessHoursOnly,
		policy.IsActive,
		policy.IsDefault,
	).Scan(&policy.ID, &policy.CreatedAt, &policy.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *slaPolicyRepository) Update(ctx context.Context, policy *domain.SlaPolicy) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if policy.IsDefault {
		if err := clearDefault(ctx, tx, policy.TenantID, policy.Priority, policy.ID); err != nil {
			return err
		}
	}

	const query = `
        UPDATE sla_policies SET name=$1, priority=$2, first_response_minutes=$3, resolution_minutes=$4,
            business_hours_only=$5, is_active=$6, is_default=$7, updated_at=NOW()
        WHERE id=$8 AND tenant_id=$9`
	cmd, err := tx.Exec(ctx, query,
		policy.Name,
		policy.Priority,
		policy.FirstResponseMinutes,
		policy.ResolutionMinutes,
		policy.BusinessHoursOnly,
		policy.IsActive,
		policy.IsDefault,
		policy.ID,
		policy.TenantID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

func clearDefault(ctx context.Context, q querier, tenantID string, priority domain.SlaPriority, excludeID string) error {
	// On create there is no row to exclude yet; an empty excludeID is sent
	// as NULL because the id column is uuid and "" is not a valid literal.
	var exclude any
	if excludeID != "" {
		exclude = excludeID
	}
	const query = `
        UPDATE sla_policies SET is_default=FALSE, updated_at=NOW()
        WHERE tenant_id=$1 AND priority=$2 AND is_default=TRUE AND ($3::uuid IS NULL OR id<>$3::uuid)`
	_, err := q.Exec(ctx, query, tenantID, priority, exclude)
	return err
}

func (r *slaPolicyRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.SlaPolicy, error) {
	query := `SELECT ` + slaColumns + ` FROM sla_policies WHERE id=$1 AND tenant_id=$2`
	var policy domain.SlaPolicy
	if err := scanSlaPolicy(r.pool.QueryRow(ctx, query, id, tenantID), &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *slaPolicyRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.SlaPolicy, error) {
	query := `SELECT ` + slaColumns + ` FROM sla_policies WHERE tenant_id=$1 ORDER BY created_at ASC`
	return r.list(ctx, query, tenantID)
}

func (r *slaPolicyRepository) ListActiveByTenant(ctx context.Context, tenantID string) ([]domain.SlaPolicy, error) {
	query := `SELECT ` + slaColumns + ` FROM sla_policies WHERE tenant_id=$1 AND is_active=TRUE ORDER BY created_at ASC`
	return r.list(ctx, query, tenantID)
}

func (r *slaPolicyRepository) list(ctx context.Context, query string, args ...any) ([]domain.SlaPolicy, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SlaPolicy
	for rows.Next() {
		var policy domain.SlaPolicy
		if err := scanSlaPolicy(rows, &policy); err != nil {
			return nil, err
		}
		result = append(result, policy)
	}
	return result, rows.Err()
}

func (r *slaPolicyRepository) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM sla_policies WHERE id=$1 AND tenant_id=$2`, id, tenantID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanSlaPolicy(row pgx.Row, policy *domain.SlaPolicy) error {
	return row.Scan(
		&policy.ID,
		&policy.TenantID,
		&policy.Name,
		&policy.Priority,
		&policy.FirstResponseMinutes,
		&policy.ResolutionMinutes,
		&policy.BusinessHoursOnly,
		&policy.IsActive,
		&policy.IsDefault,
		&policy.CreatedAt,
		&policy.UpdatedAt,
	)
}
