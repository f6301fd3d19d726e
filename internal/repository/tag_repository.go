package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/helpdesk/internal/domain"
	apperrors "github.com/opsdesk/helpdesk/pkg/util/errorutil"
)

// TagRepository persists tenant tags and their ticket assignments.
// Assign/Unassign report whether the assignment actually changed state so
// callers can log activities only for real transitions.
type TagRepository interface {
	Create(ctx context.Context, tag *domain.TicketTag) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.TicketTag, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.TicketTag, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketTag, error)
	Delete(ctx context.Context, tenantID, id string) error
	Assign(ctx context.Context, ticketID, tagID string) (bool, error)
	Unassign(ctx context.Context, ticketID, tagID string) (bool, error)
}

type tagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository instantiates repository.
func NewTagRepository(pool *pgxpool.Pool) TagRepository {
	return &tagRepository{pool: pool}
}

func (r *tagRepository) Create(ctx context.Context, tag *domain.TicketTag) error {
	const query = `
        INSERT INTO ticket_tags (tenant_id, name, color)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query, tag.TenantID, tag.Name, tag.Color).
		Scan(&tag.ID, &tag.CreatedAt)
	if isUniqueViolation(err) {
		return apperrors.NewConflict("tag name already exists")
	}
	return err
}

func (r *tagRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.TicketTag, error) {
	const query = `SELECT id, tenant_id, name, color, created_at FROM ticket_tags WHERE id=$1 AND tenant_id=$2`
	var tag domain.TicketTag
	if err := r.pool.QueryRow(ctx, query, id, tenantID).
		Scan(&tag.ID, &tag.TenantID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.TicketTag, error) {
	const query = `SELECT id, tenant_id, name, color, created_at FROM ticket_tags WHERE tenant_id=$1 ORDER BY name ASC`
	return r.list(ctx, query, tenantID)
}

func (r *tagRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketTag, error) {
	const query = `
        SELECT t.id, t.tenant_id, t.name, t.color, t.created_at
        FROM ticket_tags t
        JOIN ticket_tag_assignments a ON a.tag_id = t.id
        WHERE a.ticket_id=$1 ORDER BY t.name ASC`
	return r.list(ctx, query, ticketID)
}

func (r *tagRepository) list(ctx context.Context, query string, args ...any) ([]domain.TicketTag, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketTag
	for rows.Next() {
		var tag domain.TicketTag
		if err := rows.Scan(&tag.ID, &tag.TenantID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, tag)
	}
	return result, rows.Err()
}

func (r *tagRepository) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM ticket_tags WHERE id=$1 AND tenant_id=$2`, id, tenantID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tagRepository) Assign(ctx context.Context, ticketID, tagID string) (bool, error) {
	const query = `
        INSERT INTO ticket_tag_assignments (ticket_id, tag_id)
        VALUES ($1,$2)
        ON CONFLICT (ticket_id, tag_id) DO NOTHING`
	cmd, err := r.pool.Exec(ctx, query, ticketID, tagID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *tagRepository) Unassign(ctx context.Context, ticketID, tagID string) (bool, error) {
	const query = `DELETE FROM ticket_tag_assignments WHERE ticket_id=$1 AND tag_id=$2`
	cmd, err := r.pool.Exec(ctx, query, ticketID, tagID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
