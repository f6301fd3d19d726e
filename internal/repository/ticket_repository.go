package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/helpdesk/internal/domain"
)

// TicketFilter captures listing parameters. All lookups are tenant-scoped.
type TicketFilter struct {
	CustomerID         *string
	CreatedByContactID *string
	Statuses           []domain.TicketStatus
	Priorities         []domain.TicketPriority
	ExcludeArchived    bool
	Limit              int
	Offset             int
}

// SlaStamp carries resolved SLA fields onto a ticket.
type SlaStamp struct {
	PolicyID           *string
	FirstResponseDueAt *time.Time
	ResolutionDueAt    *time.Time
}

// TicketRepository encapsulates ticket persistence. Create allocates the
// tenant's next ticket number and inserts the row in one transaction, so a
// failed insert rolls the whole step back.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, tenantID string, filter TicketFilter) ([]domain.Ticket, error)
	Delete(ctx context.Context, tenantID, id string) error
	SetFirstResponseAt(ctx context.Context, id string, at time.Time) error
	UpdateSla(ctx context.Context, tenantID, id string, stamp SlaStamp) error
	TouchUpdated(ctx context.Context, id string, at time.Time) error
	MarkFirstResponseBreaches(ctx context.Context, now time.Time) (int64, error)
	MarkResolutionBreaches(ctx context.Context, now time.Time) (int64, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, tenant_id, ticket_number, customer_id, project_id, title, description,
               status, priority, assigned_to_user_id, created_by_contact_id,
               sla_policy_id, first_response_due_at, resolution_due_at, first_response_at,
               sla_first_response_breached, sla_resolution_breached,
               resolved_at, closed_at, created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	n, err := nextSequenceValue(ctx, tx, ticket.TenantID)
	if err != nil {
		return err
	}
	ticket.TicketNumber = domain.FormatTicketNumber(n)

	const query = `
        INSERT INTO tickets (tenant_id, ticket_number, customer_id, project_id, title, description,
            status, priority, assigned_to_user_id, created_by_contact_id,
            sla_policy_id, first_response_due_at, resolution_due_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, query,
		ticket.TenantID,
		ticket.TicketNumber,
		ticket.CustomerID,
		ticket.ProjectID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.AssignedToUserID,
		ticket.CreatedByContactID,
		ticket.SlaPolicyID,
		ticket.FirstResponseDueAt,
		ticket.ResolutionDueAt,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET customer_id=$1, project_id=$2, title=$3, description=$4,
            status=$5, priority=$6, assigned_to_user_id=$7,
            resolved_at=$8, closed_at=$9, updated_at=NOW()
        WHERE id=$10 AND tenant_id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.CustomerID,
		ticket.ProjectID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.AssignedToUserID,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.ID,
		ticket.TenantID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1 AND tenant_id=$2`, ticketColumns)
	var ticket domain.Ticket
	if err := scanTicket(r.pool.QueryRow(ctx, query, id, tenantID), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, tenantID string, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"tenant_id=$1"}
	args := []any{tenantID}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.CreatedByContactID != nil {
		args = append(args, *filter.CreatedByContactID)
		clauses = append(clauses, fmt.Sprintf("created_by_contact_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	} else if filter.ExcludeArchived {
		args = append(args, domain.TicketStatusArchived)
		clauses = append(clauses, fmt.Sprintf("status <> $%d", len(args)))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// Delete hard-deletes a ticket; comments, attachments, tag assignments and
// activities cascade via foreign keys.
func (r *ticketRepository) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1 AND tenant_id=$2`, id, tenantID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// SetFirstResponseAt stamps the first-response timestamp only when unset.
func (r *ticketRepository) SetFirstResponseAt(ctx context.Context, id string, at time.Time) error {
	const query = `
        UPDATE tickets SET first_response_at=$1, updated_at=NOW()
        WHERE id=$2 AND first_response_at IS NULL`
	_, err := r.pool.Exec(ctx, query, at, id)
	return err
}

func (r *ticketRepository) UpdateSla(ctx context.Context, tenantID, id string, stamp SlaStamp) error {
	const query = `
        UPDATE tickets SET sla_policy_id=$1, first_response_due_at=$2, resolution_due_at=$3, updated_at=NOW()
        WHERE id=$4 AND tenant_id=$5`
	cmd, err := r.pool.Exec(ctx, query, stamp.PolicyID, stamp.FirstResponseDueAt, stamp.ResolutionDueAt, id, tenantID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) TouchUpdated(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE tickets SET updated_at=$1 WHERE id=$2`, at, id)
	return err
}

// MarkFirstResponseBreaches flips the first-response breach flag on tickets
// whose deadline passed without a reply. The flag is monotonic: rows already
// marked are skipped and the flag is never reset here.
func (r *ticketRepository) MarkFirstResponseBreaches(ctx context.Context, now time.Time) (int64, error) {
	const query = `
        UPDATE tickets SET sla_first_response_breached=TRUE
        WHERE sla_first_response_breached=FALSE
          AND first_response_due_at IS NOT NULL
          AND first_response_due_at < $1
          AND first_response_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// MarkResolutionBreaches flips the resolution breach flag on tickets whose
// deadline passed while still unresolved.
func (r *ticketRepository) MarkResolutionBreaches(ctx context.Context, now time.Time) (int64, error) {
	const query = `
        UPDATE tickets SET sla_resolution_breached=TRUE
        WHERE sla_resolution_breached=FALSE
          AND resolution_due_at IS NOT NULL
          AND resolution_due_at < $1
          AND resolved_at IS NULL`
	cmd, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.TenantID,
		&ticket.TicketNumber,
		&ticket.CustomerID,
		&ticket.ProjectID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.AssignedToUserID,
		&ticket.CreatedByContactID,
		&ticket.SlaPolicyID,
		&ticket.FirstResponseDueAt,
		&ticket.ResolutionDueAt,
		&ticket.FirstResponseAt,
		&ticket.SlaFirstResponseBreached,
		&ticket.SlaResolutionBreached,
		&ticket.ResolvedAt,
		&ticket.ClosedAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
