package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/helpdesk/internal/domain"
)

// TimeEntryRepository persists tracked work time.
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *domain.TimeEntry) error
	Update(ctx context.Context, entry *domain.TimeEntry) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.TimeEntry, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TimeEntry, error)
}

type timeEntryRepository struct {
	pool *pgxpool.Pool
}

// NewTimeEntryRepository instantiates repository.
func NewTimeEntryRepository(pool *pgxpool.Pool) TimeEntryRepository {
	return &timeEntryRepository{pool: pool}
}

const timeEntryColumns = `id, tenant_id, user_id, project_id, ticket_id, description, minutes, billable,
               started_at, created_at, updated_at`

func (r *timeEntryRepository) Create(ctx context.Context, entry *domain.TimeEntry) error {
	const query = `
        INSERT INTO time_entries (tenant_id, user_id, project_id, ticket_id, description, minutes, billable, started_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		entry.TenantID,
		entry.UserID,
		entry.ProjectID,
		entry.TicketID,
		entry.Description,
		entry.Minutes,
		entry.Billable,
		entry.StartedAt,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
}

func (r *timeEntryRepository) Update(ctx context.Context, entry *domain.TimeEntry) error {
	const query = `
        UPDATE time_entries SET project_id=$1, ticket_id=$2, description=$3, minutes=$4, billable=$5,
            started_at=$6, updated_at=NOW()
        WHERE id=$7 AND tenant_id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		entry.ProjectID,
		entry.TicketID,
		entry.Description,
		entry.Minutes,
		entry.Billable,
		entry.StartedAt,
		entry.ID,
		entry.TenantID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *timeEntryRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE id=$1 AND tenant_id=$2`
	var entry domain.TimeEntry
	if err := scanTimeEntry(r.pool.QueryRow(ctx, query, id, tenantID), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TimeEntry, error) {
	query := `SELECT ` + timeEntryColumns + ` FROM time_entries WHERE ticket_id=$1 ORDER BY started_at DESC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TimeEntry
	for rows.Next() {
		var entry domain.TimeEntry
		if err := scanTimeEntry(rows, &entry); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func scanTimeEntry(row pgx.Row, entry *domain.TimeEntry) error {
	return row.Scan(
		&entry.ID,
		&entry.TenantID,
		&entry.UserID,
		&entry.ProjectID,
		&entry.TicketID,
		&entry.Description,
		&entry.Minutes,
		&entry.Billable,
		&entry.StartedAt,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
}
