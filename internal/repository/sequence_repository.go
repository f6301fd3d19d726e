package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/helpdesk/internal/domain"
)

// SequenceRepository allocates per-tenant ticket numbers. Allocation is a
// single atomic upsert-increment: concurrent callers for the same tenant
// always receive distinct, strictly increasing numbers. Numbers consumed by
// a later-failing ticket insert leave gaps, which is acceptable; duplicates
// are not.
type SequenceRepository interface {
	NextTicketNumber(ctx context.Context, tenantID string) (string, error)
}

type sequenceRepository struct {
	db querier
}

// NewSequenceRepository instantiates repository.
func NewSequenceRepository(pool *pgxpool.Pool) SequenceRepository {
	return &sequenceRepository{db: pool}
}

func (r *sequenceRepository) NextTicketNumber(ctx context.Context, tenantID string) (string, error) {
	n, err := nextSequenceValue(ctx, r.db, tenantID)
	if err != nil {
		return "", err
	}
	return domain.FormatTicketNumber(n), nil
}

// nextSequenceValue performs insert-if-absent plus increment in one
// statement so there is no read-then-write window.
func nextSequenceValue(ctx context.Context, q querier, tenantID string) (int64, error) {
	const query = `
        INSERT INTO ticket_sequences (tenant_id, last_number)
        VALUES ($1, 1)
        ON CONFLICT (tenant_id)
        DO UPDATE SET last_number = ticket_sequences.last_number + 1
        RETURNING last_number`
	var n int64
	if err := q.QueryRow(ctx, query, tenantID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
