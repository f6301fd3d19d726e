package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/helpdesk/internal/domain"
)

// ActivityRepository stores append-only audit entries. There is no update
// or delete; the timeline reads newest-first with the seq identity column
// as tiebreaker so same-timestamp rows keep insertion order.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.TicketActivity) error
	ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.TicketActivity, error)
}

type activityRepository struct {
	db querier
}

// NewActivityRepository instantiates repository.
func NewActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepository{db: pool}
}

func (r *activityRepository) Create(ctx context.Context, activity *domain.TicketActivity) error {
	const query = `
        INSERT INTO ticket_activities (ticket_id, actor_user_id, actor_contact_id, action, old_value, new_value, metadata)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		activity.TicketID,
		activity.ActorUserID,
		activity.ActorContactID,
		activity.Action,
		activity.OldValue,
		activity.NewValue,
		activity.Metadata,
	).Scan(&activity.ID, &activity.CreatedAt)
}

func (r *activityRepository) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.TicketActivity, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, ticket_id, actor_user_id, actor_contact_id, action, old_value, new_value, metadata, created_at
        FROM ticket_activities WHERE ticket_id=$1
        ORDER BY created_at DESC, seq DESC
        LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, ticketID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketActivity
	for rows.Next() {
		var activity domain.TicketActivity
		if err := rows.Scan(
			&activity.ID,
			&activity.TicketID,
			&activity.ActorUserID,
			&activity.ActorContactID,
			&activity.Action,
			&activity.OldValue,
			&activity.NewValue,
			&activity.Metadata,
			&activity.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, activity)
	}
	return result, rows.Err()
}
