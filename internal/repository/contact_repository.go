package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/helpdesk/internal/domain"
)

// ContactRepository persists customer portal identities.
type ContactRepository interface {
	GetByID(ctx context.Context, id string) (*domain.CustomerContact, error)
	GetByEmail(ctx context.Context, email string) (*domain.CustomerContact, error)
}

type contactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository instantiates repository.
func NewContactRepository(pool *pgxpool.Pool) ContactRepository {
	return &contactRepository{pool: pool}
}

const contactColumns = `id, tenant_id, customer_id, name, email, password_hash, is_active,
               can_create_tickets, can_view_all_tickets, can_view_devices, can_view_invoices, can_view_quotes,
               created_at, updated_at`

func (r *contactRepository) GetByID(ctx context.Context, id string) (*domain.CustomerContact, error) {
	query := `SELECT ` + contactColumns + ` FROM customer_contacts WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *contactRepository) GetByEmail(ctx context.Context, email string) (*domain.CustomerContact, error) {
	query := `SELECT ` + contactColumns + ` FROM customer_contacts WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *contactRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.CustomerContact, error) {
	var contact domain.CustomerContact
	if err := scanContact(r.pool.QueryRow(ctx, query, arg), &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func scanContact(row pgx.Row, contact *domain.CustomerContact) error {
	return row.Scan(
		&contact.ID,
		&contact.TenantID,
		&contact.CustomerID,
		&contact.Name,
		&contact.Email,
		&contact.PasswordHash,
		&contact.IsActive,
		&contact.Capabilities.CanCreateTickets,
		&contact.Capabilities.CanViewAllTickets,
		&contact.Capabilities.CanViewDevices,
		&contact.Capabilities.CanViewInvoices,
		&contact.Capabilities.CanViewQuotes,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)
}
