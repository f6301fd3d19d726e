package domain

import "time"

// User is a tenant account principal. The account owner's id doubles as the
// tenant id scoping every customer, ticket, sequence and SLA policy.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
