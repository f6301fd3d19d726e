package domain

// SubjectType differentiates tenant-user tokens from portal-contact tokens.
type SubjectType string

const (
	SubjectTypeUser    SubjectType = "USER"
	SubjectTypeContact SubjectType = "CONTACT"
)

// Actor identifies who performed a mutation: a tenant user, a customer
// contact, or the system (both ids nil).
type Actor struct {
	UserID    *string
	ContactID *string
}

// UserActor builds an actor for a tenant user.
func UserActor(userID string) Actor {
	return Actor{UserID: &userID}
}

// ContactActor builds an actor for a customer contact.
func ContactActor(contactID string) Actor {
	return Actor{ContactID: &contactID}
}
