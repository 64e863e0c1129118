package models

// InvitationStatus is the lifecycle state of an invitation. The current
// feature set has no accept/decline transition, so "pending" is terminal.
type InvitationStatus string

// StatusPending is the initial (and only) invitation status.
const StatusPending InvitationStatus = "pending"

// Invitation records that a book owner invited an email address that is
// not yet registered. Invitations are deleted together with their book.
type Invitation struct {
	// ID is the unique identifier assigned by the store.
	ID int64 `json:"id"`

	// BookID is the book the invitee would join.
	BookID int64 `json:"book_id"`

	// Email is the invited address.
	Email string `json:"email"`

	// InviterID is the registered user who sent the invitation.
	InviterID int64 `json:"inviter_id"`

	// Status is the lifecycle state, initially pending.
	Status InvitationStatus `json:"status"`

	// CreatedAt is the Unix timestamp when the invitation was created.
	CreatedAt int64 `json:"created_at"`
}
