package models

import "github.com/apnakhata/apnakhata/internal/money"

// Book represents a shared ledger owned by one registered user.
// Deleting a book cascades to its participants, dummy users, transactions
// and invitations.
type Book struct {
	// ID is the unique identifier assigned by the store.
	ID int64 `json:"id"`

	// OwnerID is the registered user who created the book.
	OwnerID int64 `json:"user_id"`

	// Name is the display name of the book. Required.
	Name string `json:"name"`

	// Description is free text shown under the book name.
	Description string `json:"description"`

	// CreatedAt is the Unix timestamp when the book was created.
	CreatedAt int64 `json:"created_at"`
}

// Participant is the membership of one identity in a book. Exactly one of
// UserID and DummyUserID is set; a given (book, identity) pair appears at
// most once.
type Participant struct {
	// ID is the unique identifier assigned by the store.
	ID int64 `json:"id"`

	// BookID is the book this membership belongs to.
	BookID int64 `json:"book_id"`

	// UserID is set when the member is a registered user.
	UserID int64 `json:"user_id,omitempty"`

	// DummyUserID is set when the member is a placeholder.
	DummyUserID int64 `json:"dummy_user_id,omitempty"`
}

// Identity returns the tagged identity of the participant.
func (p Participant) Identity() Identity {
	if p.DummyUserID != 0 {
		return DummyIdentity(p.DummyUserID)
	}
	return UserIdentity(p.UserID)
}

// Member is a participant resolved for presentation: display fields plus
// the running tally within the book. Dummy members carry a synthetic email
// so clients can label placeholder rows.
type Member struct {
	// Identity tags whether the member is a user or a dummy user.
	Identity Identity `json:"identity"`

	// Name is the member's display name.
	Name string `json:"name"`

	// Email is the member's email, or "dummy-<id>@apnakhata.local" for
	// placeholders.
	Email string `json:"email"`

	// Tally is the member's signed running balance within the book.
	Tally money.Amount `json:"tally"`
}
