package models

// User represents a registered user account.
type User struct {
	// ID is the unique identifier assigned by the store.
	ID int64 `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's email address (unique). Used for login and
	// invitations.
	Email string `json:"email"`

	// PhoneNumber is the user's phone number (unique).
	PhoneNumber string `json:"phone_number"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized in responses.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"created_at"`
}

// DummyUser represents a placeholder participant added by a book owner for
// someone without an account. It has no credential and cannot authenticate.
// Dummy users are deleted together with their owning book.
type DummyUser struct {
	// ID is the unique identifier assigned by the store.
	ID int64 `json:"id"`

	// BookID is the book this dummy user belongs to.
	BookID int64 `json:"book_id"`

	// Name is the display name of the placeholder.
	Name string `json:"name"`

	// CreatedAt is the Unix timestamp when the dummy user was created.
	CreatedAt int64 `json:"created_at"`
}
