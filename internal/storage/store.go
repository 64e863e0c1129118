// Package storage provides abstractions for persistent ledger data.
package storage

import (
	"context"

	"github.com/apnakhata/apnakhata/internal/models"
)

// Store defines the persistence boundary for identities, books,
// participants, transactions and invitations. The abstraction allows
// swapping storage backends without changing the handler layer.
//
// Multi-statement operations (DeleteBook's cascade, CreateDummyUser's
// create-then-link) execute atomically: either all statements commit or
// none do.
type Store interface {
	// CreateUser persists a new user and populates its ID and CreatedAt.
	// Returns ErrConflict if the email or phone number is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email.
	// Returns ErrNotFound if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by id.
	// Returns ErrNotFound if no such user exists.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// ListUsers returns all registered users with a non-empty email and
	// phone number.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateBook persists a new book and populates its ID and CreatedAt.
	CreateBook(ctx context.Context, book *models.Book) error

	// GetBook retrieves a book by id regardless of owner.
	// Returns ErrNotFound if no such book exists.
	GetBook(ctx context.Context, bookID int64) (*models.Book, error)

	// GetBookForOwner retrieves a book only if ownerID owns it.
	// Returns ErrNotFound otherwise, so foreign books are not leakable.
	GetBookForOwner(ctx context.Context, bookID, ownerID int64) (*models.Book, error)

	// ListBooksByOwner returns all books owned by the given user.
	ListBooksByOwner(ctx context.Context, ownerID int64) ([]*models.Book, error)

	// DeleteBook removes the book and all of its participants, dummy
	// users, transactions and invitations in one atomic unit.
	// Returns ErrNotFound if no such book exists.
	DeleteBook(ctx context.Context, bookID int64) error

	// AddUserParticipant links a registered user into a book.
	// Returns ErrConflict if the pair already exists and ErrNotFound if
	// the user does not exist.
	AddUserParticipant(ctx context.Context, bookID, userID int64) (*models.Participant, error)

	// CreateDummyUser creates a placeholder identity scoped to the book
	// and links it as a participant, atomically.
	CreateDummyUser(ctx context.Context, bookID int64, name string) (*models.DummyUser, error)

	// ListMembers returns the book's participants resolved to display
	// fields. Dummy members carry a synthetic "dummy-<id>@..." email.
	// Tallies are left zero for the caller to fill in.
	ListMembers(ctx context.Context, bookID int64) ([]models.Member, error)

	// HasParticipant reports whether the identity is a participant of the
	// book.
	HasParticipant(ctx context.Context, bookID int64, identity models.Identity) (bool, error)

	// CreateInvitation persists a pending invitation and populates its ID
	// and CreatedAt.
	CreateInvitation(ctx context.Context, inv *models.Invitation) error

	// ListInvitationsByBook returns the invitations of a book.
	ListInvitationsByBook(ctx context.Context, bookID int64) ([]*models.Invitation, error)

	// CreateTransaction persists an immutable ledger entry and populates
	// its ID and CreatedAt.
	CreateTransaction(ctx context.Context, tx *models.Transaction) error

	// ListTransactionsByBook returns every transaction of a book in
	// creation order.
	ListTransactionsByBook(ctx context.Context, bookID int64) ([]models.Transaction, error)

	// ListTransactionsForSubject returns the book's transactions that
	// reference the identity as sender or receiver.
	ListTransactionsForSubject(ctx context.Context, bookID int64, subject models.Identity) ([]models.Transaction, error)

	// ListTransactionsForUser returns every transaction across all books
	// that references the registered user as sender or receiver.
	ListTransactionsForUser(ctx context.Context, userID int64) ([]models.Transaction, error)

	// Close releases any resources held by the store.
	Close() error
}
