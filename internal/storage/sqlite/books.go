package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/apnakhata/apnakhata/internal/models"
)

// CreateBook persists a new book and populates its ID and CreatedAt.
func (s *SQLiteStore) CreateBook(ctx context.Context, book *models.Book) error {
	if book.CreatedAt == 0 {
		book.CreatedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO books (owner_id, name, description, created_at)
		 VALUES (?, ?, ?, ?)`,
		book.OwnerID, book.Name, book.Description, book.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create book: %w", classify(err))
	}

	book.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read book id: %w", err)
	}
	return nil
}

// GetBook retrieves a book by id regardless of owner.
func (s *SQLiteStore) GetBook(ctx context.Context, bookID int64) (*models.Book, error) {
	return s.getBook(ctx, "id = ?", bookID)
}

// GetBookForOwner retrieves a book only if ownerID owns it. A foreign
// book id answers the same ErrNotFound as a missing one.
func (s *SQLiteStore) GetBookForOwner(ctx context.Context, bookID, ownerID int64) (*models.Book, error) {
	return s.getBook(ctx, "id = ? AND owner_id = ?", bookID, ownerID)
}

func (s *SQLiteStore) getBook(ctx context.Context, where string, args ...any) (*models.Book, error) {
	book := &models.Book{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, description, created_at
		 FROM books WHERE `+where,
		args...,
	).Scan(&book.ID, &book.OwnerID, &book.Name, &book.Description, &book.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", classify(err))
	}
	return book, nil
}

// ListBooksByOwner returns all books owned by the given user.
func (s *SQLiteStore) ListBooksByOwner(ctx context.Context, ownerID int64) ([]*models.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, description, created_at
		 FROM books WHERE owner_id = ? ORDER BY created_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", classify(err))
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		book := &models.Book{}
		if err := rows.Scan(&book.ID, &book.OwnerID, &book.Name, &book.Description, &book.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", classify(err))
	}
	return books, nil
}

// DeleteBook removes the book and everything it owns in one transaction:
// transactions, participants, invitations and dummy users go before the
// book row so foreign keys hold at every step, and a failure anywhere
// rolls the whole cascade back.
func (s *SQLiteStore) DeleteBook(ctx context.Context, bookID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", classify(err))
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT 1 FROM books WHERE id = ?", bookID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check book existence: %w", classify(err))
	}

	for _, stmt := range []string{
		"DELETE FROM transactions WHERE book_id = ?",
		"DELETE FROM participants WHERE book_id = ?",
		"DELETE FROM invitations WHERE book_id = ?",
		"DELETE FROM dummy_users WHERE book_id = ?",
		"DELETE FROM books WHERE id = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, bookID); err != nil {
			return fmt.Errorf("failed to delete book: %w", classify(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", classify(err))
	}
	return nil
}
