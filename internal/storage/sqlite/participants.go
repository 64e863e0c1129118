package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/apnakhata/apnakhata/internal/models"
)

// AddUserParticipant links a registered user into a book. The existence
// check and the insert share one transaction. A duplicate (book, user)
// pair surfaces as ErrConflict from the unique constraint.
func (s *SQLiteStore) AddUserParticipant(ctx context.Context, bookID, userID int64) (*models.Participant, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", classify(err))
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id = ?", userID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", classify(err))
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO participants (book_id, user_id) VALUES (?, ?)",
		bookID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add participant: %w", classify(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read participant id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", classify(err))
	}
	return &models.Participant{ID: id, BookID: bookID, UserID: userID}, nil
}

// CreateDummyUser creates a placeholder identity scoped to the book and
// links it as a participant. Both inserts commit or neither does.
func (s *SQLiteStore) CreateDummyUser(ctx context.Context, bookID int64, name string) (*models.DummyUser, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", classify(err))
	}
	defer tx.Rollback()

	dummy := &models.DummyUser{
		BookID:    bookID,
		Name:      name,
		CreatedAt: time.Now().Unix(),
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO dummy_users (book_id, name, created_at) VALUES (?, ?, ?)",
		dummy.BookID, dummy.Name, dummy.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert dummy user: %w", classify(err))
	}

	dummy.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read dummy user id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO participants (book_id, dummy_user_id) VALUES (?, ?)",
		bookID, dummy.ID,
	); err != nil {
		return nil, fmt.Errorf("failed to link dummy user: %w", classify(err))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", classify(err))
	}
	return dummy, nil
}

// ListMembers returns the book's participants resolved to display fields.
// Dummy members get the synthetic "dummy-<id>@apnakhata.local" email that
// clients key on to label placeholder rows. Tallies are left zero.
func (s *SQLiteStore) ListMembers(ctx context.Context, bookID int64) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.user_id, p.dummy_user_id,
		        COALESCE(u.name, d.name),
		        COALESCE(u.email, 'dummy-' || d.id || '@apnakhata.local')
		 FROM participants p
		 LEFT JOIN users u ON u.id = p.user_id
		 LEFT JOIN dummy_users d ON d.id = p.dummy_user_id
		 WHERE p.book_id = ?
		 ORDER BY p.id`,
		bookID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", classify(err))
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var userID, dummyID sql.NullInt64
		var member models.Member
		if err := rows.Scan(&userID, &dummyID, &member.Name, &member.Email); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if dummyID.Valid {
			member.Identity = models.DummyIdentity(dummyID.Int64)
		} else {
			member.Identity = models.UserIdentity(userID.Int64)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", classify(err))
	}
	return members, nil
}

// HasParticipant reports whether the identity is a participant of the book.
func (s *SQLiteStore) HasParticipant(ctx context.Context, bookID int64, identity models.Identity) (bool, error) {
	column := "user_id"
	if identity.Kind == models.KindDummy {
		column = "dummy_user_id"
	}

	var exists int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM participants WHERE book_id = ? AND "+column+" = ?",
		bookID, identity.ID,
	).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check participant: %w", classify(err))
	}
	return true, nil
}
