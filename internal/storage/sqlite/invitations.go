package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/apnakhata/apnakhata/internal/models"
)

// CreateInvitation persists a pending invitation and populates its ID and
// CreatedAt.
func (s *SQLiteStore) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	if inv.Status == "" {
		inv.Status = models.StatusPending
	}
	if inv.CreatedAt == 0 {
		inv.CreatedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO invitations (book_id, email, inviter_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		inv.BookID, inv.Email, inv.InviterID, inv.Status, inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create invitation: %w", classify(err))
	}

	inv.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read invitation id: %w", err)
	}
	return nil
}

// ListInvitationsByBook returns the invitations of a book.
func (s *SQLiteStore) ListInvitationsByBook(ctx context.Context, bookID int64) ([]*models.Invitation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, book_id, email, inviter_id, status, created_at
		 FROM invitations WHERE book_id = ? ORDER BY id`,
		bookID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", classify(err))
	}
	defer rows.Close()

	var invs []*models.Invitation
	for rows.Next() {
		inv := &models.Invitation{}
		if err := rows.Scan(&inv.ID, &inv.BookID, &inv.Email, &inv.InviterID, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invitations: %w", classify(err))
	}
	return invs, nil
}
