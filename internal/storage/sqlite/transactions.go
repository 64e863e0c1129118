package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/apnakhata/apnakhata/internal/models"
	"github.com/apnakhata/apnakhata/internal/money"
)

const transactionColumns = `id, book_id, sender_kind, sender_id, receiver_kind, receiver_id, amount, type, remarks, created_at`

// CreateTransaction persists an immutable ledger entry and populates its
// ID and CreatedAt.
func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	if tx.CreatedAt == 0 {
		tx.CreatedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (book_id, sender_kind, sender_id, receiver_kind, receiver_id, amount, type, remarks, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.BookID,
		tx.Sender.Kind, tx.Sender.ID,
		tx.Receiver.Kind, tx.Receiver.ID,
		int64(tx.Amount), tx.Type, tx.Remarks, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", classify(err))
	}

	tx.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read transaction id: %w", err)
	}
	return nil
}

// ListTransactionsByBook returns every transaction of a book in creation
// order.
func (s *SQLiteStore) ListTransactionsByBook(ctx context.Context, bookID int64) ([]models.Transaction, error) {
	return s.listTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE book_id = ? ORDER BY id`,
		bookID,
	)
}

// ListTransactionsForSubject returns the book's transactions referencing
// the identity as sender or receiver.
func (s *SQLiteStore) ListTransactionsForSubject(ctx context.Context, bookID int64, subject models.Identity) ([]models.Transaction, error) {
	return s.listTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE book_id = ?
		   AND ((sender_kind = ? AND sender_id = ?) OR (receiver_kind = ? AND receiver_id = ?))
		 ORDER BY id`,
		bookID, subject.Kind, subject.ID, subject.Kind, subject.ID,
	)
}

// ListTransactionsForUser returns every transaction across all books that
// references the registered user as sender or receiver.
func (s *SQLiteStore) ListTransactionsForUser(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return s.listTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE (sender_kind = 'user' AND sender_id = ?) OR (receiver_kind = 'user' AND receiver_id = ?)
		 ORDER BY id`,
		userID, userID,
	)
}

func (s *SQLiteStore) listTransactions(ctx context.Context, query string, args ...any) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", classify(err))
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var amount int64
		if err := rows.Scan(
			&tx.ID, &tx.BookID,
			&tx.Sender.Kind, &tx.Sender.ID,
			&tx.Receiver.Kind, &tx.Receiver.ID,
			&amount, &tx.Type, &tx.Remarks, &tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Amount = money.Amount(amount)
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", classify(err))
	}
	return txs, nil
}
