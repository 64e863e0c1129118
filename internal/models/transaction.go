package models

import "github.com/apnakhata/apnakhata/internal/money"

// TransactionType classifies a ledger entry from the recording side's
// point of view.
type TransactionType string

const (
	// TypeGive records money the subject owes ("give").
	TypeGive TransactionType = "give"

	// TypeGet records money owed to the subject ("get").
	TypeGet TransactionType = "get"
)

// Valid reports whether t is one of the two recognized types.
func (t TransactionType) Valid() bool {
	return t == TypeGive || t == TypeGet
}

// Transaction is one immutable ledger entry in a book: a directed, positive
// amount between two identities. Transactions are never updated or deleted
// individually; they disappear only when their book is deleted.
type Transaction struct {
	// ID is the unique identifier assigned by the store.
	ID int64 `json:"id"`

	// BookID is the book this entry belongs to.
	BookID int64 `json:"book_id"`

	// Sender is the identity that recorded the entry.
	Sender Identity `json:"sender"`

	// Receiver is the counterparty identity.
	Receiver Identity `json:"receiver"`

	// Amount is the positive value of the entry.
	Amount money.Amount `json:"amount"`

	// Type is "give" or "get".
	Type TransactionType `json:"type"`

	// Remarks is optional free text.
	Remarks string `json:"remarks"`

	// CreatedAt is the Unix timestamp when the entry was recorded.
	CreatedAt int64 `json:"created_at"`
}

// References reports whether the transaction involves the given identity
// as sender or receiver.
func (t Transaction) References(subject Identity) bool {
	return t.Sender == subject || t.Receiver == subject
}
