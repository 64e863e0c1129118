// Package ledger computes running balances ("tallies") from transaction
// sets. It is pure: no I/O, no hidden state, and the fold is commutative,
// so a tally is invariant under reordering of the input.
package ledger

import (
	"github.com/apnakhata/apnakhata/internal/models"
	"github.com/apnakhata/apnakhata/internal/money"
)

// Tally folds the transactions that reference subject into a signed
// balance: +amount for "get" (money owed to the subject), -amount for
// "give" (money the subject owes). The subject's role in a row filters
// which rows apply; it never flips the sign. An empty or non-matching set
// yields zero.
func Tally(txs []models.Transaction, subject models.Identity) money.Amount {
	var total money.Amount
	for _, tx := range txs {
		if !tx.References(subject) {
			continue
		}
		total += contribution(tx)
	}
	return total
}

// GrandTally folds every transaction with the same get/give rule
// regardless of subject. It is a book-wide net, not a balance sheet: it is
// not the sum of per-member tallies and does not net to zero.
func GrandTally(txs []models.Transaction) money.Amount {
	var total money.Amount
	for _, tx := range txs {
		total += contribution(tx)
	}
	return total
}

func contribution(tx models.Transaction) money.Amount {
	if tx.Type == models.TypeGive {
		return -tx.Amount
	}
	return tx.Amount
}

// MemberTallies computes the tally of every member against the same
// transaction set, so all rows in a book view share one consistent
// convention.
func MemberTallies(txs []models.Transaction, members []models.Member) {
	for i := range members {
		members[i].Tally = Tally(txs, members[i].Identity)
	}
}
