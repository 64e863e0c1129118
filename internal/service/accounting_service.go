package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/apnakhata/apnakhata/internal/ledger"
	"github.com/apnakhata/apnakhata/internal/middleware"
	"github.com/apnakhata/apnakhata/internal/models"
	"github.com/apnakhata/apnakhata/internal/money"
	"github.com/apnakhata/apnakhata/internal/storage"
)

// AccountingService handles transaction recording and tally reads.
type AccountingService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewAccountingService creates a new AccountingService.
func NewAccountingService(store storage.Store, logger *slog.Logger) *AccountingService {
	return &AccountingService{store: store, logger: logger}
}

// HandleMemberAccounting returns a member's transactions and tally within
// one of the caller's books.
func (s *AccountingService) HandleMemberAccounting(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "bookId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	memberID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := s.store.GetBookForOwner(r.Context(), bookID, middleware.GetUserID(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}

	subject, err := s.resolveMember(r.Context(), bookID, memberID, "")
	if err != nil {
		writeError(w, r, err)
		return
	}

	txs, err := s.store.ListTransactionsForSubject(r.Context(), bookID, subject)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": txs,
		"tally":        ledger.Tally(txs, subject),
	})
}

type recordTransactionRequest struct {
	Amount           money.Amount `json:"amount"`
	Type             string       `json:"type"`
	BookID           int64        `json:"bookId"`
	Remarks          string       `json:"remarks"`
	CounterpartyKind string       `json:"counterparty_kind"`
}

// HandleRecordTransaction records an immutable give/get entry from the
// caller to the {userId} counterparty and returns the counterparty's
// updated tally within the book. The caller must be the book owner or a
// registered participant; the counterparty must resolve to a participant.
func (s *AccountingService) HandleRecordTransaction(w http.ResponseWriter, r *http.Request) {
	counterpartyID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req recordTransactionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if !req.Amount.IsPositive() {
		writeError(w, r, errValidation("amount must be a positive number"))
		return
	}
	txType := models.TransactionType(req.Type)
	if !txType.Valid() {
		writeError(w, r, errValidation("type must be either 'give' or 'get'"))
		return
	}
	if req.BookID <= 0 {
		writeError(w, r, errValidation("bookId is required"))
		return
	}

	book, err := s.store.GetBook(r.Context(), req.BookID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	callerID := middleware.GetUserID(r.Context())
	sender := models.UserIdentity(callerID)
	if book.OwnerID != callerID {
		isParticipant, err := s.store.HasParticipant(r.Context(), book.ID, sender)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if !isParticipant {
			writeError(w, r, errForbidden)
			return
		}
	}

	receiver, err := s.resolveMember(r.Context(), book.ID, counterpartyID, models.IdentityKind(req.CounterpartyKind))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, r, errValidation("counterparty is not a participant of this book"))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx := &models.Transaction{
		BookID:   book.ID,
		Sender:   sender,
		Receiver: receiver,
		Amount:   req.Amount,
		Type:     txType,
		Remarks:  req.Remarks,
	}
	if err := s.store.CreateTransaction(r.Context(), tx); err != nil {
		writeError(w, r, err)
		return
	}

	txs, err := s.store.ListTransactionsForSubject(r.Context(), book.ID, receiver)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.logger.Info("Transaction recorded",
		"transaction_id", tx.ID,
		"book_id", book.ID,
		"type", tx.Type,
		"amount", tx.Amount,
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"transaction": tx,
		"tally":       ledger.Tally(txs, receiver),
	})
}

// HandleGlobalTally returns a registered user's tally across all books.
func (s *AccountingService) HandleGlobalTally(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if _, err := s.store.GetUserByID(r.Context(), userID); err != nil {
		writeError(w, r, err)
		return
	}

	subject := models.UserIdentity(userID)
	txs, err := s.store.ListTransactionsForUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"userId": userID,
		"tally":  ledger.Tally(txs, subject),
	})
}

// resolveMember maps a bare counterparty id to a tagged identity within a
// book. With an explicit kind only that population is checked; otherwise
// registered users win over dummy users.
func (s *AccountingService) resolveMember(ctx context.Context, bookID, memberID int64, kind models.IdentityKind) (models.Identity, error) {
	kinds := []models.IdentityKind{models.KindUser, models.KindDummy}
	if kind == models.KindUser || kind == models.KindDummy {
		kinds = []models.IdentityKind{kind}
	}

	for _, k := range kinds {
		identity := models.Identity{Kind: k, ID: memberID}
		ok, err := s.store.HasParticipant(ctx, bookID, identity)
		if err != nil {
			return models.Identity{}, err
		}
		if ok {
			return identity, nil
		}
	}
	return models.Identity{}, storage.ErrNotFound
}
