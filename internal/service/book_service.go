package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/apnakhata/apnakhata/internal/ledger"
	"github.com/apnakhata/apnakhata/internal/middleware"
	"github.com/apnakhata/apnakhata/internal/models"
	"github.com/apnakhata/apnakhata/internal/notify"
	"github.com/apnakhata/apnakhata/internal/storage"
)

// BookService handles book lifecycle, membership and invitations.
type BookService struct {
	store    storage.Store
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewBookService creates a new BookService.
func NewBookService(store storage.Store, notifier notify.Notifier, logger *slog.Logger) *BookService {
	return &BookService{store: store, notifier: notifier, logger: logger}
}

type createBookRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreate creates a book owned by the caller.
func (s *BookService) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createBookRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Name == "" {
		writeError(w, r, errValidation("book name is required"))
		return
	}

	book := &models.Book{
		OwnerID:     middleware.GetUserID(r.Context()),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.store.CreateBook(r.Context(), book); err != nil {
		writeError(w, r, err)
		return
	}

	s.logger.Info("Book created", "book_id", book.ID, "owner_id", book.OwnerID)
	writeJSON(w, http.StatusOK, book)
}

// HandleList returns the caller's books.
func (s *BookService) HandleList(w http.ResponseWriter, r *http.Request) {
	books, err := s.store.ListBooksByOwner(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if books == nil {
		books = []*models.Book{}
	}
	writeJSON(w, http.StatusOK, books)
}

// HandleDetail returns the book, its members with tallies, the full
// transaction list and the book-wide grand tally. Only the owner sees a
// book; anyone else gets the same 404 as a missing id.
func (s *BookService) HandleDetail(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "bookId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	book, err := s.store.GetBookForOwner(r.Context(), bookID, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	members, err := s.store.ListMembers(r.Context(), bookID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	txs, err := s.store.ListTransactionsByBook(r.Context(), bookID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ledger.MemberTallies(txs, members)
	if members == nil {
		members = []models.Member{}
	}
	if txs == nil {
		txs = []models.Transaction{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"book":         book,
		"users":        members,
		"transactions": txs,
		"grand_tally":  ledger.GrandTally(txs),
	})
}

type addParticipantRequest struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

// HandleAddParticipant adds a member to the caller's book: an existing
// registered user by id, or a placeholder by name. A bare name never
// creates a credential-less registered user.
func (s *BookService) HandleAddParticipant(w http.ResponseWriter, r *http.Request) {
	book, err := s.ownedBook(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req addParticipantRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	switch {
	case req.UserID > 0:
		participant, err := s.store.AddUserParticipant(r.Context(), book.ID, req.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		s.logger.Info("Participant added", "book_id", book.ID, "user_id", req.UserID)
		writeJSON(w, http.StatusCreated, participant)
	case req.Name != "":
		dummy, err := s.store.CreateDummyUser(r.Context(), book.ID, req.Name)
		if err != nil {
			writeError(w, r, err)
			return
		}
		s.logger.Info("Dummy participant added", "book_id", book.ID, "dummy_user_id", dummy.ID)
		writeJSON(w, http.StatusCreated, dummy)
	default:
		writeError(w, r, errValidation("either user_id or name is required"))
	}
}

type addDummyUserRequest struct {
	Name string `json:"name"`
}

// HandleAddDummyUser creates a placeholder participant in the caller's
// book.
func (s *BookService) HandleAddDummyUser(w http.ResponseWriter, r *http.Request) {
	book, err := s.ownedBook(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req addDummyUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Name == "" {
		writeError(w, r, errValidation("dummy user name is required"))
		return
	}

	dummy, err := s.store.CreateDummyUser(r.Context(), book.ID, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.logger.Info("Dummy user created", "book_id", book.ID, "dummy_user_id", dummy.ID)
	writeJSON(w, http.StatusCreated, dummy)
}

type inviteRequest struct {
	Email string `json:"email"`
}

// HandleInvite invites an email into the caller's book. A registered
// email joins directly; an unknown one gets a pending invitation and a
// notification dispatch.
func (s *BookService) HandleInvite(w http.ResponseWriter, r *http.Request) {
	book, err := s.ownedBook(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req inviteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Email == "" {
		writeError(w, r, errValidation("email is required"))
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), req.Email)
	switch {
	case err == nil:
		if _, err := s.store.AddUserParticipant(r.Context(), book.ID, user.ID); err != nil {
			writeError(w, r, err)
			return
		}
		s.logger.Info("Invited user joined directly", "book_id", book.ID, "user_id", user.ID)
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "user added to book",
			"user":    user,
		})
	case errors.Is(err, storage.ErrNotFound):
		inv := &models.Invitation{
			BookID:    book.ID,
			Email:     req.Email,
			InviterID: middleware.GetUserID(r.Context()),
		}
		if err := s.store.CreateInvitation(r.Context(), inv); err != nil {
			writeError(w, r, err)
			return
		}
		if err := s.notifier.InvitationCreated(r.Context(), inv); err != nil {
			s.logger.Warn("Invitation notification failed", "invitation_id", inv.ID, "error", err)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":    "invitation sent",
			"invitation": inv,
		})
	default:
		writeError(w, r, err)
	}
}

type deleteBookRequest struct {
	BookID int64 `json:"bookId"`
}

// HandleDelete removes the caller's book and everything it owns in one
// atomic cascade.
func (s *BookService) HandleDelete(w http.ResponseWriter, r *http.Request) {
	var req deleteBookRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.BookID <= 0 {
		writeError(w, r, errValidation("bookId is required"))
		return
	}

	if _, err := s.store.GetBookForOwner(r.Context(), req.BookID, middleware.GetUserID(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.DeleteBook(r.Context(), req.BookID); err != nil {
		writeError(w, r, err)
		return
	}

	s.logger.Info("Book deleted", "book_id", req.BookID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "book deleted"})
}

// ownedBook resolves the {bookId} path variable to a book owned by the
// caller.
func (s *BookService) ownedBook(r *http.Request) (*models.Book, error) {
	bookID, err := pathID(r, "bookId")
	if err != nil {
		return nil, err
	}
	return s.store.GetBookForOwner(r.Context(), bookID, middleware.GetUserID(r.Context()))
}
