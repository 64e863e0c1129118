package service

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the full HTTP surface on the router. Public
// routes go first; everything else sits behind the bearer-token gate.
func RegisterRoutes(r *mux.Router, authSvc *AuthService, books *BookService, accounting *AccountingService, requireAuth mux.MiddlewareFunc) {
	r.HandleFunc("/", authSvc.HandleWelcome).Methods(http.MethodGet)
	r.HandleFunc("/allusers", authSvc.HandleAllUsers).Methods(http.MethodGet)
	r.HandleFunc("/signup", authSvc.HandleSignup).Methods(http.MethodPost)
	r.HandleFunc("/login", authSvc.HandleLogin).Methods(http.MethodPost)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	protected := r.NewRoute().Subrouter()
	protected.Use(requireAuth)
	protected.HandleFunc("/booksCreate", books.HandleCreate).Methods(http.MethodPost)
	protected.HandleFunc("/books", books.HandleList).Methods(http.MethodGet)
	protected.HandleFunc("/books/{bookId}", books.HandleDetail).Methods(http.MethodGet)
	protected.HandleFunc("/books/{bookId}/users", books.HandleAddParticipant).Methods(http.MethodPost)
	protected.HandleFunc("/books/{bookId}/dummy_users", books.HandleAddDummyUser).Methods(http.MethodPost)
	protected.HandleFunc("/books/{bookId}/invite", books.HandleInvite).Methods(http.MethodPost)
	protected.HandleFunc("/deleteBook", books.HandleDelete).Methods(http.MethodPost)
	protected.HandleFunc("/books/{bookId}/users/{userId}/accounting", accounting.HandleMemberAccounting).Methods(http.MethodGet)
	protected.HandleFunc("/users/{userId}/accounting", accounting.HandleRecordTransaction).Methods(http.MethodPost)
	protected.HandleFunc("/accounting/tally/{userId}", accounting.HandleGlobalTally).Methods(http.MethodGet)
}
