package service

import (
	"log/slog"
	"net/http"

	"github.com/apnakhata/apnakhata/internal/auth"
	"github.com/apnakhata/apnakhata/internal/models"
	"github.com/apnakhata/apnakhata/internal/storage"
)

// AuthService handles signup, login and the public user listing.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
		logger:        logger,
	}
}

// HandleWelcome answers the unauthenticated root probe.
func (s *AuthService) HandleWelcome(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Welcome!"))
}

// HandleAllUsers returns every registered user with an email and phone
// number. Password hashes never serialize.
func (s *AuthService) HandleAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if users == nil {
		users = []*models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

type signupRequest struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
	Password    string `json:"password"`
}

// HandleSignup registers a new user and issues a token.
func (s *AuthService) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Email == "" || req.PhoneNumber == "" || req.Name == "" {
		writeError(w, r, errValidation("email, phone_number and name are required"))
		return
	}

	user, err := s.authenticator.Register(r.Context(), req.Email, req.PhoneNumber, req.Name, req.Password)
	if err != nil {
		s.logger.Warn("Signup failed", "email", req.Email, "error", err)
		writeError(w, r, err)
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		writeError(w, r, err)
		return
	}

	s.logger.Info("User registered", "user_id", user.ID, "email", user.Email)
	writeJSON(w, http.StatusOK, map[string]any{
		"user":  user,
		"token": token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin authenticates a user and issues a token. Any mismatch
// answers one undifferentiated 401.
func (s *AuthService) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, r, auth.ErrInvalidCredentials)
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Email)
		writeError(w, r, auth.ErrInvalidCredentials)
		return
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		writeError(w, r, err)
		return
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"userId": user.ID,
		"token":  token,
	})
}
