package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apnakhata/apnakhata/internal/auth"
	"github.com/apnakhata/apnakhata/internal/middleware"
	"github.com/apnakhata/apnakhata/internal/models"
	"github.com/apnakhata/apnakhata/internal/notify"
	"github.com/apnakhata/apnakhata/internal/storage"
	"github.com/apnakhata/apnakhata/internal/storage/sqlite"
)

type testAPI struct {
	t      *testing.T
	router *mux.Router
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret-key", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	r := mux.NewRouter()
	RegisterRoutes(r,
		NewAuthService(authenticator, jwtManager, store, logger),
		NewBookService(store, notify.NewLogNotifier(), logger),
		NewAccountingService(store, logger),
		middleware.RequireAuth(jwtManager, store),
	)
	return &testAPI{t: t, router: r}
}

// do performs a request against the router and decodes the JSON response.
func (a *testAPI) do(method, path, token string, body any) (int, map[string]any) {
	a.t.Helper()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		reqBody = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec.Code, decoded
}

// signup registers a user and returns its id and token.
func (a *testAPI) signup(email, phone, name string) (int64, string) {
	a.t.Helper()
	status, resp := a.do(http.MethodPost, "/signup", "", map[string]any{
		"email":        email,
		"phone_number": phone,
		"name":         name,
		"password":     "secret-password",
	})
	require.Equal(a.t, http.StatusOK, status)
	user := resp["user"].(map[string]any)
	return int64(user["id"].(float64)), resp["token"].(string)
}

// createBook creates a book for the given token and returns its id.
func (a *testAPI) createBook(token, name string) int64 {
	a.t.Helper()
	status, resp := a.do(http.MethodPost, "/booksCreate", token, map[string]any{
		"name":        name,
		"description": "shared expenses",
	})
	require.Equal(a.t, http.StatusOK, status)
	return int64(resp["id"].(float64))
}

func TestSignupAndLogin(t *testing.T) {
	api := newTestAPI(t)

	t.Run("signup returns user and token", func(t *testing.T) {
		status, resp := api.do(http.MethodPost, "/signup", "", map[string]any{
			"email":        "asha@example.com",
			"phone_number": "9000000001",
			"name":         "Asha",
			"password":     "secret-password",
		})
		require.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, resp["token"])
		user := resp["user"].(map[string]any)
		assert.Equal(t, "Asha", user["name"])
		assert.NotContains(t, user, "password_hash")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		status, _ := api.do(http.MethodPost, "/signup", "", map[string]any{
			"email":        "asha@example.com",
			"phone_number": "9000000002",
			"name":         "Other",
			"password":     "secret-password",
		})
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("weak password rejected", func(t *testing.T) {
		status, _ := api.do(http.MethodPost, "/signup", "", map[string]any{
			"email":        "new@example.com",
			"phone_number": "9000000003",
			"name":         "New",
			"password":     "short",
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("login succeeds with the right password", func(t *testing.T) {
		status, resp := api.do(http.MethodPost, "/login", "", map[string]any{
			"email":    "asha@example.com",
			"password": "secret-password",
		})
		require.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, resp["token"])
		assert.EqualValues(t, 1, resp["userId"])
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		status1, resp1 := api.do(http.MethodPost, "/login", "", map[string]any{
			"email":    "asha@example.com",
			"password": "wrong-password",
		})
		status2, resp2 := api.do(http.MethodPost, "/login", "", map[string]any{
			"email":    "nobody@example.com",
			"password": "secret-password",
		})
		assert.Equal(t, http.StatusUnauthorized, status1)
		assert.Equal(t, http.StatusUnauthorized, status2)
		assert.Equal(t, resp1["error"], resp2["error"])
	})

	t.Run("allusers is public", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/allusers", nil)
		rec := httptest.NewRecorder()
		api.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var users []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
		assert.Len(t, users, 1)
		assert.NotContains(t, users[0], "password_hash")
	})
}

func TestAuthGate(t *testing.T) {
	api := newTestAPI(t)

	t.Run("missing token", func(t *testing.T) {
		status, resp := api.do(http.MethodGet, "/books", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.NotEmpty(t, resp["error"])
	})

	t.Run("garbage token", func(t *testing.T) {
		status, _ := api.do(http.MethodGet, "/books", "not.a.token", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		foreign := auth.NewJWTManager("other-secret", time.Hour)
		token, err := foreign.Generate(&models.User{ID: 1, Email: "asha@example.com"})
		require.NoError(t, err)

		status, _ := api.do(http.MethodGet, "/books", token, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestBookRoundTrip(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.signup("owner@example.com", "9000000010", "Owner")

	t.Run("book name is required", func(t *testing.T) {
		status, _ := api.do(http.MethodPost, "/booksCreate", token, map[string]any{
			"description": "no name",
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	bookID := api.createBook(token, "Goa Trip")

	status, resp := api.do(http.MethodPost, fmt.Sprintf("/books/%d/dummy_users", bookID), token, map[string]any{
		"name": "Chotu",
	})
	require.Equal(t, http.StatusCreated, status)
	dummyID := int64(resp["id"].(float64))

	t.Run("record a get of 50 for the participant", func(t *testing.T) {
		status, resp := api.do(http.MethodPost, fmt.Sprintf("/users/%d/accounting", dummyID), token, map[string]any{
			"amount":            50,
			"type":              "get",
			"bookId":            bookID,
			"remarks":           "lunch",
			"counterparty_kind": "dummy",
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "50.00", resp["tally"])

		tx := resp["transaction"].(map[string]any)
		assert.Equal(t, "get", tx["type"])
		assert.Equal(t, "50.00", tx["amount"])
	})

	t.Run("book detail shows the tally and the single transaction", func(t *testing.T) {
		status, resp := api.do(http.MethodGet, fmt.Sprintf("/books/%d", bookID), token, nil)
		require.Equal(t, http.StatusOK, status)

		users := resp["users"].([]any)
		require.Len(t, users, 1)
		member := users[0].(map[string]any)
		assert.Equal(t, "Chotu", member["name"])
		assert.Equal(t, "50.00", member["tally"])
		assert.Equal(t, fmt.Sprintf("dummy-%d@apnakhata.local", dummyID), member["email"])

		txs := resp["transactions"].([]any)
		assert.Len(t, txs, 1)
		assert.Equal(t, "50.00", resp["grand_tally"])
	})

	t.Run("member accounting matches", func(t *testing.T) {
		status, resp := api.do(http.MethodGet,
			fmt.Sprintf("/books/%d/users/%d/accounting", bookID, dummyID), token, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "50.00", resp["tally"])
		assert.Len(t, resp["transactions"].([]any), 1)
	})

	t.Run("give subtracts", func(t *testing.T) {
		status, resp := api.do(http.MethodPost, fmt.Sprintf("/users/%d/accounting", dummyID), token, map[string]any{
			"amount":            "30.00",
			"type":              "give",
			"bookId":            bookID,
			"counterparty_kind": "dummy",
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "20.00", resp["tally"])
	})
}

func TestRecordTransactionValidation(t *testing.T) {
	api := newTestAPI(t)
	_, token := api.signup("owner@example.com", "9000000020", "Owner")
	bookID := api.createBook(token, "Khata")

	status, resp := api.do(http.MethodPost, fmt.Sprintf("/books/%d/dummy_users", bookID), token, map[string]any{
		"name": "Chotu",
	})
	require.Equal(t, http.StatusCreated, status)
	dummyID := int64(resp["id"].(float64))

	path := fmt.Sprintf("/users/%d/accounting", dummyID)
	cases := []struct {
		name string
		body map[string]any
	}{
		{"negative amount", map[string]any{"amount": -5, "type": "get", "bookId": bookID}},
		{"zero amount", map[string]any{"amount": 0, "type": "get", "bookId": bookID}},
		{"non-numeric amount", map[string]any{"amount": "abc", "type": "get", "bookId": bookID}},
		{"sub-paisa amount", map[string]any{"amount": 49.999, "type": "get", "bookId": bookID}},
		{"overflowing amount", map[string]any{"amount": "99999999999999999999.99", "type": "get", "bookId": bookID}},
		{"bad type", map[string]any{"amount": 10, "type": "steal", "bookId": bookID}},
		{"missing book", map[string]any{"amount": 10, "type": "get"}},
		{"counterparty not in book", map[string]any{"amount": 10, "type": "get", "bookId": bookID, "counterparty_kind": "user"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := api.do(http.MethodPost, path, token, tc.body)
			assert.Equal(t, http.StatusBadRequest, status)
		})
	}

	t.Run("no rows were produced", func(t *testing.T) {
		status, resp := api.do(http.MethodGet, fmt.Sprintf("/books/%d", bookID), token, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, resp["transactions"].([]any))
	})

	t.Run("stranger cannot record", func(t *testing.T) {
		_, strangerToken := api.signup("stranger@example.com", "9000000021", "Stranger")
		status, _ := api.do(http.MethodPost, path, strangerToken, map[string]any{
			"amount": 10, "type": "get", "bookId": bookID, "counterparty_kind": "dummy",
		})
		assert.Equal(t, http.StatusForbidden, status)
	})
}

func TestBookOwnership(t *testing.T) {
	api := newTestAPI(t)
	_, ownerTok := api.signup("owner@example.com", "9000000030", "Owner")
	_, otherTok := api.signup("other@example.com", "9000000031", "Other")
	bookID := api.createBook(ownerTok, "Private")

	t.Run("foreign book answers 404, not 403", func(t *testing.T) {
		status, resp := api.do(http.MethodGet, fmt.Sprintf("/books/%d", bookID), otherTok, nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.NotEmpty(t, resp["error"])
	})

	t.Run("foreign delete answers 404 and keeps the book", func(t *testing.T) {
		status, _ := api.do(http.MethodPost, "/deleteBook", otherTok, map[string]any{"bookId": bookID})
		assert.Equal(t, http.StatusNotFound, status)

		status, _ = api.do(http.MethodGet, fmt.Sprintf("/books/%d", bookID), ownerTok, nil)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("owner delete cascades", func(t *testing.T) {
		status, _ := api.do(http.MethodPost, fmt.Sprintf("/books/%d/dummy_users", bookID), ownerTok, map[string]any{"name": "Chotu"})
		require.Equal(t, http.StatusCreated, status)

		status, _ = api.do(http.MethodPost, "/deleteBook", ownerTok, map[string]any{"bookId": bookID})
		require.Equal(t, http.StatusOK, status)

		status, _ = api.do(http.MethodGet, fmt.Sprintf("/books/%d", bookID), ownerTok, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestParticipantsAndInvites(t *testing.T) {
	api := newTestAPI(t)
	_, ownerTok := api.signup("owner@example.com", "9000000040", "Owner")
	friendID, _ := api.signup("friend@example.com", "9000000041", "Friend")
	bookID := api.createBook(ownerTok, "Flat")

	t.Run("link an existing user by id", func(t *testing.T) {
		status, _ := api.do(http.MethodPost, fmt.Sprintf("/books/%d/users", bookID), ownerTok, map[string]any{
			"user_id": friendID,
		})
		assert.Equal(t, http.StatusCreated, status)
	})

	t.Run("duplicate participant conflicts and count holds", func(t *testing.T) {
		status, _ := api.do(http.MethodPost, fmt.Sprintf("/books/%d/users", bookID), ownerTok, map[string]any{
			"user_id": friendID,
		})
		assert.Equal(t, http.StatusConflict, status)

		_, resp := api.do(http.MethodGet, fmt.Sprintf("/books/%d", bookID), ownerTok, nil)
		assert.Len(t, resp["users"].([]any), 1)
	})

	t.Run("bare name creates a placeholder, not a user", func(t *testing.T) {
		status, resp := api.do(http.MethodPost, fmt.Sprintf("/books/%d/users", bookID), ownerTok, map[string]any{
			"name": "Chotu",
		})
		require.Equal(t, http.StatusCreated, status)
		assert.EqualValues(t, bookID, resp["book_id"])

		// The public user listing must not grow.
		req := httptest.NewRequest(http.MethodGet, "/allusers", nil)
		rec := httptest.NewRecorder()
		api.router.ServeHTTP(rec, req)
		var users []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
		assert.Len(t, users, 2)
	})

	t.Run("invite for a registered email joins directly", func(t *testing.T) {
		otherBook := api.createBook(ownerTok, "Office")
		status, resp := api.do(http.MethodPost, fmt.Sprintf("/books/%d/invite", otherBook), ownerTok, map[string]any{
			"email": "friend@example.com",
		})
		require.Equal(t, http.StatusOK, status)
		assert.NotNil(t, resp["user"])

		status, _ = api.do(http.MethodPost, fmt.Sprintf("/books/%d/invite", otherBook), ownerTok, map[string]any{
			"email": "friend@example.com",
		})
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("invite for an unknown email creates a pending invitation", func(t *testing.T) {
		status, resp := api.do(http.MethodPost, fmt.Sprintf("/books/%d/invite", bookID), ownerTok, map[string]any{
			"email": "new@example.com",
		})
		require.Equal(t, http.StatusOK, status)
		inv := resp["invitation"].(map[string]any)
		assert.Equal(t, "pending", inv["status"])
		assert.Equal(t, "new@example.com", inv["email"])
	})
}

func TestErrorClassification(t *testing.T) {
	t.Run("unavailable storage maps to a retryable 500", func(t *testing.T) {
		status, msg := classifyError(fmt.Errorf("failed to list books: %w", storage.ErrUnavailable))
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "storage unavailable, retry later", msg)
	})

	t.Run("unclassified errors never leak their message", func(t *testing.T) {
		status, msg := classifyError(errors.New("near \"SELETC\": syntax error"))
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "internal server error", msg)
	})
}

func TestGlobalTally(t *testing.T) {
	api := newTestAPI(t)
	_, ownerTok := api.signup("owner@example.com", "9000000050", "Owner")
	friendID, _ := api.signup("friend@example.com", "9000000051", "Friend")

	bookA := api.createBook(ownerTok, "Trip")
	bookB := api.createBook(ownerTok, "Flat")
	for _, bookID := range []int64{bookA, bookB} {
		status, _ := api.do(http.MethodPost, fmt.Sprintf("/books/%d/users", bookID), ownerTok, map[string]any{
			"user_id": friendID,
		})
		require.Equal(t, http.StatusCreated, status)
	}

	record := func(bookID int64, txType string, amount any) {
		status, _ := api.do(http.MethodPost, fmt.Sprintf("/users/%d/accounting", friendID), ownerTok, map[string]any{
			"amount": amount,
			"type":   txType,
			"bookId": bookID,
		})
		require.Equal(t, http.StatusOK, status)
	}
	record(bookA, "get", 100)
	record(bookB, "give", "30.50")

	status, resp := api.do(http.MethodGet, fmt.Sprintf("/accounting/tally/%d", friendID), ownerTok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "69.50", resp["tally"])
	assert.EqualValues(t, friendID, resp["userId"])

	t.Run("unknown user is not found", func(t *testing.T) {
		status, _ := api.do(http.MethodGet, "/accounting/tally/9999", ownerTok, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}
