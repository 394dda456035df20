package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"sarasavi-library-backend/internal/repository/memory"
	"sarasavi-library-backend/internal/security"
	"sarasavi-library-backend/internal/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	st := memory.NewStore()
	tokens := security.NewTokenManager(testSecret, time.Hour)

	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	require.NoError(t, err)

	lending := service.NewLendingService(st)
	return NewRouter(Services{
		Catalog:      service.NewCatalogService(st),
		Membership:   service.NewMembershipService(st),
		Lending:      lending,
		Reservations: service.NewReservationService(st),
		Returns:      service.NewReturnService(st, nil),
		Auth:         service.NewAuthService(map[string]string{"desk-1": string(hash)}, tokens),
		Tokens:       tokens,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"station_id": "desk-1",
		"operator":   "samanthi",
		"password":   "letmein",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRouter_Auth(t *testing.T) {
	router := newTestRouter(t)

	t.Run("BadPassword", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"station_id": "desk-1",
			"password":   "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("ProtectedRouteWithoutToken", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/titles", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("HealthIsOpen", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouter_CirculationFlow(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	// Register a title with two copies.
	rec := doJSON(t, router, http.MethodPost, "/api/v1/titles", token, map[string]any{
		"classification": "A",
		"name":           "A History of Ceylon",
		"author":         "Test Author",
		"copies":         2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		Title struct {
			ID string `json:"id"`
		} `json:"title"`
		Copies []struct {
			ID string `json:"id"`
		} `json:"copies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "A0001", created.Title.ID)
	require.Len(t, created.Copies, 2)

	// Enroll a member.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/members", token, map[string]string{
		"name": "Nimal Perera",
		"type": "Member",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var member struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &member))
	assert.Equal(t, "U0001", member.ID)

	// Eligibility check.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/members/"+member.ID+"/eligibility", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"eligible":true`)

	// Check a copy out, then inquire the title.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/loans", token, map[string]string{
		"copy_id":   created.Copies[0].ID,
		"member_id": member.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/v1/titles/"+created.Title.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var inquiry struct {
		Counts struct {
			Available int `json:"available"`
			Loaned    int `json:"loaned"`
		} `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inquiry))
	assert.Equal(t, 1, inquiry.Counts.Available)
	assert.Equal(t, 1, inquiry.Counts.Loaned)

	// Lending the same copy again conflicts.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/loans", token, map[string]string{
		"copy_id":   created.Copies[0].ID,
		"member_id": member.ID,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Return it.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/returns", token, map[string]string{
		"copy_id": created.Copies[0].ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"was_overdue":false`)

	// Returning a shelved copy conflicts.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/returns", token, map[string]string{
		"copy_id": created.Copies[0].ID,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_ErrorMapping(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router)

	t.Run("UnknownTitleIs404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/titles/Z9999", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("BadClassificationIs400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/titles", token, map[string]any{
			"classification": "AB",
			"name":           "Broken",
			"copies":         1,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("MalformedBodyIs400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/members", bytes.NewBufferString("{"))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
