package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"wurkflow-project/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuthMiddlewareForwardsPrincipal(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := utils.GenerateToken("alice", "manager")
	require.NoError(t, err)

	var gotUsername, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUsername = r.Header.Get("Username")
		gotRole = r.Header.Get("Role")
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/mine", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	JWTAuthMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", gotUsername)
	assert.Equal(t, "manager", gotRole)
}

func TestJWTAuthMiddlewareMissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached without a token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/mine", nil)
	rec := httptest.NewRecorder()

	JWTAuthMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddlewareInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached with an invalid token")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/mine", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()

	JWTAuthMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMiddlewareStripsSpoofedHeaders(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := utils.GenerateToken("alice", "member")
	require.NoError(t, err)

	var gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole = r.Header.Get("Role")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks/mine", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Role", "manager")
	rec := httptest.NewRecorder()

	JWTAuthMiddleware(next).ServeHTTP(rec, req)

	assert.Equal(t, "member", gotRole, "role header must come from the token, not the client")
}
