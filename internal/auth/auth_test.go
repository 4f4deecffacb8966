package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	svc := NewAuthService("test-secret")

	tok, err := svc.IssueJWT("asha", "user")
	require.NoError(t, err)

	claims, err := svc.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "asha", claims.Sub)
	assert.Equal(t, "user", claims.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, err := NewAuthService("secret-a").IssueJWT("asha", "user")
	require.NoError(t, err)

	_, err = NewAuthService("secret-b").Parse(tok)
	require.Error(t, err)
}

func TestJWTMiddleware(t *testing.T) {
	svc := NewAuthService("test-secret")

	var gotSub, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
	})
	h := JWTMiddleware(svc)(next)

	t.Run("missing bearer", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		tok, err := svc.IssueJWT("asha", "admin")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "asha", gotSub)
		assert.Equal(t, "admin", gotRole)
	})
}

func TestResetStore(t *testing.T) {
	s := NewResetStore()
	now := time.Unix(1700000000, 0)
	s.now = func() time.Time { return now }

	tok, err := s.Issue("asha@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	assert.True(t, s.Verify("asha@example.com", tok))
	assert.False(t, s.Verify("asha@example.com", "wrong"))
	assert.False(t, s.Verify("other@example.com", tok))

	// Reissue replaces the outstanding token.
	tok2, err := s.Issue("asha@example.com")
	require.NoError(t, err)
	assert.False(t, s.Verify("asha@example.com", tok))
	assert.True(t, s.Verify("asha@example.com", tok2))

	// Expiry.
	now = now.Add(2 * time.Hour)
	assert.False(t, s.Verify("asha@example.com", tok2))

	tok3, err := s.Issue("asha@example.com")
	require.NoError(t, err)
	s.Clear("asha@example.com")
	assert.False(t, s.Verify("asha@example.com", tok3))
}
