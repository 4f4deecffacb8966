package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jarawa/josaa-predictor/internal/auth"
)

func TestCheckerHas(t *testing.T) {
	c := NewChecker(nil)

	assert.True(t, c.Has("user", "predict:run"))
	assert.True(t, c.Has("user", "branches:list"))
	assert.False(t, c.Has("user", "dataset:import"))
	assert.False(t, c.Has("user", "users:list"))

	// admin wildcard
	assert.True(t, c.Has("admin", "dataset:import"))
	assert.True(t, c.Has("admin", "predict:run"))

	assert.False(t, c.Has("unknown-role", "predict:run"))
}

func TestCheckerPrefixPattern(t *testing.T) {
	c := NewChecker(map[string][]string{"ops": {"dataset:*"}})
	assert.True(t, c.Has("ops", "dataset:import"))
	assert.False(t, c.Has("ops", "users:list"))
}

func TestRequire(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := Require("dataset:import")(next)

	run := func(role string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if role != "" {
			req = req.WithContext(auth.WithRole(req.Context(), role))
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusForbidden, run(""))
	assert.Equal(t, http.StatusForbidden, run("user"))
	assert.Equal(t, http.StatusNoContent, run("admin"))
}
