package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uriyahav/book-api/internal/testutil"
)

const testSecret = "test-secret"

func okHandler(t *testing.T, gotUserID, gotRole *string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotUserID != nil {
			*gotUserID = UserIDFrom(r)
		}
		if gotRole != nil {
			*gotRole = RoleFrom(r)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth(t *testing.T) {
	t.Run("valid token passes claims through the context", func(t *testing.T) {
		var userID, role string
		h := Auth(testSecret)(okHandler(t, &userID, &role))

		token := testutil.GenerateTestToken(testSecret, "42", "ADMIN")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, testutil.NewRequestWithAuth(http.MethodDelete, "/books/1", nil, token))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "42", userID)
		assert.Equal(t, "ADMIN", role)
	})

	t.Run("missing header is unauthorized", func(t *testing.T) {
		h := Auth(testSecret)(okHandler(t, nil, nil))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, testutil.NewRequest(http.MethodDelete, "/books/1", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token is unauthorized", func(t *testing.T) {
		h := Auth(testSecret)(okHandler(t, nil, nil))

		token := testutil.GenerateExpiredToken(testSecret, "42", "ADMIN")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, testutil.NewRequestWithAuth(http.MethodDelete, "/books/1", nil, token))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another secret is unauthorized", func(t *testing.T) {
		h := Auth(testSecret)(okHandler(t, nil, nil))

		token := testutil.GenerateTestToken("other-secret", "42", "ADMIN")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, testutil.NewRequestWithAuth(http.MethodDelete, "/books/1", nil, token))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	t.Run("matching role passes", func(t *testing.T) {
		h := Auth(testSecret)(RequireRole("ADMIN")(okHandler(t, nil, nil)))

		token := testutil.GenerateTestToken(testSecret, "42", "ADMIN")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, testutil.NewRequestWithAuth(http.MethodDelete, "/books/1", nil, token))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("authenticated but wrong role is forbidden", func(t *testing.T) {
		h := Auth(testSecret)(RequireRole("ADMIN")(okHandler(t, nil, nil)))

		token := testutil.GenerateTestToken(testSecret, "42", "USER")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, testutil.NewRequestWithAuth(http.MethodDelete, "/books/1", nil, token))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
