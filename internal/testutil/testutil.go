package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/uriyahav/book-api/internal/auth"
	"github.com/uriyahav/book-api/internal/book"
	"github.com/uriyahav/book-api/internal/user"
)

// TestBook is a fixture for book tests.
var TestBook = book.Book{
	ID:            1,
	Title:         "The Go Programming Language",
	Author:        "Alan A. A. Donovan",
	PublishedYear: 2015,
}

// TestUser owns two orders summing to 100.0 (the alice fixture from the
// aggregation reports).
var TestUser = user.User{
	ID:       1,
	Username: "alice",
	Role:     user.RoleUser,
	Orders: []user.Order{
		{ID: 1, Amount: 60, UserID: 1},
		{ID: 2, Amount: 40, UserID: 1},
	},
}

// TestAdminUser has no orders.
var TestAdminUser = user.User{
	ID:       2,
	Username: "carol",
	Role:     user.RoleAdmin,
	Orders:   []user.Order{},
}

// FixedClock returns a clock frozen at midsummer of the given year, for
// deterministic published-year validation.
func FixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.June, 15, 12, 0, 0, 0, time.UTC)
	}
}

// GenerateTestToken mints a short-lived JWT for handler tests.
func GenerateTestToken(secret, userID, role string) string {
	token, _ := auth.GenerateToken(secret, userID, role, time.Hour)
	return token
}

// GenerateExpiredToken mints a JWT that expired an hour ago.
func GenerateExpiredToken(secret, userID, role string) string {
	c := auth.Claims{
		Sub:  userID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(secret))
	return token
}

// NewRequest creates a JSON HTTP request for testing.
func NewRequest(method, path string, body any) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRequestWithAuth creates a JSON HTTP request carrying a bearer token.
func NewRequestWithAuth(method, path string, body any, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// RecordedResponse is a decoded HTTP response for assertions.
type RecordedResponse struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

// RecordHTTPResponse decodes the recorder into a RecordedResponse. The
// body map is nil when the response had no JSON object body.
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordedResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]any
	if len(bodyBytes) > 0 {
		_ = json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordedResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
