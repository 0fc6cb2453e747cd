package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	token, err := IssueToken(secret, "user", time.Now())
	require.NoError(t, err)

	sub, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "user", sub)
}

func TestParseTokenRejects(t *testing.T) {
	expired, _ := IssueToken(secret, "user", time.Now().Add(-48*time.Hour))
	otherKey, _ := IssueToken([]byte("other"), "user", time.Now())
	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user",
	}).SignedString(secret)
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "user",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)

	tests := []struct {
		name  string
		token string
	}{
		{"Expired", expired},
		{"WrongKey", otherKey},
		{"NoSubject", noSubject},
		{"NoExpiry", noExpiry},
		{"WrongAlgorithm", hs512},
		{"Garbage", "not-a-jwt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseToken(secret, tc.token)
			assert.Error(t, err)
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	valid, _ := IssueToken(secret, "user", time.Now())

	tests := []struct {
		name     string
		header   string
		cookie   string
		wantCode int
	}{
		{"NoToken", "", "", http.StatusUnauthorized},
		{"Bearer", "Bearer " + valid, "", http.StatusOK},
		{"Cookie", "", valid, http.StatusOK},
		{"BadBearer", "Bearer nope", "", http.StatusUnauthorized},
		{"BasicScheme", "Basic dXNlcjpwYXNz", "", http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			app := &App{Auth: Auth{Secret: secret}}
			e.Use(AppContextMiddleware(app))
			e.GET("/", func(c echo.Context) error {
				return c.String(http.StatusOK, c.(*AppContext).User.Username)
			}, AuthMiddleware)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tc.cookie})
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			require.Equal(t, tc.wantCode, rec.Code)
			if tc.wantCode == http.StatusOK {
				assert.Equal(t, "user", rec.Body.String())
			}
		})
	}
}
