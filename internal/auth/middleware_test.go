package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"stuf-api/internal/domain/principal"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func performRequest(t *testing.T, m *Middleware, authorization string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(headerAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := m.RequireAuth()(okHandler)(c)
	assert.NoError(t, err)
	return rec
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	key := newSigningKey(t)
	m := NewMiddleware(newTestVerifier(t, key))

	rec := performRequest(t, m, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	key := newSigningKey(t)
	m := NewMiddleware(newTestVerifier(t, key))

	for _, header := range []string{"Basic abc", "Bearer", "Bearer a b", "bearer-less-token"} {
		rec := performRequest(t, m, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header: %s", header)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	key := newSigningKey(t)
	m := NewMiddleware(newTestVerifier(t, key))

	rec := performRequest(t, m, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_AmbiguousClaims(t *testing.T) {
	key := newSigningKey(t)
	m := NewMiddleware(newTestVerifier(t, key))

	claims := baseClaims()
	claims["azp"] = "spa-client" // alongside preferred_username

	rec := performRequest(t, m, "Bearer "+signToken(t, key, testKeyID, claims))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_SetsPrincipal(t *testing.T) {
	key := newSigningKey(t)
	m := NewMiddleware(newTestVerifier(t, key))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerAuthorization, "Bearer "+signToken(t, key, testKeyID, baseClaims()))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var resolved principal.Principal
	handler := func(c echo.Context) error {
		p, err := GetPrincipal(c)
		assert.NoError(t, err)
		resolved = p
		return c.String(http.StatusOK, "ok")
	}

	err := m.RequireAuth()(handler)(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, resolved)
	assert.Equal(t, "alice", resolved.Identifier())
}

func TestRequireAuth_BearerSchemeIsCaseInsensitive(t *testing.T) {
	key := newSigningKey(t)
	m := NewMiddleware(newTestVerifier(t, key))

	rec := performRequest(t, m, "bearer "+signToken(t, key, testKeyID, baseClaims()))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetPrincipal_Unset(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	p, err := GetPrincipal(c)
	assert.Nil(t, p)
	assert.Error(t, err)
}
