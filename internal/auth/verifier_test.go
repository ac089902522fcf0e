package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "stuf-api/pkg/errors"
)

const (
	testKeyID  = "test-key"
	testIssuer = "https://keycloak.example.com/realms/stuf"
)

var testAudiences = []string{"stuf-api", "stuf-spa"}

func newSigningKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

// newJWKSServer serves the public half of key as a JWKS document, the
// way the realm certs endpoint does.
func newJWKSServer(t *testing.T, key *rsa.PrivateKey) *httptest.Server {
	t.Helper()

	jwks := map[string]any{
		"keys": []map[string]any{
			{
				"kty": "RSA",
				"kid": testKeyID,
				"use": "sig",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.PublicKey.E)).Bytes()),
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		assert.NoError(t, json.NewEncoder(w).Encode(jwks))
	}))
	t.Cleanup(server.Close)
	return server
}

func baseClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":                testIssuer,
		"aud":                "stuf-api",
		"exp":                time.Now().Add(time.Hour).Unix(),
		"preferred_username": "alice",
	}
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		token.Header[headerKeyID] = kid
	}

	raw, err := token.SignedString(key)
	require.NoError(t, err)
	return raw
}

func newTestVerifier(t *testing.T, key *rsa.PrivateKey) *Verifier {
	t.Helper()
	server := newJWKSServer(t, key)
	resolver := NewJWKSResolver(server.URL, 5*time.Second)
	return NewVerifier(resolver, testIssuer, testAudiences)
}

func TestVerifier_ValidToken(t *testing.T) {
	key := newSigningKey(t)
	verifier := newTestVerifier(t, key)

	claims, err := verifier.Verify(context.Background(), signToken(t, key, testKeyID, baseClaims()))
	assert.NoError(t, err)
	assert.Equal(t, "alice", claims["preferred_username"])
	assert.Equal(t, testIssuer, claims["iss"])
}

func TestVerifier_AudienceList(t *testing.T) {
	key := newSigningKey(t)
	verifier := newTestVerifier(t, key)

	withAud := func(aud any) jwt.MapClaims {
		claims := baseClaims()
		claims["aud"] = aud
		return claims
	}

	tests := []struct {
		name      string
		aud       any
		shouldErr bool
	}{
		{"string match", "stuf-spa", false},
		{"list with one match", []string{"account", "stuf-api"}, false},
		{"string miss", "other-api", true},
		{"list with no match", []string{"account", "other-api"}, true},
		{"absent audience", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := withAud(tt.aud)
			if tt.aud == nil {
				delete(claims, "aud")
			}

			_, err := verifier.Verify(context.Background(), signToken(t, key, testKeyID, claims))
			if tt.shouldErr {
				assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerifier_EmptyToken(t *testing.T) {
	key := newSigningKey(t)
	verifier := newTestVerifier(t, key)

	_, err := verifier.Verify(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerifier_MissingKeyID(t *testing.T) {
	key := newSigningKey(t)
	verifier := newTestVerifier(t, key)

	_, err := verifier.Verify(context.Background(), signToken(t, key, "", baseClaims()))
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerifier_UnknownKeyID(t *testing.T) {
	key := newSigningKey(t)
	verifier := newTestVerifier(t, key)

	_, err := verifier.Verify(context.Background(), signToken(t, key, "rotated-away", baseClaims()))
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerifier_MalformedToken(t *testing.T) {
	key := newSigningKey(t)
	verifier := newTestVerifier(t, key)

	_, err := verifier.Verify(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerifier_WrongKeySignature(t *testing.T) {
	key := newSigningKey(t)
	otherKey := newSigningKey(t)
	verifier := newTestVerifier(t, key)

	_, err := verifier.Verify(context.Background(), signToken(t, otherKey, testKeyID, baseClaims()))
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerifier_ExpiredToken(t *testing.T) {
	key := newSigningKey(t)
	verifier := newTestVerifier(t, key)

	claims := baseClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	_, err := verifier.Verify(context.Background(), signToken(t, key, testKeyID, claims))
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, err, apperrors.ErrExpired)
}

func TestVerifier_MissingExpiry(t *testing.T) {
	key := newSigningKey(t)
	verifier := newTestVerifier(t, key)

	claims := baseClaims()
	delete(claims, "exp")

	_, err := verifier.Verify(context.Background(), signToken(t, key, testKeyID, claims))
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerifier_WrongIssuer(t *testing.T) {
	key := newSigningKey(t)
	verifier := newTestVerifier(t, key)

	claims := baseClaims()
	claims["iss"] = "https://rogue.example.com/realms/stuf"

	_, err := verifier.Verify(context.Background(), signToken(t, key, testKeyID, claims))
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerifier_RejectsNonRS256(t *testing.T) {
	key := newSigningKey(t)
	verifier := newTestVerifier(t, key)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, baseClaims())
	token.Header[headerKeyID] = testKeyID
	raw, err := token.SignedString([]byte("shared-secret"))
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestVerifier_KeyEndpointFailure(t *testing.T) {
	key := newSigningKey(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	verifier := NewVerifier(NewJWKSResolver(server.URL, 5*time.Second), testIssuer, testAudiences)

	// Unverifiable must mean unauthenticated, not a server fault.
	_, err := verifier.Verify(context.Background(), signToken(t, key, testKeyID, baseClaims()))
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	var appErr *apperrors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, "KEYS_UNAVAILABLE", appErr.Code)
}

func TestNormalizeAudience(t *testing.T) {
	tests := []struct {
		name     string
		aud      any
		expected []string
	}{
		{"string", "stuf-api", []string{"stuf-api"}},
		{"string slice", []string{"a", "b"}, []string{"a", "b"}},
		{"any slice", []any{"a", 1, "b"}, []string{"a", "b"}},
		{"nil", nil, nil},
		{"number", 42, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeAudience(tt.aud))
		})
	}
}

func TestJWKSResolver_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	resolver := NewJWKSResolver(server.URL, time.Second)
	_, err := resolver.ResolveKeys(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("%d", http.StatusServiceUnavailable))
}

type countingResolver struct {
	fetches int
	err     error
}

func (r *countingResolver) ResolveKeys(ctx context.Context) (jwt.Keyfunc, error) {
	r.fetches++
	if r.err != nil {
		return nil, r.err
	}
	return func(token *jwt.Token) (any, error) { return nil, nil }, nil
}

func TestCachingKeyResolver_ZeroTTLDisablesCache(t *testing.T) {
	inner := &countingResolver{}
	resolver := NewCachingKeyResolver(inner, 0)

	for i := 0; i < 3; i++ {
		_, err := resolver.ResolveKeys(context.Background())
		assert.NoError(t, err)
	}
	assert.Equal(t, 3, inner.fetches)
}

func TestCachingKeyResolver_ReusesWithinTTL(t *testing.T) {
	inner := &countingResolver{}
	resolver := NewCachingKeyResolver(inner, time.Minute)

	for i := 0; i < 3; i++ {
		kf, err := resolver.ResolveKeys(context.Background())
		assert.NoError(t, err)
		assert.NotNil(t, kf)
	}
	assert.Equal(t, 1, inner.fetches)
}

func TestCachingKeyResolver_ErrorDoesNotPoisonCache(t *testing.T) {
	inner := &countingResolver{err: fmt.Errorf("endpoint down")}
	resolver := NewCachingKeyResolver(inner, time.Minute)

	_, err := resolver.ResolveKeys(context.Background())
	assert.Error(t, err)

	inner.err = nil
	kf, err := resolver.ResolveKeys(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, kf)
	assert.Equal(t, 2, inner.fetches)
}
