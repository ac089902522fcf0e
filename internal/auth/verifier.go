package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	apperrors "stuf-api/pkg/errors"
)

// Verifier validates bearer tokens against the identity provider's
// signing keys. Stateless per call: every failure is terminal for the
// request and the caller must present a fresh token.
type Verifier struct {
	resolver KeyResolver
	issuer   string
	allowed  []string
}

func NewVerifier(resolver KeyResolver, issuer string, allowedAudiences []string) *Verifier {
	return &Verifier{
		resolver: resolver,
		issuer:   issuer,
		allowed:  allowedAudiences,
	}
}

// Verify checks signature, issuer, expiry and audience, and returns
// the decoded claim map unmodified. Audience validation is done by
// hand: the aud claim (string or list) must intersect the configured
// allow-set. Errors carry distinguishable reasons for logging, but
// callers should treat any error as "unauthenticated".
func (v *Verifier) Verify(ctx context.Context, rawToken string) (jwt.MapClaims, error) {
	if rawToken == "" {
		return nil, apperrors.Unauthorized(msgMissingToken)
	}

	if err := requireKeyID(rawToken); err != nil {
		return nil, err
	}

	// A resolver failure means verification is unavailable; fail
	// closed as an authentication failure, never open.
	keyfunc, err := v.resolver.ResolveKeys(ctx)
	if err != nil {
		return nil, &apperrors.AppError{
			Code:    "KEYS_UNAVAILABLE",
			Message: msgSigningKeysUnavailable,
			Err:     errors.Join(apperrors.ErrUnauthorized, err),
		}
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(v.issuer),
	)

	token, err := parser.Parse(rawToken, keyfunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &apperrors.AppError{
				Code:    "TOKEN_EXPIRED",
				Message: msgTokenExpired,
				Err:     errors.Join(apperrors.ErrUnauthorized, apperrors.ErrExpired),
			}
		}
		return nil, &apperrors.AppError{
			Code:    "TOKEN_INVALID",
			Message: fmt.Sprintf(msgTokenInvalidFmt, err),
			Err:     apperrors.ErrUnauthorized,
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperrors.Unauthorized(msgInvalidTokenClaims)
	}

	if !audienceIntersects(claims[claimAudience], v.allowed) {
		return nil, apperrors.Unauthorized(msgAudienceRejected)
	}

	return claims, nil
}

// requireKeyID parses the token header without verifying the signature
// and fails when no key id is present.
func requireKeyID(rawToken string) error {
	token, _, err := jwt.NewParser().ParseUnverified(rawToken, jwt.MapClaims{})
	if err != nil {
		return &apperrors.AppError{
			Code:    "TOKEN_MALFORMED",
			Message: fmt.Sprintf(msgTokenMalformedFmt, err),
			Err:     apperrors.ErrUnauthorized,
		}
	}

	kid, _ := token.Header[headerKeyID].(string)
	if kid == "" {
		return apperrors.Unauthorized(msgMissingKeyID)
	}

	return nil
}

// audienceIntersects normalizes the aud claim to a list and tests for
// any overlap with the allow-set.
func audienceIntersects(aud any, allowed []string) bool {
	for _, audience := range normalizeAudience(aud) {
		for _, want := range allowed {
			if audience == want {
				return true
			}
		}
	}
	return false
}

func normalizeAudience(aud any) []string {
	switch v := aud.(type) {
	case string:
		return []string{v}
	case []any:
		audiences := make([]string, 0, len(v))
		for _, entry := range v {
			if s, ok := entry.(string); ok {
				audiences = append(audiences, s)
			}
		}
		return audiences
	case []string:
		return v
	default:
		return nil
	}
}
