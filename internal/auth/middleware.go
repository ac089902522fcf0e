package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"stuf-api/internal/domain/principal"
	apperrors "stuf-api/pkg/errors"
)

// Middleware runs the single Verifier -> Classifier pipeline for every
// authenticated endpoint. No handler re-parses claims on its own.
type Middleware struct {
	verifier *Verifier
}

func NewMiddleware(verifier *Verifier) *Middleware {
	return &Middleware{verifier: verifier}
}

func (m *Middleware) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearerToken(c)
			if token == "" {
				return respondError(c, http.StatusUnauthorized, msgMissingAuthorization)
			}

			claims, err := m.verifier.Verify(c.Request().Context(), token)
			if err != nil {
				c.Logger().Warnf("token verification failed: %v", err)
				return respondError(c, http.StatusUnauthorized, msgInvalidOrExpiredToken)
			}

			p, err := Classify(claims, c.Logger())
			if err != nil {
				c.Logger().Warnf("principal classification failed: %v", err)
				return respondError(c, http.StatusUnauthorized, msgInvalidOrExpiredToken)
			}

			c.Set(ContextKeyPrincipal, p)

			return next(c)
		}
	}
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(headerAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}

	return parts[1]
}

// GetPrincipal extracts the authenticated principal from the request
// context.
func GetPrincipal(c echo.Context) (principal.Principal, error) {
	value := c.Get(ContextKeyPrincipal)
	if value == nil {
		return nil, apperrors.Unauthorized(msgPrincipalNotResolved)
	}

	p, ok := value.(principal.Principal)
	if !ok {
		return nil, apperrors.InternalServer(msgPrincipalNotResolved, nil)
	}

	return p, nil
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}
