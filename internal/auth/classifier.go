package auth

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"stuf-api/internal/domain/principal"
	apperrors "stuf-api/pkg/errors"
)

// Classify decides whether verified claims describe a human user or a
// service account and builds the matching principal.
//
// The decision rule: a human-username claim with no client id means
// User; a client id with no human-username claim means ServiceAccount;
// both or neither is ambiguous and rejected. The subject claim is a
// fallback identifier for an already-classified user token, never
// evidence of being one.
//
// Tolerated claim oddities are reported on the logger; a nil logger
// silences them.
func Classify(claims jwt.MapClaims, logger echo.Logger) (principal.Principal, error) {
	username := firstClaim(claims, claimPreferredUsername, claimUsername)
	clientID := firstClaim(claims, claimAuthorizedParty, claimClientID)

	switch {
	case username != "" && clientID == "":
		return buildUser(claims, logger)
	case clientID != "" && username == "":
		return buildServiceAccount(claims, clientID, logger), nil
	default:
		return nil, &apperrors.AppError{
			Code:    "AMBIGUOUS_TOKEN",
			Message: msgAmbiguousToken,
			Err:     errors.Join(apperrors.ErrUnauthorized, apperrors.ErrAmbiguousToken),
		}
	}
}

func buildUser(claims jwt.MapClaims, logger echo.Logger) (*principal.User, error) {
	identifier := firstClaim(claims, claimPreferredUsername, claimUsername, claimSubject)
	if identifier == "" {
		return nil, apperrors.Unauthorized(msgMissingIdentifier)
	}

	return &principal.User{
		Username:    identifier,
		Email:       stringClaim(claims, claimEmail),
		FullName:    stringClaim(claims, claimName),
		RoleList:    realmRoles(claims),
		Permissions: collectionPermissions(claims, logger),
		Active:      true,
	}, nil
}

func buildServiceAccount(claims jwt.MapClaims, clientID string, logger echo.Logger) *principal.ServiceAccount {
	name := stringClaim(claims, claimName)
	if name == "" {
		name = clientID
	}

	return &principal.ServiceAccount{
		ClientID:    clientID,
		Name:        name,
		Description: stringClaim(claims, claimDescription),
		RoleList:    realmRoles(claims),
		Permissions: collectionPermissions(claims, logger),
		Scopes:      strings.Fields(stringClaim(claims, claimScope)),
		Active:      true,
	}
}

func stringClaim(claims jwt.MapClaims, key string) string {
	value, _ := claims[key].(string)
	return value
}

func firstClaim(claims jwt.MapClaims, keys ...string) string {
	for _, key := range keys {
		if value := stringClaim(claims, key); value != "" {
			return value
		}
	}
	return ""
}

// realmRoles extracts realm_access.roles, tolerating its absence.
func realmRoles(claims jwt.MapClaims) []string {
	realmAccess, _ := claims[claimRealmAccess].(map[string]any)
	rawRoles, _ := realmAccess[claimRoles].([]any)

	roles := make([]string, 0, len(rawRoles))
	for _, raw := range rawRoles {
		if role, ok := raw.(string); ok {
			roles = append(roles, role)
		}
	}
	return roles
}

// collectionPermissions parses the custom collections claim: either a
// structured mapping or a JSON-encoded string of one. A string that
// fails to parse is logged and tolerated as an empty mapping; the
// request is not rejected for it.
func collectionPermissions(claims jwt.MapClaims, logger echo.Logger) map[string][]string {
	switch value := claims[claimCollections].(type) {
	case string:
		var parsed map[string][]string
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			if logger != nil {
				logger.Warnf("ignoring unparseable collections claim: %v", err)
			}
			return map[string][]string{}
		}
		if parsed == nil {
			return map[string][]string{}
		}
		return parsed
	case map[string]any:
		parsed := make(map[string][]string, len(value))
		for collection, rawPerms := range value {
			perms, ok := rawPerms.([]any)
			if !ok {
				continue
			}
			list := make([]string, 0, len(perms))
			for _, raw := range perms {
				if perm, ok := raw.(string); ok {
					list = append(list, perm)
				}
			}
			parsed[collection] = list
		}
		return parsed
	default:
		return map[string][]string{}
	}
}
