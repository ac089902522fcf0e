package auth

const (
	headerAuthorization = "Authorization"
	bearerScheme        = "bearer"
	authHeaderParts     = 2

	headerKeyID = "kid"

	claimAudience          = "aud"
	claimSubject           = "sub"
	claimPreferredUsername = "preferred_username"
	claimUsername          = "username"
	claimAuthorizedParty   = "azp"
	claimClientID          = "client_id"
	claimEmail             = "email"
	claimName              = "name"
	claimDescription       = "description"
	claimScope             = "scope"
	claimRealmAccess       = "realm_access"
	claimRoles             = "roles"
	claimCollections       = "collections"

	// ContextKeyPrincipal is where the middleware stores the resolved
	// principal for handlers.
	ContextKeyPrincipal = "principal"
)

const (
	msgMissingToken           = "missing bearer token"
	msgMissingAuthorization   = "missing authorization token"
	msgInvalidOrExpiredToken  = "invalid or expired token"
	msgMissingKeyID           = "token header has no key id"
	msgSigningKeysUnavailable = "signing keys unavailable"
	msgTokenExpired           = "token expired"
	msgTokenInvalidFmt        = "token verification failed: %v"
	msgTokenMalformedFmt      = "malformed token: %v"
	msgInvalidTokenClaims     = "invalid token claims"
	msgAudienceRejected       = "token audience not accepted"
	msgAmbiguousToken         = "token is neither a user nor a service account"
	msgMissingIdentifier      = "token carries no usable identifier"
	msgPrincipalNotResolved   = "principal not resolved"
)
