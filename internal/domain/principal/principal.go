package principal

const (
	// RoleAdmin short-circuits every collection permission check.
	RoleAdmin = "admin"

	PermissionRead   = "read"
	PermissionWrite  = "write"
	PermissionDelete = "delete"
)

// Principal is an authenticated actor: a human User or a ServiceAccount.
// Both variants expose the same authorization surface; every use case
// consults HasCollectionPermission and nothing else.
type Principal interface {
	// Identifier returns the stable identity used for storage paths and
	// audit records: the username for users, the client id for service
	// accounts.
	Identifier() string
	Roles() []string
	Collections() map[string][]string
	HasRole(role string) bool
	IsAdmin() bool
	HasCollectionPermission(collection, permission string) bool
}

// User is a human principal resolved from an identity-provider token.
type User struct {
	Username    string
	Email       string
	FullName    string
	RoleList    []string
	Permissions map[string][]string
	Active      bool
}

func (u *User) Identifier() string { return u.Username }

func (u *User) Roles() []string { return u.RoleList }

func (u *User) Collections() map[string][]string { return u.Permissions }

func (u *User) HasRole(role string) bool {
	return hasRole(u.RoleList, role)
}

func (u *User) IsAdmin() bool { return u.HasRole(RoleAdmin) }

func (u *User) HasCollectionPermission(collection, permission string) bool {
	return hasCollectionPermission(u, collection, permission)
}

// ServiceAccount is a non-human principal authenticated via the
// client-credentials flow.
type ServiceAccount struct {
	ClientID    string
	Name        string
	Description string
	RoleList    []string
	Permissions map[string][]string
	Scopes      []string
	Active      bool
}

func (s *ServiceAccount) Identifier() string { return s.ClientID }

func (s *ServiceAccount) Roles() []string { return s.RoleList }

func (s *ServiceAccount) Collections() map[string][]string { return s.Permissions }

func (s *ServiceAccount) HasRole(role string) bool {
	return hasRole(s.RoleList, role)
}

func (s *ServiceAccount) IsAdmin() bool { return s.HasRole(RoleAdmin) }

func (s *ServiceAccount) HasCollectionPermission(collection, permission string) bool {
	return hasCollectionPermission(s, collection, permission)
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func hasCollectionPermission(p Principal, collection, permission string) bool {
	if p.IsAdmin() {
		return true
	}

	for _, granted := range p.Collections()[collection] {
		if granted == permission {
			return true
		}
	}
	return false
}
