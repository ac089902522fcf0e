package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stuf-api/internal/auth"
	"stuf-api/internal/domain/principal"
)

// UserInfoResponse is the introspection shape for human users.
type UserInfoResponse struct {
	Type        string              `json:"type"`
	Username    string              `json:"username"`
	Email       string              `json:"email,omitempty"`
	FullName    string              `json:"full_name,omitempty"`
	Roles       []string            `json:"roles"`
	Collections map[string][]string `json:"collections"`
	Active      bool                `json:"active"`
}

// ServiceAccountInfoResponse is the introspection shape for service
// accounts. User-only fields are deliberately absent.
type ServiceAccountInfoResponse struct {
	Type        string              `json:"type"`
	ClientID    string              `json:"client_id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Roles       []string            `json:"roles"`
	Collections map[string][]string `json:"collections"`
	Scopes      []string            `json:"scopes"`
	Active      bool                `json:"active"`
}

type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

// WhoAmI returns the authenticated principal in its variant-specific
// shape.
func (h *MeHandler) WhoAmI(c echo.Context) error {
	p, err := auth.GetPrincipal(c)
	if err != nil {
		return RespondWithMappedError(c, err)
	}

	switch actor := p.(type) {
	case *principal.User:
		return c.JSON(http.StatusOK, UserInfoResponse{
			Type:        principalTypeUser,
			Username:    actor.Username,
			Email:       actor.Email,
			FullName:    actor.FullName,
			Roles:       emptyIfNilList(actor.RoleList),
			Collections: emptyIfNilMap(actor.Permissions),
			Active:      actor.Active,
		})
	case *principal.ServiceAccount:
		return c.JSON(http.StatusOK, ServiceAccountInfoResponse{
			Type:        principalTypeServiceAccount,
			ClientID:    actor.ClientID,
			Name:        actor.Name,
			Description: actor.Description,
			Roles:       emptyIfNilList(actor.RoleList),
			Collections: emptyIfNilMap(actor.Permissions),
			Scopes:      emptyIfNilList(actor.Scopes),
			Active:      actor.Active,
		})
	default:
		return respondError(c, http.StatusInternalServerError, msgUnknownPrincipalType)
	}
}

func emptyIfNilList(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func emptyIfNilMap(m map[string][]string) map[string][]string {
	if m == nil {
		return map[string][]string{}
	}
	return m
}
