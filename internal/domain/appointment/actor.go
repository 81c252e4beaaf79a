package appointment

import (
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

type Role string

const (
	RoleOwner    Role = "owner"
	RoleEmployee Role = "employee"
	RoleClient   Role = "client"
)

// Actor is whoever performs an operation. It is stamped on every
// modification record.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleOwner, RoleEmployee, RoleClient:
		return r, true
	}
	return "", false
}

// AnonymousClient is the actor for public bookings made without a session.
func AnonymousClient(name string) Actor {
	return Actor{Name: name, Role: RoleClient}
}

func (a Actor) IsOwner() bool { return a.Role == RoleOwner }

// Label is the human-readable form stored in *By fields.
func (a Actor) Label() string {
	if a.Name != "" {
		return a.Name
	}
	if a.ID != "" {
		return a.ID
	}
	return string(a.Role)
}

func (a Actor) Validate() error {
	if _, ok := ParseRole(string(a.Role)); !ok {
		return httperr.ErrValidation("invalid_actor_role")
	}
	if a.ID == "" && a.Name == "" {
		return httperr.ErrValidation("actor_identity_required")
	}
	return nil
}

// AuthorizeProvider allows owners everywhere and employees on the
// provider record linked to their own user.
func AuthorizeProvider(actor Actor, provider *models.Provider) error {
	switch actor.Role {
	case RoleOwner:
		return nil
	case RoleEmployee:
		if provider != nil && provider.UserID != "" && actor.ID == provider.UserID {
			return nil
		}
	}
	return httperr.ErrForbidden()
}

// AuthorizeOwner gates catalog and administration operations.
func AuthorizeOwner(actor Actor) error {
	if actor.Role != RoleOwner {
		return httperr.ErrForbidden()
	}
	return nil
}
