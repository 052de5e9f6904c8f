package auth

import (
	"context"
	"strings"

	"github.com/nxthub/influencer-ops/internal"
)

type Role string

const (
	RoleManager    Role = "manager"
	RoleExecutive  Role = "executive"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleExecutive, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// AdminTier reports whether the role has unrestricted read/write access.
func (r Role) AdminTier() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Actor is the authenticated session record every workflow operation
// receives explicitly. The department display name is resolved once at
// login; the immutable department id travels alongside it for scoped
// queries.
type Actor struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	Department   string `json:"department,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
	Avatar       string `json:"avatar,omitempty"`
}

func ActorFromContext(ctx context.Context) (*Actor, bool) {
	actor, ok := ctx.Value(internal.ContextActorKey).(*Actor)
	return actor, ok
}

func ContextWithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, internal.ContextActorKey, actor)
}
