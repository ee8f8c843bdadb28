package types

import "fmt"

// Role tags what an authenticated actor is allowed to do
type Role string

const (
	RoleUser   Role = "user"
	RoleWorker Role = "worker"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleWorker, RoleAdmin:
		return true
	default:
		return false
	}
}

// Actor is an authenticated identity. Users, workers and admins live in
// separate tables, so an ID is only meaningful together with its role.
type Actor struct {
	ID   uint `json:"id"`
	Role Role `json:"role"`
}

func (a Actor) IsUser() bool   { return a.Role == RoleUser }
func (a Actor) IsWorker() bool { return a.Role == RoleWorker }
func (a Actor) IsAdmin() bool  { return a.Role == RoleAdmin }

func (a Actor) String() string {
	return fmt.Sprintf("%s:%d", a.Role, a.ID)
}
