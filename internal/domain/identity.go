package domain

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleSecretary Role = "secretary"
	RoleCleaner   Role = "cleaner"
)

// Identity is the caller identity resolved by the auth collaborator. The
// engine itself is role-agnostic; the API layer enforces which roles may call
// which operations.
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Role   Role   `json:"role"`
}
