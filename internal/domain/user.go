package domain

import "errors"

var (
	// ErrUserAlreadyExists is returned when trying to create a user with an existing username.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound is returned when looking up a non-existent user.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnknownRole is returned when a role name or number is not recognized.
	ErrUnknownRole = errors.New("unknown role")
)

// Role is the numeric authorization level carried in session tokens.
type Role int

const (
	RoleUser  Role = 1
	RoleAdmin Role = 2
)

// ParseRole maps a role name to its level.
func ParseRole(name string) (Role, error) {
	switch name {
	case "user":
		return RoleUser, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return 0, ErrUnknownRole
	}
}

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a stored account.
type User struct {
	ID           int64  // Unique identifier
	Username     string // Login username
	PasswordHash []byte // bcrypt hash
	Role         Role   // Authorization level
	CreatedAt    int64  // Unix timestamp of account creation
}

// Principal is an identity whose credentials have been verified.
type Principal struct {
	Username string
	Role     Role
}
