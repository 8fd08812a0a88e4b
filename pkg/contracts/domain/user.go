package domain

// Role is the access level attached to a roster entry.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// User is one credential roster entry. Password is verification-only and is
// never serialized outward.
type User struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Role     Role   `json:"role"`
}
