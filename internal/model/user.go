package model

// User represents an account loaded from the static credential file.
// Accounts are seeded at startup and never mutated at runtime; the
// service has no registration or user-management endpoints.  The json
// tags are omitted because these structs are used internally by the
// credential store; handlers define separate response types with
// appropriate JSON tags.
//
// Fields:
//  Username     – unique login name, compared case-insensitively.
//  PasswordHash – bcrypt hashed password.
//  Role         – either "reader" or "contributor".
//  DisplayName  – optional human-friendly name shown in the UI.
type User struct {
	Username     string // login name, unique (case-insensitive)
	PasswordHash string // bcrypt hash of the password
	Role         string // reader | contributor
	DisplayName  string // optional display name ("" when unset)
}

// Role names as stored in the credential file and embedded in session
// token claims.
const (
	RoleReader      = "reader"      // may view published posts only
	RoleContributor = "contributor" // may create and manage own posts
)

// ValidRole reports whether s is one of the two known role names.
func ValidRole(s string) bool {
	return s == RoleReader || s == RoleContributor
}
