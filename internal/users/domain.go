// Package users manages the staff account directory: the subject source
// for authentication and the only collection whose writes are gated on
// the admin role rather than branch ownership.
package users

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/salescope/salescope/internal/authz"
)

const (
	// RootUsername names the protected root account. It can never be
	// edited or deleted through user management, by anyone.
	RootUsername = "admin"

	// StatusActive marks an account allowed to log in.
	StatusActive = "active"
	// StatusInactive marks a disabled account.
	StatusInactive = "inactive"
)

// User is one staff account.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"password"`
	FullName     string     `json:"fullname"`
	Role         authz.Role `json:"role"`
	Branch       string     `json:"branch"`
	Status       string     `json:"status"`
	CreatedDate  string     `json:"created_date"`

	// Creation date key written by the legacy client, import only.
	LegacyCreatedDate string `json:"createdDate,omitempty"`
}

// EntityID returns the account's stable identifier.
func (u User) EntityID() string { return u.ID }

// RecordBranch implements authz.Record.
func (u User) RecordBranch() string { return u.Branch }

// RecordOwner implements authz.Record.
func (u User) RecordOwner() string { return u.FullName }

// Active reports whether the account may log in.
func (u User) Active() bool { return u.Status == StatusActive }

// IsRoot reports whether this is the protected root admin account.
func (u User) IsRoot() bool {
	return u.Username == RootUsername && u.Role == authz.RoleAdmin
}

// Subject converts the account into the authorization subject carried
// through a session.
func (u User) Subject() *authz.Subject {
	return &authz.Subject{
		Username: u.Username,
		FullName: u.FullName,
		Branch:   u.Branch,
		Role:     u.Role,
	}
}

// Public strips the password hash for API responses.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.FullName,
		Role:        u.Role,
		Branch:      u.Branch,
		Status:      u.Status,
		CreatedDate: u.CreatedDate,
		IsRoot:      u.IsRoot(),
	}
}

// PublicUser is the API shape of an account.
type PublicUser struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"fullname"`
	Role        authz.Role `json:"role"`
	Branch      string     `json:"branch"`
	Status      string     `json:"status"`
	CreatedDate string     `json:"created_date"`
	IsRoot      bool       `json:"is_root"`
}

// CreateUserRequest is the draft for a new account.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=4"`
	FullName string `json:"fullname" validate:"required,max=100"`
	Role     string `json:"role" validate:"required,oneof=admin supervisor agent"`
	Branch   string `json:"branch" validate:"required,max=50"`
	Status   string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdateUserRequest is the draft for editing an account. The username is
// immutable; a blank password keeps the stored one.
type UpdateUserRequest struct {
	Password string `json:"password" validate:"omitempty,min=4"`
	FullName string `json:"fullname" validate:"required,max=100"`
	Role     string `json:"role" validate:"required,oneof=admin supervisor agent"`
	Branch   string `json:"branch" validate:"required,max=50"`
	Status   string `json:"status" validate:"required,oneof=active inactive"`
}

// Normalize trims legacy snapshot fields into their canonical homes.
func (u *User) Normalize() {
	if u.CreatedDate == "" {
		u.CreatedDate = u.LegacyCreatedDate
	}
	u.LegacyCreatedDate = ""
	u.Username = strings.TrimSpace(u.Username)
	u.FullName = strings.TrimSpace(u.FullName)
	u.Branch = strings.TrimSpace(u.Branch)
	if u.Status == "" {
		u.Status = StatusActive
	}
	u.PasswordHash = EnsureHashed(u.PasswordHash)
}

// EnsureHashed upgrades a plaintext password to a bcrypt hash. Values
// that already look like bcrypt digests pass through, so re-importing a
// snapshot never double-hashes.
func EnsureHashed(password string) string {
	if password == "" || strings.HasPrefix(password, "$2a$") ||
		strings.HasPrefix(password, "$2b$") || strings.HasPrefix(password, "$2y$") {
		return password
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ""
	}
	return string(hashed)
}
