package authz

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is the closed set of privilege tiers, ordered agent < supervisor < admin.
type Role uint8

const (
	RoleAgent Role = iota + 1
	RoleSupervisor
	RoleAdmin
)

// ParseRole maps the wire representation to a Role.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "agent":
		return RoleAgent, nil
	case "supervisor":
		return RoleSupervisor, nil
	case "admin":
		return RoleAdmin, nil
	}
	return 0, fmt.Errorf("authz: unknown role %q", s)
}

// String returns the wire representation of the role.
func (r Role) String() string {
	switch r {
	case RoleAgent:
		return "agent"
	case RoleSupervisor:
		return "supervisor"
	case RoleAdmin:
		return "admin"
	}
	return "unknown"
}

// MarshalJSON encodes the role as its wire string.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes the wire string form of a role.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
