package domain

import (
	"encoding/json"
	"errors"
	"strings"
)

var ErrUnknownRole = errors.New("unknown role")

type Role string

const (
	RoleAssociate Role = "ASSOCIATE"
	RoleAnalyst   Role = "ANALYST"
	RoleManager   Role = "MANAGER"
	RoleAdmin     Role = "ADMIN"
)

// lowest privilege first
var roleHierarchy = []Role{RoleAssociate, RoleAnalyst, RoleManager, RoleAdmin}

func Roles() []Role {
	return append([]Role(nil), roleHierarchy...)
}

// ParseRole normalizes s to upper case and rejects anything outside the hierarchy.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if r.Level() < 0 {
		return "", ErrUnknownRole
	}
	return r, nil
}

// Level is the position of r in the hierarchy, or -1 for an unknown role.
func (r Role) Level() int {
	for i, role := range roleHierarchy {
		if role == r {
			return i
		}
	}
	return -1
}

func (r Role) Valid() bool {
	return r.Level() >= 0
}

// AtLeast reports whether r grants everything required grants.
// Unknown roles on either side never satisfy the check.
func (r Role) AtLeast(required Role) bool {
	have, need := r.Level(), required.Level()
	if have < 0 || need < 0 {
		return false
	}
	return have >= need
}

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
