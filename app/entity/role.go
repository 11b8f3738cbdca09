package entity

import (
	"encoding/json"
	"fmt"
	"strings"
)

type RoleType string

const (
	RoleAdmin    RoleType = "admin"
	RoleCustomer RoleType = "customer"
	RoleUser     RoleType = "user"
)

// AllRoles lists every role in a stable order. RoleSet bit positions follow it.
var AllRoles = []RoleType{RoleAdmin, RoleCustomer, RoleUser}

var roleDescriptions = map[RoleType]string{
	RoleAdmin:    "Can perform all system operations.",
	RoleCustomer: "Can use the bank services.",
	RoleUser:     "Can update their info and request to be a customer (only once).",
}

func ParseRoleType(value string) (RoleType, error) {
	normalized := RoleType(strings.ToLower(strings.TrimSpace(value)))
	for _, role := range AllRoles {
		if role == normalized {
			return role, nil
		}
	}
	return "", fmt.Errorf("unknown role %q", value)
}

func (r RoleType) Description() string {
	return roleDescriptions[r]
}

func (r RoleType) bit() RoleSet {
	for i, role := range AllRoles {
		if role == r {
			return 1 << uint(i)
		}
	}
	return 0
}

type Role struct {
	ID          uint64
	Type        RoleType
	Description string
}

// RoleSet is the set of roles held by a user.
type RoleSet uint8

func NewRoleSet(roles ...RoleType) RoleSet {
	var set RoleSet
	for _, role := range roles {
		set = set.With(role)
	}
	return set
}

func (s RoleSet) Has(role RoleType) bool {
	bit := role.bit()
	return bit != 0 && s&bit != 0
}

func (s RoleSet) With(role RoleType) RoleSet {
	return s | role.bit()
}

func (s RoleSet) Without(role RoleType) RoleSet {
	return s &^ role.bit()
}

func (s RoleSet) Types() []RoleType {
	types := make([]RoleType, 0, len(AllRoles))
	for _, role := range AllRoles {
		if s.Has(role) {
			types = append(types, role)
		}
	}
	return types
}

func (s RoleSet) Strings() []string {
	types := s.Types()
	out := make([]string, len(types))
	for i, role := range types {
		out[i] = string(role)
	}
	return out
}

func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}

	var set RoleSet
	for _, name := range names {
		role, err := ParseRoleType(name)
		if err != nil {
			return err
		}
		set = set.With(role)
	}
	*s = set
	return nil
}
