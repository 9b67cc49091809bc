package models

import (
	"fmt"
	"strings"
)

// Role is the slot a font occupies in a pairing.
type Role string

const (
	RoleHeader Role = "header"
	RoleBody   Role = "body"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleHeader:
		return RoleHeader, nil
	case RoleBody:
		return RoleBody, nil
	default:
		return "", fmt.Errorf("unknown role %q (want header or body)", s)
	}
}

// Opposite returns the other role of the pair.
func (r Role) Opposite() Role {
	if r == RoleHeader {
		return RoleBody
	}
	return RoleHeader
}

type Pairing struct {
	Header FontRecord `json:"header"`
	Body   FontRecord `json:"body"`
}

// PopularPairing names a curated header/body combination by family.
type PopularPairing struct {
	Header string `json:"header" yaml:"header"`
	Body   string `json:"body" yaml:"body"`
}
