// Package authroles maps identity provider groups to application roles.
package authroles

import (
	"strings"

	domainauth "github.com/target/gatehouse/internal/domain/auth"
)

// StaticRoleMapper maps groups to roles by configured group names, compared case-insensitively.
// Admin wins over user; anything else is a guest.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	if m.has(groups, m.AdminGroup) {
		return domainauth.RoleAdmin
	}
	if m.has(groups, m.UserGroup) {
		return domainauth.RoleUser
	}
	return domainauth.RoleGuest
}

func (StaticRoleMapper) has(groups []string, want string) bool {
	if want == "" {
		return false
	}
	for _, g := range groups {
		if strings.EqualFold(strings.TrimSpace(g), want) {
			return true
		}
	}
	return false
}
