package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	domainauth "github.com/target/gatehouse/internal/domain/auth"
)

func TestStaticRoleMapper_Map(t *testing.T) {
	m := StaticRoleMapper{AdminGroup: "gatehouse-admins", UserGroup: "gatehouse-users"}

	tests := []struct {
		name   string
		groups []string
		want   domainauth.Role
	}{
		{name: "no groups", want: domainauth.RoleGuest},
		{name: "user", groups: []string{"other", "gatehouse-users"}, want: domainauth.RoleUser},
		{name: "admin wins", groups: []string{"gatehouse-users", "gatehouse-admins"}, want: domainauth.RoleAdmin},
		{name: "case insensitive", groups: []string{" Gatehouse-Users "}, want: domainauth.RoleUser},
		{name: "unknown", groups: []string{"finance"}, want: domainauth.RoleGuest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Map(tt.groups))
		})
	}

	assert.Equal(t, domainauth.RoleGuest, StaticRoleMapper{}.Map([]string{""}))
}
