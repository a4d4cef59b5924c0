package rbac

import (
	"testing"
)

func TestHighestRole(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  string
	}{
		{name: "пустой набор", roles: nil, want: ""},
		{name: "один admin", roles: []string{RoleAdmin}, want: RoleAdmin},
		{name: "один readonly", roles: []string{RoleReadonly}, want: RoleReadonly},
		{name: "admin + readonly", roles: []string{RoleAdmin, RoleReadonly}, want: RoleAdmin},
		{name: "readonly + admin", roles: []string{RoleReadonly, RoleAdmin}, want: RoleAdmin},
		{name: "неизвестные роли игнорируются", roles: []string{"owner", RoleReadonly}, want: RoleReadonly},
		{name: "только неизвестные роли", roles: []string{"owner", "editor"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HighestRole(tt.roles)
			if got != tt.want {
				t.Errorf("HighestRole(%v) = %q, хотели %q", tt.roles, got, tt.want)
			}
		})
	}
}

func TestMapGroupsToRole(t *testing.T) {
	adminGroups := []string{"datastore-admins"}
	readonlyGroups := []string{"datastore-viewers"}

	tests := []struct {
		name   string
		groups []string
		want   string
	}{
		{
			name:   "группа admins -> admin",
			groups: []string{"datastore-admins"},
			want:   RoleAdmin,
		},
		{
			name:   "группа viewers -> readonly",
			groups: []string{"datastore-viewers"},
			want:   RoleReadonly,
		},
		{
			name:   "обе группы -> admin (max)",
			groups: []string{"datastore-admins", "datastore-viewers"},
			want:   RoleAdmin,
		},
		{
			name:   "нет совпадений -> пустая строка",
			groups: []string{"other-group"},
			want:   "",
		},
		{
			name:   "пустой список групп -> пустая строка",
			groups: nil,
			want:   "",
		},
		{
			name:   "несколько групп, одна совпадает",
			groups: []string{"some-group", "datastore-viewers", "another-group"},
			want:   RoleReadonly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapGroupsToRole(tt.groups, adminGroups, readonlyGroups)
			if got != tt.want {
				t.Errorf("MapGroupsToRole(%v, ...) = %q, хотели %q", tt.groups, got, tt.want)
			}
		})
	}
}

func TestMapGroupsToRole_CustomGroups(t *testing.T) {
	adminGroups := []string{"super-admins", "ml-platform"}
	readonlyGroups := []string{"data-scientists", "qa-team"}

	tests := []struct {
		name   string
		groups []string
		want   string
	}{
		{
			name:   "кастомная группа admin",
			groups: []string{"ml-platform"},
			want:   RoleAdmin,
		},
		{
			name:   "кастомная группа readonly",
			groups: []string{"qa-team"},
			want:   RoleReadonly,
		},
		{
			name:   "кастомная admin + readonly -> admin",
			groups: []string{"data-scientists", "super-admins"},
			want:   RoleAdmin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapGroupsToRole(tt.groups, adminGroups, readonlyGroups)
			if got != tt.want {
				t.Errorf("MapGroupsToRole(%v, ...) = %q, хотели %q", tt.groups, got, tt.want)
			}
		})
	}
}

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RoleAdmin, true},
		{RoleReadonly, true},
		{"invalid", false},
		{"", false},
		{"superadmin", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			got := IsValidRole(tt.role)
			if got != tt.want {
				t.Errorf("IsValidRole(%q) = %v, хотели %v", tt.role, got, tt.want)
			}
		})
	}
}
