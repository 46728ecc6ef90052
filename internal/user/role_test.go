package user

import "testing"

func TestRole_Valid(t *testing.T) {
	if !RoleAdmin.Valid() || !RoleUser.Valid() {
		t.Error("ADMIN and USER must be valid roles")
	}
	if Role("SUPERUSER").Valid() {
		t.Error("SUPERUSER must not be a valid role")
	}
	if Role("").Valid() {
		t.Error("empty role must not be valid")
	}
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		subject  Role
		required []Role
		want     bool
	}{
		{"admin on admin-only", RoleAdmin, []Role{RoleAdmin}, true},
		{"user on admin-only", RoleUser, []Role{RoleAdmin}, false},
		{"user on user-or-admin", RoleUser, []Role{RoleAdmin, RoleUser}, true},
		{"no requirement allows anyone", RoleUser, nil, true},
		{"unknown role denied", Role("SUPERUSER"), []Role{RoleAdmin}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Authorize(tt.subject, tt.required...); got != tt.want {
				t.Errorf("Authorize(%s, %v) = %v, want %v", tt.subject, tt.required, got, tt.want)
			}
		})
	}
}
