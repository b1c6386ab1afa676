package service

import (
	"testing"

	"workin/internal/domain"
)

func TestIsOwnerOrAdmin(t *testing.T) {
	seven := int64(7)
	cases := []struct {
		name  string
		user  domain.User
		owner int64
		want  bool
	}{
		{"admin always allowed", domain.User{Role: domain.RoleAdmin}, 7, true},
		{"owning company allowed", domain.User{Role: domain.RoleCompany, CompanyID: &seven}, 7, true},
		{"other company denied", domain.User{Role: domain.RoleCompany, CompanyID: &seven}, 8, false},
		{"plain user denied", domain.User{Role: domain.RoleUser}, 7, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsOwnerOrAdmin(tc.user, tc.owner); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestHasRole(t *testing.T) {
	user := domain.User{Role: domain.RoleCompany}
	if !HasRole(user, domain.RoleCompany, domain.RoleAdmin) {
		t.Fatalf("expected company role to be allowed")
	}
	if HasRole(user, domain.RoleAdmin) {
		t.Fatalf("expected company role to be rejected for admin-only")
	}
	if HasRole(domain.User{}) {
		t.Fatalf("empty allowed set must reject")
	}
}
