package domain

import "testing"

func TestRoleRankOrder(t *testing.T) {
	if !(RoleGuest.Rank() < RoleUser.Rank() && RoleUser.Rank() < RoleAdmin.Rank()) {
		t.Fatalf("ranks out of order: guest=%d user=%d admin=%d", RoleGuest.Rank(), RoleUser.Rank(), RoleAdmin.Rank())
	}
}

func TestRoleAtLeast(t *testing.T) {
	cases := []struct {
		have, want Role
		ok         bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleUser, true},
		{RoleUser, RoleAdmin, false},
		{RoleUser, RoleUser, true},
		{RoleGuest, RoleUser, false},
		{Role(""), RoleUser, true},
		{Role("superuser"), RoleAdmin, false},
	}
	for _, c := range cases {
		if got := c.have.AtLeast(c.want); got != c.ok {
			t.Errorf("%q.AtLeast(%q) = %v, want %v", c.have, c.want, got, c.ok)
		}
	}
}

func TestParseRole(t *testing.T) {
	if r, err := ParseRole(" Admin "); err != nil || r != RoleAdmin {
		t.Fatalf("ParseRole(Admin) = %q, %v", r, err)
	}
	if _, err := ParseRole("root"); err == nil {
		t.Fatal("expected error for unknown role")
	}
	if NormalizeRole("root") != RoleUser || NormalizeRole("") != RoleUser {
		t.Fatal("unknown roles must normalize to user")
	}
	if RoleGuest.Assignable() || !RoleAdmin.Assignable() || !RoleUser.Assignable() {
		t.Fatal("only user and admin are assignable")
	}
}
