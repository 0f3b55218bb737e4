package user

import "testing"

func TestValidateEmail(t *testing.T) {
	ok := []string{"coach@rovers.vn", "a.b+c@example.com"}
	for _, v := range ok {
		if err := ValidateEmail(v); err != nil {
			t.Fatalf("expected valid email %q: %v", v, err)
		}
	}
	bad := []string{"", "plain", "Bob <bob@example.com>", "@example.com"}
	for _, v := range bad {
		if err := ValidateEmail(v); err == nil {
			t.Fatalf("expected invalid email %q", v)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Coach@Rovers.VN "); got != "coach@rovers.vn" {
		t.Fatalf("unexpected normalized email %q", got)
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("Rovers#2024"); err != nil {
		t.Fatalf("expected valid password: %v", err)
	}
	if err := ValidatePassword("a1!"); err == nil {
		t.Fatalf("expected error for short password")
	}
	if err := ValidatePassword("NoDigits!!"); err == nil {
		t.Fatalf("expected error for missing digit")
	}
	if err := ValidatePassword("NoSpecial123"); err == nil {
		t.Fatalf("expected error for missing special")
	}
	if err := ValidatePassword("12345678!"); err == nil {
		t.Fatalf("expected error for missing letter")
	}
}

func TestValidateFullName(t *testing.T) {
	if err := ValidateFullName("Nguyen Van A"); err != nil {
		t.Fatalf("expected valid name: %v", err)
	}
	if err := ValidateFullName("Bob"); err == nil {
		t.Fatalf("expected error for short name")
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Rovers#2024")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(hash, "Rovers#2024") {
		t.Fatalf("expected password to verify")
	}
	if VerifyPassword(hash, "rovers#2024") {
		t.Fatalf("expected wrong password to fail")
	}
	if VerifyPassword("", "Rovers#2024") {
		t.Fatalf("expected empty hash to fail")
	}
}

func TestCanSignIn(t *testing.T) {
	for _, s := range []State{StateUnknown, StateActive, StateTemporarilyAbsent} {
		if !(&User{State: s}).CanSignIn() {
			t.Fatalf("expected %s to sign in", s)
		}
	}
	if (&User{State: StateInactive}).CanSignIn() {
		t.Fatalf("expected inactive user to be refused")
	}
}

func TestHasRole(t *testing.T) {
	u := &User{Roles: []Role{RoleCoach, RolePlayer}}
	if !u.HasRole(RoleCoach) || u.HasRole(RoleSuperAdmin) {
		t.Fatalf("unexpected role membership")
	}
}

func TestValidateRoleAndState(t *testing.T) {
	if ValidateRole(RoleCaptain) != nil || ValidateRole("OWNER") == nil {
		t.Fatalf("unexpected role validation")
	}
	if ValidateState(StateTemporarilyAbsent) != nil || ValidateState("GONE") == nil {
		t.Fatalf("unexpected state validation")
	}
}
