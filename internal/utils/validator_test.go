package utils

import "testing"

func TestValidateUsername(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"simple", "alice", true},
		{"digits", "user123", true},
		{"empty", "", false},
		{"spaces", "a b", false},
		{"symbols", "a_b", false},
		{"too long", "abcdefghijklmnopqrstu", false},
		{"max length", "abcdefghijklmnopqrst", true},
	}
	for _, tc := range cases {
		if ok, _ := ValidateUsername(tc.in); ok != tc.want {
			t.Errorf("%s: ValidateUsername(%q) = %v, want %v", tc.name, tc.in, ok, tc.want)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, _ := ValidatePassword("short"); ok {
		t.Error("7-char password accepted")
	}
	if ok, _ := ValidatePassword("longenough"); !ok {
		t.Error("valid password rejected")
	}
	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	if ok, _ := ValidatePassword(string(long)); ok {
		t.Error("129-char password accepted")
	}
}

func TestValidateEmail(t *testing.T) {
	if ok, _ := ValidateEmail("alice@example.com"); !ok {
		t.Error("valid email rejected")
	}
	if ok, _ := ValidateEmail(""); ok {
		t.Error("empty email accepted")
	}
	if ok, _ := ValidateEmail("not-an-email"); ok {
		t.Error("malformed email accepted")
	}
}
