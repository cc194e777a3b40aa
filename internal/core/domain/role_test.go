package domain

import "testing"

func TestParseAccountType(t *testing.T) {
	cases := []struct {
		in   string
		want Role
	}{
		{"A", RoleAdmin},
		{"I", RoleInterpreter},
		{"C", RoleCustomer},
		{"", RoleUnknown},
		{"X", RoleUnknown},
		{"a", RoleUnknown},
	}
	for _, tc := range cases {
		if got := ParseAccountType(tc.in); got != tc.want {
			t.Fatalf("ParseAccountType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRole_In(t *testing.T) {
	if !RoleAdmin.In(RoleAdmin, RoleCustomer) {
		t.Fatalf("admin should be in its own allow-set")
	}
	if RoleInterpreter.In(RoleAdmin, RoleCustomer) {
		t.Fatalf("interpreter must not match an admin/customer set")
	}
	if RoleUnknown.In(RoleAdmin, RoleInterpreter, RoleCustomer) {
		t.Fatalf("unknown role is never allowed")
	}
	if RoleUnknown.In(RoleUnknown) {
		t.Fatalf("unknown role is never allowed, even explicitly")
	}
	if RoleAdmin.In() {
		t.Fatalf("empty allow-set admits nobody")
	}
}

func TestAPIError_ErrorString(t *testing.T) {
	cases := []struct {
		err  *APIError
		want string
	}{
		{&APIError{Message: "invalid credentials"}, "invalid credentials"},
		{&APIError{List: []string{"first", "second"}}, "first; second"},
		{&APIError{Code: "explosion"}, "error code: explosion"},
		{&APIError{}, "unknown error"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("Error() = %q, want %q", got, tc.want)
		}
	}
}
