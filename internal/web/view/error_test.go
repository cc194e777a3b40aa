package view

import (
	"errors"
	"testing"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/domain"
)

func TestErrorify_Nil(t *testing.T) {
	if Errorify(nil) != nil {
		t.Fatalf("expected nil view for nil error")
	}
}

func TestErrorify_ListTakesPrecedence(t *testing.T) {
	v := Errorify(&domain.APIError{
		List:    []string{"email taken", "postcode invalid"},
		Message: "should not show",
		Code:    "E100",
	})
	if len(v.List) != 2 {
		t.Fatalf("expected list rendering, got %+v", v)
	}
	if v.Message != "" || v.Code != "" || v.Generic {
		t.Fatalf("list should suppress the other fields: %+v", v)
	}
}

func TestErrorify_MessageBeforeCode(t *testing.T) {
	v := Errorify(&domain.APIError{Message: "invalid credentials", Code: "E100"})
	if v.Message != "invalid credentials" || v.Code != "" {
		t.Fatalf("expected message rendering, got %+v", v)
	}
}

func TestErrorify_CodeAlone(t *testing.T) {
	v := Errorify(&domain.APIError{Code: "explosion"})
	if v.Code != "explosion" || v.Generic {
		t.Fatalf("expected code rendering, got %+v", v)
	}
}

func TestErrorify_EmptyPayloadIsGeneric(t *testing.T) {
	v := Errorify(&domain.APIError{})
	if !v.Generic {
		t.Fatalf("empty error payload should render generically: %+v", v)
	}
}

func TestErrorify_TransportErrorIsGeneric(t *testing.T) {
	v := Errorify(errors.New("connection refused"))
	if !v.Generic {
		t.Fatalf("transport error should render generically: %+v", v)
	}
	if v.Message != "" {
		t.Fatalf("transport detail must not leak into the page: %+v", v)
	}
}

func TestAllowedGate(t *testing.T) {
	allowed := funcs()["allowed"].(func(domain.Role, ...string) bool)

	cases := []struct {
		role  domain.Role
		allow []string
		want  bool
	}{
		{domain.RoleAdmin, []string{"admin"}, true},
		{domain.RoleAdmin, []string{"interpreter", "customer"}, false},
		{domain.RoleCustomer, []string{"admin", "interpreter", "customer"}, true},
		{domain.RoleUnknown, []string{"admin", "interpreter", "customer"}, false},
		{domain.RoleInterpreter, nil, false},
	}
	for _, tc := range cases {
		if got := allowed(tc.role, tc.allow...); got != tc.want {
			t.Fatalf("allowed(%q, %v) = %v, want %v", tc.role, tc.allow, got, tc.want)
		}
	}
}

func TestRendererParsesTemplates(t *testing.T) {
	if _, err := NewRenderer(); err != nil {
		t.Fatalf("embedded templates failed to parse: %v", err)
	}
}
