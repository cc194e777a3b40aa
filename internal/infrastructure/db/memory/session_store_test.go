package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/domain"
)

func TestSessionStore_Roundtrip(t *testing.T) {
	s := NewSessionStore()
	ctx := context.Background()

	sess := &domain.Session{ID: "s1", Role: domain.RoleCustomer, UpstreamCookie: "sessionid=up"}
	if err := s.Put(ctx, sess); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Role != domain.RoleCustomer || got.UpstreamCookie != "sessionid=up" {
		t.Fatalf("unexpected session: %+v", got)
	}

	// The store hands out copies; mutating a returned session must not leak.
	got.Role = domain.RoleAdmin
	again, _ := s.Get(ctx, "s1")
	if again.Role != domain.RoleCustomer {
		t.Fatalf("stored session mutated through a returned copy")
	}
}

func TestSessionStore_GetMissing(t *testing.T) {
	s := NewSessionStore()
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_Delete(t *testing.T) {
	s := NewSessionStore()
	ctx := context.Background()

	_ = s.Put(ctx, &domain.Session{ID: "s1"})
	if err := s.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("session survived delete: %v", err)
	}

	// Deleting a missing session is a no-op.
	if err := s.Delete(ctx, "s1"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}
