package permission

import (
	"errors"
	"testing"
)

func TestRegistryBuiltinsPreloaded(t *testing.T) {
	r := NewRegistry()

	if r.Count() != 5 {
		t.Fatalf("new registry should carry 5 builtins, got %d", r.Count())
	}
	bit, ok := r.Bit("admin")
	if !ok || bit != 3 {
		t.Fatalf("ADMIN should sit at bit 3, got %d ok=%v", bit, ok)
	}
}

func TestRegistryRegisterCustom(t *testing.T) {
	r := NewRegistry()

	bit, err := r.Register("publish")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if bit != 5 {
		t.Fatalf("first custom permission should take bit 5, got %d", bit)
	}

	m, err := r.FromNames("PUBLISH", "read")
	if err != nil {
		t.Fatalf("FromNames: %v", err)
	}
	if !m.Contains(Read) || !m.Contains(Mask(1)<<5) {
		t.Fatalf("mask missing bits: %v", m)
	}

	names := r.ToNames(m)
	if len(names) != 2 || names[0] != "READ" || names[1] != "PUBLISH" {
		t.Fatalf("ToNames order wrong: %v", names)
	}
}

func TestRegistryDuplicateAndEmpty(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Register("READ"); err == nil {
		t.Fatal("registering a builtin name again must fail")
	}
	if _, err := r.Register("  "); err == nil {
		t.Fatal("blank name must fail")
	}
}

func TestRegistryFreeze(t *testing.T) {
	r := NewRegistry()
	r.Freeze()

	if _, err := r.Register("late"); !errors.Is(err, ErrRegistryFrozen) {
		t.Fatalf("frozen registry must reject registration, got %v", err)
	}
	// Lookups still work after freeze.
	if _, ok := r.Bit("WRITE"); !ok {
		t.Fatal("lookup must survive freeze")
	}
}

func TestRegistryUnknownRuntimeName(t *testing.T) {
	r := NewRegistry()
	r.Freeze()

	_, err := r.FromNames("GHOST")
	if !errors.Is(err, ErrUnknownPermission) {
		t.Fatalf("want ErrUnknownPermission, got %v", err)
	}
}
