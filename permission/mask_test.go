package permission

import (
	"errors"
	"testing"
)

func TestCombineAndContains(t *testing.T) {
	m := Combine(Read, Write)

	if !m.Contains(Read) {
		t.Fatal("combined mask should contain READ")
	}
	if !m.Contains(Read | Write) {
		t.Fatal("combined mask should contain READ|WRITE")
	}
	if m.Contains(Read | Delete) {
		t.Fatal("mask must require every bit, DELETE is absent")
	}
	if !m.Contains(0) {
		t.Fatal("empty requirement is always contained")
	}
}

func TestFullCoversAllBuiltins(t *testing.T) {
	for name, bit := range builtinNames {
		if !Full.Contains(bit) {
			t.Fatalf("Full must contain %s", name)
		}
	}
}

func TestFromNames(t *testing.T) {
	m, err := FromNames("read", "WRITE")
	if err != nil {
		t.Fatalf("FromNames: %v", err)
	}
	if m != Read|Write {
		t.Fatalf("got mask %v, want READ|WRITE", m)
	}

	_, err = FromNames("READ", "TELEPORT")
	if !errors.Is(err, ErrUnknownPermission) {
		t.Fatalf("unknown name must wrap ErrUnknownPermission, got %v", err)
	}
}

func TestNamesRoundTrip(t *testing.T) {
	names := (Read | Delete | Admin).Names()
	if len(names) != 3 {
		t.Fatalf("got %d names, want 3", len(names))
	}
	m, err := FromNames(names...)
	if err != nil {
		t.Fatalf("FromNames: %v", err)
	}
	if m != Read|Delete|Admin {
		t.Fatalf("round trip mismatch: %v", m)
	}
}

func TestMaskString(t *testing.T) {
	if Mask(0).String() != "none" {
		t.Fatalf("zero mask should render as none, got %q", Mask(0).String())
	}
	if got := (Read | Write).String(); got != "READ,WRITE" {
		t.Fatalf("got %q", got)
	}
}
