package validate

import "testing"

func TestPhone(t *testing.T) {
	valid := []string{"+15551234567", "+237650000000", "+4915112345678"}
	for _, p := range valid {
		if !Phone(p) {
			t.Errorf("expected %q to be valid", p)
		}
	}
	invalid := []string{"", "15551234567", "+05551234567", "+1555123456789012345", "+1 555 1234567"}
	for _, p := range invalid {
		if Phone(p) {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}

func TestID(t *testing.T) {
	if !ID("550e8400-e29b-41d4-a716-446655440000") {
		t.Error("expected uuid to be valid")
	}
	invalid := []string{"", "550E8400-E29B-41D4-A716-446655440000", "550e8400e29b41d4a716446655440000", "not-a-uuid"}
	for _, id := range invalid {
		if ID(id) {
			t.Errorf("expected %q to be invalid", id)
		}
	}
}

func TestCode(t *testing.T) {
	if !Code("123456") || !Code("000000") {
		t.Error("expected 6-digit codes to be valid")
	}
	for _, c := range []string{"", "12345", "1234567", "12345a"} {
		if Code(c) {
			t.Errorf("expected %q to be invalid", c)
		}
	}
}

func TestOp(t *testing.T) {
	for _, op := range []string{OpRead, OpVerify, OpRemove} {
		if !Op(op) {
			t.Errorf("expected op %q to be valid", op)
		}
	}
	if Op("") || Op("delete") {
		t.Error("expected unknown ops to be invalid")
	}
}

func TestPIN(t *testing.T) {
	if !PIN("1234") {
		t.Error("expected 4-char PIN to be valid")
	}
	if PIN("") || PIN("123") {
		t.Error("expected short PINs to be invalid")
	}
}
