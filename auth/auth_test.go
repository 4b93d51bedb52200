package auth

import (
	"strings"
	"testing"
)

func TestGenerateHostKeyDeterministic(t *testing.T) {
	k1 := GenerateHostKey("ABC234", "salt")
	k2 := GenerateHostKey("ABC234", "salt")
	if k1 != k2 {
		t.Errorf("host key not deterministic: %q vs %q", k1, k2)
	}
	if k1 == GenerateHostKey("ABC235", "salt") {
		t.Error("different poll IDs produced the same host key")
	}
	if k1 == GenerateHostKey("ABC234", "other-salt") {
		t.Error("different salts produced the same host key")
	}
}

func TestValidateHostKey(t *testing.T) {
	key := GenerateHostKey("ABC234", "salt")

	if err := ValidateHostKey("ABC234", key, "salt"); err != nil {
		t.Errorf("valid key rejected: %v", err)
	}
	if err := ValidateHostKey("ABC234", "bogus", "salt"); err != ErrInvalidHostKey {
		t.Errorf("expected ErrInvalidHostKey, got %v", err)
	}
	if err := ValidateHostKey("XYZ789", key, "salt"); err != ErrInvalidHostKey {
		t.Errorf("key for another poll accepted: %v", err)
	}
}

func TestGeneratePollCode(t *testing.T) {
	code, err := GeneratePollCode(6)
	if err != nil {
		t.Fatalf("GeneratePollCode failed: %v", err)
	}
	if len(code) != 6 {
		t.Errorf("expected 6-character code, got %q", code)
	}
	for _, c := range code {
		if !strings.ContainsRune(pollCodeChars, c) {
			t.Errorf("code %q contains character outside alphabet: %c", code, c)
		}
	}

	// Collisions over a handful of draws would indicate broken randomness.
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		c, err := GeneratePollCode(6)
		if err != nil {
			t.Fatalf("GeneratePollCode failed: %v", err)
		}
		if seen[c] {
			t.Fatalf("duplicate poll code generated: %q", c)
		}
		seen[c] = true
	}
}

func TestNewSessionID(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()
	if a == b {
		t.Error("session IDs must be unique")
	}
	if !strings.HasPrefix(a, "s_") {
		t.Errorf("unexpected session ID format: %q", a)
	}
}
