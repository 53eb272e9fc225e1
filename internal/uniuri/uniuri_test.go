package uniuri

import (
	"testing"
)

func TestNew(t *testing.T) {
	s := New()
	if len(s) != StdLen {
		t.Fatalf("New() returned %d characters, want %d", len(s), StdLen)
	}
}

func TestNewEntityID(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		id := NewEntityID()

		if len(id) != EntityIDLen {
			t.Fatalf("NewEntityID() returned %d characters, want %d", len(id), EntityIDLen)
		}

		for _, c := range id {
			if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
				t.Fatalf("NewEntityID() returned non-hex character %q in %q", c, id)
			}
		}

		if seen[id] {
			t.Fatalf("NewEntityID() returned duplicate id %q", id)
		}

		seen[id] = true
	}
}

func TestNewLenChars(t *testing.T) {
	s := NewLenChars(64, HexChars)
	if len(s) != 64 {
		t.Fatalf("NewLenChars(64) returned %d characters, want 64", len(s))
	}
}

func TestNewLenCharsRejectsBadCharset(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for single-character charset")
		}
	}()

	_ = NewLenChars(8, []byte("a"))
}
