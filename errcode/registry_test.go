package errcode

import "testing"

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	err := New(11, 1, "config", "error.config.a", "a")

	r.Register(err)
	r.Register(err) // idempotent

	if r.Count() != 1 {
		t.Errorf("Count() = %d, want 1", r.Count())
	}
	key, ok := r.Lookup(110001)
	if !ok || key != "config:error.config.a" {
		t.Errorf("Lookup = %q, %v", key, ok)
	}
}

func TestRegistry_Conflict(t *testing.T) {
	r := NewRegistry()
	r.Register(New(11, 1, "config", "error.config.a", "a"))

	defer func() {
		if recover() == nil {
			t.Error("expected panic on conflicting code")
		}
	}()
	r.Register(New(11, 1, "config", "error.config.b", "b"))
}

func TestRegistry_Locked(t *testing.T) {
	r := NewRegistry()
	r.Lock()

	defer func() {
		if recover() == nil {
			t.Error("expected panic on locked registry")
		}
	}()
	r.Register(New(11, 1, "config", "error.config.a", "a"))
}
