package chat

import (
	"path/filepath"
	"testing"
)

func TestHistory_AddAndGet(t *testing.T) {
	h := NewHistory("")
	h.Add("first")
	h.Add("second")
	h.Add("third")

	if got := h.Get(0); got != "third" {
		t.Errorf("Get(0) = %q, want third", got)
	}
	if got := h.Get(2); got != "first" {
		t.Errorf("Get(2) = %q, want first", got)
	}
	if got := h.Get(3); got != "" {
		t.Errorf("Get(3) = %q, want empty", got)
	}
	if got := h.Get(-1); got != "" {
		t.Errorf("Get(-1) = %q, want empty", got)
	}
}

func TestHistory_SizeCap(t *testing.T) {
	h := NewHistory("")
	for i := 0; i < historyMax+10; i++ {
		h.Add("line")
	}
	if h.Len() != historyMax {
		t.Errorf("Len() = %d, want %d", h.Len(), historyMax)
	}
}

func TestHistory_SaveAndLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sub", "history")

	h := NewHistory(file)
	h.Add("hello")
	h.Add("/status")
	if err := h.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded := NewHistory(file)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", loaded.Len())
	}
	if got := loaded.Get(0); got != "/status" {
		t.Errorf("Get(0) = %q, want /status", got)
	}
}

func TestHistory_LoadMissingFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "nope"))
	if err := h.Load(); err != nil {
		t.Errorf("Load() on missing file: %v", err)
	}
}

func TestHistory_InMemoryOnly(t *testing.T) {
	h := NewHistory("")
	h.Add("line")
	if err := h.Save(); err != nil {
		t.Errorf("Save() with no file: %v", err)
	}
	if err := h.Load(); err != nil {
		t.Errorf("Load() with no file: %v", err)
	}
}
