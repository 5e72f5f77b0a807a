package rom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/is386/i8080invaders/memory"
)

func writeBank(t *testing.T, dir, name string, fill byte) {
	t.Helper()
	data := make([]byte, bankSize)
	for i := range data {
		data[i] = fill
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadSetAndLoadInto(t *testing.T) {
	dir := t.TempDir()
	writeBank(t, dir, "invaders.h", 0x11)
	writeBank(t, dir, "invaders.g", 0x22)
	writeBank(t, dir, "invaders.f", 0x33)
	writeBank(t, dir, "invaders.e", 0x44)

	set, err := LoadSet(dir)
	if err != nil {
		t.Fatal(err)
	}

	mem := memory.New()
	set.LoadInto(mem)

	if got := mem.Read8(0x0000); got != 0x11 {
		t.Fatalf("bank h: got %#02x, want 0x11", got)
	}
	if got := mem.Read8(0x0800); got != 0x22 {
		t.Fatalf("bank g: got %#02x, want 0x22", got)
	}
	if got := mem.Read8(0x1000); got != 0x33 {
		t.Fatalf("bank f: got %#02x, want 0x33", got)
	}
	if got := mem.Read8(0x1800); got != 0x44 {
		t.Fatalf("bank e: got %#02x, want 0x44", got)
	}
}

func TestLoadSetMissingFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadSet(dir); err == nil {
		t.Fatal("expected error for missing ROM files")
	}
}

func TestLoadSetWrongSize(t *testing.T) {
	dir := t.TempDir()
	writeBank(t, dir, "invaders.h", 0x11)
	writeBank(t, dir, "invaders.g", 0x22)
	writeBank(t, dir, "invaders.f", 0x33)
	if err := os.WriteFile(filepath.Join(dir, "invaders.e"), []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSet(dir); err == nil {
		t.Fatal("expected error for wrong-sized ROM file")
	}
}
