// Package rom loads the four fixed ROM images the cabinet boots from.
// The teacher's CPU.LoadRom read a single named file and panicked on
// any error (i8080/cpu.go); here loading is lifted out of the Cpu
// entirely, covers all four named files with the base-address table
// from spec.md §6, and returns wrapped errors instead of panicking so
// main can report a clean startup failure.
package rom

import (
	"os"

	"github.com/pkg/errors"

	"github.com/is386/i8080invaders/memory"
)

// bankSize is the fixed size every ROM file must be.
const bankSize = 2048

// file names and base load addresses, in load order.
var files = []struct {
	name string
	base uint16
}{
	{"invaders.h", 0x0000},
	{"invaders.g", 0x0800},
	{"invaders.f", 0x1000},
	{"invaders.e", 0x1800},
}

// Set holds the four loaded ROM banks, each still tagged with its
// load address.
type Set struct {
	banks []bank
}

type bank struct {
	base uint16
	data []byte
}

// LoadSet reads the four named ROM files out of dir, failing if any
// is missing, unreadable, or not exactly bankSize bytes.
func LoadSet(dir string) (*Set, error) {
	s := &Set{}
	for _, f := range files {
		path := dir + string(os.PathSeparator) + f.name
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read rom %s", f.name)
		}
		if len(data) != bankSize {
			return nil, errors.Errorf("rom %s: got %d bytes, want %d", f.name, len(data), bankSize)
		}
		s.banks = append(s.banks, bank{base: f.base, data: data})
	}
	return s, nil
}

// LoadInto writes every bank into mem at its fixed base address.
func (s *Set) LoadInto(mem *memory.Memory) {
	for _, b := range s.banks {
		mem.LoadROM(b.base, b.data)
	}
}
