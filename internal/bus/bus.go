package bus

import (
	"errors"
	"fmt"
)

// Memory map: font sprites at 0x000, programs from 0x200 up to 0xFFF.
const (
	MemorySize   = 0x1000
	MaxAddress   = MemorySize - 1
	ProgramStart = 0x200
)

var (
	// ErrAddressOutOfRange is returned for any access that would cross 0xFFF.
	ErrAddressOutOfRange = errors.New("address out of range")
	// ErrProgramTooLarge is returned when a program does not fit between ProgramStart and 0xFFF.
	ErrProgramTooLarge = errors.New("program too large")
)

// Bus owns the 4KB address space of the interpreter.
type Bus struct {
	mem [MemorySize]byte
}

// New returns a bus with zeroed memory and the font region seeded.
func New() *Bus {
	b := &Bus{}
	b.Reset()
	return b
}

// Reset zeroes all memory and re-seeds the hex digit font.
func (b *Bus) Reset() {
	clear(b.mem[:])
	copy(b.mem[FontBase:], fontSprites[:])
}

// Read returns the byte at addr. Reads past 0xFFF return 0.
func (b *Bus) Read(addr uint16) byte {
	if addr > MaxAddress {
		return 0
	}
	return b.mem[addr]
}

// Write stores v at addr. Writes past 0xFFF are dropped.
func (b *Bus) Write(addr uint16, v byte) {
	if addr > MaxAddress {
		return
	}
	b.mem[addr] = v
}

// Word reads a big-endian 16-bit word at addr and addr+1.
func (b *Bus) Word(addr uint16) (uint16, error) {
	if err := checkRange(addr, 2); err != nil {
		return 0, err
	}
	return uint16(b.mem[addr])<<8 | uint16(b.mem[addr+1]), nil
}

// Slice returns n bytes starting at addr. The returned slice aliases memory.
func (b *Bus) Slice(addr uint16, n int) ([]byte, error) {
	if err := checkRange(addr, n); err != nil {
		return nil, err
	}
	return b.mem[int(addr) : int(addr)+n], nil
}

// Store copies data into memory starting at addr. Nothing is written if
// the range would cross the end of memory.
func (b *Bus) Store(addr uint16, data []byte) error {
	if err := checkRange(addr, len(data)); err != nil {
		return err
	}
	copy(b.mem[addr:], data)
	return nil
}

// LoadProgram writes words big-endian starting at ProgramStart.
func (b *Bus) LoadProgram(words []uint16) error {
	if ProgramStart+2*len(words) > MemorySize {
		return fmt.Errorf("%w: %d words from %#03x exceed %#03x",
			ErrProgramTooLarge, len(words), ProgramStart, MaxAddress)
	}
	addr := ProgramStart
	for _, w := range words {
		b.mem[addr] = byte(w >> 8)
		b.mem[addr+1] = byte(w)
		addr += 2
	}
	return nil
}

func checkRange(addr uint16, n int) error {
	if n < 0 || int(addr)+n > MemorySize {
		return fmt.Errorf("%w: %d bytes at %#03x", ErrAddressOutOfRange, n, addr)
	}
	return nil
}
