package bus

import (
	"bytes"
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestBus_ResetSeedsFont(t *testing.T) {
	b := New()
	b.Write(0x300, 0xAA)
	b.Write(FontBase, 0x00)

	b.Reset()

	assert.Equal(t, byte(0xF0), b.Read(FontBase))
	assert.Equal(t, byte(0x80), b.Read(FontAddress(0xF)+4))
	assert.Equal(t, byte(0x00), b.Read(0x300))
	// font ends at 0x4F, the rest of the reserved area stays zero
	assert.Equal(t, byte(0x00), b.Read(FontBase+FontGlyphs*FontSpriteSize))
}

func TestBus_FontAddress(t *testing.T) {
	assert.Equal(t, uint16(0), FontAddress(0))
	assert.Equal(t, uint16(5), FontAddress(1))
	assert.Equal(t, uint16(75), FontAddress(0xF))
}

func TestBus_ReadWriteOutOfRange(t *testing.T) {
	b := New()
	b.Write(MaxAddress, 0x12)
	assert.Equal(t, byte(0x12), b.Read(MaxAddress))

	b.Write(MemorySize, 0x34)
	assert.Equal(t, byte(0), b.Read(MemorySize))
}

func TestBus_Word(t *testing.T) {
	b := New()
	b.Write(0x200, 0xA2)
	b.Write(0x201, 0x2A)

	w, err := b.Word(0x200)
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xA22A), w)

	_, err = b.Word(MaxAddress)
	assert.True(t, errors.Is(err, ErrAddressOutOfRange))
}

func TestBus_StoreAndSlice(t *testing.T) {
	b := New()
	assert.NoError(t, b.Store(0x500, []byte{1, 2, 3}))

	got, err := b.Slice(0x500, 3)
	assert.NoError(t, err)
	assert.True(t, bytes.Equal([]byte{1, 2, 3}, got))

	err = b.Store(0xFFE, []byte{9, 9, 9})
	assert.True(t, errors.Is(err, ErrAddressOutOfRange))
	assert.Equal(t, byte(0), b.Read(0xFFE))

	_, err = b.Slice(0xFFF, 2)
	assert.True(t, errors.Is(err, ErrAddressOutOfRange))

	_, err = b.Slice(0xFFF, 1)
	assert.NoError(t, err)
}

func TestBus_LoadProgram(t *testing.T) {
	tests := []struct {
		name    string
		words   int
		wantErr bool
	}{
		{"empty", 0, false},
		{"single word", 1, false},
		{"fills memory", (MemorySize - ProgramStart) / 2, false},
		{"one word too many", (MemorySize-ProgramStart)/2 + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			words := make([]uint16, tt.words)
			for i := range words {
				words[i] = uint16(0x1000 + i)
			}

			err := b.LoadProgram(words)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrProgramTooLarge))
				assert.Equal(t, byte(0), b.Read(ProgramStart))
				return
			}
			assert.NoError(t, err)
			for i, w := range words {
				addr := uint16(ProgramStart + 2*i)
				assert.Equal(t, byte(w>>8), b.Read(addr))
				assert.Equal(t, byte(w), b.Read(addr+1))
			}
		})
	}
}
