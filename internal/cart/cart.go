package cart

import (
	"errors"
	"fmt"
	"hash/crc32"
	"os"

	"github.com/FabianRolfMatthiasNoll/Chip8Emulator/internal/bus"
)

// MaxSize is the largest image that fits between the program origin and the end of memory.
const MaxSize = bus.MemorySize - bus.ProgramStart

var (
	ErrEmpty    = errors.New("program image is empty")
	ErrTooLarge = errors.New("program image too large")
)

// Image is a program split into instruction words.
type Image struct {
	Size  int      // raw byte length
	Words []uint16 // big-endian instruction words
	CRC32 uint32   // IEEE checksum of the raw bytes
}

// Parse splits rom into big-endian instruction words. A trailing odd byte
// becomes the high byte of a final word padded with 0x00.
func Parse(rom []byte) (*Image, error) {
	if len(rom) == 0 {
		return nil, ErrEmpty
	}
	if len(rom) > MaxSize {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrTooLarge, len(rom), MaxSize)
	}

	words := make([]uint16, (len(rom)+1)/2)
	for i := range words {
		hi := rom[2*i]
		var lo byte
		if 2*i+1 < len(rom) {
			lo = rom[2*i+1]
		}
		words[i] = uint16(hi)<<8 | uint16(lo)
	}

	return &Image{
		Size:  len(rom),
		Words: words,
		CRC32: crc32.ChecksumIEEE(rom),
	}, nil
}

// LoadFile reads and parses the program image at path.
func LoadFile(path string) (*Image, error) {
	rom, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program image: %w", err)
	}
	img, err := Parse(rom)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return img, nil
}
