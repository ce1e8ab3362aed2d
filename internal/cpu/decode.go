package cpu

// Opcode is a 16-bit instruction word split into nibble fields.
type Opcode uint16

// Group returns the high nibble that selects the instruction family.
func (o Opcode) Group() byte { return byte(o >> 12) }

// X returns the first register operand.
func (o Opcode) X() byte { return byte(o>>8) & 0x0F }

// Y returns the second register operand.
func (o Opcode) Y() byte { return byte(o>>4) & 0x0F }

// N returns the low nibble.
func (o Opcode) N() byte { return byte(o) & 0x0F }

// NN returns the low byte.
func (o Opcode) NN() byte { return byte(o) }

// NNN returns the 12-bit address operand.
func (o Opcode) NNN() uint16 { return uint16(o) & 0x0FFF }

// IsSelfJump reports whether op, fetched from pc, is a jump to itself.
// Finished programs commonly park in such a loop.
func IsSelfJump(pc, op uint16) bool {
	o := Opcode(op)
	return o.Group() == 0x1 && o.NNN() == pc
}
