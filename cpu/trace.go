package cpu

import (
	"fmt"
	"reflect"
)

// operandByteCounts maps each addressing-mode function to how many
// operand bytes it consumes, keyed by the function's runtime address.
// This is purely a disassembly/trace concern — nothing on the
// Clock() hot path depends on it — so reaching for reflect here is a
// different trade than the reflection-based instruction *dispatch*
// spec §9 asks to avoid; it never drives which code executes.
var operandByteCounts = map[uintptr]uint8{}

func init() {
	set := func(f func(*CPU) uint8, n uint8) {
		operandByteCounts[reflect.ValueOf(f).Pointer()] = n
	}
	set(addrIMP, 0)
	set(addrIMM, 1)
	set(addrZP0, 1)
	set(addrZPX, 1)
	set(addrZPY, 1)
	set(addrABS, 2)
	set(addrABX, 2)
	set(addrABY, 2)
	set(addrIND, 2)
	set(addrIZX, 1)
	set(addrIZY, 1)
	set(addrREL, 1)
}

func operandBytes(mode func(*CPU) uint8) uint8 {
	return operandByteCounts[reflect.ValueOf(mode).Pointer()]
}

// Disassemble formats the instruction at pc as "AABB CC DD  MNEMONIC"
// without mutating CPU state; reads go straight to the bus, so it
// should not be used against live I/O registers with read side
// effects.
func (c *CPU) Disassemble(pc uint16) string {
	op := c.read(pc)
	inst := opcodeTable[op]
	n := operandBytes(inst.mode)

	hex := fmt.Sprintf("%02X", op)
	for i := uint8(0); i < n; i++ {
		hex += fmt.Sprintf(" %02X", c.read(pc+1+uint16(i)))
	}

	return fmt.Sprintf("%04X  %-8s  %s", pc, hex, inst.name)
}

// TraceLine renders one line in the golden nestest trace format:
// PC  OPBYTES  MNEMONIC  A:XX X:XX Y:XX P:XX SP:XX PPU:sss,ccc CYC:N
func (c *CPU) TraceLine(ppuScanline, ppuDot int) string {
	return fmt.Sprintf("%s  A:%02X X:%02X Y:%02X P:%02X SP:%02X PPU:%3d,%3d CYC:%d",
		c.Disassemble(c.PC), c.A, c.X, c.Y, c.P, c.SP, ppuScanline, ppuDot, c.totalCycles)
}
