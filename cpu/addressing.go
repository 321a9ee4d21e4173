package cpu

// addrMode functions compute the effective address for the
// instruction about to execute and report whether the addressing mode
// itself is willing to contribute a page-cross penalty cycle (spec
// §4.1: "may cost +1 cycle if operation agrees" — ANDed against the
// operation's own extra-cycle flag in Clock).

func pageCrossed(a, b uint16) uint8 {
	if a&0xFF00 != b&0xFF00 {
		return 1
	}
	return 0
}

func read16ZeroPage(c *CPU, addr uint8) uint16 {
	lo := uint16(c.read(uint16(addr)))
	hi := uint16(c.read(uint16(addr + 1))) // wraps within the zero page
	return hi<<8 | lo
}

// addrIMP covers both the implicit and accumulator forms: the fetch
// rule (spec §4.1) reads/writes A whenever implied is set.
func addrIMP(c *CPU) uint8 {
	c.implied = true
	return 0
}

func addrIMM(c *CPU) uint8 {
	c.addrAbs = c.PC
	c.PC++
	return 0
}

func addrZP0(c *CPU) uint8 {
	c.addrAbs = uint16(c.read(c.PC))
	c.PC++
	return 0
}

func addrZPX(c *CPU) uint8 {
	c.addrAbs = uint16(c.read(c.PC) + c.X)
	c.PC++
	return 0
}

func addrZPY(c *CPU) uint8 {
	c.addrAbs = uint16(c.read(c.PC) + c.Y)
	c.PC++
	return 0
}

func addrABS(c *CPU) uint8 {
	c.addrAbs = c.read16(c.PC)
	c.PC += 2
	return 0
}

func addrABX(c *CPU) uint8 {
	base := c.read16(c.PC)
	c.PC += 2
	c.addrAbs = base + uint16(c.X)
	return pageCrossed(base, c.addrAbs)
}

func addrABY(c *CPU) uint8 {
	base := c.read16(c.PC)
	c.PC += 2
	c.addrAbs = base + uint16(c.Y)
	return pageCrossed(base, c.addrAbs)
}

// addrIND reproduces the classic 6502 page-wrap bug: if the pointer's
// low byte is $FF, the high byte of the target is fetched from the
// start of the same page instead of the next one.
func addrIND(c *CPU) uint8 {
	ptr := c.read16(c.PC)
	c.PC += 2

	var hi uint16
	if ptr&0x00FF == 0x00FF {
		hi = uint16(c.read(ptr & 0xFF00))
	} else {
		hi = uint16(c.read(ptr + 1))
	}
	lo := uint16(c.read(ptr))
	c.addrAbs = hi<<8 | lo
	return 0
}

func addrIZX(c *CPU) uint8 {
	t := c.read(c.PC)
	c.PC++
	c.addrAbs = read16ZeroPage(c, t+c.X)
	return 0
}

func addrIZY(c *CPU) uint8 {
	t := c.read(c.PC)
	c.PC++
	base := read16ZeroPage(c, t)
	c.addrAbs = base + uint16(c.Y)
	return pageCrossed(base, c.addrAbs)
}

func addrREL(c *CPU) uint8 {
	off := c.read(c.PC)
	c.PC++
	c.addrRel = uint16(int8(off))
	c.addrAbs = c.PC + c.addrRel
	return 0
}
