// Package ppu implements the 2C02 picture-processing unit: a per-dot
// state machine producing one pixel of a 256x240 framebuffer per
// clock, driving background tile fetch, sprite evaluation, scrolling,
// and NMI generation at the start of vertical blank.
package ppu

import (
	"fmt"

	"github.com/dkhalsa/nescore/mappers"
)

const (
	VRAM_SIZE    = 2048
	OAM_SIZE     = 256
	PALETTE_SIZE = 32
)

const (
	ScreenWidth  = 256
	ScreenHeight = 240
)

// CPU-visible register offsets, $2000-$2007 (mirrored every 8 bytes
// through $3FFF) plus the OAM DMA trigger living in CPU space at
// $4014 but serviced by the bus, not here.
const (
	PPUCTRL   = 0x2000
	PPUMASK   = 0x2001
	PPUSTATUS = 0x2002
	OAMADDR   = 0x2003
	OAMDATA   = 0x2004
	PPUSCROLL = 0x2005
	PPUADDR   = 0x2006
	PPUDATA   = 0x2007
)

// PPUCTRL bit flags.
// 7  bit  0
// ---- ----
// VPHB SINN
// |||| ||||
// |||| ||++- Base nametable address
// |||| |+--- VRAM address increment per CPU read/write of PPUDATA
// |||| +---- Sprite pattern table address for 8x8 sprites
// |||+------ Background pattern table address
// ||+------- Sprite size (0: 8x8; 1: 8x16)
// |+-------- PPU master/slave select
// +--------- Generate an NMI at the start of vblank
const (
	CTRL_NAMETABLE_X            = 1 << 0
	CTRL_NAMETABLE_Y            = 1 << 1
	CTRL_VRAM_ADD_INCREMENT     = 1 << 2
	CTRL_SPRITE_PATTERN_ADDR    = 1 << 3
	CTRL_BACKROUND_PATTERN_ADDR = 1 << 4
	CTRL_SPRITE_SIZE            = 1 << 5
	CTRL_MASTER_SLAVE_SELECT    = 1 << 6
	CTRL_GENERATE_NMI           = 1 << 7
)

const (
	CTRL_INCR_ACROSS = 1
	CTRL_INCR_DOWN   = 32
)

// PPUMASK bit flags.
const (
	MASK_GRAYSCALE        = 1 << 0
	MASK_SHOW_BG_LEFT     = 1 << 1
	MASK_SHOW_SPRITE_LEFT = 1 << 2
	MASK_SHOW_BG          = 1 << 3
	MASK_SHOW_SPRITES     = 1 << 4
	MASK_EMPHASIZE_R      = 1 << 5
	MASK_EMPHASIZE_G      = 1 << 6
	MASK_EMPHASIZE_B      = 1 << 7
)

// PPUSTATUS bit flags.
const (
	STATUS_SPRITE_OVERFLOW = 1 << 5
	STATUS_SPRITE_0_HIT    = 1 << 6
	STATUS_VERTICAL_BLANK  = 1 << 7
)

// Bus is the PPU's only window onto cartridge CHR memory and
// mirroring mode; nametable RAM and palette RAM live inside the PPU
// itself. NMI delivery is not a bus callback — it's a one-shot flag
// the bus consumes after each tick via TakeNMI (spec §5, "NMI is a
// one-shot boolean on the PPU consumed by the Bus").
type Bus interface {
	ChrRead(addr uint16) uint8
	ChrWrite(addr uint16, val uint8)
	Mirroring() mappers.Mirroring
}

type PPU struct {
	bus Bus

	ctrl, mask, status uint8
	oamAddr            uint8

	v, t       loopy
	fineX      uint8
	latch      bool
	readBuffer uint8

	nametable [VRAM_SIZE]uint8
	palette   [PALETTE_SIZE]uint8
	oamData   [OAM_SIZE]uint8

	sprites     [8]spriteSlot
	spriteCount int

	scanline int
	dot      int
	frameOdd bool

	frameComplete bool
	nmiOccurred   bool

	bgNextID, bgNextAttrib, bgNextLSB, bgNextMSB uint8
	bgShiftPatternLo, bgShiftPatternHi           uint16
	bgShiftAttribLo, bgShiftAttribHi             uint16

	framebuffer [ScreenHeight][ScreenWidth][3]uint8
}

func New(b Bus) *PPU {
	return &PPU{bus: b, scanline: -1}
}

// Reset reinitializes PPU register/scan state; VRAM, OAM, and palette
// contents are left untouched (spec §3 lifecycle).
func (p *PPU) Reset() {
	p.ctrl, p.mask, p.status = 0, 0, 0
	p.oamAddr = 0
	p.v, p.t = loopy{}, loopy{}
	p.fineX = 0
	p.latch = false
	p.readBuffer = 0
	p.scanline, p.dot = -1, 0
	p.frameOdd = false
	p.spriteCount = 0
}

func (p *PPU) Frame() *[ScreenHeight][ScreenWidth][3]uint8 { return &p.framebuffer }

// Scanline and Dot expose scan position for mapper IRQ counters that
// clock off PPU address activity (spec §4.3 mapper IRQ note).
func (p *PPU) Scanline() int { return p.scanline }
func (p *PPU) Dot() int      { return p.dot }

// TakeNMI reports and clears the one-shot NMI-request flag the PPU
// raised at dot 1 of scanline 241.
func (p *PPU) TakeNMI() bool {
	v := p.nmiOccurred
	p.nmiOccurred = false
	return v
}

// TakeFrameComplete reports and clears the one-shot flag set when the
// scanline counter wraps back to -1.
func (p *PPU) TakeFrameComplete() bool {
	v := p.frameComplete
	p.frameComplete = false
	return v
}

// GetOAM and SetOAM give the bus byte-addressed access to OAM for
// OAM DMA, which writes all 256 bytes in address order rather than
// through the OAMADDR auto-increment path; $2004 reads/writes go
// through ReadRegister/WriteRegister instead.
func (p *PPU) GetOAM(addr uint8) uint8      { return p.oamData[addr] }
func (p *PPU) SetOAM(addr uint8, val uint8) { p.oamData[addr] = val }

func (p *PPU) renderingEnabled() bool {
	return p.mask&(MASK_SHOW_BG|MASK_SHOW_SPRITES) != 0
}

// ReadRegister services a CPU read of $2000-$2007 (mirrored via addr&7).
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr & 7 {
	case 2: // PPUSTATUS
		v := (p.status & 0xE0) | (p.readBuffer & 0x1F)
		p.status &^= STATUS_VERTICAL_BLANK
		p.latch = false
		return v
	case 4: // OAMDATA
		return p.oamData[p.oamAddr]
	case 7: // PPUDATA
		return p.readPPUDATA()
	default:
		return 0
	}
}

// WriteRegister services a CPU write of $2000-$2007.
func (p *PPU) WriteRegister(addr uint16, val uint8) {
	switch addr & 7 {
	case 0: // PPUCTRL
		p.ctrl = val
		p.t.setNametableX(uint16(val))
		p.t.setNametableY(uint16(val) >> 1)
	case 1: // PPUMASK
		p.mask = val
	case 3: // OAMADDR
		p.oamAddr = val
	case 4: // OAMDATA
		p.oamData[p.oamAddr] = val
		p.oamAddr++
	case 5: // PPUSCROLL
		if !p.latch {
			p.fineX = val & 0x07
			p.t.setCoarseX(uint16(val) >> 3)
		} else {
			p.t.setFineY(uint16(val))
			p.t.setCoarseY(uint16(val) >> 3)
		}
		p.latch = !p.latch
	case 6: // PPUADDR
		if !p.latch {
			p.t.data = (p.t.data & 0x00FF) | (uint16(val&0x3F) << 8)
		} else {
			p.t.data = (p.t.data & 0xFF00) | uint16(val)
			p.v = p.t
		}
		p.latch = !p.latch
	case 7: // PPUDATA
		p.write(p.v.data&0x3FFF, val)
		p.incrementVRAMAddr()
	}
}

func (p *PPU) readPPUDATA() uint8 {
	addr := p.v.data & 0x3FFF
	fetched := p.read(addr)

	var out uint8
	if addr >= 0x3F00 {
		out = fetched // palette reads are not delayed
	} else {
		out = p.readBuffer
	}
	p.readBuffer = fetched
	p.incrementVRAMAddr()
	return out
}

func (p *PPU) incrementVRAMAddr() {
	if p.ctrl&CTRL_VRAM_ADD_INCREMENT != 0 {
		p.v.data += CTRL_INCR_DOWN
	} else {
		p.v.data += CTRL_INCR_ACROSS
	}
}

// --- VRAM/palette address space ($0000-$3FFF as seen by the PPU) ---

func (p *PPU) read(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		return p.bus.ChrRead(addr)
	case addr < 0x3F00:
		return p.nametable[p.mirroredNametableAddr(addr)]
	default:
		return p.palette[paletteAddr(addr)]
	}
}

func (p *PPU) write(addr uint16, val uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		p.bus.ChrWrite(addr, val)
	case addr < 0x3F00:
		p.nametable[p.mirroredNametableAddr(addr)] = val
	default:
		p.palette[paletteAddr(addr)] = val
	}
}

func paletteAddr(addr uint16) uint16 {
	a := (addr - 0x3F00) % 0x20
	switch a {
	case 0x10, 0x14, 0x18, 0x1C:
		a -= 0x10
	}
	return a
}

func (p *PPU) mirroredNametableAddr(addr uint16) uint16 {
	a := (addr - 0x2000) % 0x1000
	table := a / 0x400
	offset := a % 0x400
	switch p.bus.Mirroring() {
	case mappers.MirrorVertical:
		return (table%2)*0x400 + offset
	case mappers.MirrorHorizontal:
		return (table/2)*0x400 + offset
	case mappers.MirrorOneScreenLo:
		return offset
	case mappers.MirrorOneScreenHi:
		return 0x400 + offset
	default:
		panic("four-screen mirroring needs mapper-supplied nametable RAM, not supported")
	}
}

func (p *PPU) String() string {
	return fmt.Sprintf("scanline=%d dot=%d ctrl=%02X mask=%02X status=%02X", p.scanline, p.dot, p.ctrl, p.mask, p.status)
}
