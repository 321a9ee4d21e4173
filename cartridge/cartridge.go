package cartridge

import (
	"fmt"
	"os"

	"github.com/dkhalsa/nescore/mappers"
)

const (
	trainerSize  = 512
	prgBankSize  = 16384
	chrBankSize  = 8192
	prgRAMSize   = 0x2000 // $6000-$7FFF
)

// Cartridge holds a loaded ROM's PRG and CHR memory and the mapper
// attached to it. CPU- and PPU-side reads/writes both funnel through
// here: the mapper only ever returns an offset, Cartridge owns and
// indexes the actual bytes.
type Cartridge struct {
	h       *header
	trainer []byte
	prg     []byte
	chr     []byte // ROM or RAM, depending on h.chrSize
	prgRAM  []byte
	mapper  mappers.Mapper
}

// Load reads and parses an iNES ROM file from path.
func Load(path string) (*Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ROM %q: %w", path, err)
	}
	defer f.Close()

	hb := make([]byte, 16)
	if n, err := f.Read(hb); n != 16 || err != nil {
		return nil, fmt.Errorf("reading header of %q: %w", path, err)
	}

	h, err := parseHeader(hb)
	if err != nil {
		return nil, fmt.Errorf("parsing header of %q: %w", path, err)
	}

	c := &Cartridge{h: h, prgRAM: make([]byte, prgRAMSize)}

	if h.hasTrainer() {
		c.trainer = make([]byte, trainerSize)
		if n, err := f.Read(c.trainer); n != trainerSize || err != nil {
			return nil, fmt.Errorf("reading trainer of %q: %w", path, err)
		}
	}

	prgLen := prgBankSize * int(h.prgSize)
	c.prg = make([]byte, prgLen)
	if n, err := f.Read(c.prg); n != prgLen || err != nil {
		return nil, fmt.Errorf("reading PRG ROM of %q (got %d, want %d): %w", path, n, prgLen, err)
	}

	chrLen := chrBankSize * int(h.chrSize)
	if chrLen == 0 {
		chrLen = chrBankSize // CHR RAM: one 8 KiB bank
	}
	c.chr = make([]byte, chrLen)
	if h.chrSize > 0 {
		if n, err := f.Read(c.chr); n != chrLen || err != nil {
			return nil, fmt.Errorf("reading CHR ROM of %q (got %d, want %d): %w", path, n, chrLen, err)
		}
	}

	info := mappers.CartInfo{
		PRGBanks:  h.prgSize,
		CHRBanks:  h.chrSize,
		Mirroring: h.mirroring(),
		HasPRGRAM: h.hasPRGRAM(),
	}
	m, err := mappers.New(h.mapperID(), info)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	c.mapper = m

	return c, nil
}

func (c *Cartridge) String() string { return c.h.String() }

func (c *Cartridge) Reset() { c.mapper.Reset() }

func (c *Cartridge) Mirroring() mappers.Mirroring { return c.mapper.Mirroring() }

func (c *Cartridge) IRQPending() bool { return c.mapper.IRQPending() }
func (c *Cartridge) IRQClear()        { c.mapper.IRQClear() }
func (c *Cartridge) NotifyScanline()  { c.mapper.NotifyScanline() }

// CPURead services a CPU-side read in $4020-$FFFF.
func (c *Cartridge) CPURead(addr uint16) uint8 {
	off, ok := c.mapper.CPUMapRead(addr)
	if !ok {
		return 0
	}
	if addr >= 0x6000 && addr < 0x8000 {
		return c.prgRAM[off]
	}
	return c.prg[int(off)%len(c.prg)]
}

// CPUWrite services a CPU-side write in $4020-$FFFF.
func (c *Cartridge) CPUWrite(addr uint16, val uint8) {
	off, ok := c.mapper.CPUMapWrite(addr, val)
	if !ok {
		return
	}
	if addr >= 0x6000 && addr < 0x8000 {
		c.prgRAM[off] = val
		return
	}
	c.prg[int(off)%len(c.prg)] = val
}

// ChrRead services a PPU-side pattern-table read in $0000-$1FFF.
func (c *Cartridge) ChrRead(addr uint16) uint8 {
	off, ok := c.mapper.PPUMapRead(addr)
	if !ok {
		return 0
	}
	return c.chr[int(off)%len(c.chr)]
}

// ChrWrite services a PPU-side pattern-table write, which only lands
// anywhere when the cartridge uses CHR RAM.
func (c *Cartridge) ChrWrite(addr uint16, val uint8) {
	off, ok := c.mapper.PPUMapWrite(addr, val)
	if !ok {
		return
	}
	c.chr[int(off)%len(c.chr)] = val
}
