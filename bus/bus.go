// Package bus wires together the CPU, PPU, and cartridge into a
// running machine: CPU address decode, the 3:1 PPU:CPU clock ratio,
// NMI delivery, and OAM DMA cycle stealing.
package bus

import (
	"context"

	"github.com/dkhalsa/nescore/cartridge"
	"github.com/dkhalsa/nescore/cpu"
	"github.com/dkhalsa/nescore/mappers"
	"github.com/dkhalsa/nescore/ppu"
)

const (
	internalRAMSize = 0x0800 // 2KB built-in RAM, mirrored through 0x1FFF
	maxInternalRAM  = 0x1FFF
	maxPPURegisters = 0x3FFF
	maxAPUIORegs    = 0x401F

	oamDMA    = 0x4014
	ctrl1Port = 0x4016
	ctrl2Port = 0x4017
)

// Bus owns the whole machine and implements both cpu.Bus (CPU memory
// map) and ppu.Bus (CHR/mirroring passthrough to the cartridge).
type Bus struct {
	cpu  *cpu.CPU
	ppu  *ppu.PPU
	cart *cartridge.Cartridge

	ram [internalRAMSize]uint8

	ctrl1, ctrl2 controller

	sysClock uint64

	dmaActive bool
	dmaDummy  bool
	dmaPage   uint8
	dmaAddr   uint8
	dmaData   uint8
}

// New wires a Bus around an already-loaded cartridge and performs the
// power-on reset of both CPU and PPU.
func New(cart *cartridge.Cartridge) *Bus {
	b := &Bus{cart: cart, dmaDummy: true}
	b.ppu = ppu.New(b)
	b.cpu = cpu.New(b)
	return b
}

func (b *Bus) CPU() *cpu.CPU { return b.cpu }
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

// Stats surfaces host-facing diagnostics without making cmd/ reach
// into CPU internals directly: illegal-opcode hits and cycle counts,
// logged or printed at the host's discretion.
type Stats struct {
	IllegalOpcodeHits uint64
	TotalCPUCycles    uint64
	SystemTicks       uint64
}

func (b *Bus) Stats() Stats {
	return Stats{
		IllegalOpcodeHits: b.cpu.IllegalOpcodeHits(),
		TotalCPUCycles:    b.cpu.TotalCycles(),
		SystemTicks:       b.sysClock,
	}
}

// Reset re-runs cartridge, CPU, and PPU reset and restarts the
// clocking state machine; RAM contents are left untouched.
func (b *Bus) Reset() {
	b.cart.Reset()
	b.cpu.Reset()
	b.ppu.Reset()
	b.sysClock = 0
	b.dmaActive = false
	b.dmaDummy = true
}

func (b *Bus) SetController1(buttons uint8) { b.ctrl1.setButtons(buttons) }
func (b *Bus) SetController2(buttons uint8) { b.ctrl2.setButtons(buttons) }

// --- cpu.Bus ---

func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= maxInternalRAM:
		return b.ram[addr&0x07FF]
	case addr <= maxPPURegisters:
		return b.ppu.ReadRegister(addr)
	case addr == ctrl1Port:
		return b.ctrl1.read()
	case addr == ctrl2Port:
		return b.ctrl2.read()
	case addr <= maxAPUIORegs:
		return 0 // APU and unimplemented IO registers read back as 0
	default:
		return b.cart.CPURead(addr)
	}
}

func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case addr <= maxInternalRAM:
		b.ram[addr&0x07FF] = val
	case addr <= maxPPURegisters:
		b.ppu.WriteRegister(addr, val)
	case addr == oamDMA:
		b.dmaPage = val
		b.dmaAddr = 0
		b.dmaActive = true
	case addr == ctrl1Port:
		// the strobe line on $4016 feeds both controller shift
		// registers; only $4016 is writable, $4017 is read-only here
		b.ctrl1.write(val)
		b.ctrl2.write(val)
	case addr <= maxAPUIORegs:
		// APU registers, not modeled
	default:
		b.cart.CPUWrite(addr, val)
	}
}

// --- ppu.Bus ---

func (b *Bus) ChrRead(addr uint16) uint8       { return b.cart.ChrRead(addr) }
func (b *Bus) ChrWrite(addr uint16, val uint8) { b.cart.ChrWrite(addr, val) }
func (b *Bus) Mirroring() mappers.Mirroring    { return b.cart.Mirroring() }

// Clock advances the machine by one PPU dot. The PPU runs at three
// times the CPU's rate: every third tick either steps the CPU or, if
// an OAM DMA transfer is in flight, steals the cycle for it instead.
// NMI is delivered by polling the PPU's one-shot flag right after its
// own tick, matching the fixed ordering of PPU-tick, NMI check,
// CPU-tick.
func (b *Bus) Clock() {
	b.ppu.Clock()

	if b.ppu.Dot() == 260 && b.ppu.Scanline() < 240 {
		b.cart.NotifyScanline()
	}

	if b.ppu.TakeNMI() {
		b.cpu.NMI()
	}

	if b.sysClock%3 == 0 {
		if b.dmaActive {
			b.clockDMA()
		} else {
			if b.cart.IRQPending() {
				b.cpu.IRQ()
				b.cart.IRQClear()
			}
			b.cpu.Clock()
		}
	}

	b.sysClock++
}

// Run clocks the machine continuously until ctx is cancelled. The host
// drives the frame loop separately, reading PPU.Frame() whenever it
// wants to present the current framebuffer.
func (b *Bus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			b.Clock()
		}
	}
}

// clockDMA implements the 513/514-cycle OAM DMA transfer: one dummy
// cycle to reach an even alignment (two on an odd start), then
// alternating read/write cycles copying 256 bytes from
// dmaPage<<8|addr into OAM. Entry to this function already happens
// once per three system ticks, and three is odd, so sysClock's parity
// flips on every consecutive call, giving the read/write alternation
// for free.
func (b *Bus) clockDMA() {
	if b.dmaDummy {
		if b.sysClock%2 == 0 {
			b.dmaDummy = false
		}
		return
	}

	if b.sysClock%2 == 1 {
		b.dmaData = b.Read(uint16(b.dmaPage)<<8 | uint16(b.dmaAddr))
		return
	}

	b.ppu.SetOAM(b.dmaAddr, b.dmaData)
	b.dmaAddr++
	if b.dmaAddr == 0 {
		b.dmaActive = false
		b.dmaDummy = true
	}
}
