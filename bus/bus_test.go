package bus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dkhalsa/nescore/cartridge"
)

// newTestCartridge builds a minimal one-bank NROM image on disk and
// loads it, giving tests a real *cartridge.Cartridge to wire a Bus
// around without reaching into cartridge package internals.
func newTestCartridge(t *testing.T) *cartridge.Cartridge {
	t.Helper()
	header := []byte{0x4E, 0x45, 0x53, 0x1A, 0x01, 0x01, 0x00, 0x00, 0, 0, 0, 0, 0, 0, 0, 0}
	data := append([]byte(nil), header...)
	data = append(data, make([]byte, 16384)...)
	data = append(data, make([]byte, 8192)...)

	path := filepath.Join(t.TempDir(), "test.nes")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := cartridge.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestRAMMirroring(t *testing.T) {
	b := New(newTestCartridge(t))

	b.Write(0x0000, 0x42)
	for _, mirror := range []uint16{0x0000, 0x0800, 0x1000, 0x1800} {
		if got := b.Read(mirror); got != 0x42 {
			t.Errorf("Read(%04X) = %02X, want 42 (mirrors 0000)", mirror, got)
		}
	}
}

func TestControllerShiftRegisterRoundTrip(t *testing.T) {
	b := New(newTestCartridge(t))
	b.SetController1(0b1010_0101) // A,_,Select,_,_,Down,_,Right

	b.Write(0x4016, 1) // strobe high: continuously reload
	b.Write(0x4016, 0) // strobe low: latch and start shifting

	want := []uint8{1, 0, 1, 0, 0, 1, 0, 1}
	for i, w := range want {
		if got := b.Read(0x4016) & 0x01; got != w {
			t.Errorf("read %d = %d, want %d", i, got, w)
		}
	}
}

func TestControllerStrobeHighAlwaysReturnsFirstBit(t *testing.T) {
	b := New(newTestCartridge(t))
	b.SetController1(0x80)
	b.Write(0x4016, 1)

	if got := b.Read(0x4016) & 0x01; got != 1 {
		t.Errorf("strobe-high read = %d, want 1", got)
	}
	if got := b.Read(0x4016) & 0x01; got != 1 {
		t.Errorf("second strobe-high read = %d, want 1 (not advancing)", got)
	}
}

func TestOAMDMATransfersAllBytes(t *testing.T) {
	b := New(newTestCartridge(t))

	for i := 0; i < 256; i++ {
		b.ram[i] = uint8(i)
	}

	b.Write(0x4014, 0x00) // DMA page 0, source = RAM mirror at 0x0000-0x00FF
	for i := 0; i < 514*3; i++ {
		b.Clock()
	}

	if b.dmaActive {
		t.Fatalf("DMA still active after 514 CPU-cycle budget")
	}
	for i := 0; i < 256; i++ {
		if got := b.ppu.GetOAM(uint8(i)); got != uint8(i) {
			t.Errorf("OAM[%d] = %d, want %d", i, got, i)
			break
		}
	}
}

func TestOAMDMATakesOneExtraCycleOnOddStart(t *testing.T) {
	even := New(newTestCartridge(t))
	even.Write(0x4014, 0x00)
	evenCycles := 0
	for even.dmaActive || even.dmaDummy == false {
		even.Clock()
		evenCycles++
		if evenCycles > 2000 {
			t.Fatalf("DMA never completed")
		}
	}

	odd := New(newTestCartridge(t))
	odd.Clock() // burn one system tick so the next CPU-slot starts on odd parity
	odd.Write(0x4014, 0x00)
	oddCycles := 0
	for odd.dmaActive || odd.dmaDummy == false {
		odd.Clock()
		oddCycles++
		if oddCycles > 2000 {
			t.Fatalf("DMA never completed")
		}
	}

	if oddCycles <= evenCycles {
		t.Errorf("odd-aligned DMA (%d ticks) should take longer than even-aligned (%d ticks)", oddCycles, evenCycles)
	}
}

func TestBusConsumesPPUNMIFlag(t *testing.T) {
	b := New(newTestCartridge(t))
	b.ppu.WriteRegister(0x2000, 0x80) // PPUCTRL: enable NMI generation

	ticksToVBlank := 341*242 + 2 // reach scanline 241, dot 2
	for i := 0; i < ticksToVBlank; i++ {
		b.Clock()
	}

	if b.ppu.TakeNMI() {
		t.Errorf("bus left the PPU's NMI flag unconsumed after reaching vblank start")
	}
}

func TestStatsReportsSystemTicks(t *testing.T) {
	b := New(newTestCartridge(t))
	for i := 0; i < 30; i++ {
		b.Clock()
	}

	st := b.Stats()
	if st.SystemTicks != 30 {
		t.Errorf("SystemTicks = %d, want 30", st.SystemTicks)
	}
	if st.TotalCPUCycles != b.cpu.TotalCycles() {
		t.Errorf("TotalCPUCycles = %d, want %d", st.TotalCPUCycles, b.cpu.TotalCycles())
	}
}
