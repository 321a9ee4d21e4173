package mappers

import "testing"

func TestMapper0NROMMirroring(t *testing.T) {
	m, err := New(0, CartInfo{PRGBanks: 1, CHRBanks: 1})
	if err != nil {
		t.Fatalf("New(0): %v", err)
	}

	lo, ok := m.CPUMapRead(0x8000)
	if !ok || lo != 0 {
		t.Errorf("CPUMapRead(0x8000) = %d, %v; want 0, true", lo, ok)
	}
	hi, ok := m.CPUMapRead(0xC000)
	if !ok || hi != 0 {
		t.Errorf("CPUMapRead(0xC000) = %d, %v; want 0, true (16K PRG mirrors)", hi, ok)
	}
}

func TestMapper2BankSwitch(t *testing.T) {
	m, err := New(2, CartInfo{PRGBanks: 4})
	if err != nil {
		t.Fatalf("New(2): %v", err)
	}

	m.CPUMapWrite(0x8000, 0x02)
	off, ok := m.CPUMapRead(0x8000)
	if !ok || off != 2*0x4000 {
		t.Errorf("switchable bank offset = %d, %v; want %d, true", off, ok, 2*0x4000)
	}

	off, ok = m.CPUMapRead(0xC000)
	if !ok || off != 3*0x4000 {
		t.Errorf("fixed bank offset = %d, %v; want %d, true", off, ok, 3*0x4000)
	}
}

func TestMapper66Registers(t *testing.T) {
	m, err := New(66, CartInfo{})
	if err != nil {
		t.Fatalf("New(66): %v", err)
	}

	m.CPUMapWrite(0x8000, 0x23) // PRG bank 2, CHR bank 3
	off, ok := m.CPUMapRead(0x8000)
	if !ok || off != 2*0x8000 {
		t.Errorf("PRG offset = %d, %v; want %d, true", off, ok, 2*0x8000)
	}
	coff, ok := m.PPUMapRead(0x0010)
	if !ok || coff != 3*0x2000+0x0010 {
		t.Errorf("CHR offset = %d, %v; want %d, true", coff, ok, 3*0x2000+0x0010)
	}
}

func TestMapper4IRQReload(t *testing.T) {
	m, err := New(4, CartInfo{PRGBanks: 4})
	if err != nil {
		t.Fatalf("New(4): %v", err)
	}

	m.CPUMapWrite(0xC000, 4) // latch = 4
	m.CPUMapWrite(0xC001, 0) // force reload
	m.CPUMapWrite(0xE001, 1) // enable

	m.NotifyScanline() // reload to latch (4)
	if m.IRQPending() {
		t.Fatalf("IRQ pending immediately after reload")
	}
	for i := 0; i < 4; i++ {
		m.NotifyScanline()
	}
	if !m.IRQPending() {
		t.Errorf("expected IRQ pending after counter reached 0")
	}
	m.IRQClear()
	if m.IRQPending() {
		t.Errorf("IRQClear did not clear pending IRQ")
	}
}

func TestMapper4PRGBankModeSwap(t *testing.T) {
	m4 := &mapper4{baseMapper: baseMapper{info: CartInfo{PRGBanks: 4}}}
	m4.bankReg[6] = 1
	m4.bankSelect = 0 // prg mode 0: $8000 swappable

	off, _ := m4.CPUMapRead(0x8000)
	if off != 1*0x2000 {
		t.Errorf("mode 0 $8000 offset = %d; want %d", off, 0x2000)
	}

	m4.bankSelect = 0x40 // prg mode 1: $C000 swappable
	off, _ = m4.CPUMapRead(0xC000)
	if off != 1*0x2000 {
		t.Errorf("mode 1 $C000 offset = %d; want %d", off, 0x2000)
	}
}
