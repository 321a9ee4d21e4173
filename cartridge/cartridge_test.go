package cartridge

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestROM(t *testing.T, header []byte, prg, chr int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.nes")
	data := append([]byte(nil), header...)
	data = append(data, make([]byte, prg*prgBankSize)...)
	data = append(data, make([]byte, chr*chrBankSize)...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadNROM(t *testing.T) {
	// Scenario 1 from spec: 4E 45 53 1A 01 01 00 00 ...
	header := []byte{0x4E, 0x45, 0x53, 0x1A, 0x01, 0x01, 0x00, 0x00, 0, 0, 0, 0, 0, 0, 0, 0}
	path := writeTestROM(t, header, 1, 1)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := c.h.prgSize; got != 1 {
		t.Errorf("prgSize = %d, want 1", got)
	}
	if got := c.h.chrSize; got != 1 {
		t.Errorf("chrSize = %d, want 1", got)
	}
	if got := c.h.mapperID(); got != 0 {
		t.Errorf("mapperID = %d, want 0", got)
	}
	if got := c.Mirroring(); got.String() != "horizontal" {
		t.Errorf("Mirroring = %v, want horizontal", got)
	}
	if len(c.prg) != 16384 {
		t.Errorf("len(prg) = %d, want 16384", len(c.prg))
	}
	if len(c.chr) != 8192 {
		t.Errorf("len(chr) = %d, want 8192", len(c.chr))
	}
}

func TestMapperIDDiskDudeHeuristic(t *testing.T) {
	// Flags7 upper nibble would normally contribute to the mapper id,
	// but legacy "DiskDude!"-stamped padding bytes should cause it to
	// be ignored when the file isn't NES 2.0.
	header := []byte{
		0x4E, 0x45, 0x53, 0x1A, 0x01, 0x01, 0x00, 0x10,
		'D', 'i', 's', 'k', 'D', 'u', 'd', 'e',
	}
	path := writeTestROM(t, header, 1, 1)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := c.h.mapperID(); got != 0 {
		t.Errorf("mapperID = %d, want 0 (high nibble ignored)", got)
	}
}

func TestBadMagicRejected(t *testing.T) {
	header := []byte{0x00, 0x00, 0x00, 0x00, 0x01, 0x01, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	path := writeTestROM(t, header, 1, 1)

	if _, err := Load(path); err == nil {
		t.Errorf("Load() with bad magic: want error, got nil")
	}
}

func TestUnknownMapperRejected(t *testing.T) {
	header := []byte{0x4E, 0x45, 0x53, 0x1A, 0x01, 0x01, 0xF0, 0xF0, 0, 0, 0, 0, 0, 0, 0, 0}
	path := writeTestROM(t, header, 1, 1)

	if _, err := Load(path); err == nil {
		t.Errorf("Load() with unsupported mapper: want error, got nil")
	}
}
