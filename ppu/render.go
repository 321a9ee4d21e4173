package ppu

// Clock advances the PPU by one dot (spec §4.2). A frame is 262
// scanlines (-1 pre-render, 0..239 visible, 240 post-render, 241..260
// vblank) of 341 dots each.
func (p *PPU) Clock() {
	if p.scanline >= -1 && p.scanline < 240 {
		p.clockBackground()
		p.clockSprites()
	}

	if p.scanline >= 0 && p.scanline < 240 && p.dot >= 1 && p.dot <= 256 {
		p.renderPixel()
	}

	if p.scanline == 241 && p.dot == 1 {
		p.status |= STATUS_VERTICAL_BLANK
		if p.ctrl&CTRL_GENERATE_NMI != 0 {
			p.nmiOccurred = true
		}
	}

	p.dot++
	if p.dot >= 341 {
		p.dot = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.frameOdd = !p.frameOdd
			p.frameComplete = true
		}
	}
}

func (p *PPU) clockBackground() {
	if p.scanline == -1 && p.dot == 1 {
		p.status &^= STATUS_VERTICAL_BLANK | STATUS_SPRITE_0_HIT | STATUS_SPRITE_OVERFLOW
	}

	inFetchWindow := (p.dot >= 2 && p.dot < 258) || (p.dot >= 321 && p.dot < 338)
	if inFetchWindow {
		p.updateBGShifters()
		switch p.dot % 8 {
		case 1:
			p.loadBGShifters()
			p.bgNextID = p.read(0x2000 | (p.v.data & 0x0FFF))
		case 3:
			p.bgNextAttrib = p.fetchAttribute()
		case 5:
			p.bgNextLSB = p.read(p.bgPatternAddr(p.bgNextID))
		case 7:
			p.bgNextMSB = p.read(p.bgPatternAddr(p.bgNextID) + 8)
			if p.renderingEnabled() {
				p.v.incrementScrollX()
			}
		}
	}

	if p.dot == 256 && p.renderingEnabled() {
		p.v.incrementScrollY()
	}

	if p.dot == 257 {
		if p.renderingEnabled() {
			p.v.copyHorizontalFrom(p.t)
		}
		if p.scanline >= 0 {
			p.evaluateSprites()
		}
	}

	if p.scanline == -1 && p.dot >= 280 && p.dot <= 304 && p.renderingEnabled() {
		p.v.copyVerticalFrom(p.t)
	}
}

func (p *PPU) clockSprites() {
	if p.dot == 340 && p.scanline >= 0 {
		p.fetchSpritePatterns()
	}
}

func (p *PPU) updateBGShifters() {
	if p.mask&MASK_SHOW_BG == 0 {
		return
	}
	p.bgShiftPatternLo <<= 1
	p.bgShiftPatternHi <<= 1
	p.bgShiftAttribLo <<= 1
	p.bgShiftAttribHi <<= 1
}

func (p *PPU) loadBGShifters() {
	p.bgShiftPatternLo = (p.bgShiftPatternLo & 0xFF00) | uint16(p.bgNextLSB)
	p.bgShiftPatternHi = (p.bgShiftPatternHi & 0xFF00) | uint16(p.bgNextMSB)

	var lo, hi uint16
	if p.bgNextAttrib&0x01 != 0 {
		lo = 0xFF
	}
	if p.bgNextAttrib&0x02 != 0 {
		hi = 0xFF
	}
	p.bgShiftAttribLo = (p.bgShiftAttribLo & 0xFF00) | lo
	p.bgShiftAttribHi = (p.bgShiftAttribHi & 0xFF00) | hi
}

// fetchAttribute reads the 2-bit palette for the current tile out of
// the attribute byte covering a 4x4-tile quadrant (spec §4.2).
func (p *PPU) fetchAttribute() uint8 {
	addr := 0x23C0 |
		(p.v.nametableY() << 11) |
		(p.v.nametableX() << 10) |
		((p.v.coarseY() >> 2) << 3) |
		(p.v.coarseX() >> 2)
	b := p.read(addr)
	if p.v.coarseY()&0x02 != 0 {
		b >>= 4
	}
	if p.v.coarseX()&0x02 != 0 {
		b >>= 2
	}
	return b & 0x03
}

func (p *PPU) bgPatternAddr(tileID uint8) uint16 {
	base := uint16(0)
	if p.ctrl&CTRL_BACKROUND_PATTERN_ADDR != 0 {
		base = 0x1000
	}
	return base + uint16(tileID)<<4 + p.v.fineY()
}

// evaluateSprites runs the simplified (count-only) overflow scan
// described in spec §4.2: hardware's buggy scan is not reproduced.
func (p *PPU) evaluateSprites() {
	spriteHeight := 8
	if p.ctrl&CTRL_SPRITE_SIZE != 0 {
		spriteHeight = 16
	}

	p.spriteCount = 0
	matched := 0
	for i := 0; i < 64; i++ {
		y := p.oamData[i*4]
		diff := p.scanline - int(y)
		if diff < 0 || diff >= spriteHeight {
			continue
		}
		matched++
		if p.spriteCount < 8 {
			entry := OAMFromBytes(p.oamData[i*4 : i*4+4])
			p.sprites[p.spriteCount] = spriteSlot{oam: entry, isZero: i == 0}
			p.spriteCount++
		}
	}
	if matched > 8 {
		p.status |= STATUS_SPRITE_OVERFLOW
	}
}

func (p *PPU) fetchSpritePatterns() {
	tall := p.ctrl&CTRL_SPRITE_SIZE != 0

	for i := 0; i < p.spriteCount; i++ {
		s := &p.sprites[i]
		row := p.scanline - int(s.y)

		var addr uint16
		if tall {
			r := row
			if s.flipV {
				r = 15 - row
			}
			half := uint16(0)
			if r >= 8 {
				half = 1
				r -= 8
			}
			bank := uint16(s.tileId&0x01) << 12
			tile := uint16(s.tileId &^ 0x01)
			addr = bank | ((tile + half) << 4) | uint16(r)
		} else {
			r := row
			if s.flipV {
				r = 7 - row
			}
			bank := uint16(0)
			if p.ctrl&CTRL_SPRITE_PATTERN_ADDR != 0 {
				bank = 0x1000
			}
			addr = bank | (uint16(s.tileId) << 4) | uint16(r)
		}

		lo := p.read(addr)
		hi := p.read(addr + 8)
		if s.flipH {
			lo, hi = reverseBits(lo), reverseBits(hi)
		}
		s.patternLo, s.patternHi = lo, hi
	}
}

// renderPixel implements the per-dot pixel mux of spec §4.2: selects
// between background and sprite output, applies left-edge masking,
// and sets sprite-zero hit when its preconditions are met.
func (p *PPU) renderPixel() {
	x := p.dot - 1

	var bgPixel, bgPalette uint8
	if p.mask&MASK_SHOW_BG != 0 && !(x < 8 && p.mask&MASK_SHOW_BG_LEFT == 0) {
		mux := uint16(0x8000) >> p.fineX
		p0 := uint8(0)
		if p.bgShiftPatternLo&mux != 0 {
			p0 = 1
		}
		p1 := uint8(0)
		if p.bgShiftPatternHi&mux != 0 {
			p1 = 1
		}
		bgPixel = (p1 << 1) | p0

		a0 := uint8(0)
		if p.bgShiftAttribLo&mux != 0 {
			a0 = 1
		}
		a1 := uint8(0)
		if p.bgShiftAttribHi&mux != 0 {
			a1 = 1
		}
		bgPalette = (a1 << 1) | a0
	}

	var spPixel, spPalette uint8
	var spFront, spZero bool
	if p.mask&MASK_SHOW_SPRITES != 0 && !(x < 8 && p.mask&MASK_SHOW_SPRITE_LEFT == 0) {
		for i := 0; i < p.spriteCount; i++ {
			px, front, opaque := p.sprites[i].pixel()
			if !opaque {
				continue
			}
			spPixel = px
			spPalette = p.sprites[i].palette + 4
			spFront = front
			spZero = p.sprites[i].isZero
			break
		}
	}

	var pixel, palette uint8
	switch {
	case bgPixel == 0 && spPixel == 0:
		pixel, palette = 0, 0
	case bgPixel == 0:
		pixel, palette = spPixel, spPalette
	case spPixel == 0:
		pixel, palette = bgPixel, bgPalette
	case spFront:
		pixel, palette = spPixel, spPalette
	default:
		pixel, palette = bgPixel, bgPalette
	}

	if spZero && bgPixel != 0 && spPixel != 0 && x != 255 &&
		p.mask&MASK_SHOW_BG != 0 && p.mask&MASK_SHOW_SPRITES != 0 {
		leftMasked := p.mask&MASK_SHOW_BG_LEFT == 0 || p.mask&MASK_SHOW_SPRITE_LEFT == 0
		minX := 1
		if leftMasked {
			minX = 9
		}
		if x >= minX && x < 257 {
			p.status |= STATUS_SPRITE_0_HIT
		}
	}

	entry := p.read(0x3F00+uint16(palette)<<2+uint16(pixel)) & 0x3F
	p.framebuffer[p.scanline][x] = colorFor(entry)

	for i := 0; i < p.spriteCount; i++ {
		p.sprites[i].shift()
	}
}
