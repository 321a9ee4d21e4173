package main

import "github.com/hajimehoshi/ebiten/v2"

// keys maps bit position in the packed button byte to the host key
// that drives it. The bus controller reads back bit 7 first, so A is
// packed highest and Right lowest.
var keys = []ebiten.Key{
	ebiten.KeyRight,
	ebiten.KeyLeft,
	ebiten.KeyDown,
	ebiten.KeyUp,
	ebiten.KeyEnter,
	ebiten.KeySpace,
	ebiten.KeyB,
	ebiten.KeyA,
}

func pollButtons() uint8 {
	var b uint8
	for i, key := range keys {
		if ebiten.IsKeyPressed(key) {
			b |= 1 << i
		}
	}
	return b
}
