package main

import (
	"context"
	"flag"
	"image/color"
	"log"
	"os"

	"github.com/dkhalsa/nescore/bus"
	"github.com/dkhalsa/nescore/cartridge"
	"github.com/dkhalsa/nescore/ppu"
	"github.com/hajimehoshi/ebiten/v2"
)

var romFile = flag.String("nes_rom", "", "Path to NES ROM to run.")

type game struct {
	b *bus.Bus
}

// Layout returns the constant NES resolution so ebiten scales the
// window rather than us scaling the framebuffer ourselves.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.ScreenWidth, ppu.ScreenHeight
}

func (g *game) Draw(screen *ebiten.Image) {
	fb := g.b.PPU().Frame()
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			px := fb[y][x]
			screen.Set(x, y, color.RGBA{px[0], px[1], px[2], 0xFF})
		}
	}
}

// Update polls the host keyboard into controller 1; the machine
// itself runs in its own goroutine via Bus.Run so emulation speed
// isn't tied to ebiten's display rate.
func (g *game) Update() error {
	g.b.SetController1(pollButtons())
	return nil
}

func main() {
	flag.Parse()

	cart, err := cartridge.Load(*romFile)
	if err != nil {
		log.Fatalf("Invalid ROM: %v", err)
	}

	b := bus.New(cart)
	g := &game{b: b}

	ebiten.SetWindowSize(ppu.ScreenWidth*2, ppu.ScreenHeight*2)
	ebiten.SetWindowTitle("nescore")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	ctx, cancel := context.WithCancel(context.Background())
	go b.Run(ctx)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}

	cancel()
	os.Exit(0)
}
