// Command nestest drives the CPU core through the nestest automated
// test ROM starting at its $C000 entry point, printing one trace line
// per instruction in the nestest golden-log format and, when given a
// reference log, diffing against it.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dkhalsa/nescore/bus"
	"github.com/dkhalsa/nescore/cartridge"
)

var (
	romFile         = flag.String("rom", "", "Path to nestest.nes")
	goldenLog       = flag.String("golden", "", "Path to a nestest golden trace log to diff against")
	maxInstructions = flag.Int("max_instructions", 8991, "Number of instructions to execute")
)

func main() {
	flag.Parse()

	cart, err := cartridge.Load(*romFile)
	if err != nil {
		log.Fatalf("Invalid ROM: %v", err)
	}

	b := bus.New(cart)
	for !b.CPU().Complete() {
		b.Clock()
	}
	b.CPU().PC = 0xC000

	var golden *bufio.Scanner
	if *goldenLog != "" {
		f, err := os.Open(*goldenLog)
		if err != nil {
			log.Fatalf("opening golden log: %v", err)
		}
		defer f.Close()
		golden = bufio.NewScanner(f)
	}

	mismatches := 0
	for i := 0; i < *maxInstructions; i++ {
		line := b.CPU().TraceLine(b.PPU().Scanline(), b.PPU().Dot())
		fmt.Println(line)

		if golden != nil && golden.Scan() {
			want := golden.Text()
			if len(want) >= len(line) && want[:len(line)] != line {
				fmt.Printf("MISMATCH at instruction %d:\n  got:  %s\n  want: %s\n", i, line, want)
				mismatches++
			}
		}

		b.Clock()
		for !b.CPU().Complete() {
			b.Clock()
		}
	}

	stats := b.Stats()
	fmt.Printf("%d instructions executed, %d illegal opcode hits, %d trace mismatches\n",
		*maxInstructions, stats.IllegalOpcodeHits, mismatches)
	if mismatches > 0 {
		os.Exit(1)
	}
}
