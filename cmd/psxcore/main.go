package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/zeozeozeo/psxcore/emulator"
)

// Exit codes: 0 success (not reachable, the CORE runs until a fault),
// 1 configuration error (bad/missing BIOS), 2 unrecoverable bus fault,
// 3 unrunnable DMA program. Every other fault the NORMAL/SPECIAL
// dispatch tables can reach (reserved instruction, misaligned access,
// overflow, syscall, breakpoint) is a real MIPS exception delivered
// faithfully via a PC redirect, so it never surfaces here as an error.
const (
	exitConfigError = 1
	exitBusFault    = 2
	exitDmaFault    = 3
)

func main() {
	biosPath := flag.String("bios", "SCPH1001.BIN", "path to the BIOS image")
	debug := flag.Bool("debug", false, "enable the breakpoint/watchpoint debugger")
	dumpOnFault := flag.String("dump-state-on-fault", "", "write a memviz .dot diagnostic here on a fatal fault")
	flag.Parse()

	bios, err := loadBios(*biosPath)
	if err != nil {
		var cfgErr *emulator.ConfigError
		if errors.As(err, &cfgErr) {
			log.Printf("config error: %v", cfgErr)
			os.Exit(exitConfigError)
		}
		log.Fatalf("loading bios: %v", err)
	}

	bus := emulator.NewBus(bios)
	cpu := emulator.NewCpu(bus)

	var debugger *emulator.Debugger
	if *debug {
		debugger = emulator.NewDebugger()
		debugger.Attach(cpu, *dumpOnFault)
	}

	for {
		if err := cpu.Step(); err != nil {
			log.Printf("fatal fault: %v", err)
			if debugger == nil && *dumpOnFault != "" {
				debugger = emulator.NewDebugger()
				debugger.Attach(cpu, *dumpOnFault)
			}
			if debugger != nil {
				debugger.Debug()
			}

			var dmaErr *emulator.DmaError
			if errors.As(err, &dmaErr) {
				os.Exit(exitDmaFault)
			}
			os.Exit(exitBusFault)
		}
	}
}

func loadBios(path string) (*emulator.Bios, error) {
	log.Printf("loading bios %q", path)
	start := time.Now()

	file, err := os.Open(path)
	if err != nil {
		return nil, &emulator.ConfigError{Reason: err.Error()}
	}
	defer file.Close()

	bios, err := emulator.LoadBios(file)
	if err != nil {
		return nil, err
	}

	log.Printf("loaded bios in %s", time.Since(start))
	return bios, nil
}
