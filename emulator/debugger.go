package emulator

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/bradleyjkemp/memviz"
)

// Debugger holds breakpoints/watchpoints and, when attached to a CPU,
// renders a diagnostic .dot graph of emulator state whenever one
// trips or a fatal fault occurs. Grounded on the teacher's
// debugger.go (breakpoint/watchpoint bookkeeping), with Debug()
// implemented using github.com/bradleyjkemp/memviz instead of the
// teacher's unfinished panic("TODO").
type Debugger struct {
	Breakpoints      []uint32
	ReadWatchpoints  []uint32
	WriteWatchpoints []uint32

	cpu      *Cpu
	dumpPath string
}

func NewDebugger() *Debugger {
	return &Debugger{}
}

// Attach wires the debugger to the CPU it will inspect and the path a
// fault dump should be written to (empty disables dumping).
func (debugger *Debugger) Attach(cpu *Cpu, dumpPath string) {
	debugger.cpu = cpu
	debugger.dumpPath = dumpPath
	cpu.debugger = debugger
}

// AddBreakpoint adds a breakpoint at addr, about to be executed.
func (debugger *Debugger) AddBreakpoint(addr uint32) {
	for _, breakpoint := range debugger.Breakpoints {
		if breakpoint == addr {
			return
		}
	}
	debugger.Breakpoints = append(debugger.Breakpoints, addr)
}

// DeleteBreakpoint removes a breakpoint at addr, if any.
func (debugger *Debugger) DeleteBreakpoint(addr uint32) {
	for idx, breakpoint := range debugger.Breakpoints {
		if breakpoint == addr {
			debugger.Breakpoints = append(debugger.Breakpoints[:idx], debugger.Breakpoints[idx+1:]...)
			return
		}
	}
}

// AddReadWatchpoint adds a memory read watchpoint for addr.
func (debugger *Debugger) AddReadWatchpoint(addr uint32) {
	for _, watchpoint := range debugger.ReadWatchpoints {
		if watchpoint == addr {
			return
		}
	}
	debugger.ReadWatchpoints = append(debugger.ReadWatchpoints, addr)
}

// AddWriteWatchpoint adds a memory write watchpoint for addr.
func (debugger *Debugger) AddWriteWatchpoint(addr uint32) {
	for _, watchpoint := range debugger.WriteWatchpoints {
		if watchpoint == addr {
			return
		}
	}
	debugger.WriteWatchpoints = append(debugger.WriteWatchpoints, addr)
}

// DeleteReadWatchpoint removes a read watchpoint at addr, if any.
func (debugger *Debugger) DeleteReadWatchpoint(addr uint32) {
	for idx, watchpoint := range debugger.ReadWatchpoints {
		if watchpoint == addr {
			debugger.ReadWatchpoints = append(
				debugger.ReadWatchpoints[:idx],
				debugger.ReadWatchpoints[idx+1:]...,
			)
			return
		}
	}
}

// DeleteWriteWatchpoint removes a write watchpoint at addr, if any.
func (debugger *Debugger) DeleteWriteWatchpoint(addr uint32) {
	for idx, watchpoint := range debugger.WriteWatchpoints {
		if watchpoint == addr {
			debugger.WriteWatchpoints = append(
				debugger.WriteWatchpoints[:idx],
				debugger.WriteWatchpoints[idx+1:]...,
			)
			return
		}
	}
}

// changedPc is called by the CPU before executing the instruction at pc.
func (debugger *Debugger) changedPc(pc uint32) {
	for _, breakpoint := range debugger.Breakpoints {
		if breakpoint == pc {
			log.Printf("debugger: reached breakpoint 0x%08x", pc)
			debugger.Debug()
			return
		}
	}
}

// memoryRead is called by the CPU when it's about to read from addr.
func (debugger *Debugger) memoryRead(addr uint32) {
	for _, watchpoint := range debugger.ReadWatchpoints {
		if watchpoint == addr {
			log.Printf("debugger: triggered read watchpoint 0x%08x", addr)
			debugger.Debug()
			return
		}
	}
}

// memoryWrite is called by the CPU when it's about to write to addr.
func (debugger *Debugger) memoryWrite(addr uint32) {
	for _, watchpoint := range debugger.WriteWatchpoints {
		if watchpoint == addr {
			log.Printf("debugger: triggered write watchpoint 0x%08x", addr)
			debugger.Debug()
			return
		}
	}
}

// faultSnapshot is the value memviz renders: enough CPU/COP0/bus/DMA
// state to reconstruct what the machine was doing at the moment of a
// breakpoint, watchpoint, or fatal fault.
type faultSnapshot struct {
	PC, Hi, Lo     uint32
	Regs           [32]uint32
	Cop0Regs       [16]uint32
	DmaControl     uint32
	DmaDicr        uint32
	LastException  *CpuExceptionError
}

// Debug logs the current PC, $ra and $sp and, if a dump path was
// configured via Attach, renders a .dot graph of the snapshot with
// memviz for offline inspection.
func (debugger *Debugger) Debug() {
	if debugger.cpu == nil {
		log.Printf("debugger: Debug() called before Attach; nothing to inspect")
		return
	}
	cpu := debugger.cpu

	snap := faultSnapshot{
		PC:            cpu.PC,
		Hi:            cpu.Hi,
		Lo:            cpu.Lo,
		Regs:          cpu.regs,
		Cop0Regs:      cpu.Cop0.Regs,
		LastException: cpu.lastException,
	}
	if cpu.Bus != nil {
		snap.DmaControl = cpu.Bus.Dma.Control
		snap.DmaDicr = cpu.Bus.Dma.Dicr()
	}

	log.Printf("debugger: pc=0x%08x ra=0x%08x sp=0x%08x", snap.PC, snap.Regs[31], snap.Regs[29])

	if debugger.dumpPath == "" {
		return
	}
	f, err := os.Create(debugger.dumpPath)
	if err != nil {
		log.Printf("debugger: could not create dump file %s: %v", debugger.dumpPath, err)
		return
	}
	defer f.Close()
	debugger.render(f, &snap)
}

// render is split out from Debug so tests can pass a bytes.Buffer
// instead of touching the filesystem.
func (debugger *Debugger) render(w io.Writer, snap *faultSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(w, "// memviz render failed: %v\n", r)
		}
	}()
	memviz.Map(w, snap)
}
