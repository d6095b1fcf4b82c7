// Package main provides the entry point for rv32sim.
// rv32sim is an RV32IMF instruction set simulator.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/loader"
	"github.com/sarchlab/rv32sim/timing/core"
	"github.com/sarchlab/rv32sim/timing/latency"
)

var (
	memSize    = flag.Uint("mem", uint(emu.DefaultMemorySize), "Memory size in bytes")
	maxInsts   = flag.Uint64("max", 0, "Maximum instructions to execute (0 = unlimited)")
	timing     = flag.Bool("timing", false, "Enable timing simulation mode")
	configPath = flag.String("config", "", "Path to timing configuration JSON file")
	dumpAddr   = flag.Uint64("dump", 0, "Memory address to dump after the run (0 = none)")
	dumpWords  = flag.Uint("dump-words", 8, "Number of 32-bit words to dump")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: rv32sim [options] <program.elf>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Entry point: 0x%08X\n", prog.EntryPoint)
		fmt.Printf("Segments: %d\n", len(prog.Segments))
	}

	emulator, err := buildEmulator(prog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing memory: %v\n", err)
		os.Exit(1)
	}

	var result emu.RunResult
	if *timing {
		result = runTiming(emulator, programPath)
	} else {
		result = runEmulation(emulator, programPath)
	}

	if *dumpAddr != 0 {
		dumpMemory(emulator.Memory(), uint32(*dumpAddr), *dumpWords)
	}

	if result.Reason == emu.StopFault {
		os.Exit(1)
	}
}

// buildEmulator sets up memory with the program's segments and points the
// PC at its entry point.
func buildEmulator(prog *loader.Program) (*emu.Emulator, error) {
	memory := emu.NewMemoryWithSize(emu.DefaultMemoryBase, uint32(*memSize))

	// Memory starts zeroed, so BSS tails (MemSize > len(Data)) need no
	// explicit fill.
	for _, seg := range prog.Segments {
		if err := memory.LoadImage(seg.VirtAddr, seg.Data); err != nil {
			return nil, fmt.Errorf("segment at 0x%08X: %w", seg.VirtAddr, err)
		}
	}

	emulator := emu.NewEmulator(emu.WithMemory(memory))
	emulator.RegFile().PC = prog.EntryPoint

	return emulator, nil
}

// runEmulation runs the program in functional emulation mode.
func runEmulation(emulator *emu.Emulator, programPath string) emu.RunResult {
	result := emulator.Run(*maxInsts)

	fmt.Printf("Program: %s\n", programPath)
	printStopReason(result)
	fmt.Printf("Instructions executed: %d\n", result.Instructions)

	return result
}

// runTiming runs the program in timing simulation mode.
func runTiming(emulator *emu.Emulator, programPath string) emu.RunResult {
	var timingConfig *latency.TimingConfig
	if *configPath != "" {
		var err error
		timingConfig, err = latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			os.Exit(1)
		}
		if err := timingConfig.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Invalid timing config: %v\n", err)
			os.Exit(1)
		}
	} else {
		timingConfig = latency.DefaultTimingConfig()
	}

	c := core.NewCore(emulator,
		core.WithLatencyTable(latency.NewTableWithConfig(timingConfig)))

	result := c.Run(*maxInsts)
	stats := c.Stats()

	fmt.Printf("Program: %s\n", programPath)
	printStopReason(result)
	fmt.Printf("Instructions executed: %d\n", stats.Instructions)
	fmt.Printf("Total cycles: %d\n", stats.Cycles)
	if stats.Instructions > 0 {
		fmt.Printf("CPI: %.2f\n", float64(stats.Cycles)/float64(stats.Instructions))
	}

	cacheStats := c.Cache().Stats()
	accesses := cacheStats.Hits + cacheStats.Misses
	fmt.Printf("\nData cache:\n")
	fmt.Printf("  Accesses:   %d\n", accesses)
	fmt.Printf("  Hits:       %d\n", cacheStats.Hits)
	fmt.Printf("  Misses:     %d\n", cacheStats.Misses)
	if accesses > 0 {
		fmt.Printf("  Hit rate:   %.1f%%\n", 100.0*float64(cacheStats.Hits)/float64(accesses))
	}
	fmt.Printf("  Writebacks: %d\n", cacheStats.Writebacks)

	return result
}

// printStopReason reports why the run ended.
func printStopReason(result emu.RunResult) {
	switch result.Reason {
	case emu.StopEnvironmentCall:
		fmt.Printf("Stopped: environment call\n")
	case emu.StopFixedPoint:
		fmt.Printf("Stopped: program reached its end marker\n")
	case emu.StopBudget:
		fmt.Printf("Stopped: instruction budget exhausted\n")
	case emu.StopFault:
		fmt.Printf("Stopped: fault: %v\n", result.Fault)
	}
}

// dumpMemory prints words of memory starting at addr.
func dumpMemory(memory *emu.Memory, addr uint32, words uint) {
	fmt.Printf("\nMemory at 0x%08X:\n", addr)
	for i := uint(0); i < words; i++ {
		wordAddr := addr + uint32(i)*4
		v, err := memory.Read32(wordAddr)
		if err != nil {
			fmt.Printf("  0x%08X: <out of bounds>\n", wordAddr)
			return
		}
		fmt.Printf("  0x%08X: 0x%08X\n", wordAddr, v)
	}
}
