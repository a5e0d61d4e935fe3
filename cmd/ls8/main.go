// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/ezrec/ls8/emulator"
)

func main() {
	var output string
	var steps int
	var lenient bool
	var listing bool
	var verbose bool

	flag.StringVar(&output, "o", "-", "Tape output")
	flag.IntVar(&steps, "steps", 0, "Maximum instructions to run, 0 for no limit")
	flag.BoolVar(&lenient, "lenient", false, "Skip malformed program lines")
	flag.BoolVar(&listing, "l", false, "Print the program listing, do not execute")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %v [options] program.ls8\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	source := flag.Arg(0)

	inf, err := os.Open(source)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}
	defer inf.Close()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Lenient = lenient
	emu.StepLimit = steps

	err = emu.Assemble(inf)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	if listing {
		fmt.Print(emu.Program.String())
		return
	}

	if output != "-" {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
		emu.Tape.Output = ouf
	}

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = emu.Run(ctx)
	if err != nil {
		if verbose {
			log.Print(emu.Cpu.String())
		}
		log.Fatalf("%v: %v", source, err)
	}

	if verbose {
		log.Printf("%v: %d ticks, %d reads, %d writes", source,
			emu.Ticks(), emu.Cpu.Memory.Reads, emu.Cpu.Memory.Writes)
	}
}
