// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/beevik/nescpu/cpu"
	"github.com/beevik/nescpu/disasm"
	"github.com/beevik/nescpu/host"
	"github.com/beevik/nescpu/logger"
	"github.com/beevik/nescpu/script"
	"github.com/beevik/nescpu/session"
	"github.com/beevik/term"
)

var (
	steps       int
	strict      bool
	trace       bool
	scriptFile  string
	interactive bool
	verbose     bool
)

func init() {
	flag.IntVar(&steps, "steps", 100000, "maximum number of instructions to run")
	flag.BoolVar(&strict, "strict", false, "stop at the first memory or opcode fault")
	flag.BoolVar(&trace, "trace", false, "print a trace line for every instruction")
	flag.StringVar(&scriptFile, "script", "", "run a Lua script against the loaded image")
	flag.BoolVar(&interactive, "i", false, "open the monitor even when an image is given")
	flag.BoolVar(&verbose, "v", false, "echo log entries to stderr")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: nescpu [options] [image.nes]\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	if verbose {
		logger.SetEcho(os.Stderr)
	}

	args := flag.Args()
	if len(args) > 1 {
		flag.CommandLine.Usage()
		os.Exit(2)
	}

	if len(args) == 0 || interactive {
		monitor(args)
		return
	}

	if err := headless(args[0]); err != nil {
		exitOnError(err)
	}
}

// Run the image without the monitor and report why it stopped.
func headless(filename string) error {
	image, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	policy := session.Tolerant
	if strict {
		policy = session.Strict
	}

	s := session.New(session.Config{Policy: policy})
	if err := s.Reset(image); err != nil {
		return err
	}
	if trace {
		s.SetTrace(func(t cpu.Trace) {
			fmt.Println(disasm.TraceLine(s.CPU().Bus, t))
		})
	}

	if scriptFile != "" {
		r := script.New(s, os.Stdout)
		defer r.Close()
		return r.RunFile(scriptFile)
	}

	reason, err := s.RunUntilHalt(steps)
	r := s.Registers()
	fmt.Printf("Stopped: %v\n", reason)
	fmt.Printf("%s C=%d\n", disasm.GetRegisterString(&r), s.Cycles())
	return err
}

// Open the interactive monitor, optionally with an image loaded.
func monitor(args []string) {
	h := host.New()
	h.Configure(strict, trace, steps)

	if len(args) > 0 {
		if err := h.Load(args[0]); err != nil {
			exitOnError(err)
		}
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Commands piped in from a file run without a prompt.
	h.RunCommands(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
