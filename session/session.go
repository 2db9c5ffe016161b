// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package session ties a cartridge image to a CPU and a memory bus, and
// runs the CPU under a fault policy.
package session

import (
	"errors"

	"github.com/beevik/nescpu/cpu"
	"github.com/beevik/nescpu/logger"
	"github.com/beevik/nescpu/rom"
)

// Errors
var (
	ErrNoImage = errors.New("no image loaded")
)

// Policy decides what happens when a step reports a fault.
type Policy byte

const (
	// Tolerant logs the fault and keeps running.
	Tolerant Policy = iota

	// Strict stops the run at the first fault.
	Strict
)

func (p Policy) String() string {
	switch p {
	case Tolerant:
		return "tolerant"
	case Strict:
		return "strict"
	default:
		return "unknown"
	}
}

// StopReason reports why RunUntilHalt returned.
type StopReason byte

const (
	StopHalted StopReason = iota // a halt instruction executed
	StopBudget                   // the step budget ran out
	StopFault                    // a fault stopped a strict run
)

func (r StopReason) String() string {
	switch r {
	case StopHalted:
		return "halted"
	case StopBudget:
		return "step budget exhausted"
	case StopFault:
		return "fault"
	default:
		return "unknown"
	}
}

// Config holds session options.
type Config struct {
	Policy Policy        // fault policy applied by RunUntilHalt
	Trace  cpu.TraceFunc // optional per-step trace hook
}

// A Session owns one CPU and its bus for the lifetime of a loaded image.
// It is not safe for concurrent use.
type Session struct {
	config Config
	image  *rom.Image
	bus    *cpu.NESBus
	cpu    *cpu.CPU
}

// New creates a session with no image loaded.
func New(config Config) *Session {
	return &Session{config: config}
}

// Reset splits the image, maps its program region on a fresh bus and
// resets the CPU. A malformed image leaves the session unchanged.
func (s *Session) Reset(image []byte) error {
	img, err := rom.Split(image)
	if err != nil {
		return err
	}
	s.load(img)
	return nil
}

// ResetImage is like Reset but takes an image that was already split.
func (s *Session) ResetImage(img *rom.Image) {
	s.load(img)
}

func (s *Session) load(img *rom.Image) {
	s.image = img
	s.bus = cpu.NewNESBus(img.Program)
	s.cpu = cpu.NewCPU(s.bus)
	s.cpu.SetTrace(s.config.Trace)
	s.cpu.Reset()
	logger.Logf("session", "reset to $%04X", s.cpu.Reg.PC)
}

// Restart resets the CPU and reloads the current image's program region
// onto a fresh bus, discarding RAM contents.
func (s *Session) Restart() error {
	if s.image == nil {
		return ErrNoImage
	}
	s.load(s.image)
	return nil
}

// Loaded returns true once an image has been loaded.
func (s *Session) Loaded() bool {
	return s.cpu != nil
}

// Step executes one instruction and returns its cycle cost. Faults are
// returned as-is; the policy only applies to RunUntilHalt.
func (s *Session) Step() (int, error) {
	if s.cpu == nil {
		return 0, ErrNoImage
	}
	return s.cpu.Step()
}

// RunUntilHalt steps the CPU until it halts, the budget of maxSteps is
// used up, or (under the strict policy) a step faults. Under the tolerant
// policy every fault is logged and the run continues. A halted CPU stops
// immediately without consuming the budget.
func (s *Session) RunUntilHalt(maxSteps int) (StopReason, error) {
	if s.cpu == nil {
		return StopFault, ErrNoImage
	}

	for i := 0; i < maxSteps; i++ {
		if s.cpu.Halted() {
			break
		}

		_, err := s.cpu.Step()
		if err != nil {
			if s.config.Policy == Strict {
				logger.Logf("session", "stopped by fault after %d steps", i+1)
				return StopFault, err
			}
			logger.Log("cpu", err.Error())
		}
	}

	if s.cpu.Halted() {
		logger.Logf("session", "halted at $%04X after %d cycles", s.cpu.LastPC, s.cpu.Cycles)
		return StopHalted, nil
	}

	logger.Logf("session", "step budget of %d exhausted", maxSteps)
	return StopBudget, nil
}

// Halted returns true once the CPU has executed a halt instruction.
func (s *Session) Halted() bool {
	return s.cpu != nil && s.cpu.Halted()
}

// ReadMemory returns the byte visible at a bus address without recording
// a fault. Unmapped addresses read as 0.
func (s *Session) ReadMemory(addr uint16) byte {
	if s.bus == nil {
		return 0
	}
	return s.bus.PeekByte(addr)
}

// Registers returns a snapshot of the CPU registers.
func (s *Session) Registers() cpu.Registers {
	if s.cpu == nil {
		return cpu.Registers{}
	}
	return s.cpu.Reg
}

// Cycles returns the total number of cycles executed since the last reset.
func (s *Session) Cycles() uint64 {
	if s.cpu == nil {
		return 0
	}
	return s.cpu.Cycles
}

// Header returns the 16-byte image header.
func (s *Session) Header() []byte {
	if s.image == nil {
		return nil
	}
	return s.image.Header
}

// Pattern returns the image's pattern region. It is retained but never
// mapped on the CPU bus.
func (s *Session) Pattern() []byte {
	if s.image == nil {
		return nil
	}
	return s.image.Pattern
}

// CPU returns the session's CPU, or nil before an image is loaded.
func (s *Session) CPU() *cpu.CPU {
	return s.cpu
}

// Policy returns the session's fault policy.
func (s *Session) Policy() Policy {
	return s.config.Policy
}

// SetPolicy changes the fault policy used by subsequent runs.
func (s *Session) SetPolicy(p Policy) {
	s.config.Policy = p
}

// SetTrace replaces the trace hook. A nil hook disables tracing.
func (s *Session) SetTrace(fn cpu.TraceFunc) {
	s.config.Trace = fn
	if s.cpu != nil {
		s.cpu.SetTrace(fn)
	}
}
