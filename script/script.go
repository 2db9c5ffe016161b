// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package script runs Lua scripts against a CPU session. Scripts drive the
// CPU and check its state, which makes them useful as conformance tests
// for cartridge images.
//
// The following global functions are available to a script:
//
//	step()        execute one instruction; returns cycles, or nil and an error
//	run(n)        run until halt or n steps; returns a stop reason and an error
//	reg()         returns a table of registers (a x y sp pc) and flags (c z i d v n)
//	peek(addr)    returns the byte at a bus address
//	halted()      returns true once the CPU has halted
//	cycles()      returns the total cycle count
//	reset()       reload the current image and reset the CPU
//	print(...)    write values to the script output
package script

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/nescpu/session"
	lua "github.com/yuin/gopher-lua"
)

// A Runner executes Lua scripts against a session.
type Runner struct {
	session *session.Session
	output  io.Writer
	state   *lua.LState
}

// New creates a script runner bound to a session. Script output is written
// to 'output'.
func New(s *session.Session, output io.Writer) *Runner {
	r := &Runner{
		session: s,
		output:  output,
		state:   lua.NewState(),
	}

	funcs := map[string]lua.LGFunction{
		"step":   r.step,
		"run":    r.run,
		"reg":    r.reg,
		"peek":   r.peek,
		"halted": r.halted,
		"cycles": r.cycles,
		"reset":  r.reset,
		"print":  r.print,
	}
	for name, fn := range funcs {
		r.state.SetGlobal(name, r.state.NewFunction(fn))
	}
	return r
}

// Close releases the Lua interpreter.
func (r *Runner) Close() {
	r.state.Close()
}

// RunFile executes the Lua script stored in a file.
func (r *Runner) RunFile(filename string) error {
	return r.state.DoFile(filename)
}

// RunString executes a Lua script held in a string.
func (r *Runner) RunString(source string) error {
	return r.state.DoString(source)
}

func (r *Runner) step(L *lua.LState) int {
	cycles, err := r.session.Step()
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LNumber(cycles))
	return 1
}

func (r *Runner) run(L *lua.LState) int {
	maxSteps := L.CheckInt(1)
	reason, err := r.session.RunUntilHalt(maxSteps)
	L.Push(lua.LString(reason.String()))
	if err != nil {
		L.Push(lua.LString(err.Error()))
		return 2
	}
	return 1
}

func (r *Runner) reg(L *lua.LState) int {
	regs := r.session.Registers()
	t := L.NewTable()
	L.SetField(t, "a", lua.LNumber(regs.A))
	L.SetField(t, "x", lua.LNumber(regs.X))
	L.SetField(t, "y", lua.LNumber(regs.Y))
	L.SetField(t, "sp", lua.LNumber(regs.SP))
	L.SetField(t, "pc", lua.LNumber(regs.PC))
	L.SetField(t, "c", lua.LBool(regs.Carry))
	L.SetField(t, "z", lua.LBool(regs.Zero))
	L.SetField(t, "i", lua.LBool(regs.InterruptDisable))
	L.SetField(t, "d", lua.LBool(regs.Decimal))
	L.SetField(t, "v", lua.LBool(regs.Overflow))
	L.SetField(t, "n", lua.LBool(regs.Negative))
	L.Push(t)
	return 1
}

func (r *Runner) peek(L *lua.LState) int {
	addr := L.CheckInt(1)
	if addr < 0 || addr > 0xffff {
		L.ArgError(1, "address out of range")
		return 0
	}
	L.Push(lua.LNumber(r.session.ReadMemory(uint16(addr))))
	return 1
}

func (r *Runner) halted(L *lua.LState) int {
	L.Push(lua.LBool(r.session.Halted()))
	return 1
}

func (r *Runner) cycles(L *lua.LState) int {
	L.Push(lua.LNumber(r.session.Cycles()))
	return 1
}

func (r *Runner) reset(L *lua.LState) int {
	if err := r.session.Restart(); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (r *Runner) print(L *lua.LState) int {
	n := L.GetTop()
	s := make([]string, n)
	for i := 1; i <= n; i++ {
		s[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	fmt.Fprintln(r.output, strings.Join(s, "\t"))
	return 0
}
