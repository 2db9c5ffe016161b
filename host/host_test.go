// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/nescpu/rom"
	"github.com/beevik/nescpu/session"
	"github.com/beevik/nescpu/test"
)

// Counts X down from 5, stores it to $10 and halts.
var countdown = []byte{
	0xa2, 0x05, // 8000 LDX #$05
	0xca,       // 8002 DEX
	0xd0, 0xfd, // 8003 BNE $8002
	0x86, 0x10, // 8005 STX $10
	0x02,       // 8007 HLT
}

// Reads an unmapped address, then halts.
var unmapped = []byte{
	0xad, 0x00, 0x50, // 8000 LDA $5000
	0x02, // 8003 HLT
}

func writeImage(t *testing.T, code []byte) string {
	t.Helper()

	image := make([]byte, rom.MinimumSize)
	copy(image, "NES\x1a")
	copy(image[rom.HeaderSize:], code)
	image[rom.HeaderSize+0x7ffc] = 0x00
	image[rom.HeaderSize+0x7ffd] = 0x80

	filename := filepath.Join(t.TempDir(), "prog.nes")
	if err := os.WriteFile(filename, image, 0o644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func run(h *Host, commands ...string) string {
	var b strings.Builder
	h.RunCommands(strings.NewReader(strings.Join(commands, "\n")+"\n"), &b, false)
	return b.String()
}

func expectContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Errorf("output does not contain %q:\n%s", want, out)
	}
}

func TestLoadAndRun(t *testing.T) {
	filename := writeImage(t, countdown)

	h := New()
	out := run(h, "load "+filename, "run", "memory dump $10 1")

	expectContains(t, out, "Loaded 'prog.nes' with 0 bytes of pattern data. Reset to $8000.")
	expectContains(t, out, "Running from $8000.")
	expectContains(t, out, "CPU halted at $8007.")
	expectContains(t, out, "0010- 00")

	test.ExpectEquality(t, h.Session().Halted(), true)
	test.ExpectEquality(t, h.Session().Registers().X, byte(0))
}

func TestNoImage(t *testing.T) {
	out := run(New(), "register", "run", "disassemble")
	test.ExpectEquality(t, strings.Count(out, "No image loaded."), 3)
}

func TestLoadMissing(t *testing.T) {
	out := run(New(), "load "+filepath.Join(t.TempDir(), "missing"))
	expectContains(t, out, "Failed to load 'missing.nes'")
}

func TestBreakpoint(t *testing.T) {
	h := New()
	test.DemandEquality(t, h.Load(writeImage(t, countdown)), nil)

	out := run(h, "breakpoint add $8005", "run", "breakpoint list")
	expectContains(t, out, "Breakpoint added at $8005.")
	expectContains(t, out, "Breakpoint hit at $8005.")
	expectContains(t, out, "$8005 true")
	test.ExpectEquality(t, h.Session().Registers().PC, uint16(0x8005))

	out = run(h, "breakpoint disable $8005", "reset", "run")
	expectContains(t, out, "Breakpoint at $8005 disabled.")
	expectContains(t, out, "CPU halted at $8007.")

	out = run(h, "breakpoint remove $8005", "breakpoint remove $8005")
	expectContains(t, out, "Breakpoint at $8005 removed.")
	expectContains(t, out, "No breakpoint was set on $8005.")
}

func TestDataBreakpoint(t *testing.T) {
	h := New()
	test.DemandEquality(t, h.Load(writeImage(t, countdown)), nil)

	out := run(h, "databreakpoint add $10 $01", "databreakpoint add $11", "databreakpoint list")
	expectContains(t, out, "Conditional data breakpoint added at $0010 for value $01.")
	expectContains(t, out, "Data breakpoint added at $0011.")
	expectContains(t, out, "$0011 true     <none>")

	// The store of zero doesn't satisfy the condition.
	out = run(h, "run")
	expectContains(t, out, "CPU halted at $8007.")

	out = run(h, "databreakpoint add $10", "reset", "run")
	expectContains(t, out, "Data breakpoint hit on address $0010.")
	test.ExpectEquality(t, h.Session().Registers().PC, uint16(0x8007))
}

func TestStepping(t *testing.T) {
	h := New()
	test.DemandEquality(t, h.Load(writeImage(t, countdown)), nil)

	run(h, "step in 2")
	test.ExpectEquality(t, h.Session().Registers().PC, uint16(0x8003))
	test.ExpectEquality(t, h.Session().Registers().X, byte(4))

	run(h, "step over")
	test.ExpectEquality(t, h.Session().Registers().PC, uint16(0x8002))
}

func TestStepOverSubroutine(t *testing.T) {
	h := New()
	code := []byte{
		0x20, 0x10, 0x80, // 8000 JSR $8010
		0x02, // 8003 HLT
	}
	code = append(code, make([]byte, 12)...)
	code = append(code,
		0xa9, 0x07, // 8010 LDA #$07
		0x60, // 8012 RTS
	)
	test.DemandEquality(t, h.Load(writeImage(t, code)), nil)

	run(h, "step over")
	test.ExpectEquality(t, h.Session().Registers().PC, uint16(0x8003))
	test.ExpectEquality(t, h.Session().Registers().A, byte(7))
	test.ExpectEquality(t, len(h.debugger.GetBreakpoints()), 0)

	run(h, "reset", "step in", "step out")
	test.ExpectEquality(t, h.Session().Registers().PC, uint16(0x8003))
}

func TestRegisterAndMemory(t *testing.T) {
	h := New()
	test.DemandEquality(t, h.Load(writeImage(t, countdown)), nil)

	out := run(h, "register a $42", "register c 1", "register q 1", "memory set 0 1 2", "memory set $8000 1")
	expectContains(t, out, "Register A set to $42.")
	expectContains(t, out, "Flag C set to true.")
	expectContains(t, out, "Unknown register 'q'.")
	expectContains(t, out, "2 byte(s) written to $0000.")
	expectContains(t, out, "Only RAM ($0000-$07FF) is writable.")

	r := h.Session().Registers()
	test.ExpectEquality(t, r.A, byte(0x42))
	test.ExpectEquality(t, r.Carry, true)
	test.ExpectEquality(t, h.Session().ReadMemory(0), byte(1))
	test.ExpectEquality(t, h.Session().ReadMemory(1), byte(2))
	test.ExpectEquality(t, h.Session().ReadMemory(0x8000), byte(0xa2))

	out = run(h, "register")
	expectContains(t, out, "8000-   A2 05       LDX #$05")
	expectContains(t, out, "A=42")
}

func TestDisassemble(t *testing.T) {
	h := New()
	test.DemandEquality(t, h.Load(writeImage(t, countdown)), nil)

	out := run(h, "disassemble $8000 5")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	test.DemandEquality(t, len(lines), 5)
	expectContains(t, lines[2], "8003-   D0 FD       BNE $8002")
	expectContains(t, lines[4], "8007-   02          HLT")
	test.ExpectEquality(t, h.settings.NextDisasmAddr, uint16(0x8008))
}

func TestFaultPolicy(t *testing.T) {
	h := New()
	test.DemandEquality(t, h.Load(writeImage(t, unmapped)), nil)

	out := run(h, "run")
	expectContains(t, out, "Warning:")
	expectContains(t, out, "CPU halted at $8003.")

	out = run(h, "set strict on", "reset", "run")
	expectContains(t, out, "Strict set to on.")
	expectContains(t, out, "Fault:")
	test.ExpectEquality(t, h.Session().Policy(), session.Strict)
	test.ExpectEquality(t, h.Session().Halted(), false)
}

func TestFindAndHelp(t *testing.T) {
	out := run(New(), "find lda", "find zzz")
	expectContains(t, out, "LDA $A9  IMM  2     2")
	expectContains(t, out, "LDA $BD  ABX  3     4")
	expectContains(t, out, "Instruction 'zzz'")

	out = run(New(), "help")
	expectContains(t, out, "breakpoint")
	expectContains(t, out, "disassemble")

	out = run(New(), "help memory dump")
	expectContains(t, out, "Usage:")
}

func TestQuit(t *testing.T) {
	out := run(New(), "quit", "register")
	test.ExpectEquality(t, strings.Contains(out, "No image loaded."), false)
}

func TestUnknownCommand(t *testing.T) {
	out := run(New(), "frobnicate")
	expectContains(t, out, "Command not found.")
}

func TestConfigure(t *testing.T) {
	h := New()
	h.Configure(true, false, 500)
	test.ExpectEquality(t, h.Session().Policy(), session.Strict)
	test.ExpectEquality(t, h.settings.StepBudget, 500)

	h.Configure(false, false, 0)
	test.ExpectEquality(t, h.Session().Policy(), session.Tolerant)
	test.ExpectEquality(t, h.settings.StepBudget, 500)
}

func TestScriptCommand(t *testing.T) {
	h := New()
	test.DemandEquality(t, h.Load(writeImage(t, countdown)), nil)

	filename := filepath.Join(t.TempDir(), "check.lua")
	source := "step()\nstep()\nprint(reg().x)\nreset()\n"
	if err := os.WriteFile(filename, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}

	out := run(h, "script "+filename, "breakpoint add $8005", "run")
	expectContains(t, out, "4\n")
	expectContains(t, out, "Script 'check.lua' completed.")

	// The script's reset replaced the CPU, so the debugger must follow.
	expectContains(t, out, "Breakpoint hit at $8005.")
}

func TestLogCommand(t *testing.T) {
	h := New()
	test.DemandEquality(t, h.Load(writeImage(t, unmapped)), nil)

	out := run(h, "run", "log 5")
	expectContains(t, out, "cpu: ")
}
