// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host implements an interactive monitor for the NES CPU. It loads
// a cartridge image into a session and lets you step through the program,
// set address and data breakpoints, dump memory, disassemble code, view and
// change registers, read the log and run Lua scripts.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/beevik/cmd"
	"github.com/beevik/nescpu/cpu"
	"github.com/beevik/nescpu/disasm"
	"github.com/beevik/nescpu/logger"
	"github.com/beevik/nescpu/rom"
	"github.com/beevik/nescpu/script"
	"github.com/beevik/nescpu/session"
)

var errExit = errors.New("exiting program")

type displayFlags uint8

const (
	displayRegisters displayFlags = 1 << iota
	displayCycles

	displayAll = displayRegisters | displayCycles
)

type state byte

const (
	stateProcessingCommands state = iota
	stateRunning
	stateBreakpoint
	stateStepOverBreakpoint
	stateHalted
	stateFault
)

// A Host is an interactive monitor wrapped around a CPU session.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	session     *session.Session
	debugger    *cpu.Debugger
	lastCmd     *cmd.Selection
	state       state
	settings    *settings
	filename    string
}

// New creates a new monitor with no image loaded.
func New() *Host {
	h := &Host{
		state:    stateProcessingCommands,
		settings: newSettings(),
		output:   bufio.NewWriter(io.Discard),
	}
	h.session = session.New(session.Config{})
	h.debugger = cpu.NewDebugger(newDebugHandler(h))
	return h
}

// Session returns the session driven by the host.
func (h *Host) Session() *session.Session {
	return h.session
}

// Configure sets the fault policy, the trace toggle and the step budget
// used by the run commands.
func (h *Host) Configure(strict, trace bool, stepBudget int) {
	h.settings.Strict = strict
	h.settings.Trace = trace
	if stepBudget > 0 {
		h.settings.StepBudget = stepBudget
	}
	h.onSettingsUpdate()
}

// Load reads a cartridge image from disk and resets the CPU.
func (h *Host) Load(filename string) error {
	img, err := rom.ReadFile(filename)
	if err != nil {
		return err
	}
	h.session.ResetImage(img)
	h.filename = filename
	h.attach()
	return nil
}

// Attach the debugger to the session's current CPU. A reset creates a new
// CPU, so this must follow every reset.
func (h *Host) attach() {
	if c := h.session.CPU(); c != nil {
		c.AttachDebugger(h.debugger)
	}
	h.settings.NextDisasmAddr = 0
	h.settings.NextMemDumpAddr = 0
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the the next command to be entered.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive
	defer h.flush()

	if interactive {
		h.println()
	}

	h.displayPC()

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}

		var c cmd.Selection
		if line != "" {
			c, err = cmds.Lookup(line)
			switch {
			case errors.Is(err, cmd.ErrNotFound):
				h.println("Command not found.")
				continue
			case errors.Is(err, cmd.ErrAmbiguous):
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
			if c.Command == nil {
				h.displayGroup(line)
				continue
			}
		} else if h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.Command == nil {
			continue
		}
		h.lastCmd = &c

		command := c.Command.Data.(*command)
		if err := command.fn(h, c); err != nil {
			break
		}
	}
}

// Break interrupts a running CPU.
func (h *Host) Break() {
	h.println()

	if h.state == stateRunning {
		h.displayPC()
	}
	if h.state == stateProcessingCommands {
		h.prompt()
	}
	h.state = stateProcessingCommands
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return strings.TrimSpace(h.input.Text()), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
	}
}

func (h *Host) displayPC() {
	if h.interactive && h.session.Loaded() {
		d, _ := h.disassemble(h.session.CPU().Reg.PC, displayAll)
		h.println(d)
	}
}

// requireImage reports whether an image is loaded, printing a message
// when it isn't.
func (h *Host) requireImage() bool {
	if !h.session.Loaded() {
		h.println("No image loaded.")
		return false
	}
	return true
}

func (h *Host) cmdBreakpointList(c cmd.Selection) error {
	h.println("Addr  Enabled")
	h.println("----- -------")
	for _, b := range h.debugger.GetBreakpoints() {
		h.printf("$%04X %v\n", b.Address, !b.Disabled)
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c cmd.Selection) error {
	addr, ok := h.addressArg(c)
	if !ok {
		return nil
	}

	h.debugger.AddBreakpoint(addr)
	h.printf("Breakpoint added at $%04X.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointRemove(c cmd.Selection) error {
	addr, ok := h.addressArg(c)
	if !ok {
		return nil
	}

	if h.debugger.GetBreakpoint(addr) == nil {
		h.printf("No breakpoint was set on $%04X.\n", addr)
		return nil
	}

	h.debugger.RemoveBreakpoint(addr)
	h.printf("Breakpoint at $%04X removed.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointEnable(c cmd.Selection) error {
	return h.enableBreakpoint(c, true)
}

func (h *Host) cmdBreakpointDisable(c cmd.Selection) error {
	return h.enableBreakpoint(c, false)
}

func (h *Host) enableBreakpoint(c cmd.Selection, enable bool) error {
	addr, ok := h.addressArg(c)
	if !ok {
		return nil
	}

	b := h.debugger.GetBreakpoint(addr)
	if b == nil {
		h.printf("No breakpoint was set on $%04X.\n", addr)
		return nil
	}

	b.Disabled = !enable
	h.printf("Breakpoint at $%04X %s.\n", addr, enabledString(enable))
	return nil
}

func (h *Host) cmdDataBreakpointList(c cmd.Selection) error {
	h.println("Addr  Enabled  Value")
	h.println("----- -------  -----")
	for _, b := range h.debugger.GetDataBreakpoints() {
		if b.Conditional {
			h.printf("$%04X %-5v    $%02X\n", b.Address, !b.Disabled, b.Value)
		} else {
			h.printf("$%04X %-5v    <none>\n", b.Address, !b.Disabled)
		}
	}
	return nil
}

func (h *Host) cmdDataBreakpointAdd(c cmd.Selection) error {
	addr, ok := h.addressArg(c)
	if !ok {
		return nil
	}

	if len(c.Args) > 1 {
		value, err := h.parseByte(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.debugger.AddConditionalDataBreakpoint(addr, value)
		h.printf("Conditional data breakpoint added at $%04X for value $%02X.\n", addr, value)
	} else {
		h.debugger.AddDataBreakpoint(addr)
		h.printf("Data breakpoint added at $%04X.\n", addr)
	}

	return nil
}

func (h *Host) cmdDataBreakpointRemove(c cmd.Selection) error {
	addr, ok := h.addressArg(c)
	if !ok {
		return nil
	}

	if h.debugger.GetDataBreakpoint(addr) == nil {
		h.printf("No data breakpoint was set on $%04X.\n", addr)
		return nil
	}

	h.debugger.RemoveDataBreakpoint(addr)
	h.printf("Data breakpoint at $%04X removed.\n", addr)
	return nil
}

func (h *Host) cmdDataBreakpointEnable(c cmd.Selection) error {
	return h.enableDataBreakpoint(c, true)
}

func (h *Host) cmdDataBreakpointDisable(c cmd.Selection) error {
	return h.enableDataBreakpoint(c, false)
}

func (h *Host) enableDataBreakpoint(c cmd.Selection, enable bool) error {
	addr, ok := h.addressArg(c)
	if !ok {
		return nil
	}

	b := h.debugger.GetDataBreakpoint(addr)
	if b == nil {
		h.printf("No data breakpoint was set on $%04X.\n", addr)
		return nil
	}

	b.Disabled = !enable
	h.printf("Data breakpoint at $%04X %s.\n", addr, enabledString(enable))
	return nil
}

func (h *Host) cmdDisassemble(c cmd.Selection) error {
	if !h.requireImage() {
		return nil
	}

	var addr uint16
	switch {
	case len(c.Args) == 0 || c.Args[0] == "$":
		addr = h.settings.NextDisasmAddr
		if addr == 0 {
			addr = h.session.CPU().Reg.PC
		}
	default:
		a, err := h.parseAddr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	lines := h.settings.DisasmLines
	if len(c.Args) > 1 {
		l, err := h.parseAddr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = int(l)
	}

	for i := 0; i < lines; i++ {
		d, next := h.disassemble(addr, 0)
		h.println(d)
		addr = next
	}

	h.settings.NextDisasmAddr = addr
	h.lastCmd.Args = []string{"$", strconv.Itoa(lines)}
	return nil
}

func (h *Host) cmdFind(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	name, err := findMnemonic(c.Args[0])
	if err != nil {
		h.printf("Instruction '%s' %v.\n", c.Args[0], err)
		return nil
	}

	h.println("Opcode Mode Bytes Cycles")
	h.println("------ ---- ----- ------")
	for _, inst := range cpu.GetInstructionSet().GetInstructions(name) {
		h.printf("%s $%02X  %-4s %-5d %d\n", name, inst.Opcode, modeNames[inst.Mode], inst.Length, inst.Cycles)
	}
	return nil
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	if len(c.Args) == 0 {
		h.displayCommands(rootHelp)
		return nil
	}

	line := strings.Join(c.Args, " ")
	s, err := cmds.Lookup(line)
	switch {
	case err != nil:
		h.printf("%v\n", err)
	case s.Command == nil:
		h.displayGroup(line)
	default:
		command := s.Command.Data.(*command)
		if command.usage != "" {
			h.printf("Usage: %s\n\n", command.usage)
		}
		switch {
		case command.description != "":
			h.printf("Description:\n%s\n\n", indentWrap(3, command.description))
		case command.brief != "":
			h.printf("Description:\n%s.\n\n", indentWrap(3, command.brief))
		}
	}
	return nil
}

func (h *Host) cmdLoad(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	filename := c.Args[0]
	if filepath.Ext(filename) == "" {
		filename += ".nes"
	}

	if err := h.Load(filename); err != nil {
		h.printf("Failed to load '%s': %v\n", filepath.Base(filename), err)
		return nil
	}

	h.printf("Loaded '%s' with %d bytes of pattern data. Reset to $%04X.\n",
		filepath.Base(filename), len(h.session.Pattern()), h.session.Registers().PC)
	h.displayPC()
	return nil
}

func (h *Host) cmdLog(c cmd.Selection) error {
	n := h.settings.LogLines
	if len(c.Args) > 0 {
		v, err := parseNumber(c.Args[0], false)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		n = int(v)
	}
	logger.Tail(h.output, n)
	h.flush()
	return nil
}

func (h *Host) cmdMemoryDump(c cmd.Selection) error {
	if !h.requireImage() {
		return nil
	}

	var addr uint16
	switch {
	case len(c.Args) == 0 || c.Args[0] == "$":
		addr = h.settings.NextMemDumpAddr
	default:
		a, err := h.parseAddr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	bytes := uint16(h.settings.MemDumpBytes)
	if len(c.Args) >= 2 {
		var err error
		bytes, err = h.parseAddr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	h.dumpMemory(addr, bytes)

	h.settings.NextMemDumpAddr = addr + bytes
	h.lastCmd.Args = []string{"$", strconv.Itoa(int(bytes))}
	return nil
}

func (h *Host) cmdMemorySet(c cmd.Selection) error {
	if len(c.Args) < 2 {
		h.displayUsage(c)
		return nil
	}
	if !h.requireImage() {
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	values := make([]byte, 0, len(c.Args)-1)
	for _, arg := range c.Args[1:] {
		v, err := h.parseByte(arg)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		values = append(values, v)
	}

	if int(addr)+len(values) > cpu.RAMSize {
		h.printf("Only RAM ($0000-$%04X) is writable.\n", cpu.RAMSize-1)
		return nil
	}

	bus := h.session.CPU().Bus
	for i, v := range values {
		bus.StoreByte(addr+uint16(i), v)
	}
	h.printf("%d byte(s) written to $%04X.\n", len(values), addr)
	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return errExit
}

func (h *Host) cmdRegister(c cmd.Selection) error {
	if !h.requireImage() {
		return nil
	}

	if len(c.Args) == 0 {
		d, _ := h.disassemble(h.session.CPU().Reg.PC, displayAll)
		h.println(d)
		return nil
	}

	if len(c.Args) != 2 {
		h.displayUsage(c)
		return nil
	}

	key := strings.ToLower(c.Args[0])
	v, err := parseNumber(c.Args[1], h.settings.HexMode)
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	r := &h.session.CPU().Reg
	flag := v != 0
	switch key {
	case "a":
		r.A = byte(v)
	case "x":
		r.X = byte(v)
	case "y":
		r.Y = byte(v)
	case "sp":
		r.SP = byte(v)
	case "pc":
		r.PC = uint16(v)
		h.settings.NextDisasmAddr = 0
	case "n", "negative":
		r.Negative = flag
	case "z", "zero":
		r.Zero = flag
	case "c", "carry":
		r.Carry = flag
	case "i", "interruptdisable":
		r.InterruptDisable = flag
	case "d", "decimal":
		r.Decimal = flag
	case "v", "overflow":
		r.Overflow = flag
	default:
		h.printf("Unknown register '%s'.\n", c.Args[0])
		return nil
	}

	switch key {
	case "a", "x", "y", "sp":
		h.printf("Register %s set to $%02X.\n", strings.ToUpper(key), byte(v))
	case "pc":
		h.printf("Register PC set to $%04X.\n", uint16(v))
	default:
		h.printf("Flag %s set to %v.\n", strings.ToUpper(key), flag)
	}
	return nil
}

func (h *Host) cmdReset(c cmd.Selection) error {
	if err := h.session.Restart(); err != nil {
		h.printf("Failed to reset: %v.\n", err)
		return nil
	}
	h.attach()
	h.printf("CPU reset to $%04X.\n", h.session.Registers().PC)
	return nil
}

func (h *Host) cmdRun(c cmd.Selection) error {
	if !h.requireImage() {
		return nil
	}

	budget := h.settings.StepBudget
	if len(c.Args) > 0 {
		n, err := parseNumber(c.Args[0], false)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		budget = int(n)
	}

	h.printf("Running from $%04X. Press ctrl-C to break.\n", h.session.Registers().PC)

	h.state = stateRunning
	steps := 0
	for ; steps < budget && h.state == stateRunning; steps++ {
		h.step()
	}
	if h.state == stateRunning {
		h.printf("Step budget of %d exhausted.\n", budget)
		h.displayPC()
	}
	h.state = stateProcessingCommands

	h.settings.NextDisasmAddr = h.session.Registers().PC
	return nil
}

func (h *Host) cmdScript(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	filename := c.Args[0]
	if filepath.Ext(filename) == "" {
		filename += ".lua"
	}

	cpuBefore := h.session.CPU()
	r := script.New(h.session, h.output)
	defer r.Close()

	err := r.RunFile(filename)
	if h.session.CPU() != cpuBefore {
		h.attach()
	}
	if err != nil {
		h.printf("Script '%s' failed: %v\n", filepath.Base(filename), err)
		return nil
	}

	h.printf("Script '%s' completed.\n", filepath.Base(filename))
	return nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayUsage(c)

	default:
		key, value := strings.ToLower(c.Args[0]), strings.Join(c.Args[1:], " ")

		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = fmt.Errorf("setting '%s' not found", key)
		case reflect.Bool:
			var v bool
			v, err = stringToBool(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		default:
			var v int64
			v, err = parseNumber(value, h.settings.HexMode)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		}

		if err == nil {
			h.printf("%s set to %s.\n", h.settings.Name(key), value)
		} else {
			h.printf("%v\n", err)
		}

		h.onSettingsUpdate()
	}

	return nil
}

func (h *Host) cmdStepIn(c cmd.Selection) error {
	return h.stepCommand(c, (*Host).step)
}

func (h *Host) cmdStepOver(c cmd.Selection) error {
	return h.stepCommand(c, (*Host).stepOver)
}

func (h *Host) stepCommand(c cmd.Selection, fn func(h *Host)) error {
	if !h.requireImage() {
		return nil
	}

	// Parse the number of steps.
	count := 1
	if len(c.Args) > 0 {
		n, err := parseNumber(c.Args[0], false)
		if err == nil {
			count = int(n)
		}
	}

	// Step the CPU count times.
	h.state = stateRunning
	for i := count - 1; i >= 0 && h.state == stateRunning; i-- {
		fn(h)
		switch {
		case i == h.settings.MaxStepLines:
			h.println("...")
		case i < h.settings.MaxStepLines && h.state == stateRunning:
			h.displayPC()
		}
	}
	h.state = stateProcessingCommands

	h.settings.NextDisasmAddr = h.session.Registers().PC
	return nil
}

func (h *Host) cmdStepOut(c cmd.Selection) error {
	if !h.requireImage() {
		return nil
	}

	cpu := h.session.CPU()
	depth := 0

	h.state = stateRunning
	for i := 0; i < h.settings.StepBudget && h.state == stateRunning; i++ {
		inst := cpu.GetInstruction(cpu.Reg.PC)
		h.step()

		switch inst.Name {
		case "JSR":
			depth++
		case "RTS", "RTI":
			if depth == 0 && h.state == stateRunning {
				h.state = stateProcessingCommands
			}
			depth--
		}
	}
	if h.state != stateBreakpoint {
		h.displayPC()
	}
	h.state = stateProcessingCommands

	h.settings.NextDisasmAddr = cpu.Reg.PC
	return nil
}

// Execute a single instruction and apply the fault policy to its result.
func (h *Host) step() {
	_, err := h.session.Step()
	switch {
	case err == nil:
		if h.session.Halted() {
			h.printf("CPU halted at $%04X.\n", h.session.CPU().LastPC)
			h.state = stateHalted
		}

	case errors.Is(err, cpu.ErrHalted):
		h.println("CPU is halted. Use reset to restart it.")
		h.state = stateHalted

	case h.settings.Strict:
		h.printf("Fault: %v.\n", err)
		h.state = stateFault

	default:
		logger.Log("cpu", err.Error())
		h.printf("Warning: %v.\n", err)
	}
}

func (h *Host) stepOver() {
	cpu := h.session.CPU()

	// JSR instructions need to be handled specially.
	inst := cpu.GetInstruction(cpu.Reg.PC)
	if inst.Name != "JSR" {
		h.step()
		return
	}

	// Place a step-over breakpoint on the instruction following the JSR.
	// Either modify an already existing breakpoint on that instrution, or
	// create a temporary one.
	next := cpu.Reg.PC + uint16(inst.Length)
	tmpBreakpointCreated := false
	b := h.debugger.GetBreakpoint(next)
	if b == nil {
		b = h.debugger.AddBreakpoint(next)
		tmpBreakpointCreated = true
	}
	b.StepOver = true

	// Run until interrupted.
	for i := 0; i < h.settings.StepBudget && h.state == stateRunning; i++ {
		h.step()
	}
	b.StepOver = false

	// If we were interrupted by the temporary step-over breakpoint,
	// then continue as normal.
	if h.state == stateStepOverBreakpoint {
		h.state = stateRunning
	}

	// Remove the temporarily created breakpoint.
	if tmpBreakpointCreated {
		h.debugger.RemoveBreakpoint(next)
	}
}

func (h *Host) onSettingsUpdate() {
	if h.settings.Strict {
		h.session.SetPolicy(session.Strict)
	} else {
		h.session.SetPolicy(session.Tolerant)
	}

	if h.settings.Trace {
		h.session.SetTrace(h.trace)
	} else {
		h.session.SetTrace(nil)
	}
}

func (h *Host) trace(t cpu.Trace) {
	h.println(disasm.TraceLine(h.session.CPU().Bus, t))
}

func (h *Host) addressArg(c cmd.Selection) (uint16, bool) {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return 0, false
	}
	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return 0, false
	}
	return addr, true
}

// parseAddr parses a 16-bit value. The names of the 16-bit registers and
// '.' (the program counter) are accepted too.
func (h *Host) parseAddr(s string) (uint16, error) {
	if h.session.Loaded() {
		switch strings.ToLower(s) {
		case ".", "pc":
			return h.session.Registers().PC, nil
		case "sp":
			return 0x100 | uint16(h.session.Registers().SP), nil
		}
	}

	v, err := parseNumber(s, h.settings.HexMode)
	if err != nil {
		return 0, err
	}
	if v < -0x8000 || v > 0xffff {
		return 0, fmt.Errorf("value '%s' out of range", s)
	}
	return uint16(v), nil
}

func (h *Host) parseByte(s string) (byte, error) {
	v, err := parseNumber(s, h.settings.HexMode)
	if err != nil {
		return 0, err
	}
	if v < -0x80 || v > 0xff {
		return 0, fmt.Errorf("value '%s' out of range", s)
	}
	return byte(v), nil
}

func (h *Host) disassemble(addr uint16, flags displayFlags) (str string, next uint16) {
	c := h.session.CPU()

	var line string
	line, next = disasm.Disassemble(c.Bus, addr)

	b := make([]byte, next-addr)
	for i := range b {
		b[i] = h.session.ReadMemory(addr + uint16(i))
	}

	str = fmt.Sprintf("%04X-   %-8s    %-15s", addr, disasm.CodeString(b), line)

	if (flags & displayRegisters) != 0 {
		str += " " + disasm.GetRegisterString(&c.Reg)
	}

	if (flags & displayCycles) != 0 {
		str += fmt.Sprintf(" C=%-12d", c.Cycles)
	}

	return str, next
}

func (h *Host) dumpMemory(addr0, bytes uint16) {
	if bytes == 0 {
		return
	}

	addr1 := addr0 + bytes - 1
	if addr1 < addr0 {
		addr1 = 0xffff
	}

	buf := []byte("    -" + strings.Repeat(" ", 35))

	// Don't align display for short dumps.
	if addr1-addr0 < 8 {
		addrToBuf(addr0, buf[0:4])
		for a, c1, c2 := uint32(addr0), 6, 32; a <= uint32(addr1); a, c1, c2 = a+1, c1+3, c2+1 {
			m := h.session.ReadMemory(uint16(a))
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(string(buf))
		return
	}

	// Align addr0 and addr1 to 8-byte boundaries.
	start := uint32(addr0) & 0xfff8
	stop := (uint32(addr1) + 8) & 0xffff8
	if stop > 0x10000 {
		stop = 0x10000
	}

	a := uint32(start)
	for r := start; r < stop; r += 8 {
		addrToBuf(uint16(a), buf[0:4])
		for c1, c2 := 6, 32; c1 < 29; c1, c2, a = c1+3, c2+1, a+1 {
			if a >= uint32(addr0) && a <= uint32(addr1) {
				m := h.session.ReadMemory(uint16(a))
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(string(buf))
	}
}

func (h *Host) displayUsage(c cmd.Selection) {
	command := c.Command.Data.(*command)
	if command.usage != "" {
		h.printf("Usage: %s\n", command.usage)
	} else {
		h.println("<no help text>")
	}
}

func (h *Host) displayCommands(g *group) {
	title := g.name
	if g.brief != "" {
		title = g.brief
	}
	h.printf("%s:\n", title)
	for _, c := range g.commands {
		if c.brief != "" {
			h.printf("    %-15s  %s\n", c.name, c.brief)
		}
	}
	for _, sg := range g.groups {
		h.printf("    %-15s  %s\n", sg.name, sg.brief)
	}
}

// displayGroup lists the commands of the subcommand group named by the
// first word of the line.
func (h *Host) displayGroup(line string) {
	name := strings.ToLower(strings.Fields(line)[0])
	var match *group
	for _, g := range rootHelp.groups {
		if strings.HasPrefix(g.name, name) {
			if match != nil {
				h.println("Command is ambiguous.")
				return
			}
			match = g
		}
	}
	if match == nil {
		h.println("Command not found.")
		return
	}
	h.displayCommands(match)
}

func (h *Host) onBreakpoint(cpu *cpu.CPU, b *cpu.Breakpoint) {
	if b.StepOver {
		h.state = stateStepOverBreakpoint
	} else {
		h.state = stateBreakpoint
		h.printf("Breakpoint hit at $%04X.\n", b.Address)
		h.displayPC()
	}
}

func (h *Host) onDataBreakpoint(cpu *cpu.CPU, b *cpu.DataBreakpoint) {
	h.printf("Data breakpoint hit on address $%04X.\n", b.Address)

	h.state = stateBreakpoint

	if h.interactive {
		d, _ := h.disassemble(cpu.LastPC, displayAll)
		h.println(d)
	}
}

func enabledString(enable bool) string {
	if enable {
		return "enabled"
	}
	return "disabled"
}
