// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/beevik/cmd"

type handler func(h *Host, c cmd.Selection) error

// A command is the value stored with each entry of the command tree.
type command struct {
	name        string
	brief       string
	description string
	usage       string
	fn          handler
}

// A group lists the commands of one command tree for the help display.
type group struct {
	name     string
	brief    string
	tree     *cmd.Tree
	commands []*command
	groups   []*group
}

func newGroup(t *cmd.Tree, name, brief string) *group {
	return &group{name: name, brief: brief, tree: t}
}

func (g *group) add(d cmd.CommandDescriptor, fn handler) {
	c := &command{
		name:        d.Name,
		brief:       d.Brief,
		description: d.Description,
		usage:       d.Usage,
		fn:          fn,
	}
	d.Data = c
	g.tree.AddCommand(d)
	g.commands = append(g.commands, c)
}

func (g *group) subgroup(name, brief string) *group {
	sg := newGroup(g.tree.AddSubtree(cmd.TreeDescriptor{Name: name, Brief: brief}), name, brief)
	g.groups = append(g.groups, sg)
	return sg
}

var (
	cmds     *cmd.Tree
	rootHelp *group
)

func init() {
	root := newGroup(cmd.NewTree(cmd.TreeDescriptor{Name: "nescpu"}), "nescpu", "")
	root.add(cmd.CommandDescriptor{
		Name:        "help",
		Brief:       "Display help for a command",
		Description: "Display help for a command.",
		Usage:       "help [<command>]",
	}, (*Host).cmdHelp)

	// Breakpoint commands
	bp := root.subgroup("breakpoint", "Breakpoint commands")
	bp.add(cmd.CommandDescriptor{
		Name:        "list",
		Brief:       "List breakpoints",
		Description: "List all current breakpoints.",
		Usage:       "breakpoint list",
	}, (*Host).cmdBreakpointList)
	bp.add(cmd.CommandDescriptor{
		Name:  "add",
		Brief: "Add a breakpoint",
		Description: "Add a breakpoint at the specified address." +
			" The breakpoints starts enabled.",
		Usage: "breakpoint add <address>",
	}, (*Host).cmdBreakpointAdd)
	bp.add(cmd.CommandDescriptor{
		Name:        "remove",
		Brief:       "Remove a breakpoint",
		Description: "Remove a breakpoint at the specified address.",
		Usage:       "breakpoint remove <address>",
	}, (*Host).cmdBreakpointRemove)
	bp.add(cmd.CommandDescriptor{
		Name:        "enable",
		Brief:       "Enable a breakpoint",
		Description: "Enable a previously added breakpoint.",
		Usage:       "breakpoint enable <address>",
	}, (*Host).cmdBreakpointEnable)
	bp.add(cmd.CommandDescriptor{
		Name:  "disable",
		Brief: "Disable a breakpoint",
		Description: "Disable a previously added breakpoint. This" +
			" prevents the breakpoint from being hit when running the" +
			" CPU",
		Usage: "breakpoint disable <address>",
	}, (*Host).cmdBreakpointDisable)

	// Data breakpoint commands
	db := root.subgroup("databreakpoint", "Data Breakpoint commands")
	db.add(cmd.CommandDescriptor{
		Name:        "list",
		Brief:       "List data breakpoints",
		Description: "List all current data breakpoints.",
		Usage:       "databreakpoint list",
	}, (*Host).cmdDataBreakpointList)
	db.add(cmd.CommandDescriptor{
		Name:  "add",
		Brief: "Add a data breakpoint",
		Description: "Add a new data breakpoint at the specified" +
			" memory address. When the CPU stores data at this address, the" +
			" breakpoint will stop the CPU. Optionally, a byte" +
			" value may be specified, and the CPU will stop only" +
			" when this value is stored. The data breakpoint starts" +
			" enabled.",
		Usage: "databreakpoint add <address> [<value>]",
	}, (*Host).cmdDataBreakpointAdd)
	db.add(cmd.CommandDescriptor{
		Name:  "remove",
		Brief: "Remove a data breakpoint",
		Description: "Remove a previously added data breakpoint at" +
			" the specified memory address.",
		Usage: "databreakpoint remove <address>",
	}, (*Host).cmdDataBreakpointRemove)
	db.add(cmd.CommandDescriptor{
		Name:        "enable",
		Brief:       "Enable a data breakpoint",
		Description: "Enable a previously added breakpoint.",
		Usage:       "databreakpoint enable <address>",
	}, (*Host).cmdDataBreakpointEnable)
	db.add(cmd.CommandDescriptor{
		Name:        "disable",
		Brief:       "Disable a data breakpoint",
		Description: "Disable a previously added breakpoint.",
		Usage:       "databreakpoint disable <address>",
	}, (*Host).cmdDataBreakpointDisable)

	root.add(cmd.CommandDescriptor{
		Name:  "disassemble",
		Brief: "Disassemble code",
		Description: "Disassemble machine code starting at the requested" +
			" address. The number of instruction lines to disassemble may be" +
			" specified as an option. If no address is specified, the" +
			" disassembly continues from where the last disassembly left off.",
		Usage: "disassemble [<address>] [<lines>]",
	}, (*Host).cmdDisassemble)
	root.add(cmd.CommandDescriptor{
		Name:  "find",
		Brief: "List the opcodes of an instruction",
		Description: "Display every opcode and addressing mode of the named" +
			" instruction. The name may be abbreviated to any unique prefix.",
		Usage: "find <mnemonic>",
	}, (*Host).cmdFind)
	root.add(cmd.CommandDescriptor{
		Name:  "load",
		Brief: "Load a cartridge image",
		Description: "Load an NES cartridge image from disk, map its program" +
			" region at $8000 and reset the CPU. The image must be large" +
			" enough to hold the interrupt vectors.",
		Usage: "load <filename>",
	}, (*Host).cmdLoad)
	root.add(cmd.CommandDescriptor{
		Name:  "log",
		Brief: "Display the log",
		Description: "Display the most recent entries of the log. Faults" +
			" tolerated while running are recorded here.",
		Usage: "log [<count>]",
	}, (*Host).cmdLog)

	// Memory commands
	me := root.subgroup("memory", "Memory commands")
	me.add(cmd.CommandDescriptor{
		Name:  "dump",
		Brief: "Dump memory at address",
		Description: "Dump the contents of memory starting from the" +
			" specified address. The number of bytes to dump may be" +
			" specified as an option. If no address is specified, the" +
			" memory dump continues from where the last dump left off." +
			" Unmapped addresses read as zero.",
		Usage: "memory dump [<address>] [<bytes>]",
	}, (*Host).cmdMemoryDump)
	me.add(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set memory at address",
		Description: "Set the contents of RAM starting from the specified" +
			" address. The values to assign should be a series of" +
			" space-separated byte values.",
		Usage: "memory set <address> <byte> [<byte> ...]",
	}, (*Host).cmdMemorySet)

	root.add(cmd.CommandDescriptor{
		Name:        "quit",
		Brief:       "Quit the program",
		Description: "Quit the program.",
		Usage:       "quit",
	}, (*Host).cmdQuit)
	root.add(cmd.CommandDescriptor{
		Name:  "register",
		Brief: "View or change register values",
		Description: "When used without arguments, this command displays the current" +
			" contents of the CPU registers.  When used with arguments, this" +
			" command changes the value of a register or one of the CPU's status" +
			" flags. Allowed register names include A, X, Y, PC and SP. Allowed status" +
			" flag names include N (Negative), Z (Zero), C (Carry), I (InterruptDisable)," +
			" D (Decimal) and V (Overflow).",
		Usage: "register [<name> <value>]",
	}, (*Host).cmdRegister)
	root.add(cmd.CommandDescriptor{
		Name:  "reset",
		Brief: "Reset the CPU",
		Description: "Reload the current image and reset the CPU. RAM is" +
			" cleared and the program counter is loaded from the reset vector.",
		Usage: "reset",
	}, (*Host).cmdReset)
	root.add(cmd.CommandDescriptor{
		Name:  "run",
		Brief: "Run the CPU",
		Description: "Run the CPU until it halts, a breakpoint is hit, the" +
			" step budget runs out, or the user types Ctrl-C. The budget" +
			" defaults to the StepBudget setting.",
		Usage: "run [<steps>]",
	}, (*Host).cmdRun)
	root.add(cmd.CommandDescriptor{
		Name:  "script",
		Brief: "Run a Lua script",
		Description: "Load a Lua script from disk and run it against the" +
			" current session.",
		Usage: "script <filename>",
	}, (*Host).cmdScript)
	root.add(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set a configuration variable",
		Description: "Set the value of a configuration variable. To see the" +
			" current values of all configuration variables, type set" +
			" without any arguments.",
		Usage: "set [<var> <value>]",
	}, (*Host).cmdSet)

	// Step commands
	st := root.subgroup("step", "Step the debugger")
	st.add(cmd.CommandDescriptor{
		Name:  "in",
		Brief: "Step into next instruction",
		Description: "Step the CPU by a single instruction. If the" +
			" instruction is a subroutine call, step into the subroutine." +
			" The number of steps may be specified as an option.",
		Usage: "step in [<count>]",
	}, (*Host).cmdStepIn)
	st.add(cmd.CommandDescriptor{
		Name:  "over",
		Brief: "Step over next instruction",
		Description: "Step the CPU by a single instruction. If the" +
			" instruction is a subroutine call, step over the subroutine." +
			" The number of steps may be specified as an option.",
		Usage: "step over [<count>]",
	}, (*Host).cmdStepOver)
	st.add(cmd.CommandDescriptor{
		Name:  "out",
		Brief: "Step out of the current subroutine",
		Description: "Step the CPU until it executes an RTS or RTI" +
			" instruction. This has the effect of stepping until the" +
			" currently running subroutine has returned.",
		Usage: "step out",
	}, (*Host).cmdStepOut)

	// Add command shortcuts.
	t := root.tree
	t.AddShortcut("b", "breakpoint")
	t.AddShortcut("bp", "breakpoint")
	t.AddShortcut("ba", "breakpoint add")
	t.AddShortcut("br", "breakpoint remove")
	t.AddShortcut("bl", "breakpoint list")
	t.AddShortcut("be", "breakpoint enable")
	t.AddShortcut("bd", "breakpoint disable")
	t.AddShortcut("d", "disassemble")
	t.AddShortcut("db", "databreakpoint")
	t.AddShortcut("dbp", "databreakpoint")
	t.AddShortcut("dbl", "databreakpoint list")
	t.AddShortcut("dba", "databreakpoint add")
	t.AddShortcut("dbr", "databreakpoint remove")
	t.AddShortcut("dbe", "databreakpoint enable")
	t.AddShortcut("dbd", "databreakpoint disable")
	t.AddShortcut("m", "memory dump")
	t.AddShortcut("ms", "memory set")
	t.AddShortcut("r", "register")
	t.AddShortcut("s", "step over")
	t.AddShortcut("si", "step in")
	t.AddShortcut("so", "step out")
	t.AddShortcut("?", "help")
	t.AddShortcut(".", "register")

	cmds = t
	rootHelp = root
}
