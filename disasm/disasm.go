// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a disassembler for the NES CPU instruction
// set. Memory is always read through cpu.PeekByte, so disassembling never
// records a bus fault.
package disasm

import (
	"fmt"
	"strings"

	"github.com/beevik/nescpu/cpu"
)

// Disassembler formatting for addressing modes
var modeFormat = []string{
	"#$%s",    // IMM
	"%s",      // IMP
	"$%s",     // REL
	"$%s",     // ZPG
	"$%s,X",   // ZPX
	"$%s,Y",   // ZPY
	"$%s",     // ABS
	"$%s,X",   // ABX
	"$%s,Y",   // ABY
	"($%s)",   // IND
	"($%s,X)", // IDX
	"($%s),Y", // IDY
	"A",       // ACC
}

var hex = "0123456789ABCDEF"

// Return a hexadecimal string representation of a little-endian byte
// slice, most significant byte first.
func hexString(b []byte) string {
	hexlen := len(b) * 2
	hexbuf := make([]byte, hexlen)
	j := hexlen - 1
	for _, n := range b {
		hexbuf[j] = hex[n&0xf]
		hexbuf[j-1] = hex[n>>4]
		j -= 2
	}
	return string(hexbuf)
}

// Read the bytes of the instruction at 'addr'.
func instructionBytes(b cpu.Bus, addr uint16, length byte) []byte {
	bytes := make([]byte, length)
	for i := range bytes {
		bytes[i] = cpu.PeekByte(b, addr+uint16(i))
	}
	return bytes
}

// Disassemble the machine code on bus 'b' at address 'addr'. Return a
// 'line' string representing the disassembled instruction and a 'next'
// address that starts the following line of machine code.
func Disassemble(b cpu.Bus, addr uint16) (line string, next uint16) {
	inst := cpu.GetInstructionSet().Lookup(cpu.PeekByte(b, addr))
	bytes := instructionBytes(b, addr, inst.Length)
	line = format(inst, addr, bytes[1:])
	next = addr + uint16(inst.Length)
	return
}

func format(inst *cpu.Instruction, addr uint16, operand []byte) string {
	if !inst.Defined() {
		return inst.Name
	}

	switch inst.Mode {
	case cpu.IMP:
		return inst.Name
	case cpu.ACC:
		return inst.Name + " A"
	case cpu.REL:
		// Convert relative offset to absolute address.
		braddr := int(addr) + int(inst.Length) + int(int8(operand[0]))
		operand = []byte{byte(braddr), byte(braddr >> 8)}
	}

	return inst.Name + " " + fmt.Sprintf(modeFormat[inst.Mode], hexString(operand))
}

// CodeString returns the instruction bytes as space-separated hex pairs.
func CodeString(b []byte) string {
	var s strings.Builder
	for i, v := range b {
		if i > 0 {
			s.WriteByte(' ')
		}
		s.WriteByte(hex[v>>4])
		s.WriteByte(hex[v&0xf])
	}
	return s.String()
}

// GetFlagString returns the status flags as a string of letters, with
// clear flags shown as dashes.
func GetFlagString(r *cpu.Registers) string {
	ps := r.SavePS(false)
	b := []byte("NV-BDIZC")
	for i := range b {
		if ps&(0x80>>i) == 0 {
			b[i] = '-'
		}
	}
	b[2] = '-'
	return string(b)
}

// GetRegisterString returns a string describing the contents of the 6502
// registers.
func GetRegisterString(r *cpu.Registers) string {
	return fmt.Sprintf("A=%02X X=%02X Y=%02X PS=[%s] SP=%02X PC=%04X",
		r.A, r.X, r.Y, GetFlagString(r), r.SP, r.PC)
}

// TraceLine formats a trace record the way nestest-style CPU logs do:
// address, instruction bytes, disassembly, then the registers and the
// cycle count before the instruction executed.
func TraceLine(b cpu.Bus, t cpu.Trace) string {
	line, next := Disassemble(b, t.PC)
	code := instructionBytes(b, t.PC, byte(next-t.PC))
	return fmt.Sprintf("%04X  %-8s  %-30s  A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		t.PC, CodeString(code), line,
		t.Reg.A, t.Reg.X, t.Reg.Y, t.Reg.SavePS(false), t.Reg.SP, t.Cycles)
}
