// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Mode describes a memory addressing mode.
type Mode byte

// All possible memory addressing modes
const (
	IMM Mode = iota // Immediate
	IMP             // Implied (no operand)
	REL             // Relative
	ZPG             // Zero Page
	ZPX             // Zero Page,X
	ZPY             // Zero Page,Y
	ABS             // Absolute
	ABX             // Absolute,X
	ABY             // Absolute,Y
	IND             // (Indirect)
	IDX             // (Indirect,X)
	IDY             // (Indirect),Y
	ACC             // Accumulator (no operand)
)

// Combined size of opcode and operand, in bytes, for each mode.
var modeLength = [...]byte{
	IMM: 2,
	IMP: 1,
	REL: 2,
	ZPG: 2,
	ZPX: 2,
	ZPY: 2,
	ABS: 3,
	ABX: 3,
	ABY: 3,
	IND: 3,
	IDX: 2,
	IDY: 2,
	ACC: 1,
}

// Length returns the combined size of the opcode and operand for an
// instruction using the mode.
func (m Mode) Length() byte {
	return modeLength[m]
}

// Fetch the byte at the program counter and advance it.
func (cpu *CPU) fetch() byte {
	v := cpu.Bus.LoadByte(cpu.Reg.PC)
	cpu.Reg.PC++
	return v
}

// Fetch a little-endian 16-bit operand at the program counter.
func (cpu *CPU) fetchAddress() uint16 {
	lo := cpu.fetch()
	hi := cpu.fetch()
	return Word(lo, hi)
}

// Load a 16-bit pointer stored in the zero page. The high byte wraps
// within page zero, so a pointer at $FF takes its high byte from $00.
func (cpu *CPU) loadZeroPagePointer(zp byte) uint16 {
	lo := cpu.Bus.LoadByte(uint16(zp))
	hi := cpu.Bus.LoadByte(uint16(zp + 1))
	return Word(lo, hi)
}

// Load a 16-bit pointer for JMP (ind). The NMOS 6502 never carries into
// the high byte of the pointer, so JMP ($12FF) reads $12FF and $1200.
func (cpu *CPU) loadIndirectPointer(ptr uint16) uint16 {
	lo := cpu.Bus.LoadByte(ptr)
	hi := cpu.Bus.LoadByte((ptr & 0xff00) | uint16(byte(ptr)+1))
	return Word(lo, hi)
}

// Consume the operand bytes of a memory addressing mode and return the
// effective address.
func (cpu *CPU) operandAddress(mode Mode) uint16 {
	switch mode {
	case ZPG:
		return uint16(cpu.fetch())
	case ZPX:
		return uint16(cpu.fetch() + cpu.Reg.X)
	case ZPY:
		return uint16(cpu.fetch() + cpu.Reg.Y)
	case ABS:
		return cpu.fetchAddress()
	case ABX:
		return cpu.fetchAddress() + uint16(cpu.Reg.X)
	case ABY:
		return cpu.fetchAddress() + uint16(cpu.Reg.Y)
	case IND:
		return cpu.loadIndirectPointer(cpu.fetchAddress())
	case IDX:
		return cpu.loadZeroPagePointer(cpu.fetch() + cpu.Reg.X)
	case IDY:
		return cpu.loadZeroPagePointer(cpu.fetch()) + uint16(cpu.Reg.Y)
	default:
		panic("invalid addressing mode")
	}
}

// Load a byte value using the requested addressing mode.
func (cpu *CPU) load(mode Mode) byte {
	switch mode {
	case IMM:
		return cpu.fetch()
	case ACC:
		return cpu.Reg.A
	default:
		return cpu.Bus.LoadByte(cpu.operandAddress(mode))
	}
}

// Store a byte value using the requested addressing mode.
func (cpu *CPU) store(mode Mode, v byte) {
	if mode == ACC {
		cpu.Reg.A = v
		return
	}
	cpu.storeByte(cpu, cpu.operandAddress(mode), v)
}

// Read, modify and write back a value using the requested addressing mode.
// The operand is resolved only once. The modified value is returned.
func (cpu *CPU) modify(mode Mode, fn func(v byte) byte) byte {
	if mode == ACC {
		cpu.Reg.A = fn(cpu.Reg.A)
		return cpu.Reg.A
	}
	addr := cpu.operandAddress(mode)
	v := fn(cpu.Bus.LoadByte(addr))
	cpu.storeByte(cpu, addr, v)
	return v
}
