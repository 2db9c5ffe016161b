// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements the 6502 CPU core of the NES: registers, the
// memory bus, addressing modes, the full documented instruction set and
// the fetch-decode-execute loop.
package cpu

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrUnknownOpcode = errors.New("unknown opcode")
	ErrHalted        = errors.New("cpu halted")
)

// An UnknownOpcodeError is returned by Step when the opcode at PC has no
// handler. The program counter has already advanced past the opcode.
type UnknownOpcodeError struct {
	Opcode byte   // the unmapped opcode
	PC     uint16 // address the opcode was fetched from
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("%v $%02X at $%04X", ErrUnknownOpcode, e.Opcode, e.PC)
}

func (e *UnknownOpcodeError) Unwrap() error {
	return ErrUnknownOpcode
}

// CPU represents a single 6502 CPU. It contains a pointer to the
// memory bus associated with the CPU.
type CPU struct {
	Reg       Registers       // CPU registers
	Bus       Bus             // assigned memory bus
	Cycles    uint64          // total executed CPU cycles
	LastPC    uint16          // address of the most recently executed opcode
	InstSet   *InstructionSet // Instruction set used by the CPU
	halted    bool
	debugger  *Debugger
	trace     TraceFunc
	storeByte func(cpu *CPU, addr uint16, v byte)
}

// Interrupt vectors
const (
	vectorNMI   = 0xfffa
	vectorReset = 0xfffc
	vectorIRQ   = 0xfffe
	vectorBRK   = 0xfffe
)

// Cycles consumed by the reset and interrupt sequences.
const (
	resetCycles     = 7
	interruptCycles = 7
)

// NewCPU creates an emulated 6502 CPU bound to the specified bus. The
// registers hold their power-up values; call Reset to load the program
// counter from the reset vector.
func NewCPU(b Bus) *CPU {
	cpu := &CPU{
		Bus:       b,
		InstSet:   GetInstructionSet(),
		storeByte: (*CPU).storeByteNormal,
	}

	cpu.Reg.Init()
	return cpu
}

// Reset puts the CPU in its power-up state and loads the program counter
// from the reset vector at $FFFC.
func (cpu *CPU) Reset() {
	cpu.Reg.Init()
	cpu.halted = false
	cpu.Cycles = resetCycles
	cpu.Reg.PC = cpu.loadAddress(vectorReset)
	cpu.takeFault()
}

// SetPC updates the CPU program counter to 'addr'.
func (cpu *CPU) SetPC(addr uint16) {
	cpu.Reg.PC = addr
}

// Halted returns true once a halt instruction has executed.
func (cpu *CPU) Halted() bool {
	return cpu.halted
}

// GetInstruction returns the instruction opcode at the requested address.
func (cpu *CPU) GetInstruction(addr uint16) *Instruction {
	opcode := PeekByte(cpu.Bus, addr)
	return cpu.InstSet.Lookup(opcode)
}

// NextAddr returns the address of the next instruction following the
// instruction at addr.
func (cpu *CPU) NextAddr(addr uint16) uint16 {
	inst := cpu.GetInstruction(addr)
	return addr + uint16(inst.Length)
}

// Step the cpu by one instruction and return the number of cycles it
// consumed.
//
// An unmapped opcode returns an *UnknownOpcodeError and changes nothing
// but the program counter. If the instruction touched memory outside any
// mapped region, it still completes and its cycles are counted, and the
// bus fault is returned as the error.
func (cpu *CPU) Step() (int, error) {
	if cpu.halted {
		return 0, ErrHalted
	}

	// Faults recorded outside of Step belong to nobody.
	cpu.takeFault()

	// Grab the next opcode at the current PC and advance past it.
	pc := cpu.Reg.PC
	opcode := cpu.fetch()
	inst := cpu.InstSet.Lookup(opcode)

	if cpu.trace != nil {
		reg := cpu.Reg
		reg.PC = pc
		cpu.trace(Trace{PC: pc, Opcode: opcode, Reg: reg, Cycles: cpu.Cycles})
	}

	if !inst.Defined() {
		return 0, &UnknownOpcodeError{Opcode: opcode, PC: pc}
	}

	cpu.LastPC = pc
	cycles := inst.fn(cpu, inst)
	cpu.Cycles += uint64(cycles)

	// Update the debugger so it can handle breakpoints.
	if cpu.debugger != nil {
		cpu.debugger.onUpdatePC(cpu, cpu.Reg.PC)
	}

	return cycles, cpu.takeFault()
}

// IRQ raises a maskable interrupt request. It is ignored while the
// interrupt disable flag is set. It returns the cycles consumed.
func (cpu *CPU) IRQ() int {
	if cpu.halted || cpu.Reg.InterruptDisable {
		return 0
	}
	cpu.handleInterrupt(false, vectorIRQ)
	cpu.Cycles += interruptCycles
	return interruptCycles
}

// NMI raises a non-maskable interrupt. It returns the cycles consumed.
func (cpu *CPU) NMI() int {
	if cpu.halted {
		return 0
	}
	cpu.handleInterrupt(false, vectorNMI)
	cpu.Cycles += interruptCycles
	return interruptCycles
}

// AttachDebugger attaches a debugger to the CPU. The debugger receives
// notifications whenever the CPU executes an instruction or stores a byte
// to memory.
func (cpu *CPU) AttachDebugger(debugger *Debugger) {
	cpu.debugger = debugger
	cpu.storeByte = (*CPU).storeByteDebugger
}

// DetachDebugger detaches the currently debugger from the CPU.
func (cpu *CPU) DetachDebugger() {
	cpu.debugger = nil
	cpu.storeByte = (*CPU).storeByteNormal
}

// SetTrace installs a hook called once per step, before the instruction
// executes. A nil hook disables tracing.
func (cpu *CPU) SetTrace(fn TraceFunc) {
	cpu.trace = fn
}

func (cpu *CPU) takeFault() error {
	if f, ok := cpu.Bus.(FaultReporter); ok {
		return f.TakeFault()
	}
	return nil
}

// Load a little-endian 16-bit address from the bus.
func (cpu *CPU) loadAddress(addr uint16) uint16 {
	lo := cpu.Bus.LoadByte(addr)
	hi := cpu.Bus.LoadByte(addr + 1)
	return Word(lo, hi)
}

// Store the byte value 'v' add the address 'addr'.
func (cpu *CPU) storeByteNormal(addr uint16, v byte) {
	cpu.Bus.StoreByte(addr, v)
}

// Store the byte value 'v' add the address 'addr'.
func (cpu *CPU) storeByteDebugger(addr uint16, v byte) {
	cpu.debugger.onDataStore(cpu, addr, v)
	cpu.Bus.StoreByte(addr, v)
}

// Push a value 'v' onto the stack.
func (cpu *CPU) push(v byte) {
	cpu.storeByte(cpu, stackAddress(cpu.Reg.SP), v)
	cpu.Reg.SP--
}

// Push the address 'addr' onto the stack, high byte first.
func (cpu *CPU) pushAddress(addr uint16) {
	cpu.push(Hi(addr))
	cpu.push(Lo(addr))
}

// Pull a value from the stack and return it.
func (cpu *CPU) pull() byte {
	cpu.Reg.SP++
	return cpu.Bus.LoadByte(stackAddress(cpu.Reg.SP))
}

// Pull a 16-bit address off the stack, low byte first.
func (cpu *CPU) pullAddress() uint16 {
	lo := cpu.pull()
	hi := cpu.pull()
	return Word(lo, hi)
}

// Update the Zero and Negative flags based on the value of 'v'.
func (cpu *CPU) updateNZ(v byte) {
	cpu.Reg.Zero = (v == 0)
	cpu.Reg.Negative = ((v & 0x80) != 0)
}

// Handle an interrupt by storing the program counter and status flags on
// the stack. Then switch the program counter to the requested address.
func (cpu *CPU) handleInterrupt(brk bool, addr uint16) {
	cpu.pushAddress(cpu.Reg.PC)
	cpu.push(cpu.Reg.SavePS(brk))
	cpu.Reg.InterruptDisable = true
	cpu.Reg.PC = cpu.loadAddress(addr)
}

// Execute a branch if 'cond' holds. The displacement is always consumed.
// A taken branch costs one extra cycle.
func (cpu *CPU) branch(inst *Instruction, cond bool) int {
	offset := int8(cpu.fetch())
	if !cond {
		return int(inst.Cycles)
	}
	cpu.Reg.PC = uint16(int(cpu.Reg.PC) + int(offset))
	return int(inst.Cycles) + 1
}

// Add 'v' and the carry flag to the accumulator. Subtraction passes the
// complement of its operand.
func (cpu *CPU) addWithCarry(v byte) {
	acc := cpu.Reg.A
	sum := uint16(acc) + uint16(v) + uint16(boolToByte(cpu.Reg.Carry))
	result := byte(sum)
	cpu.Reg.Carry = sum > 0xff
	cpu.Reg.Overflow = ((result^acc)&(result^v)&0x80 != 0)
	cpu.Reg.A = result
	cpu.updateNZ(result)
}

// Compare register 'r' to 'v' without storing the difference.
func (cpu *CPU) compare(r, v byte) {
	cpu.Reg.Carry = (r >= v)
	cpu.Reg.Zero = (r == v)
	cpu.Reg.Negative = ((r-v)&0x80 != 0)
}

// Add with carry
func (cpu *CPU) adc(inst *Instruction) int {
	cpu.addWithCarry(cpu.load(inst.Mode))
	return int(inst.Cycles)
}

// Boolean AND
func (cpu *CPU) and(inst *Instruction) int {
	cpu.Reg.A &= cpu.load(inst.Mode)
	cpu.updateNZ(cpu.Reg.A)
	return int(inst.Cycles)
}

// Arithmetic Shift Left
func (cpu *CPU) asl(inst *Instruction) int {
	v := cpu.modify(inst.Mode, func(v byte) byte {
		cpu.Reg.Carry = ((v & 0x80) != 0)
		return v << 1
	})
	cpu.updateNZ(v)
	return int(inst.Cycles)
}

// Branch if Carry Clear
func (cpu *CPU) bcc(inst *Instruction) int {
	return cpu.branch(inst, !cpu.Reg.Carry)
}

// Branch if Carry Set
func (cpu *CPU) bcs(inst *Instruction) int {
	return cpu.branch(inst, cpu.Reg.Carry)
}

// Branch if EQual (to zero)
func (cpu *CPU) beq(inst *Instruction) int {
	return cpu.branch(inst, cpu.Reg.Zero)
}

// Bit Test
func (cpu *CPU) bit(inst *Instruction) int {
	v := cpu.load(inst.Mode)
	cpu.Reg.Zero = ((v & cpu.Reg.A) == 0)
	cpu.Reg.Negative = ((v & 0x80) != 0)
	cpu.Reg.Overflow = ((v & 0x40) != 0)
	return int(inst.Cycles)
}

// Branch if MInus (negative)
func (cpu *CPU) bmi(inst *Instruction) int {
	return cpu.branch(inst, cpu.Reg.Negative)
}

// Branch if Not Equal (not zero)
func (cpu *CPU) bne(inst *Instruction) int {
	return cpu.branch(inst, !cpu.Reg.Zero)
}

// Branch if PLus (positive)
func (cpu *CPU) bpl(inst *Instruction) int {
	return cpu.branch(inst, !cpu.Reg.Negative)
}

// Break. The pushed return address is the byte following the opcode.
func (cpu *CPU) brk(inst *Instruction) int {
	cpu.handleInterrupt(true, vectorBRK)
	return int(inst.Cycles)
}

// Branch if oVerflow Clear
func (cpu *CPU) bvc(inst *Instruction) int {
	return cpu.branch(inst, !cpu.Reg.Overflow)
}

// Branch if oVerflow Set
func (cpu *CPU) bvs(inst *Instruction) int {
	return cpu.branch(inst, cpu.Reg.Overflow)
}

// Clear Carry flag
func (cpu *CPU) clc(inst *Instruction) int {
	cpu.Reg.Carry = false
	return int(inst.Cycles)
}

// Clear Decimal flag
func (cpu *CPU) cld(inst *Instruction) int {
	cpu.Reg.Decimal = false
	return int(inst.Cycles)
}

// Clear InterruptDisable flag
func (cpu *CPU) cli(inst *Instruction) int {
	cpu.Reg.InterruptDisable = false
	return int(inst.Cycles)
}

// Clear oVerflow flag
func (cpu *CPU) clv(inst *Instruction) int {
	cpu.Reg.Overflow = false
	return int(inst.Cycles)
}

// Compare to accumulator
func (cpu *CPU) cmp(inst *Instruction) int {
	cpu.compare(cpu.Reg.A, cpu.load(inst.Mode))
	return int(inst.Cycles)
}

// Compare to X register
func (cpu *CPU) cpx(inst *Instruction) int {
	cpu.compare(cpu.Reg.X, cpu.load(inst.Mode))
	return int(inst.Cycles)
}

// Compare to Y register
func (cpu *CPU) cpy(inst *Instruction) int {
	cpu.compare(cpu.Reg.Y, cpu.load(inst.Mode))
	return int(inst.Cycles)
}

// Decrement memory value
func (cpu *CPU) dec(inst *Instruction) int {
	v := cpu.modify(inst.Mode, func(v byte) byte { return v - 1 })
	cpu.updateNZ(v)
	return int(inst.Cycles)
}

// Decrement X register
func (cpu *CPU) dex(inst *Instruction) int {
	cpu.Reg.X--
	cpu.updateNZ(cpu.Reg.X)
	return int(inst.Cycles)
}

// Decrement Y register
func (cpu *CPU) dey(inst *Instruction) int {
	cpu.Reg.Y--
	cpu.updateNZ(cpu.Reg.Y)
	return int(inst.Cycles)
}

// Boolean XOR
func (cpu *CPU) eor(inst *Instruction) int {
	cpu.Reg.A ^= cpu.load(inst.Mode)
	cpu.updateNZ(cpu.Reg.A)
	return int(inst.Cycles)
}

// Halt the processor (KIL/JAM)
func (cpu *CPU) hlt(inst *Instruction) int {
	cpu.halted = true
	return int(inst.Cycles)
}

// Increment memory value
func (cpu *CPU) inc(inst *Instruction) int {
	v := cpu.modify(inst.Mode, func(v byte) byte { return v + 1 })
	cpu.updateNZ(v)
	return int(inst.Cycles)
}

// Increment X register
func (cpu *CPU) inx(inst *Instruction) int {
	cpu.Reg.X++
	cpu.updateNZ(cpu.Reg.X)
	return int(inst.Cycles)
}

// Increment Y register
func (cpu *CPU) iny(inst *Instruction) int {
	cpu.Reg.Y++
	cpu.updateNZ(cpu.Reg.Y)
	return int(inst.Cycles)
}

// Jump to memory address
func (cpu *CPU) jmp(inst *Instruction) int {
	if inst.Mode == IND {
		cpu.Reg.PC = cpu.operandAddress(IND)
	} else {
		cpu.Reg.PC = cpu.fetchAddress()
	}
	return int(inst.Cycles)
}

// Jump to subroutine
func (cpu *CPU) jsr(inst *Instruction) int {
	addr := cpu.fetchAddress()
	cpu.pushAddress(cpu.Reg.PC - 1)
	cpu.Reg.PC = addr
	return int(inst.Cycles)
}

// load Accumulator
func (cpu *CPU) lda(inst *Instruction) int {
	cpu.Reg.A = cpu.load(inst.Mode)
	cpu.updateNZ(cpu.Reg.A)
	return int(inst.Cycles)
}

// load the X register
func (cpu *CPU) ldx(inst *Instruction) int {
	cpu.Reg.X = cpu.load(inst.Mode)
	cpu.updateNZ(cpu.Reg.X)
	return int(inst.Cycles)
}

// load the Y register
func (cpu *CPU) ldy(inst *Instruction) int {
	cpu.Reg.Y = cpu.load(inst.Mode)
	cpu.updateNZ(cpu.Reg.Y)
	return int(inst.Cycles)
}

// Logical Shift Right
func (cpu *CPU) lsr(inst *Instruction) int {
	v := cpu.modify(inst.Mode, func(v byte) byte {
		cpu.Reg.Carry = ((v & 1) != 0)
		return v >> 1
	})
	cpu.updateNZ(v)
	return int(inst.Cycles)
}

// No-operation
func (cpu *CPU) nop(inst *Instruction) int {
	return int(inst.Cycles)
}

// Boolean OR
func (cpu *CPU) ora(inst *Instruction) int {
	cpu.Reg.A |= cpu.load(inst.Mode)
	cpu.updateNZ(cpu.Reg.A)
	return int(inst.Cycles)
}

// Push Accumulator
func (cpu *CPU) pha(inst *Instruction) int {
	cpu.push(cpu.Reg.A)
	return int(inst.Cycles)
}

// Push Processor flags
func (cpu *CPU) php(inst *Instruction) int {
	cpu.push(cpu.Reg.SavePS(true))
	return int(inst.Cycles)
}

// Pull (pop) Accumulator
func (cpu *CPU) pla(inst *Instruction) int {
	cpu.Reg.A = cpu.pull()
	cpu.updateNZ(cpu.Reg.A)
	return int(inst.Cycles)
}

// Pull (pop) Processor flags
func (cpu *CPU) plp(inst *Instruction) int {
	cpu.Reg.RestorePS(cpu.pull())
	return int(inst.Cycles)
}

// Rotate Left
func (cpu *CPU) rol(inst *Instruction) int {
	v := cpu.modify(inst.Mode, func(v byte) byte {
		r := (v << 1) | boolToByte(cpu.Reg.Carry)
		cpu.Reg.Carry = ((v & 0x80) != 0)
		return r
	})
	cpu.updateNZ(v)
	return int(inst.Cycles)
}

// Rotate Right
func (cpu *CPU) ror(inst *Instruction) int {
	v := cpu.modify(inst.Mode, func(v byte) byte {
		r := (v >> 1) | (boolToByte(cpu.Reg.Carry) << 7)
		cpu.Reg.Carry = ((v & 1) != 0)
		return r
	})
	cpu.updateNZ(v)
	return int(inst.Cycles)
}

// Return from Interrupt
func (cpu *CPU) rti(inst *Instruction) int {
	cpu.Reg.RestorePS(cpu.pull())
	cpu.Reg.PC = cpu.pullAddress()
	return int(inst.Cycles)
}

// Return from Subroutine
func (cpu *CPU) rts(inst *Instruction) int {
	cpu.Reg.PC = cpu.pullAddress() + 1
	return int(inst.Cycles)
}

// Subtract with Carry
func (cpu *CPU) sbc(inst *Instruction) int {
	cpu.addWithCarry(^cpu.load(inst.Mode))
	return int(inst.Cycles)
}

// Set Carry flag
func (cpu *CPU) sec(inst *Instruction) int {
	cpu.Reg.Carry = true
	return int(inst.Cycles)
}

// Set Decimal flag
func (cpu *CPU) sed(inst *Instruction) int {
	cpu.Reg.Decimal = true
	return int(inst.Cycles)
}

// Set InterruptDisable flag
func (cpu *CPU) sei(inst *Instruction) int {
	cpu.Reg.InterruptDisable = true
	return int(inst.Cycles)
}

// Store Accumulator
func (cpu *CPU) sta(inst *Instruction) int {
	cpu.store(inst.Mode, cpu.Reg.A)
	return int(inst.Cycles)
}

// Store X register
func (cpu *CPU) stx(inst *Instruction) int {
	cpu.store(inst.Mode, cpu.Reg.X)
	return int(inst.Cycles)
}

// Store Y register
func (cpu *CPU) sty(inst *Instruction) int {
	cpu.store(inst.Mode, cpu.Reg.Y)
	return int(inst.Cycles)
}

// Transfer Accumulator to X register
func (cpu *CPU) tax(inst *Instruction) int {
	cpu.Reg.X = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.X)
	return int(inst.Cycles)
}

// Transfer Accumulator to Y register
func (cpu *CPU) tay(inst *Instruction) int {
	cpu.Reg.Y = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.Y)
	return int(inst.Cycles)
}

// Transfer stack pointer to X register
func (cpu *CPU) tsx(inst *Instruction) int {
	cpu.Reg.X = cpu.Reg.SP
	cpu.updateNZ(cpu.Reg.X)
	return int(inst.Cycles)
}

// Transfer X register to Accumulator
func (cpu *CPU) txa(inst *Instruction) int {
	cpu.Reg.A = cpu.Reg.X
	cpu.updateNZ(cpu.Reg.A)
	return int(inst.Cycles)
}

// Transfer X register to the stack pointer
func (cpu *CPU) txs(inst *Instruction) int {
	cpu.Reg.SP = cpu.Reg.X
	return int(inst.Cycles)
}

// Transfer Y register to the Accumulator
func (cpu *CPU) tya(inst *Instruction) int {
	cpu.Reg.A = cpu.Reg.Y
	cpu.updateNZ(cpu.Reg.A)
	return int(inst.Cycles)
}
