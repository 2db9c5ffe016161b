// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrOutOfRange = errors.New("memory access out of range")
)

// Address space layout of the NES CPU bus.
const (
	RAMSize  = 0x800
	ROMStart = 0x8000
)

// The Bus interface presents an interface to the CPU through which all
// memory accesses occur.
type Bus interface {
	// LoadByte loads a single byte from the address and returns it.
	LoadByte(addr uint16) byte

	// StoreByte stores a byte to the requested address.
	StoreByte(addr uint16, v byte)
}

// A Peeker is a Bus that can read memory without side effects. Debuggers
// and disassemblers use it so that inspecting memory never records a
// fault.
type Peeker interface {
	PeekByte(addr uint16) byte
}

// A FaultReporter is a Bus that records out-of-range accesses. TakeFault
// returns the first fault recorded since the previous call and clears it.
type FaultReporter interface {
	TakeFault() error
}

// An AccessError describes a read or write outside any mapped region.
type AccessError struct {
	Addr  uint16 // target address
	Write bool   // true for a store, false for a load
	Value byte   // value that was dropped (stores only)
}

func (e *AccessError) Error() string {
	if e.Write {
		return fmt.Sprintf("%v: store of $%02X to $%04X dropped", ErrOutOfRange, e.Value, e.Addr)
	}
	return fmt.Sprintf("%v: load from $%04X returned 0", ErrOutOfRange, e.Addr)
}

func (e *AccessError) Unwrap() error {
	return ErrOutOfRange
}

// NESBus maps 2K of working RAM at $0000-$07FF and program ROM from $8000
// upward. There is no mirroring and no mapper support.
//
// Loads from unmapped addresses return 0. Stores are only applied to RAM;
// a store anywhere else is dropped. Both cases record an AccessError that
// is reported through TakeFault.
type NESBus struct {
	ram   [RAMSize]byte
	rom   []byte
	fault *AccessError
}

// NewNESBus creates a bus with the program ROM mapped at $8000. The ROM
// slice is retained and never written.
func NewNESBus(rom []byte) *NESBus {
	return &NESBus{rom: rom}
}

// LoadByte loads a single byte from the address and returns it.
func (b *NESBus) LoadByte(addr uint16) byte {
	v, ok := b.read(addr)
	if !ok {
		b.recordFault(&AccessError{Addr: addr})
	}
	return v
}

// PeekByte loads a byte without recording a fault.
func (b *NESBus) PeekByte(addr uint16) byte {
	v, _ := b.read(addr)
	return v
}

// StoreByte stores a byte at the requested address.
func (b *NESBus) StoreByte(addr uint16, v byte) {
	if addr < RAMSize {
		b.ram[addr] = v
		return
	}
	b.recordFault(&AccessError{Addr: addr, Write: true, Value: v})
}

// TakeFault returns the first fault recorded since the last call, or nil.
func (b *NESBus) TakeFault() error {
	f := b.fault
	b.fault = nil
	if f == nil {
		return nil
	}
	return f
}

func (b *NESBus) read(addr uint16) (v byte, ok bool) {
	switch {
	case addr < RAMSize:
		return b.ram[addr], true
	case addr >= ROMStart:
		i := int(addr - ROMStart)
		if i < len(b.rom) {
			return b.rom[i], true
		}
	}
	return 0, false
}

func (b *NESBus) recordFault(f *AccessError) {
	if b.fault == nil {
		b.fault = f
	}
}

// FlatMemory represents an entire 16-bit address space as a singular
// 64K buffer. Every address is readable and writable.
type FlatMemory struct {
	b [64 * 1024]byte
}

// NewFlatMemory creates a new 16-bit memory space.
func NewFlatMemory() *FlatMemory {
	return &FlatMemory{}
}

// LoadByte loads a single byte from the address and returns it.
func (m *FlatMemory) LoadByte(addr uint16) byte {
	return m.b[addr]
}

// PeekByte loads a single byte from the address and returns it.
func (m *FlatMemory) PeekByte(addr uint16) byte {
	return m.b[addr]
}

// StoreByte stores a byte at the requested address.
func (m *FlatMemory) StoreByte(addr uint16, v byte) {
	m.b[addr] = v
}

// StoreBytes stores multiple bytes to the requested address. Bytes that
// would go past $FFFF are discarded.
func (m *FlatMemory) StoreBytes(addr uint16, b []byte) {
	copy(m.b[addr:], b)
}

// StoreAddress stores a little-endian 16-bit value at the requested
// address.
func (m *FlatMemory) StoreAddress(addr uint16, v uint16) {
	m.b[addr] = Lo(v)
	m.b[addr+1] = Hi(v)
}

// PeekByte reads a byte through the bus without side effects when the bus
// supports it.
func PeekByte(b Bus, addr uint16) byte {
	if p, ok := b.(Peeker); ok {
		return p.PeekByte(addr)
	}
	return b.LoadByte(addr)
}

// Word combines a low and high byte into a 16-bit value.
func Word(lo, hi byte) uint16 {
	return uint16(lo) | uint16(hi)<<8
}

// Lo returns the low byte of a 16-bit value.
func Lo(w uint16) byte {
	return byte(w)
}

// Hi returns the high byte of a 16-bit value.
func Hi(w uint16) byte {
	return byte(w >> 8)
}

// Given a 1-byte stack pointer register, return the stack
// corresponding memory address.
func stackAddress(offset byte) uint16 {
	return uint16(0x100) + uint16(offset)
}
