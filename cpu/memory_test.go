// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu_test

import (
	"errors"
	"testing"

	"github.com/beevik/nescpu/cpu"
	"github.com/beevik/nescpu/test"
)

func newROM(code ...byte) []byte {
	rom := make([]byte, 0x8000)
	copy(rom, code)
	return rom
}

func TestNESBusRAM(t *testing.T) {
	b := cpu.NewNESBus(newROM())
	for _, addr := range []uint16{0x0000, 0x00ff, 0x0100, 0x07ff} {
		b.StoreByte(addr, byte(addr)^0x5a)
		test.ExpectEquality(t, b.LoadByte(addr), byte(addr)^0x5a, addr)
	}
	test.ExpectSuccess(t, b.TakeFault())
}

func TestNESBusROM(t *testing.T) {
	rom := newROM(0xa9, 0x01)
	rom[0x7ffc] = 0x00
	rom[0x7ffd] = 0x80
	b := cpu.NewNESBus(rom)

	test.ExpectEquality(t, b.LoadByte(0x8000), byte(0xa9))
	test.ExpectEquality(t, b.LoadByte(0x8001), byte(0x01))
	test.ExpectEquality(t, b.LoadByte(0xfffd), byte(0x80))
	test.ExpectSuccess(t, b.TakeFault())

	// Stores into ROM are dropped.
	b.StoreByte(0x8000, 0xff)
	test.ExpectEquality(t, b.LoadByte(0x8000), byte(0xa9))
	test.ExpectEquality(t, rom[0], byte(0xa9))

	err := b.TakeFault()
	var ae *cpu.AccessError
	test.DemandEquality(t, errors.As(err, &ae), true)
	test.ExpectEquality(t, *ae, cpu.AccessError{Addr: 0x8000, Write: true, Value: 0xff})
	test.ExpectEquality(t, errors.Is(err, cpu.ErrOutOfRange), true)
	test.ExpectSuccess(t, b.TakeFault(), "fault cleared")
}

func TestNESBusUnmapped(t *testing.T) {
	b := cpu.NewNESBus(newROM()[:0x100])

	// A store past the end of RAM must not wrap into it.
	b.StoreByte(0x0800, 0x42)
	test.ExpectEquality(t, b.LoadByte(0x0000), byte(0))
	b.TakeFault()

	for _, addr := range []uint16{0x0800, 0x2000, 0x4016, 0x6000, 0x7fff, 0x8100, 0xffff} {
		test.ExpectEquality(t, b.LoadByte(addr), byte(0), addr)
		err := b.TakeFault()
		var ae *cpu.AccessError
		if !errors.As(err, &ae) {
			t.Errorf("$%04X: expected *AccessError, got %v", addr, err)
			continue
		}
		test.ExpectEquality(t, ae.Addr, addr)
		test.ExpectEquality(t, ae.Write, false)
	}
}

func TestNESBusFirstFault(t *testing.T) {
	b := cpu.NewNESBus(newROM())
	b.LoadByte(0x2000)
	b.StoreByte(0x3000, 1)

	var ae *cpu.AccessError
	test.DemandEquality(t, errors.As(b.TakeFault(), &ae), true)
	test.ExpectEquality(t, ae.Addr, uint16(0x2000))
	test.ExpectSuccess(t, b.TakeFault())
}

func TestNESBusPeek(t *testing.T) {
	b := cpu.NewNESBus(newROM(0x4c))
	test.ExpectEquality(t, b.PeekByte(0x2000), byte(0))
	test.ExpectEquality(t, b.PeekByte(0x8000), byte(0x4c))
	test.ExpectEquality(t, cpu.PeekByte(b, 0x5000), byte(0))
	test.ExpectSuccess(t, b.TakeFault())
}

func TestStepReportsFault(t *testing.T) {
	rom := newROM(
		0xa9, 0x33, // LDA #$33
		0x8d, 0x00, 0x20, // STA $2000
		0xad, 0x00, 0x40, // LDA $4000
		0x85, 0x10, // STA $10
	)
	b := cpu.NewNESBus(rom)
	c := cpu.NewCPU(b)
	c.SetPC(cpu.ROMStart)

	n, err := c.Step()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 2)

	n, err = c.Step()
	test.ExpectEquality(t, n, 4, "faulting store still costs its cycles")
	test.ExpectEquality(t, errors.Is(err, cpu.ErrOutOfRange), true)
	test.ExpectEquality(t, c.Reg.PC, uint16(0x8005))

	n, err = c.Step()
	test.ExpectEquality(t, n, 4)
	test.ExpectEquality(t, errors.Is(err, cpu.ErrOutOfRange), true)
	test.ExpectEquality(t, c.Reg.A, byte(0), "unmapped load reads zero")
	test.ExpectEquality(t, c.Reg.Zero, true)

	_, err = c.Step()
	test.ExpectSuccess(t, err, "no stale fault")
	test.ExpectEquality(t, b.LoadByte(0x10), byte(0))
	test.ExpectEquality(t, c.Cycles, uint64(13))
}

func TestFlatMemory(t *testing.T) {
	m := cpu.NewFlatMemory()
	m.StoreBytes(0xfffe, []byte{1, 2, 3})
	test.ExpectEquality(t, m.LoadByte(0xfffe), byte(1))
	test.ExpectEquality(t, m.LoadByte(0xffff), byte(2))
	test.ExpectEquality(t, m.LoadByte(0x0000), byte(0))

	m.StoreAddress(0x1234, 0xbeef)
	test.ExpectEquality(t, m.PeekByte(0x1234), byte(0xef))
	test.ExpectEquality(t, m.PeekByte(0x1235), byte(0xbe))
}
