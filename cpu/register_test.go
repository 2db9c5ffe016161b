// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu_test

import (
	"testing"

	"github.com/beevik/nescpu/cpu"
	"github.com/beevik/nescpu/test"
)

func TestRegistersInit(t *testing.T) {
	r := cpu.Registers{A: 1, X: 2, Y: 3, SP: 4, PC: 5, Carry: true, Negative: true}
	r.Init()
	test.ExpectEquality(t, r, cpu.Registers{SP: 0xfd, InterruptDisable: true})
	test.ExpectEquality(t, r.SavePS(false), byte(0x24))
}

func TestSaveRestorePS(t *testing.T) {
	for ps := 0; ps < 256; ps++ {
		var r cpu.Registers
		r.RestorePS(byte(ps))

		saved := r.SavePS(false)
		test.ExpectEquality(t, saved, byte(ps)&^cpu.BreakBit|cpu.ReservedBit, ps)
		test.ExpectEquality(t, r.SavePS(true), saved|cpu.BreakBit, ps)

		var r2 cpu.Registers
		r2.RestorePS(saved)
		test.ExpectEquality(t, r2, r, ps)
	}
}

func TestRestorePSIgnoresBreakAndReserved(t *testing.T) {
	var r cpu.Registers
	r.RestorePS(cpu.BreakBit | cpu.ReservedBit)
	test.ExpectEquality(t, r, cpu.Registers{})
}
