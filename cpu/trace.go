// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// A Trace captures the CPU state at the start of a step, after the opcode
// has been read but before it executes. Reg.PC holds the opcode address.
type Trace struct {
	PC     uint16    // address of the opcode
	Opcode byte      // opcode value
	Reg    Registers // register file before execution
	Cycles uint64    // cycle count before execution
}

// A TraceFunc receives one Trace per CPU step.
type TraceFunc func(t Trace)
