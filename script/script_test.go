// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package script_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/nescpu/rom"
	"github.com/beevik/nescpu/script"
	"github.com/beevik/nescpu/session"
	"github.com/beevik/nescpu/test"
)

func makeImage(code ...byte) []byte {
	image := make([]byte, rom.MinimumSize)
	copy(image[rom.HeaderSize:], code)
	image[rom.HeaderSize+0x7ffd] = 0x80
	return image
}

func newRunner(t *testing.T, policy session.Policy, code ...byte) (*script.Runner, *strings.Builder) {
	t.Helper()
	s := session.New(session.Config{Policy: policy})
	if err := s.Reset(makeImage(code...)); err != nil {
		t.Fatal(err)
	}
	var out strings.Builder
	r := script.New(s, &out)
	t.Cleanup(r.Close)
	return r, &out
}

var program = []byte{
	0xa9, 0x50, // LDA #$50
	0x69, 0x50, // ADC #$50
	0x85, 0x10, // STA $10
	0x02, // HLT
}

func TestScriptStep(t *testing.T) {
	r, out := newRunner(t, session.Tolerant, program...)
	err := r.RunString(`
		assert(step() == 2)
		assert(step() == 2)
		local r = reg()
		assert(r.a == 0xa0, "accumulator")
		assert(r.v and r.n and not r.c, "flags")
		assert(r.pc == 0x8004)
		assert(r.sp == 0xfd)
		print("cycles", cycles())
	`)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out.String(), "cycles\t11\n")
}

func TestScriptRun(t *testing.T) {
	r, _ := newRunner(t, session.Tolerant, program...)
	err := r.RunString(`
		assert(run(100) == "halted")
		assert(halted())
		assert(peek(0x10) == 0xa0)
		assert(peek(0x8000) == 0xa9)
		local c, e = step()
		assert(c == nil and e == "cpu halted")
		reset()
		assert(not halted())
		assert(peek(0x10) == 0)
		assert(run(2) == "step budget exhausted")
	`)
	test.ExpectSuccess(t, err)
}

func TestScriptStrictFault(t *testing.T) {
	r, _ := newRunner(t, session.Strict, 0x03, 0x02)
	err := r.RunString(`
		local reason, e = run(10)
		assert(reason == "fault")
		assert(string.find(e, "unknown opcode") ~= nil)
	`)
	test.ExpectSuccess(t, err)
}

func TestScriptFailure(t *testing.T) {
	r, _ := newRunner(t, session.Tolerant, program...)
	err := r.RunString(`assert(reg().a == 1, "wrong accumulator")`)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, strings.Contains(err.Error(), "wrong accumulator"), true)
}

func TestScriptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "check.lua")
	os.WriteFile(path, []byte(`run(10) print(reg().a)`), 0o644)

	r, out := newRunner(t, session.Tolerant, program...)
	test.ExpectSuccess(t, r.RunFile(path))
	test.ExpectEquality(t, out.String(), "160\n")
}
