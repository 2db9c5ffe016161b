// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"testing"

	"github.com/beevik/nescpu/test"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		s       string
		hexMode bool
		v       int64
	}{
		{"42", false, 42},
		{"42", true, 0x42},
		{"$1F", false, 0x1f},
		{"0x10", false, 0x10},
		{"%101", false, 5},
		{"0d10", true, 10},
		{"-5", false, -5},
		{"-$10", false, -16},
	}

	for _, tt := range tests {
		v, err := parseNumber(tt.s, tt.hexMode)
		test.ExpectSuccess(t, err, tt.s)
		test.ExpectEquality(t, v, tt.v, tt.s)
	}

	for _, s := range []string{"", "$", "zz", "%2", "0x"} {
		_, err := parseNumber(s, false)
		test.ExpectEquality(t, errors.Is(err, errBadNumber), true, s)
	}
}

func TestStringToBool(t *testing.T) {
	for _, s := range []string{"1", "true", "ON"} {
		v, err := stringToBool(s)
		test.ExpectSuccess(t, err, s)
		test.ExpectEquality(t, v, true, s)
	}
	for _, s := range []string{"0", "False", "off"} {
		v, err := stringToBool(s)
		test.ExpectSuccess(t, err, s)
		test.ExpectEquality(t, v, false, s)
	}
	_, err := stringToBool("maybe")
	test.ExpectFailure(t, err)
}

func TestIndentWrap(t *testing.T) {
	test.ExpectEquality(t, indentWrap(3, "short text"), "   short text")

	long := ""
	for i := 0; i < 20; i++ {
		long += "word "
	}
	want := "   word word word word word word word word word word word word word word\n" +
		"   word word word word word word"
	test.ExpectEquality(t, indentWrap(3, long), want)
}

func TestMemoryBuffers(t *testing.T) {
	b := make([]byte, 4)
	addrToBuf(0xbeef, b)
	test.ExpectEquality(t, string(b), "BEEF")

	byteToBuf(0x0a, b[:2])
	test.ExpectEquality(t, string(b[:2]), "0A")

	test.ExpectEquality(t, toPrintableChar('A'), byte('A'))
	test.ExpectEquality(t, toPrintableChar(0x00), byte('.'))
	test.ExpectEquality(t, toPrintableChar(0xc1), byte('A'))
}

func TestFindMnemonic(t *testing.T) {
	name, err := findMnemonic("lda")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, name, "LDA")

	name, err = findMnemonic("jm")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, name, "JMP")

	_, err = findMnemonic("b")
	test.ExpectFailure(t, err)

	_, err = findMnemonic("qqq")
	test.ExpectFailure(t, err)
}
