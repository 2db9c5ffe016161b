// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/nescpu/cpu"
	"github.com/beevik/prefixtree/v2"
)

var errBadNumber = errors.New("invalid number")

// parseNumber parses a numeric argument. A '$' or '0x' prefix selects
// hexadecimal and a '%' prefix selects binary. Unprefixed numbers are
// decimal unless hexMode is set.
func parseNumber(s string, hexMode bool) (int64, error) {
	base := 10
	if hexMode {
		base = 16
	}

	t := strings.ToLower(s)
	neg := strings.HasPrefix(t, "-")
	t = strings.TrimPrefix(t, "-")

	switch {
	case strings.HasPrefix(t, "$"):
		t, base = t[1:], 16
	case strings.HasPrefix(t, "0x"):
		t, base = t[2:], 16
	case strings.HasPrefix(t, "%"):
		t, base = t[1:], 2
	case strings.HasPrefix(t, "0d"):
		t, base = t[2:], 10
	}

	v, err := strconv.ParseInt(t, base, 64)
	if err != nil || t == "" {
		return 0, fmt.Errorf("%w '%s'", errBadNumber, s)
	}
	if neg {
		v = -v
	}
	return v, nil
}

func stringToBool(s string) (bool, error) {
	s = strings.ToLower(s)
	switch s {
	case "0", "false", "off":
		return false, nil
	case "1", "true", "on":
		return true, nil
	default:
		return false, fmt.Errorf("invalid bool value '%s'", s)
	}
}

var hexString = "0123456789ABCDEF"

func addrToBuf(addr uint16, b []byte) {
	b[0] = hexString[(addr>>12)&0xf]
	b[1] = hexString[(addr>>8)&0xf]
	b[2] = hexString[(addr>>4)&0xf]
	b[3] = hexString[addr&0xf]
}

func byteToBuf(v byte, b []byte) {
	b[0] = hexString[(v>>4)&0xf]
	b[1] = hexString[v&0xf]
}

func toPrintableChar(v byte) byte {
	switch {
	case v >= 32 && v < 127:
		return v
	case v >= 160 && v < 255:
		return v - 128
	default:
		return '.'
	}
}

// indentWrap word-wraps text to a column width of 76 with every line
// indented by 'indent' spaces.
func indentWrap(indent int, s string) string {
	const width = 76
	prefix := strings.Repeat(" ", indent)

	var b strings.Builder
	col := 0
	for _, w := range strings.Fields(s) {
		switch {
		case col == 0:
			b.WriteString(prefix)
			col = indent
		case col+1+len(w) > width:
			b.WriteString("\n")
			b.WriteString(prefix)
			col = indent
		default:
			b.WriteByte(' ')
			col++
		}
		b.WriteString(w)
		col += len(w)
	}
	return b.String()
}

var modeNames = [...]string{
	cpu.IMM: "IMM",
	cpu.IMP: "IMP",
	cpu.REL: "REL",
	cpu.ZPG: "ZPG",
	cpu.ZPX: "ZPX",
	cpu.ZPY: "ZPY",
	cpu.ABS: "ABS",
	cpu.ABX: "ABX",
	cpu.ABY: "ABY",
	cpu.IND: "IND",
	cpu.IDX: "IDX",
	cpu.IDY: "IDY",
	cpu.ACC: "ACC",
}

var mnemonics = prefixtree.New[string]()

func init() {
	seen := make(map[string]bool)
	for _, name := range cpu.GetInstructionSet().Names() {
		if !seen[name] {
			seen[name] = true
			mnemonics.Add(strings.ToLower(name), name)
		}
	}
}

// findMnemonic returns the instruction mnemonic uniquely matching a
// prefix.
func findMnemonic(prefix string) (string, error) {
	return mnemonics.FindValue(strings.ToLower(prefix))
}
