// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rom_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/nescpu/rom"
	"github.com/beevik/nescpu/test"
)

func makeImage(size int) []byte {
	b := make([]byte, size)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func TestSplit(t *testing.T) {
	image := makeImage(rom.MinimumSize + rom.PatternSize)
	img, err := rom.Split(image)
	test.DemandEquality(t, err, nil)

	test.ExpectEquality(t, len(img.Header), 16)
	test.ExpectEquality(t, len(img.Program), rom.ProgramSize+rom.PatternSize)
	test.ExpectEquality(t, len(img.Pattern), rom.PatternSize)
	test.ExpectEquality(t, img.Program[0], byte(16))
	test.ExpectEquality(t, img.Pattern[0], image[rom.MinimumSize])
}

func TestSplitShortPattern(t *testing.T) {
	img, err := rom.Split(makeImage(rom.MinimumSize + 10))
	test.DemandEquality(t, err, nil)
	test.ExpectEquality(t, len(img.Pattern), 10)

	img, err = rom.Split(makeImage(rom.MinimumSize))
	test.DemandEquality(t, err, nil)
	test.ExpectEquality(t, len(img.Pattern), 0)
}

func TestSplitLongImage(t *testing.T) {
	img, err := rom.Split(makeImage(rom.MinimumSize + rom.PatternSize + 100))
	test.DemandEquality(t, err, nil)
	test.ExpectEquality(t, len(img.Pattern), rom.PatternSize)
}

func TestSplitTruncated(t *testing.T) {
	for _, size := range []int{0, 15, 16, rom.MinimumSize - 1} {
		img, err := rom.Split(makeImage(size))
		test.ExpectEquality(t, img == nil, true, size)
		test.ExpectEquality(t, errors.Is(err, rom.ErrTruncatedImage), true, size)

		var te *rom.TruncatedImageError
		if errors.As(err, &te) {
			test.ExpectEquality(t, *te, rom.TruncatedImageError{Length: size, Required: rom.MinimumSize})
		} else {
			t.Errorf("size %d: expected *TruncatedImageError, got %v", size, err)
		}
	}
}

func TestVector(t *testing.T) {
	image := make([]byte, rom.MinimumSize)
	image[rom.HeaderSize+0x7ffc] = 0x34
	image[rom.HeaderSize+0x7ffd] = 0x82
	img, err := rom.Split(image)
	test.DemandEquality(t, err, nil)
	test.ExpectEquality(t, img.Vector(0xfffc), uint16(0x8234))
	test.ExpectEquality(t, img.Vector(0x1000), uint16(0))
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.nes")
	if err := os.WriteFile(path, makeImage(rom.MinimumSize), 0o644); err != nil {
		t.Fatal(err)
	}
	img, err := rom.ReadFile(path)
	test.DemandEquality(t, err, nil)
	test.ExpectEquality(t, len(img.Program), rom.ProgramSize)

	_, err = rom.ReadFile(filepath.Join(t.TempDir(), "missing.nes"))
	test.ExpectFailure(t, err)
}
