// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logger_test

import (
	"strings"
	"testing"

	"github.com/beevik/nescpu/logger"
	"github.com/beevik/nescpu/test"
)

func TestLogger(t *testing.T) {
	l := logger.New(8)
	var w strings.Builder

	test.ExpectFailure(t, l.Write(&w), "empty log")
	test.ExpectEquality(t, w.String(), "")

	l.Log("test", "this is a test")
	l.Write(&w)
	test.ExpectEquality(t, w.String(), "test: this is a test\n")

	w.Reset()
	l.Log("test2", "this is another test")
	l.Write(&w)
	test.ExpectEquality(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	w.Reset()
	l.Tail(&w, 1)
	test.ExpectEquality(t, w.String(), "test2: this is another test\n")

	w.Reset()
	l.Tail(&w, 100)
	test.ExpectEquality(t, w.String(), "test: this is a test\ntest2: this is another test\n")

	l.Clear()
	w.Reset()
	l.Write(&w)
	test.ExpectEquality(t, w.String(), "")
}

func TestLoggerRepeat(t *testing.T) {
	l := logger.New(8)
	l.Log("cpu", "fault")
	l.Logf("cpu", "fa%s", "ult")
	l.Log("cpu", "fault\n")

	var w strings.Builder
	l.Write(&w)
	test.ExpectEquality(t, w.String(), "cpu: fault (repeat x3)\n")
	test.ExpectEquality(t, len(l.Entries()), 1)
}

func TestLoggerCapacity(t *testing.T) {
	l := logger.New(3)
	for i := 0; i < 10; i++ {
		l.Logf("n", "%d", i)
	}
	e := l.Entries()
	test.DemandEquality(t, len(e), 3)
	test.ExpectEquality(t, e[0].Detail, "7")
	test.ExpectEquality(t, e[2].Detail, "9")
}

func TestLoggerEcho(t *testing.T) {
	l := logger.New(8)
	var echo strings.Builder
	l.SetEcho(&echo)
	l.Log("a", "b")
	l.Log("a", "b")
	l.SetEcho(nil)
	l.Log("c", "d")
	test.ExpectEquality(t, echo.String(), "a: b\na: b (repeat x2)\n")
}

func TestCentral(t *testing.T) {
	logger.Clear()
	logger.Log("central", "entry")
	var w strings.Builder
	test.ExpectSuccess(t, logger.Write(&w))
	test.ExpectEquality(t, w.String(), "central: entry\n")
	test.ExpectEquality(t, logger.Central().Entries()[0].Tag, "central")
	logger.Clear()
}
