// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logger keeps a central log of tagged diagnostic entries. The
// CPU session writes faults it tolerates here, and the monitor displays
// the log on request.
package logger

import "io"

// maximum number of entries in the central log.
const maxCentral = 256

// only one central log for the entire application.
var central = New(maxCentral)

// Log adds an entry to the central log.
func Log(tag, detail string) {
	central.Log(tag, detail)
}

// Logf adds a formatted entry to the central log.
func Logf(tag, format string, args ...any) {
	central.Logf(tag, format, args...)
}

// Clear all entries from the central log.
func Clear() {
	central.Clear()
}

// Write the contents of the central log to an io.Writer.
func Write(output io.Writer) bool {
	return central.Write(output)
}

// Tail writes the last N entries of the central log to an io.Writer.
func Tail(output io.Writer, number int) {
	central.Tail(output, number)
}

// SetEcho prints new central log entries to an io.Writer as they arrive.
func SetEcho(output io.Writer) {
	central.SetEcho(output)
}

// Central returns the central log.
func Central() *Logger {
	return central
}
