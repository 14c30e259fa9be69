// Package monitoring holds the package-level diagnostic logger shared by the
// simulation packages.
package monitoring

import (
	"fmt"
	"log"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
// It returns the previous logger so callers can restore it.
func SetLogger(f func(format string, v ...interface{})) (prev func(format string, v ...interface{})) {
	prev = Logf
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return prev
	}
	Logf = f
	return prev
}

// Capture redirects Logf into the returned slice until restore is called.
func Capture() (lines *[]string, restore func()) {
	var buf []string
	prev := SetLogger(func(format string, v ...interface{}) {
		buf = append(buf, fmt.Sprintf(format, v...))
	})
	return &buf, func() { SetLogger(prev) }
}
