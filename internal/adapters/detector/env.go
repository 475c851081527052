// Package detector decides whether the shell talks to a person or to a pipe.
package detector

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Mode is how the shell presents itself.
type Mode int

const (
	// ModeAuto defers to detection.
	ModeAuto Mode = iota
	// ModeInteractive prints a prompt before every line.
	ModeInteractive
	// ModeLinear reads commands silently, as from a script or CI job.
	ModeLinear
)

// Detect returns ModeInteractive when in is a terminal and no CI variable is set.
func Detect(in io.Reader) Mode {
	f, ok := in.(*os.File)
	isTTY := ok && term.IsTerminal(int(f.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModeLinear
	}
	return ModeInteractive
}

// ResolveMode applies a user override to a detected mode.
// flag is one of "auto", "interactive", "linear", "ci" or empty; anything else keeps detected.
func ResolveMode(detected Mode, flag string) Mode {
	switch flag {
	case "interactive":
		return ModeInteractive
	case "linear", "ci":
		return ModeLinear
	default:
		return detected
	}
}
