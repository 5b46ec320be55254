package cliutil

import "os"

// IsTty reports whether f is attached to a terminal, so the CLIs can
// tell piped input apart from an interactive invocation with no files.
func IsTty(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
