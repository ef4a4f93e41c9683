package common

import (
	"io"
	"log"
	"os"
)

var (
	logger = log.New(os.Stderr, "[gt3xctl] ", log.LstdFlags|log.Lmicroseconds)
)

func Logf(format string, args ...interface{}) {
	logger.Printf(format, args...)
}

func Fatalf(format string, args ...interface{}) {
	logger.Fatalf(format, args...)
}

// SetLogOutput redirects warnings and diagnostics, e.g. into a rotating log
// file.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}
