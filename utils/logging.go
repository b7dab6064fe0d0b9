package utils

import (
	"io"
	"log"
	"os"
)

var (
	Trace   *log.Logger
	Debug   *log.Logger
	Info    *log.Logger
	Warning *log.Logger
	Error   *log.Logger
)

func init() {
	Init(io.Discard, os.Stderr, io.Discard, os.Stderr)
}

//Init the logging function
func Init(
	traceHandle io.Writer,
	infoHandle io.Writer,
	warningHandle io.Writer,
	errorHandle io.Writer) {

	Trace = log.New(traceHandle, "[*] ", 0)
	Debug = log.New(warningHandle, "[d] ", 0)
	Info = log.New(infoHandle, "[+] ", 0)
	Warning = log.New(warningHandle,
		"[WARNING] ", 0)

	Error = log.New(errorHandle,
		"ERROR: ", log.Ldate|log.Ltime)
}

// Configure picks the log levels for the command line flags. Every level
// writes to out; stdout is left to the decoded output.
func Configure(out io.Writer, verbose, debug bool) {
	switch {
	case verbose && !debug:
		Init(out, out, io.Discard, out)
	case debug && !verbose:
		Init(io.Discard, out, out, out)
	case debug:
		Init(out, out, out, out)
	default:
		Init(io.Discard, out, io.Discard, out)
	}
}
