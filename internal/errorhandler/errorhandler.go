// Package errorhandler centralises panic recovery and fatal error reporting
// for the audiodeck binaries.
package errorhandler

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/777genius/audiodeck/internal/logging"
)

type handler struct {
	logToConsole    bool
	exitOnCritical  bool
	recoveryEnabled bool
	console         io.Writer
	exit            func(code int)
}

var (
	mu      sync.RWMutex
	current = &handler{
		logToConsole:    true,
		recoveryEnabled: true,
		console:         os.Stderr,
		exit:            os.Exit,
	}
)

// Init configures the global handler.
//
// logToConsole prints errors to stderr in addition to the log file.
// exitOnCritical makes HandleCriticalError exit with status 1.
// recoveryEnabled makes HandlePanic swallow the panic after reporting it.
func Init(logToConsole, exitOnCritical, recoveryEnabled bool) {
	mu.Lock()
	defer mu.Unlock()
	current = &handler{
		logToConsole:    logToConsole,
		exitOnCritical:  exitOnCritical,
		recoveryEnabled: recoveryEnabled,
		console:         os.Stderr,
		exit:            os.Exit,
	}
}

func get() *handler {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// HandlePanic must be deferred. It reports a panic with its stack trace and,
// when recovery is disabled, re-panics.
func HandlePanic() {
	r := recover()
	if r == nil {
		return
	}
	h := get()

	logging.Error("Panic: %v\n%s", r, debug.Stack())
	if h.logToConsole {
		fmt.Fprintf(h.console, "Error: unexpected panic: %v\n", r)
	}
	if !h.recoveryEnabled {
		panic(r)
	}
	if h.exitOnCritical {
		h.exit(1)
	}
}

// Run calls fn and returns its exit code. A panic inside fn is reported
// through HandlePanic and yields exit code 1.
func Run(fn func() int) (code int) {
	code = 1
	defer HandlePanic()
	return fn()
}

// HandleCriticalError reports err with a short context message.
func HandleCriticalError(err error, msg string) {
	if err == nil {
		return
	}
	h := get()

	logging.Error("%s: %v", msg, err)
	if h.logToConsole {
		fmt.Fprintf(h.console, "Error: %s: %v\n", msg, err)
	}
	if h.exitOnCritical {
		h.exit(1)
	}
}
