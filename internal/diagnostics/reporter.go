package diagnostics

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// Reporter is the single sink for diagnostics across a build. Safe for
// concurrent use; the build runner reports from worker goroutines.
type Reporter struct {
	mu    sync.Mutex
	out   io.Writer
	log   io.Writer
	debug bool
	color bool
}

// NewReporter writes human output to stdout (colored when it is a TTY) and,
// when logPath is non-empty, a rotating debug log.
func NewReporter(debug bool, logPath string) *Reporter {
	r := &Reporter{
		out:   os.Stdout,
		debug: debug,
		color: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
	if logPath != "" {
		r.log = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
	}
	return r
}

// NewTestReporter captures output for tests.
func NewTestReporter(out io.Writer, debug bool) *Reporter {
	return &Reporter{out: out, debug: debug}
}

// Report prints every diagnostic for one file. Debug diagnostics are shown
// only when debug mode is on, but always reach the log file.
func (r *Reporter) Report(file string, errs []*DiagnosticError) {
	if len(errs) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range errs {
		if e.File == "" {
			e.File = file
		}
		if r.log != nil {
			fmt.Fprintln(r.log, e.Error())
		}
		if e.Severity == SeverityDebug && !r.debug {
			continue
		}
		fmt.Fprintln(r.out, r.paint(e))
	}
}

// Debugf writes a free-form debug line (build progress, cache decisions).
func (r *Reporter) Debugf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	line := fmt.Sprintf(format, args...)
	if r.log != nil {
		fmt.Fprintln(r.log, line)
	}
	if !r.debug {
		return
	}
	if r.color {
		fmt.Fprintln(r.out, colorGray+line+colorReset)
	} else {
		fmt.Fprintln(r.out, line)
	}
}

func (r *Reporter) paint(e *DiagnosticError) string {
	if !r.color {
		return e.Error()
	}
	switch e.Severity {
	case SeverityError:
		return colorRed + e.Error() + colorReset
	case SeverityWarning:
		return colorYellow + e.Error() + colorReset
	default:
		return colorGray + e.Error() + colorReset
	}
}
