// Package logger provides console logging for ragkit.
//
// Info, Good, Warn and Fail messages are always printed; Debug and Section
// output only appears when verbose mode is enabled via the --verbose flag.
// Level prefixes are coloured when the output is a terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	mu      sync.Mutex
	verbose bool
	output  io.Writer = os.Stderr
	colour            = isTerminal(os.Stderr)
)

var (
	debugStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")).Bold(true)
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Colours are only used when w is a terminal.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	colour = isTerminal(w)
}

// Output returns the current output writer.
func Output() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return output
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write(true, debugStyle, "[DEBUG]", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message.
func Info(format string, args ...any) {
	write(false, infoStyle, "[INFO]", format, args...)
}

// Good prints a success message.
func Good(format string, args ...any) {
	write(false, goodStyle, "[OK]", format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	write(false, warnStyle, "[WARN]", format, args...)
}

// Fail prints a failure message.
func Fail(format string, args ...any) {
	write(false, failStyle, "[FAIL]", format, args...)
}

func write(verboseOnly bool, style lipgloss.Style, prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verboseOnly && !verbose {
		return
	}
	if colour {
		prefix = style.Render(prefix)
	}
	fmt.Fprintf(output, prefix+" "+format+"\n", args...)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
