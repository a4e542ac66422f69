// Package log provides leveled terminal output for rescomp.
//
// Human-facing messages go to stdout with a bracketed level tag, colored via
// lipgloss when stdout is a terminal. Structured debug tracing goes through a
// package-level zap logger that is a no-op until SetVerbose(true) is called.
package log

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Level tag styles.
var (
	infoStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90"))
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
)

// SectionLine is the unicode box-draw separator used by Section and by the
// build summary.
const SectionLine = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// OsExit is the function called by Fatal to terminate the process.
// It is a package-level variable so tests can replace it without subprocess overhead.
var OsExit = os.Exit

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// L returns the debug logger. It is a no-op logger unless SetVerbose(true)
// or SetLogger installed another one.
func L() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger replaces the debug logger. Call it before any pipeline work.
func SetLogger(l *zap.Logger) {
	loggerOnce.Do(func() {})
	logger = l
}

// SetVerbose installs a development zap logger writing to stderr when
// verbose is true, and restores the no-op logger otherwise.
func SetVerbose(verbose bool) error {
	if !verbose {
		SetLogger(zap.NewNop())
		return nil
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("create debug logger: %w", err)
	}
	SetLogger(l)
	return nil
}

// colorize reports whether stdout is attached to a terminal.
func colorize() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// tag renders a level tag, styled only when writing to a terminal.
func tag(style lipgloss.Style, s string) string {
	if !colorize() {
		return s
	}
	return style.Render(s)
}

// Info prints an [INFO] message to stdout.
func Info(msg string) {
	fmt.Printf("%s %s\n", tag(infoStyle, "[INFO]"), msg)
}

// Success prints a [SUCCESS] message to stdout.
func Success(msg string) {
	fmt.Printf("%s %s\n", tag(successStyle, "[SUCCESS]"), msg)
}

// Warning prints a [WARNING] message to stdout.
func Warning(msg string) {
	fmt.Printf("%s %s\n", tag(warningStyle, "[WARNING]"), msg)
}

// Error prints an [ERROR] message to stdout.
func Error(msg string) {
	fmt.Printf("%s %s\n", tag(errorStyle, "[ERROR]"), msg)
}

// Fatal prints an [ERROR] message then exits with status 1.
func Fatal(msg string) {
	Error(msg)
	_ = L().Sync()
	OsExit(1)
}

// Section prints a box-draw separator with a title.
func Section(title string) {
	fmt.Printf("\n%s\n", tag(sectionStyle, SectionLine))
	fmt.Printf("%s\n", tag(sectionStyle, title))
	fmt.Printf("%s\n\n", tag(sectionStyle, SectionLine))
}
