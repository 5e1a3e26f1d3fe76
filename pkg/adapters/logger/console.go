// Package logger provides logging implementations.
package logger

import (
	"fmt"
	"os"

	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\033[0m"
	ansiGray   = "\033[90m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
	ansiCyan   = "\033[36m"
)

// ConsoleLogger writes leveled, optionally colored lines to the
// standard streams. Warnings and errors go to stderr so piped
// playback output stays clean.
type ConsoleLogger struct {
	level     ports.LogLevel
	component string
	color     bool
}

var _ ports.Logger = (*ConsoleLogger)(nil)

// NewConsole returns a console logger that drops messages below level.
// Color is on only when stdout is a terminal.
func NewConsole(level ports.LogLevel) *ConsoleLogger {
	fd := os.Stdout.Fd()
	return &ConsoleLogger{
		level: level,
		color: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

func (l *ConsoleLogger) Debug(msg string, args ...interface{}) {
	if l.level <= ports.LevelDebug {
		l.log(ports.LevelDebug, msg, args...)
	}
}

func (l *ConsoleLogger) Info(msg string, args ...interface{}) {
	if l.level <= ports.LevelInfo {
		l.log(ports.LevelInfo, msg, args...)
	}
}

func (l *ConsoleLogger) Warn(msg string, args ...interface{}) {
	if l.level <= ports.LevelWarn {
		l.log(ports.LevelWarn, msg, args...)
	}
}

func (l *ConsoleLogger) Error(msg string, args ...interface{}) {
	l.log(ports.LevelError, msg, args...)
}

// WithComponent returns a copy that prefixes every line with the
// component name.
func (l *ConsoleLogger) WithComponent(component string) ports.Logger {
	clone := *l
	clone.component = component
	return &clone
}

func (l *ConsoleLogger) log(level ports.LogLevel, msg string, args ...interface{}) {
	line := l10n.F(msg, args...)

	if l.component != "" {
		if l.color {
			line = fmt.Sprintf("%s[%s]%s %s", ansiCyan, l.component, ansiReset, line)
		} else {
			line = fmt.Sprintf("[%s] %s", l.component, line)
		}
	}
	if l.color {
		if tint := levelTint(level); tint != "" {
			line = tint + line + ansiReset
		}
	}

	out := os.Stdout
	if level >= ports.LevelWarn {
		out = os.Stderr
	}
	fmt.Fprintln(out, line)
}

// levelTint maps a level to its line color. Info stays untinted.
func levelTint(level ports.LogLevel) string {
	switch level {
	case ports.LevelDebug:
		return ansiGray
	case ports.LevelWarn:
		return ansiYellow
	case ports.LevelError:
		return ansiRed
	}
	return ""
}
