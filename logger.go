// Package bucketsync provides the logging capability used to report
// per-file sync outcomes.
package bucketsync

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Logger is the reporting capability the syncer writes outcomes to.
// Every operation failure is reported here rather than returned, so a
// Logger implementation must not fail itself. All five channels are
// independent and side-effect only.
type Logger interface {
	// Success reports a completed operation
	Success(msg string)

	// Error reports a failed operation
	Error(msg string)

	// Debug reports internal detail useful when diagnosing a sync
	Debug(msg string)

	// Pending reports an operation that has been started but not finished
	Pending(msg string)

	// WatchStatus reports watch-mode status changes
	WatchStatus(msg string)
}

// ConsoleLogger writes colored, human-readable output to a terminal.
type ConsoleLogger struct {
	out io.Writer
	err io.Writer
}

// NewConsoleLogger creates a ConsoleLogger writing to stdout and stderr.
func NewConsoleLogger() *ConsoleLogger {
	return &ConsoleLogger{
		out: os.Stdout,
		err: os.Stderr,
	}
}

// NewConsoleLoggerWithWriters creates a ConsoleLogger with custom writers.
// This is useful for capturing output in tests.
func NewConsoleLoggerWithWriters(out, errOut io.Writer) *ConsoleLogger {
	return &ConsoleLogger{
		out: out,
		err: errOut,
	}
}

// Success writes a green success line.
func (l *ConsoleLogger) Success(msg string) {
	fmt.Fprintf(l.out, "%s %s\n", color.GreenString("SUCCESS:"), msg)
}

// Error writes a red error line to the error writer.
func (l *ConsoleLogger) Error(msg string) {
	fmt.Fprintf(l.err, "%s %s\n", color.RedString("ERROR:"), msg)
}

// Debug writes a dim diagnostic line.
func (l *ConsoleLogger) Debug(msg string) {
	fmt.Fprintf(l.out, "%s %s\n", color.HiBlackString("DEBUG:"), msg)
}

// Pending writes a yellow in-progress line.
func (l *ConsoleLogger) Pending(msg string) {
	fmt.Fprintf(l.out, "%s %s\n", color.YellowString("PENDING:"), msg)
}

// WatchStatus writes a cyan watch-mode status line.
func (l *ConsoleLogger) WatchStatus(msg string) {
	fmt.Fprintf(l.out, "%s %s\n", color.HiCyanString("WATCH:"), msg)
}

// LogrusLogger adapts a logrus.Logger to the five-channel capability,
// tagging each message with its channel for structured output.
type LogrusLogger struct {
	logger *logrus.Logger
}

// NewLogrusLogger creates a LogrusLogger around an existing logrus.Logger.
// Passing nil creates a default text-formatted logger.
func NewLogrusLogger(logger *logrus.Logger) *LogrusLogger {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return &LogrusLogger{logger: logger}
}

// Success logs at info level on the success channel.
func (l *LogrusLogger) Success(msg string) {
	l.logger.WithField("channel", "success").Info(msg)
}

// Error logs at error level.
func (l *LogrusLogger) Error(msg string) {
	l.logger.WithField("channel", "error").Error(msg)
}

// Debug logs at debug level.
func (l *LogrusLogger) Debug(msg string) {
	l.logger.WithField("channel", "debug").Debug(msg)
}

// Pending logs at info level on the pending channel.
func (l *LogrusLogger) Pending(msg string) {
	l.logger.WithField("channel", "pending").Info(msg)
}

// WatchStatus logs at info level on the watch channel.
func (l *LogrusLogger) WatchStatus(msg string) {
	l.logger.WithField("channel", "watch").Info(msg)
}

// NopLogger discards everything. Useful as a default and in tests.
type NopLogger struct{}

// Success implements Logger.
func (NopLogger) Success(string) {}

// Error implements Logger.
func (NopLogger) Error(string) {}

// Debug implements Logger.
func (NopLogger) Debug(string) {}

// Pending implements Logger.
func (NopLogger) Pending(string) {}

// WatchStatus implements Logger.
func (NopLogger) WatchStatus(string) {}

var (
	_ Logger = (*ConsoleLogger)(nil)
	_ Logger = (*LogrusLogger)(nil)
	_ Logger = NopLogger{}
)
