package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Exit codes returned by the sdkdocs binary.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitNotFound   = 3
	ExitBrokenLink = 4
	ExitConfig     = 7
	ExitInternal   = 10
	ExitBuild      = 11
	ExitServer     = 12
)

var exitCodes = map[ErrorCategory]int{
	CategoryValidation: ExitUsage,
	CategoryNotFound:   ExitNotFound,
	CategoryLinks:      ExitBrokenLink,
	CategoryConfig:     ExitConfig,
	CategoryTemplate:   ExitBuild,
	CategoryRender:     ExitBuild,
	CategoryFileSystem: ExitBuild,
	CategoryServer:     ExitServer,
	CategoryInternal:   ExitInternal,
}

// subjectKeys name the context entries that identify what an error is about,
// in lookup order.
var subjectKeys = []string{"field", "page", "path", "name", "root", "count"}

// CLIErrorAdapter turns command errors into a message on stderr and an exit code.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
	exit    func(int)
}

func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
		exit:    os.Exit,
	}
}

// ExitCodeFor maps err to a process exit code. Unclassified errors exit 1.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	de, ok := As(err)
	if !ok {
		return ExitGeneral
	}
	if code, ok := exitCodes[de.Category]; ok {
		return code
	}
	return ExitGeneral
}

// FormatError renders err as a single line. Outside verbose mode the subject
// of the error (field, page, path, ...) is appended so the user knows where
// to look.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	de, ok := As(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return de.Error()
	}

	msg := de.Message
	if subject := subjectOf(de); subject != "" {
		msg = fmt.Sprintf("%s (%s)", msg, subject)
	}
	switch de.Category {
	case CategoryConfig:
		return msg
	case CategoryValidation:
		if reason, ok := de.Context["reason"]; ok {
			return fmt.Sprintf("%s: %v", msg, reason)
		}
		return msg
	}
	if de.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", de.Category, msg, de.Cause)
	}
	return fmt.Sprintf("%s: %s", de.Category, msg)
}

// Report prints err, logs it when worthwhile and returns its exit code.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return ExitOK
	}
	if a.shouldLog(err) {
		a.logError(err)
	}
	fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}

// HandleError reports err and exits the process.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	a.exit(a.Report(err))
}

func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}
	de, ok := As(err)
	if !ok {
		return true
	}
	return de.Category == CategoryInternal || de.Category == CategoryServer
}

func (a *CLIErrorAdapter) logError(err error) {
	de, ok := As(err)
	if !ok {
		a.logger.Error("Command failed", slog.String("error", err.Error()))
		return
	}
	attrs := make([]slog.Attr, 0, len(de.Context)+2)
	attrs = append(attrs, slog.String("category", string(de.Category)))
	if de.Cause != nil {
		attrs = append(attrs, slog.String("error", de.Cause.Error()))
	}
	for k, v := range de.Context {
		attrs = append(attrs, slog.Any(k, v))
	}
	level := slog.LevelError
	if de.Severity == SeverityWarning {
		level = slog.LevelWarn
	}
	a.logger.LogAttrs(context.Background(), level, de.Message, attrs...)
}

func subjectOf(de *DocsError) string {
	for _, key := range subjectKeys {
		if v, ok := de.Context[key]; ok {
			return fmt.Sprint(v)
		}
	}
	return ""
}
