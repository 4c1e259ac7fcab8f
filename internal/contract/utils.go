package contract

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gridsight/gridsight/schema"
)

// LogFatal prints an error message and exits with a non-zero status.
func LogFatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", problemColor.Sprint(msg), err)
	os.Exit(1)
}

// DateTimeFormat is the timestamp layout used across CLI output.
const DateTimeFormat = "2006-01-02 15:04"

// Reason labels for table output.
var (
	okColor      = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	problemColor = color.New(color.FgRed)
)

// ReasonLabel returns a human-readable, optionally colored label for a
// diagnostic reason.
func ReasonLabel(reason schema.DiagnosticReason, useColors bool) string {
	text := string(reason)
	if !useColors {
		return text
	}
	switch reason {
	case schema.ReasonOK:
		return okColor.Sprint(text)
	case schema.ReasonMissingColumns, schema.ReasonNoData:
		return problemColor.Sprint(text)
	default:
		return warnColor.Sprint(text)
	}
}

// SelectOutputFile returns the file handle for CLI output, falling back to
// stdout when no path is configured.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// TruncatePath shortens a path to maxWidth runes, keeping the tail.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}
