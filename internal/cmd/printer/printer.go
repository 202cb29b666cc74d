// Package printer writes colored status lines for humans.
//
// Status lines go to stderr so that stdout stays clean for diff output and
// json/yaml results.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Printer prints status lines to one writer.
type Printer struct {
	w     io.Writer
	quiet bool

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	cyan   *color.Color
}

// New creates a Printer. quiet suppresses everything but errors and
// warnings; noColor (or NO_COLOR in the environment) disables colors.
func New(w io.Writer, quiet, noColor bool) *Printer {
	p := &Printer{
		w:      w,
		quiet:  quiet,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed, color.Bold),
		cyan:   color.New(color.FgCyan),
	}
	if noColor || os.Getenv("NO_COLOR") != "" {
		for _, c := range []*color.Color{p.green, p.yellow, p.red, p.cyan} {
			c.DisableColor()
		}
	} else {
		for _, c := range []*color.Color{p.green, p.yellow, p.red, p.cyan} {
			c.EnableColor()
		}
	}
	return p
}

// Stderr creates a Printer on os.Stderr.
func Stderr(quiet, noColor bool) *Printer {
	return New(os.Stderr, quiet, noColor)
}

// Success prints a message in green with a checkmark prefix.
func (p *Printer) Success(format string, a ...any) {
	if p.quiet {
		return
	}
	_, _ = p.green.Fprintln(p.w, "✓ "+strings.TrimRight(fmt.Sprintf(format, a...), "\n"))
}

// Info prints a plain message.
func (p *Printer) Info(format string, a ...any) {
	if p.quiet {
		return
	}
	_, _ = fmt.Fprintln(p.w, strings.TrimRight(fmt.Sprintf(format, a...), "\n"))
}

// Step prints a step of a multi-step operation.
func (p *Printer) Step(format string, a ...any) {
	if p.quiet {
		return
	}
	_, _ = p.cyan.Fprintln(p.w, "→ "+strings.TrimRight(fmt.Sprintf(format, a...), "\n"))
}

// Warning prints a message in yellow. Warnings are shown in quiet mode.
func (p *Printer) Warning(format string, a ...any) {
	_, _ = p.yellow.Fprintln(p.w, "⚠️  "+strings.TrimRight(fmt.Sprintf(format, a...), "\n"))
}

// Error prints a red title followed by an explanation and suggestions.
func (p *Printer) Error(title, explanation string, suggestions ...string) {
	_, _ = p.red.Fprintln(p.w, title)
	if explanation != "" {
		_, _ = fmt.Fprintf(p.w, "\n%s\n", explanation)
	}
	switch len(suggestions) {
	case 0:
	case 1:
		_, _ = fmt.Fprintf(p.w, "\n%s\n", suggestions[0])
	default:
		_, _ = fmt.Fprintf(p.w, "\nEither:\n")
		for i, s := range suggestions {
			_, _ = fmt.Fprintf(p.w, "  %d. %s\n", i+1, s)
		}
	}
}
