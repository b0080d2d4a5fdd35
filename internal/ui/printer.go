// Package ui renders user-facing output for the CLI: one actionable line
// per event by default, styled when the terminal supports it.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Printer writes styled status lines. Styling is disabled when the
// writer is not a terminal or when the user asked for no color.
type Printer struct {
	out     io.Writer
	color   bool
	verbose bool

	okStyle   lipgloss.Style
	warnStyle lipgloss.Style
	errStyle  lipgloss.Style
	dimStyle  lipgloss.Style
}

// Option configures a Printer.
type Option func(*Printer)

// WithWriter redirects output (used in tests).
func WithWriter(w io.Writer) Option {
	return func(p *Printer) { p.out = w }
}

// WithNoColor forces styling off.
func WithNoColor() Option {
	return func(p *Printer) { p.color = false }
}

// WithVerbose enables per-path detail lines.
func WithVerbose() Option {
	return func(p *Printer) { p.verbose = true }
}

// NewPrinter creates a Printer writing to stdout, with color enabled only
// on a real terminal.
func NewPrinter(opts ...Option) *Printer {
	p := &Printer{
		out:       os.Stdout,
		color:     isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
		okStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		warnStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		errStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dimStyle:  lipgloss.NewStyle().Faint(true),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Verbose reports whether per-path detail is enabled.
func (p *Printer) Verbose() bool {
	return p.verbose
}

// Successf prints a success line.
func (p *Printer) Successf(format string, args ...any) {
	p.line(p.okStyle, "✓", format, args...)
}

// Warnf prints a warning line.
func (p *Printer) Warnf(format string, args ...any) {
	p.line(p.warnStyle, "!", format, args...)
}

// Errorf prints an error line.
func (p *Printer) Errorf(format string, args ...any) {
	p.line(p.errStyle, "✗", format, args...)
}

// Infof prints a plain line.
func (p *Printer) Infof(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Detailf prints a secondary per-path line, only in verbose mode.
func (p *Printer) Detailf(format string, args ...any) {
	if !p.verbose {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if p.color {
		msg = p.dimStyle.Render(msg)
	}
	fmt.Fprintf(p.out, "  %s\n", msg)
}

func (p *Printer) line(style lipgloss.Style, mark, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if p.color {
		mark = style.Render(mark)
	}
	fmt.Fprintf(p.out, "%s %s\n", mark, msg)
}
