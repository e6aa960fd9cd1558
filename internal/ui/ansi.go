// Package ui prints themed, framed output for the non-interactive commands.
package ui

import (
	"fmt"
	"io"

	"github.com/mattn/go-isatty"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"

	fgGray   = "\033[90m"
	fgGreen  = "\033[32m"
	fgYellow = "\033[33m"
	fgBlue   = "\033[34m"
	fgRed    = "\033[31m"

	symCheck = "✔"
	symCross = "✖"
)

// Dim is the escape for de-emphasised text such as row numbers.
const Dim = "\033[2m"

type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// Printer writes to out and err using one theme.
type Printer struct {
	out   io.Writer
	err   io.Writer
	theme Theme
	color bool
}

// NewPrinter picks colours from mode. In ColorAuto mode colour is used only
// when out is a terminal. The mono theme never colours.
func NewPrinter(out, errw io.Writer, theme string, mode ColorMode) *Printer {
	t := ThemeNamed(theme)
	color := mode == ColorAlways || (mode == ColorAuto && isTTY(out))
	if mode == ColorNever || t.Name == "mono" {
		color = false
	}
	return &Printer{out: out, err: errw, theme: t, color: color}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool { return isTTY(w) }

func (p *Printer) Theme() Theme { return p.theme }

func (p *Printer) Out() io.Writer { return p.out }

func (p *Printer) Err() io.Writer { return p.err }

// C wraps s in color when colour output is on.
func (p *Printer) C(color, s string) string {
	if !p.color || color == "" {
		return s
	}
	return color + s + reset
}

func (p *Printer) Println(a ...any) { _, _ = fmt.Fprintln(p.out, a...) }

func (p *Printer) Printf(format string, a ...any) { _, _ = fmt.Fprintf(p.out, format, a...) }

func (p *Printer) OK(msg string) { p.Println(p.C(p.theme.Success, symCheck+" "+msg)) }

func (p *Printer) Fail(msg string) {
	_, _ = fmt.Fprintln(p.err, p.C(p.theme.Error, symCross+" "+msg))
}

// Hint prints a muted follow-up line to err.
func (p *Printer) Hint(msg string) {
	_, _ = fmt.Fprintln(p.err, p.C(p.theme.Muted, msg))
}
