package rollover

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

// Console writes operator-facing status lines: green for success, red for
// errors, bold headings between phases.
type Console struct {
	out     io.Writer
	success *color.Color
	failure *color.Color
	notice  *color.Color
	heading lipgloss.Style
}

// NewConsole writes to out, or os.Stdout when out is nil.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{
		out:     out,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		notice:  color.New(color.FgYellow),
		heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
	}
}

// Success prints a green line.
func (c *Console) Success(format string, args ...any) {
	c.success.Fprintln(c.out, "✔ "+fmt.Sprintf(format, args...))
}

// Error prints a red line.
func (c *Console) Error(format string, args ...any) {
	c.failure.Fprintln(c.out, "✖ "+fmt.Sprintf(format, args...))
}

// Notice prints a yellow line.
func (c *Console) Notice(format string, args ...any) {
	c.notice.Fprintln(c.out, fmt.Sprintf(format, args...))
}

// Line prints an uncolored line.
func (c *Console) Line(format string, args ...any) {
	fmt.Fprintln(c.out, fmt.Sprintf(format, args...))
}

// Heading prints a phase heading preceded by a blank line.
func (c *Console) Heading(title string) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, c.heading.Render("▶ "+title))
}

// Prompt writes a question without a newline.
func (c *Console) Prompt(question string) {
	fmt.Fprint(c.out, question)
}
