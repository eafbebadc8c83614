package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/vortechstudio/appinstall/process"
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	AlertStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(PrimaryColor).
			Foreground(PrimaryColor).
			Bold(true).
			Padding(0, 2)
)

// Console writes installer output to a terminal.
type Console struct {
	Out io.Writer
	Err io.Writer
	// Verbose echoes the output of external commands.
	Verbose bool

	stdout *color.Color
	stderr *color.Color
}

// NewConsole returns a Console on the process standard streams.
func NewConsole(verbose bool) *Console {
	return &Console{Out: os.Stdout, Err: os.Stderr, Verbose: verbose}
}

func (c *Console) width() int {
	if w := pterm.GetTerminalWidth(); w > 0 && w < 100 {
		return w
	}
	return 80
}

// Alert prints msg in a framed box.
func (c *Console) Alert(msg string) {
	fmt.Fprintln(c.Out, AlertStyle.Render(msg))
}

// Info prints a success line.
func (c *Console) Info(msg string) {
	fmt.Fprintln(c.Out, SuccessStyle.Render(msg))
}

// Warning prints a warning line.
func (c *Console) Warning(msg string) {
	fmt.Fprintln(c.Out, WarningStyle.Render("⚠ "+msg))
}

// Error prints an error line on the error stream.
func (c *Console) Error(msg string) {
	fmt.Fprintln(c.Err, ErrorStyle.Render(msg))
}

// Line prints msg unstyled.
func (c *Console) Line(msg string) {
	fmt.Fprintln(c.Out, msg)
}

// Process echoes one line of an external command's output.
func (c *Console) Process(stream process.Stream, line string) {
	if !c.Verbose {
		return
	}
	if c.stdout == nil {
		c.stdout = color.New(color.FgHiBlack)
		c.stderr = color.New(color.FgYellow)
	}
	if stream == process.Stderr {
		c.stderr.Fprintln(c.Err, "  "+line)
		return
	}
	c.stdout.Fprintln(c.Out, "  "+line)
}

// Table prints a table using pterm.
func (c *Console) Table(headers []string, rows [][]string) {
	data := pterm.TableData{headers}
	data = append(data, rows...)
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		c.Error(err.Error())
		return
	}
	fmt.Fprintln(c.Out, out)
}

// Markdown renders content with glamour, falling back to the raw text.
func (c *Console) Markdown(content string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(c.width()),
	)
	if err != nil {
		fmt.Fprint(c.Out, content)
		return
	}

	out, err := r.Render(content)
	if err != nil {
		fmt.Fprint(c.Out, content)
		return
	}
	fmt.Fprint(c.Out, out)
}

// Header prints a centered title banner.
func (c *Console) Header(title, subtitle string) {
	header := lipgloss.NewStyle().
		Width(c.width()).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Center,
				TitleStyle.Render(title),
				SecondaryStyle.Render(subtitle),
			),
		)

	fmt.Fprintln(c.Out, header)
}

// Spinner starts a pterm spinner on the output stream.
func (c *Console) Spinner(message string) (*pterm.SpinnerPrinter, error) {
	return pterm.DefaultSpinner.WithWriter(c.Out).WithText(message).Start()
}
