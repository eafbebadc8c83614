package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vortechstudio/appinstall/process"
)

func newTestConsole(verbose bool) (*Console, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &Console{Out: &out, Err: &errOut, Verbose: verbose}, &out, &errOut
}

func TestConsoleRoutesErrorsToErrStream(t *testing.T) {
	c, out, errOut := newTestConsole(false)

	c.Info("Env file created successfully.")
	c.Error("Your database credentials are wrong!")

	assert.Contains(t, out.String(), "Env file created successfully.")
	assert.NotContains(t, out.String(), "credentials")
	assert.Contains(t, errOut.String(), "Your database credentials are wrong!")
}

func TestConsoleProcessOnlyWhenVerbose(t *testing.T) {
	c, out, _ := newTestConsole(false)
	c.Process(process.Stdout, "Package operations: 1 install")
	assert.Empty(t, out.String())

	c, out, errOut := newTestConsole(true)
	c.Process(process.Stdout, "Package operations: 1 install")
	c.Process(process.Stderr, "Using version ^3.2")
	assert.Contains(t, out.String(), "Package operations: 1 install")
	assert.Contains(t, errOut.String(), "Using version ^3.2")
}

func TestConsoleAlertAndTable(t *testing.T) {
	c, out, _ := newTestConsole(false)

	c.Alert("Application is installing...")
	c.Table([]string{"Tool", "Status"}, [][]string{{"php", "ok"}})

	assert.Contains(t, out.String(), "Application is installing...")
	assert.Contains(t, out.String(), "php")
}

func TestConsoleMarkdown(t *testing.T) {
	c, out, _ := newTestConsole(false)

	c.Markdown("## Next steps\n\n- Add the interface\n")

	assert.Contains(t, out.String(), "Next steps")
}
