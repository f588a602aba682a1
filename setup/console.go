package setup

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Console writes the human-facing progress of a run. Every line carries a severity marker.
type Console struct {
	out  io.Writer
	tty  *os.File
	good lipgloss.Style
	bad  lipgloss.Style
	info lipgloss.Style
}

// NewConsole styles output for out. The step spinner is only enabled when out is a terminal.
func NewConsole(out io.Writer) *Console {
	r := lipgloss.NewRenderer(out)

	c := Console{
		out:  out,
		good: r.NewStyle().Foreground(lipgloss.Color("2")),
		bad:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		info: r.NewStyle().Foreground(lipgloss.Color("6")),
	}

	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		c.tty = f
	}

	return &c
}

func (c *Console) Println(msg string) {
	_, _ = fmt.Fprintln(c.out, msg)
}

// Prompt writes msg without a trailing newline.
func (c *Console) Prompt(msg string) {
	_, _ = io.WriteString(c.out, msg)
}

func (c *Console) Banner(msg string) {
	c.Println(c.info.Render("🚀 " + msg))
}

func (c *Console) Section(msg string) {
	c.Println("\n" + c.info.Render("📋 "+msg))
}

func (c *Console) Step(msg string) {
	c.Println("\n🔄 " + msg + "...")
}

func (c *Console) Success(msg string) {
	c.Println(c.good.Render("✅ " + msg))
}

func (c *Console) Failure(msg string) {
	c.Println(c.bad.Render("❌ " + msg))
}

func (c *Console) Note(msg string) {
	c.Println("\n📝 " + msg)
}

func (c *Console) Celebrate(msg string) {
	c.Println("\n" + c.good.Render("🎉 "+msg))
}

// Spin animates a spinner next to msg until the returned function is called.
func (c *Console) Spin(msg string) (stop func()) {
	if c.tty == nil {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(c.tty), spinner.WithHiddenCursor(true))
	s.Suffix = " " + msg
	s.Start()

	return s.Stop
}
