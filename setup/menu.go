package setup

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kxue43/envsetup/tui"
)

type (
	// LinePrompter prints the menu and reads one line of input.
	LinePrompter struct {
		console *Console
		in      *bufio.Reader
	}

	lineRead struct {
		text string
		err  error
	}

	// FixedChoice answers the menu without asking.
	FixedChoice string

	// Picker shows the menu as a full-screen list.
	Picker struct {
		In  io.Reader
		Out io.Writer
	}
)

func NewLinePrompter(console *Console, in io.Reader) LinePrompter {
	return LinePrompter{console: console, in: bufio.NewReader(in)}
}

func promptFor(methods []Method) string {
	if len(methods) == 0 {
		return "Enter your choice: "
	}

	return fmt.Sprintf("Enter your choice (%s-%s): ", methods[0].Key, methods[len(methods)-1].Key)
}

// Choose returns the input line with surrounding whitespace stripped.
// End of input before a newline still yields what was typed.
// Cancelling ctx abandons the read; the returned error then wraps [context.Cause].
func (p LinePrompter) Choose(ctx context.Context, methods []Method) (string, error) {
	p.console.Section("Choose setup method:")

	for _, m := range methods {
		p.console.Println(m.Key + ". " + m.Label)
	}

	p.console.Prompt("\n" + promptFor(methods))

	read := make(chan lineRead, 1)

	go func() {
		text, err := p.in.ReadString('\n')
		read <- lineRead{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("failed to read choice from input: %w", context.Cause(ctx))
	case l := <-read:
		if l.err != nil && !errors.Is(l.err, io.EOF) {
			return "", fmt.Errorf("failed to read choice from input: %w", l.err)
		}

		return strings.TrimSpace(l.text), nil
	}
}

func (c FixedChoice) Choose(context.Context, []Method) (string, error) {
	return strings.TrimSpace(string(c)), nil
}

// Choose returns "" when the user cancels, which dispatches as an invalid choice.
func (p Picker) Choose(ctx context.Context, methods []Method) (string, error) {
	options := make([]tui.Option, len(methods))

	for i, m := range methods {
		options[i] = tui.Option{Key: m.Key, Label: m.Label}
	}

	return tui.Pick(ctx, p.In, p.Out, "📋 Choose setup method:", options)
}
