package rollover

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the operator one question at a time.
type Prompter interface {
	// Ask blocks until one line of input arrives. An empty answer yields def.
	Ask(question, def string) (string, error)
}

// LinePrompter reads answers line by line from a reader.
type LinePrompter struct {
	in      *bufio.Reader
	console *Console
}

// NewLinePrompter reads from in and writes questions and echoes to console.
func NewLinePrompter(in io.Reader, console *Console) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), console: console}
}

// Ask prints the question, reads a line and echoes the answer. EOF counts
// as an empty answer.
func (p *LinePrompter) Ask(question, def string) (string, error) {
	q := question
	if def != "" {
		q = fmt.Sprintf("%s (%s)", question, def)
	}
	p.console.Prompt(q + ": ")

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		answer = def
	}
	if errors.Is(err, io.EOF) {
		p.console.Line("")
	}
	p.console.Success("%s", displayAnswer(answer))
	return answer, nil
}

func displayAnswer(answer string) string {
	if answer == "" {
		return "(none)"
	}
	return answer
}
