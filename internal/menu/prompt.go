package menu

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Prompter reads answers line by line. Every read returns io.EOF once the
// input is exhausted.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter creates a prompter over in, echoing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Line prints prompt and returns the next line with surrounding
// whitespace removed.
func (p *Prompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		fmt.Fprintln(p.out)
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Choice re-prompts until the answer is one of valid.
func (p *Prompter) Choice(prompt string, valid ...string) (string, error) {
	for {
		answer, err := p.Line(prompt)
		if err != nil {
			return "", err
		}
		if slices.Contains(valid, answer) {
			return answer, nil
		}
		fmt.Fprintf(p.out, "❌ Invalid choice. Please select one of: %s.\n\n", strings.Join(valid, ", "))
	}
}

// Confirm prints question and reports whether the answer is "y".
func (p *Prompter) Confirm(question string) (bool, error) {
	fmt.Fprintln(p.out, question)
	answer, err := p.Line("> ")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y"), nil
}
