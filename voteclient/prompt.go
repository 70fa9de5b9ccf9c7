package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"go.dedis.ch/evmvote/wallet"
	"golang.org/x/xerrors"
)

// prompter is the terminal side of the client: the questions of the
// wallet dialog and the lines of the shell.
type prompter interface {
	wallet.Prompter
	// Line reads one line. It returns wallet.ErrCancelled when the user
	// aborts or the input ends.
	Line(prompt string) (string, error)
	Close() error
}

// newTerminalPrompter uses line editing when the terminal supports it and
// plain reads otherwise.
func newTerminalPrompter(w io.Writer) prompter {
	if !liner.TerminalSupported() {
		return newReaderPrompter(os.Stdin, w)
	}

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &linerPrompter{line: line, w: w}
}

type linerPrompter struct {
	line *liner.State
	w    io.Writer
}

func (p *linerPrompter) Line(prompt string) (string, error) {
	s, err := p.line.Prompt(prompt)
	if err != nil {
		return "", promptError(err)
	}
	if strings.TrimSpace(s) != "" {
		p.line.AppendHistory(s)
	}
	return s, nil
}

func (p *linerPrompter) Password(label string) (string, error) {
	s, err := p.line.PasswordPrompt(label)
	if err != nil {
		return "", promptError(err)
	}
	return s, nil
}

func (p *linerPrompter) Select(label string, items []string) (int, error) {
	return selectItem(p.w, p.Line, label, items)
}

func (p *linerPrompter) Acknowledge(message string) error {
	_, err := p.line.Prompt(message + " ")
	if err != nil && promptError(err) != wallet.ErrCancelled {
		return err
	}
	return nil
}

func (p *linerPrompter) Close() error {
	return p.line.Close()
}

// readerPrompter reads answers line by line, without echo control.
type readerPrompter struct {
	r *bufio.Reader
	w io.Writer
}

func newReaderPrompter(r io.Reader, w io.Writer) *readerPrompter {
	return &readerPrompter{r: bufio.NewReader(r), w: w}
}

func (p *readerPrompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.w, prompt)
	s, err := p.r.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", promptError(err)
	}
	return strings.TrimRight(s, "\r\n"), nil
}

func (p *readerPrompter) Password(label string) (string, error) {
	return p.Line(label)
}

func (p *readerPrompter) Select(label string, items []string) (int, error) {
	return selectItem(p.w, p.Line, label, items)
}

func (p *readerPrompter) Acknowledge(message string) error {
	_, err := p.Line(message + " ")
	if err != nil && err != wallet.ErrCancelled {
		return err
	}
	return nil
}

func (p *readerPrompter) Close() error {
	return nil
}

func promptError(err error) error {
	if err == io.EOF || err == liner.ErrPromptAborted {
		return wallet.ErrCancelled
	}
	return xerrors.Errorf("reading input: %w", err)
}

// selectItem lists the items and asks for a number until a valid one is
// given.
func selectItem(w io.Writer, line func(string) (string, error), label string, items []string) (int, error) {
	fmt.Fprintln(w, label)
	for i, item := range items {
		fmt.Fprintf(w, "  [%d] %s\n", i+1, item)
	}

	for {
		s, err := line(fmt.Sprintf("Choose 1-%d: ", len(items)))
		if err != nil {
			return -1, err
		}

		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err == nil && n >= 1 && n <= len(items) {
			return n - 1, nil
		}
		fmt.Fprintf(w, "Please enter a number between 1 and %d\n", len(items))
	}
}
