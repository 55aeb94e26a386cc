package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Console reads prompted input and writes menu output.
type Console struct {
	in  *bufio.Reader
	out io.Writer
	// fd is the terminal descriptor used for no-echo password input, or -1.
	fd int
	// pending holds a read that outlived the context of the call that started it.
	pending chan readResult
}

type readResult struct {
	line string
	err  error
}

// NewConsole wraps arbitrary streams. Passwords are read as plain lines.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out, fd: -1}
}

// NewTerminalConsole wraps stdin/stdout and disables echo for passwords when stdin is a terminal.
func NewTerminalConsole(in *os.File, out io.Writer) *Console {
	c := NewConsole(in, out)
	if fd := int(in.Fd()); term.IsTerminal(fd) {
		c.fd = fd
	}
	return c
}

// Linef writes one line of output.
func (c *Console) Linef(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// ReadLine prints prompt and returns the next line without its terminator.
// io.EOF is returned only when no input remains at all.
func (c *Console) ReadLine(prompt string) (string, error) {
	return c.ReadLineContext(context.Background(), prompt)
}

// ReadLineContext is ReadLine that returns ctx.Err() as soon as ctx is done.
// A line still being read is handed to the next call.
func (c *Console) ReadLineContext(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(c.out, prompt)
	if c.pending == nil {
		ch := make(chan readResult, 1)
		go func() {
			line, err := c.readLine()
			ch <- readResult{line: line, err: err}
		}()
		c.pending = ch
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-c.pending:
		c.pending = nil
		return r.line, r.err
	}
}

func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadPassword prompts for a secret, hiding input on a terminal.
func (c *Console) ReadPassword(ctx context.Context, prompt string) (string, error) {
	if c.fd < 0 {
		return c.ReadLineContext(ctx, prompt)
	}
	fmt.Fprint(c.out, prompt)
	secret, err := term.ReadPassword(c.fd)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(secret), nil
}
