package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_ReadLine(t *testing.T) {
	out := &bytes.Buffer{}
	c := NewConsole(strings.NewReader("first\r\nlast"), out)

	line, err := c.ReadLine("? ")
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = c.ReadLine("? ")
	require.NoError(t, err)
	assert.Equal(t, "last", line, "final line without newline is still returned")

	_, err = c.ReadLine("? ")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "? ? ? ", out.String())

	pw, err := NewConsole(strings.NewReader("hunter2\n"), out).ReadPassword(context.Background(), "Password: ")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pw)
}

func TestMenu_RunsChoicesUntilExit(t *testing.T) {
	out := &bytes.Buffer{}
	var calls []string
	menu := Menu{
		Title: "Test Menu",
		Items: []MenuItem{
			{Label: "Ping", Action: func(context.Context) error { calls = append(calls, "ping"); return nil }},
			{Label: "Quit", Exit: true, ExitMessage: "Bye."},
		},
	}

	err := menu.Run(context.Background(), NewConsole(strings.NewReader("1\n0\nabc\n 1 \n2\n1\n"), out), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"ping", "ping"}, calls, "input after exit is not consumed")
	assert.Equal(t, 2, strings.Count(out.String(), "Invalid choice. Please try again."))
	assert.Contains(t, out.String(), "\nTest Menu:\n1. Ping\n2. Quit\nEnter your choice (1-2): ")
	assert.True(t, strings.HasSuffix(out.String(), "Bye.\n"))
}

func TestMenu_RecoversPanicsAndStopsOnErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	menu := Menu{
		Title: "Test Menu",
		Items: []MenuItem{
			{Label: "Panic", Action: func(context.Context) error { panic("bad state") }},
			{Label: "Fail", Action: func(context.Context) error { return boom }},
		},
	}

	err := menu.Run(context.Background(), NewConsole(strings.NewReader("1\n"), &bytes.Buffer{}), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad state")

	err = menu.Run(context.Background(), NewConsole(strings.NewReader("2\n"), &bytes.Buffer{}), nil)
	assert.ErrorIs(t, err, boom)
}

func TestMenu_EOFInsideActionEndsLoop(t *testing.T) {
	menu := Menu{
		Title: "Test Menu",
		Items: []MenuItem{
			{Label: "Ask", Action: func(context.Context) error { return io.EOF }},
		},
	}
	err := menu.Run(context.Background(), NewConsole(strings.NewReader("1\n"), &bytes.Buffer{}), nil)
	assert.NoError(t, err)
}

func TestMenu_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Menu{Title: "Test Menu"}.Run(ctx, NewConsole(strings.NewReader(""), &bytes.Buffer{}), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

// cancelOnRead cancels its context the moment more input is requested, then
// supplies data as if the user had typed it right after the interrupt.
type cancelOnRead struct {
	cancel context.CancelFunc
	data   []byte
}

func (r *cancelOnRead) Read(p []byte) (int, error) {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestMenu_InterruptedChoiceIsNotDispatched(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ran := 0
	menu := Menu{
		Title: "Test Menu",
		Items: []MenuItem{
			{Label: "Run", Action: func(context.Context) error { ran++; return nil }},
			{Label: "Quit", Exit: true},
		},
	}

	err := menu.Run(ctx, NewConsole(&cancelOnRead{cancel: cancel, data: []byte("1\n")}, &bytes.Buffer{}), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, ran)
}

func TestMenu_InterruptWhileWaitingAtPrompt(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(20*time.Millisecond, cancel)

	menu := Menu{Title: "Test Menu", Items: []MenuItem{{Label: "Quit", Exit: true}}}
	err := menu.Run(ctx, NewConsole(pr, &bytes.Buffer{}), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConsole_LineReadAfterCancelIsKept(t *testing.T) {
	pr, pw := io.Pipe()
	c := NewConsole(pr, &bytes.Buffer{})
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := c.ReadLineContext(ctx, "? ")
	require.ErrorIs(t, err, context.Canceled)

	go func() {
		_, _ = pw.Write([]byte("late\n"))
		_ = pw.Close()
	}()
	line, err := c.ReadLine("? ")
	require.NoError(t, err)
	assert.Equal(t, "late", line)
}
