package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Action runs one menu choice.
type Action func(ctx context.Context) error

// MenuItem is one numbered entry. Exit items end the loop after printing ExitMessage.
type MenuItem struct {
	Label       string
	Action      Action
	Exit        bool
	ExitMessage string
}

// Menu is a numbered prompt loop.
type Menu struct {
	Title string
	Items []MenuItem
}

// Run shows the menu until an exit item is chosen or input ends.
// A done ctx ends the loop with ctx.Err(), even while waiting at the prompt.
func (m Menu) Run(ctx context.Context, console *Console, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	prompt := fmt.Sprintf("Enter your choice (1-%d): ", len(m.Items))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		console.Linef("\n%s:", m.Title)
		for i, item := range m.Items {
			console.Linef("%d. %s", i+1, item.Label)
		}

		choice, err := console.ReadLineContext(ctx, prompt)
		if errors.Is(err, io.EOF) {
			console.Linef("")
			return nil
		}
		if err != nil {
			return err
		}

		// A choice typed as the session is interrupted is not dispatched.
		if err := ctx.Err(); err != nil {
			return err
		}

		item, ok := m.lookup(choice)
		if !ok {
			console.Linef("Invalid choice. Please try again.")
			continue
		}
		if item.Exit {
			if item.ExitMessage != "" {
				console.Linef("%s", item.ExitMessage)
			}
			return nil
		}

		err = runAction(ctx, item, logger)
		if errors.Is(err, io.EOF) {
			console.Linef("")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (m Menu) lookup(choice string) (MenuItem, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || n < 1 || n > len(m.Items) {
		return MenuItem{}, false
	}
	return m.Items[n-1], true
}

// runAction converts a panic inside an action into an error so the session can still be saved.
func runAction(ctx context.Context, item MenuItem, logger *zap.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic recovered", zap.String("action", item.Label), zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			err = fmt.Errorf("%s: %v", item.Label, r)
		}
	}()
	if item.Action == nil {
		return nil
	}
	return item.Action(ctx)
}
