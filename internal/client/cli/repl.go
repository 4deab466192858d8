package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	requireUser(ctx context.Context) bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error

	AddTask(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Board(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	SetStatus(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Overdue(ctx context.Context) error

	Toasts(ctx context.Context) error
	Dismiss(ctx context.Context, args []string) error

	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	ClearData(ctx context.Context) error
}

const (
	helpGuest = "Available commands: register, login, export, import, clear-data, toasts, dismiss, exit"
	helpUser  = "Available commands: add, (l)ist, board, show, edit, status, delete, overdue, " +
		"whoami, logout, toasts, dismiss, export, import, clear-data, exit"
)

// taskCommands need a logged-in user; the access guard runs before them.
var taskCommands = map[string]bool{
	"add": true, "l": true, "list": true, "board": true, "show": true,
	"edit": true, "status": true, "delete": true, "rm": true, "overdue": true,
}

// runREPL starts a simple read–eval–print loop for the gophtodo CLI.
//
// It reads a line from the provided reader, parses the first token as the
// command, and dispatches to methods on 'a' with the remaining tokens as
// arguments. Unknown commands are reported back to the user. The loop exits
// on EOF or when the user types "exit" or "quit".
//
// Task commands are guarded: when nobody is logged in the guard sends the
// user to register (no accounts yet) or login first, and the command only
// runs if that succeeds.
//
// Handler errors are printed and the loop continues.
//
// Command handlers prompt on the same reader, so the loop must not buffer
// beyond the current line.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("todo%s> ", prefixSpace(statusFn())))
		line, ok := readLine(in)
		if !ok {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if taskCommands[cmd] && !a.requireUser(ctx) {
			continue
		}

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpUser)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			err = a.WhoAmI(ctx)

		case "add":
			err = a.AddTask(ctx)
		case "l", "list":
			err = a.List(ctx, args)
		case "board":
			err = a.Board(ctx)
		case "show":
			err = a.Show(ctx, args)
		case "edit":
			err = a.Edit(ctx, args)
		case "status":
			err = a.SetStatus(ctx, args)
		case "delete", "rm":
			err = a.Delete(ctx, args)
		case "overdue":
			err = a.Overdue(ctx)

		case "toasts":
			err = a.Toasts(ctx)
		case "dismiss":
			err = a.Dismiss(ctx, args)

		case "export":
			err = a.Export(ctx, args)
		case "import":
			err = a.Import(ctx, args)
		case "clear-data":
			err = a.ClearData(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}

// readLine returns the next line without its terminator. A final line with
// no newline is still returned; ok is false only once input is exhausted.
func readLine(in *bufio.Reader) (string, bool) {
	line, err := in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

func prefixSpace(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}
