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

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Forgot(ctx context.Context) error
	Reset(ctx context.Context) error

	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ChangeUsername(ctx context.Context) error
	ChangeEmail(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Picture(ctx context.Context) error

	Master(ctx context.Context) error
	Unlock(ctx context.Context) error
	Lock(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context) error
	Delete(ctx context.Context) error

	Generate(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, forgot, reset, generate, help, exit"
	helpLoggedIn  = "Available commands: whoami, username, email, password, picture, master, unlock, lock, " +
		"(l)ist, show, add, edit, delete, generate, logout, help, exit"
)

// runREPL starts the read–eval–print loop of the lightningpass CLI.
//
// It reads a line from reader, takes the first token as the command and
// dispatches to a. Commands that need an account are refused until the user
// logs in. A failing command prints its message and the loop continues. The
// loop exits on EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("lp%s> ", statusFn()))

		line, readErr := reader.ReadString('\n')
		if readErr != nil && (!errors.Is(readErr, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var run func(context.Context) error
		needsLogin := true

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "register":
			run, needsLogin = a.Register, false
		case "login":
			run, needsLogin = a.Login, false
		case "forgot":
			run, needsLogin = a.Forgot, false
		case "reset":
			run, needsLogin = a.Reset, false
		case "generate":
			run, needsLogin = a.Generate, false

		case "logout":
			run = a.Logout
		case "whoami":
			run = a.WhoAmI
		case "username":
			run = a.ChangeUsername
		case "email":
			run = a.ChangeEmail
		case "password":
			run = a.ChangePassword
		case "picture":
			run = a.Picture
		case "master":
			run = a.Master
		case "unlock":
			run = a.Unlock
		case "lock":
			run = a.Lock
		case "l", "list":
			run = a.List
		case "show":
			run = a.Show
		case "add":
			run = a.Add
		case "edit":
			run = a.Edit
		case "delete":
			run = a.Delete

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if needsLogin && !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}

		if err := run(ctx); err != nil {
			printlnFn("Error:", describe(err))
		}

		// last line had no newline
		if readErr != nil {
			return
		}
	}
}
