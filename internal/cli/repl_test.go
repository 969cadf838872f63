package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/lightningpass/internal/common"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool
	failWith error

	calls []string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return f.failWith
}

func (f *fakeExec) Register(context.Context) error { return f.record("register") }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Forgot(context.Context) error { return f.record("forgot") }
func (f *fakeExec) Reset(context.Context) error  { return f.record("reset") }
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) WhoAmI(context.Context) error         { return f.record("whoami") }
func (f *fakeExec) ChangeUsername(context.Context) error { return f.record("username") }
func (f *fakeExec) ChangeEmail(context.Context) error    { return f.record("email") }
func (f *fakeExec) ChangePassword(context.Context) error { return f.record("password") }
func (f *fakeExec) Picture(context.Context) error        { return f.record("picture") }
func (f *fakeExec) Master(context.Context) error         { return f.record("master") }
func (f *fakeExec) Unlock(context.Context) error         { return f.record("unlock") }
func (f *fakeExec) Lock(context.Context) error           { return f.record("lock") }
func (f *fakeExec) List(context.Context) error           { return f.record("list") }
func (f *fakeExec) Show(context.Context) error           { return f.record("show") }
func (f *fakeExec) Add(context.Context) error            { return f.record("add") }
func (f *fakeExec) Edit(context.Context) error           { return f.record("edit") }
func (f *fakeExec) Delete(context.Context) error         { return f.record("delete") }
func (f *fakeExec) Generate(context.Context) error       { return f.record("generate") }

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func input(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return " (status)" }, input(
		"help",
		"list",
		"generate",
		"login",
		"help",
		"whoami",
		"username",
		"email",
		"password",
		"picture",
		"master",
		"unlock",
		"l",
		"show 1",
		"add",
		"edit",
		"delete",
		"lock",
		"",
		"foobar",
		"logout",
		"exit",
		"register",
	))

	assert.Equal(t, []string{
		"generate", "login", "whoami", "username", "email", "password", "picture", "master",
		"unlock", "list", "show", "add", "edit", "delete", "lock", "logout",
	}, exec.calls)

	assert.Contains(t, *out, helpLoggedOut)
	assert.Contains(t, *out, helpLoggedIn)
	assert.Contains(t, *out, "Please login first")
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Contains(t, *out, "lp (status)> ")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_ReportsErrorsAndContinues(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{failWith: common.ErrPasswordsDoNotMatch}
	runREPL(context.Background(), exec, func() string { return "" }, input("register", "forgot"))

	assert.Equal(t, []string{"register", "forgot"}, exec.calls)
	assert.Contains(t, *out, "Error: Passwords do not match.")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, input())
	assert.Empty(t, exec.calls)

	runREPL(context.Background(), exec, func() string { return "" }, input("reset"))
	assert.Equal(t, []string{"reset"}, exec.calls)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Invalid username or password.", describe(common.ErrAccountDoesNotExist))
	assert.Equal(t, "Vault is locked, use 'unlock' first.", describe(fmt.Errorf("wrapped: %w", common.ErrVaultLocked)))
	assert.Equal(t, "disk on fire", describe(fmt.Errorf("disk on fire")))
}
