package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	err      error
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeExec) Capture(_ context.Context, what string) error { return f.record("capture " + what) }
func (f *fakeExec) List(_ context.Context, kind string) error     { return f.record("list " + kind) }
func (f *fakeExec) Discard(_ context.Context, kind, id string) error {
	return f.record("discard " + kind + " " + id)
}
func (f *fakeExec) Status(context.Context) error { return f.record("status") }
func (f *fakeExec) Sync(context.Context) error   { return f.record("sync") }
func (f *fakeExec) SetOffline(_ context.Context, on bool) error {
	return f.record(fmt.Sprintf("offline %v", on))
}
func (f *fakeExec) Login(context.Context) error  { return f.record("login") }
func (f *fakeExec) Logout(context.Context) error { return f.record("logout") }

func stubPrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	old := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = old })
	return &lines
}

func repl(t *testing.T, f *fakeExec, input string) []string {
	t.Helper()
	out := stubPrintln(t)
	runREPL(context.Background(), f, func() string { return "online" }, bufio.NewReader(strings.NewReader(input)))
	return *out
}

func TestREPL_Dispatch(t *testing.T) {
	f := &fakeExec{loggedIn: true}
	repl(t, f, strings.Join([]string{
		"capture Photo",
		"list",
		"list notes",
		"discard tasks abc",
		"status",
		"sync",
		"offline on",
		"offline off",
		"login",
		"logout",
		"",
		"exit",
		"status",
	}, "\n"))

	assert.Equal(t, []string{
		"capture photo",
		"list ",
		"list notes",
		"discard tasks abc",
		"status",
		"sync",
		"offline true",
		"offline false",
		"login",
		"logout",
	}, f.calls)
}

func TestREPL_CaptureRequiresLogin(t *testing.T) {
	f := &fakeExec{}
	out := repl(t, f, "capture note\n")
	assert.Empty(t, f.calls)
	assert.Contains(t, out, "Please login first")
}

func TestREPL_UsageErrors(t *testing.T) {
	f := &fakeExec{loggedIn: true}
	out := repl(t, f, "capture\ndiscard tasks\noffline maybe\nfrobnicate\n")
	assert.Empty(t, f.calls)
	require.Len(t, out, 4)
	assert.Contains(t, out[0], "usage: capture")
	assert.Contains(t, out[1], "usage: discard")
	assert.Contains(t, out[2], "usage: offline")
	assert.Contains(t, out[3], "Unknown command")
}

func TestREPL_ErrorsDoNotEndLoop(t *testing.T) {
	f := &fakeExec{loggedIn: true, err: errors.New("store unavailable")}
	out := repl(t, f, "status\nsync\n")
	assert.Equal(t, []string{"status", "sync"}, f.calls)
	assert.Equal(t, []string{"Error:store unavailable", "Error:store unavailable"}, out)
}

func TestREPL_LastLineWithoutNewline(t *testing.T) {
	f := &fakeExec{}
	repl(t, f, "status")
	assert.Equal(t, []string{"status"}, f.calls)
}

func TestREPL_Help(t *testing.T) {
	out := repl(t, &fakeExec{}, "help\n")
	require.Len(t, out, 1)
	assert.Contains(t, out[0], "capture photo|note|task|checklist")
}

func TestREPL_StopsOnCancelledContext(t *testing.T) {
	f := &fakeExec{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stubPrintln(t)
	runREPL(ctx, f, func() string { return "" }, bufio.NewReader(strings.NewReader("status\n")))
	assert.Empty(t, f.calls)
}
