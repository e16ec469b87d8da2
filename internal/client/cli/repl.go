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

// execIface defines the command surface the REPL needs.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Capture(ctx context.Context, what string) error
	List(ctx context.Context, kind string) error
	Discard(ctx context.Context, kind, id string) error
	Status(ctx context.Context) error
	Sync(ctx context.Context) error
	SetOffline(ctx context.Context, on bool) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
}

const helpText = `Commands:
  capture photo|note|task|checklist   queue a new capture
  list [kind]                         show queued captures
  discard <kind> <id>                 drop a queued capture
  status                              pending counts and connectivity
  sync                                sync now
  offline on|off                      force offline mode
  login | logout                      manage the access token
  help                                show this help
  exit | quit                         leave`

// runREPL reads one command per line from reader and dispatches it to a.
// The loop exits on EOF, on "exit"/"quit", or when ctx is cancelled.
// Command errors are printed and never end the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Printf("[%s] > ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		cmd, args := strings.ToLower(fields[0]), fields[1:]

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "exit", "quit":
			return
		case "capture":
			if len(args) != 1 {
				printlnFn("usage: capture photo|note|task|checklist")
				continue
			}
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			cmdErr = a.Capture(ctx, strings.ToLower(args[0]))
		case "list":
			kind := ""
			if len(args) > 0 {
				kind = args[0]
			}
			cmdErr = a.List(ctx, kind)
		case "discard":
			if len(args) != 2 {
				printlnFn("usage: discard <kind> <id>")
				continue
			}
			cmdErr = a.Discard(ctx, args[0], args[1])
		case "status":
			cmdErr = a.Status(ctx)
		case "sync":
			cmdErr = a.Sync(ctx)
		case "offline":
			if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
				printlnFn("usage: offline on|off")
				continue
			}
			cmdErr = a.SetOffline(ctx, args[0] == "on")
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		default:
			printlnFn("Unknown command:", cmd, "(type 'help')")
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
