package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	settle(ctx context.Context)
	Login(ctx context.Context) error
	Logout(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Vote(ctx context.Context, args []string) error
	Download(ctx context.Context, args []string) error
	Upload(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Leaderboard(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
}

// runREPL starts a simple read-eval-print loop for the course-notes CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a' with the remaining tokens as arguments. The
// same reader serves the interactive forms, so no input is lost between the
// loop and a command. The loop exits on EOF or when the user types "exit" or
// "quit".
//
// Commands
//
//	help                     show available commands
//	login | whoami           session
//	logout [--purge]         sign out, optionally wiping stored data
//	(l)ist [n]               newest notes
//	search <query>           search notes
//	show <id>                note details
//	vote <id> [up|remove]    upvote or remove a vote
//	download <id>            download the PDF
//	upload                   upload a note (sign-in required)
//	edit <id> | delete <id>  change own notes
//	leaderboard [n]          top contributors
//	profile [user-id]        user stats and notes
//	exit | quit              leave the program
//
// Errors returned by command handlers are ignored here; handlers report
// their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("notes (%s)> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, search, show, vote, download, upload, edit, delete, leaderboard, profile, whoami, logout, exit")
			} else {
				printlnFn("Available commands: (l)ist, search, show, vote, download, upload, leaderboard, profile, login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx, args)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "l", "list":
			_ = a.List(ctx, args)

		case "search":
			_ = a.Search(ctx, args)

		case "show":
			_ = a.Show(ctx, args)

		case "vote":
			_ = a.Vote(ctx, args)

		case "download":
			_ = a.Download(ctx, args)

		case "upload":
			_ = a.Upload(ctx)

		case "edit":
			_ = a.Edit(ctx, args)

		case "delete":
			_ = a.Delete(ctx, args)

		case "leaderboard":
			_ = a.Leaderboard(ctx, args)

		case "profile":
			_ = a.Profile(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
		a.settle(ctx)

		if err != nil {
			return
		}
	}
}
