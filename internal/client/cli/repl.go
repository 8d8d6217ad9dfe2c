package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App satisfies it;
// tests use a stub.
type execIface interface {
	isLoggedIn() bool
	help() string

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	Home(ctx context.Context) error
	Public(ctx context.Context) error
	Private(ctx context.Context, who string) error
	Gated(ctx context.Context) error
	Users(ctx context.Context) error
	History(ctx context.Context) error
	Live(ctx context.Context) error

	Say(ctx context.Context, text string) error
	Image(ctx context.Context, path string) error
	Emoji(ctx context.Context, arg string) error
	Background(ctx context.Context, arg string) error
	Block(ctx context.Context) error
	ShowProfile(ctx context.Context, who string) error

	Settings(ctx context.Context) error
	EditProfile(ctx context.Context) error
	VerifyEmail(ctx context.Context) error
	Language(ctx context.Context, code string) error
	Notifications(ctx context.Context, args []string) error
	Invite(ctx context.Context) error
}

// runREPL reads commands from scanner until EOF or exit/quit and
// dispatches them to a. Handlers report their own errors; the loop only
// handles I/O.
//
//	Not signed in:  help, register, login, lang <code>, exit
//	Signed in:      help, home, public, private [who], gated, users,
//	                history, chat, say <text>, image <path>, emoji [n],
//	                bg [n|none], block, profile [who], settings, edit,
//	                verify, lang [code], notify [receive|sound on|off],
//	                invite, logout, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("fz%s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch cmd {
		case "help", "?":
			printlnFn(a.help())
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "register":
			_ = a.Register(ctx)
			continue
		case "login":
			_ = a.Login(ctx)
			continue
		case "lang", "language":
			_ = a.Language(ctx, rest)
			continue
		}

		if !a.isLoggedIn() {
			printlnFn("Please login or register first (type 'help' for commands)")
			continue
		}

		switch cmd {
		case "home":
			_ = a.Home(ctx)
		case "public", "p":
			_ = a.Public(ctx)
		case "private", "dm":
			_ = a.Private(ctx, rest)
		case "gated", "room":
			_ = a.Gated(ctx)
		case "users", "u":
			_ = a.Users(ctx)
		case "history", "h":
			_ = a.History(ctx)
		case "chat", "live":
			_ = a.Live(ctx)
		case "say", "s":
			_ = a.Say(ctx, rest)
		case "image", "img":
			_ = a.Image(ctx, rest)
		case "emoji", "e":
			_ = a.Emoji(ctx, rest)
		case "bg", "background":
			_ = a.Background(ctx, rest)
		case "block", "unblock":
			_ = a.Block(ctx)
		case "profile", "whois":
			_ = a.ShowProfile(ctx, rest)
		case "settings":
			_ = a.Settings(ctx)
		case "edit":
			_ = a.EditProfile(ctx)
		case "verify":
			_ = a.VerifyEmail(ctx)
		case "notify", "notifications":
			_ = a.Notifications(ctx, strings.Fields(rest))
		case "invite":
			_ = a.Invite(ctx)
		case "logout":
			_ = a.Logout(ctx)
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
