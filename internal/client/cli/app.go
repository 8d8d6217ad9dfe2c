package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/dmitrijs2005/friendszone/internal/client/config"
	"github.com/dmitrijs2005/friendszone/internal/client/i18n"
	"github.com/dmitrijs2005/friendszone/internal/client/services"
	"github.com/dmitrijs2005/friendszone/internal/client/tui"
	"github.com/dmitrijs2005/friendszone/internal/logging"
)

// App is the REPL front-end over one Chat.
type App struct {
	config  *config.Config
	backend *backend.Backend
	chat    *services.Chat
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer

	// live runs the full-screen chat view.
	live       func(ctx context.Context, chat *services.Chat) error
	liveActive atomic.Bool
	unsubFeed  backend.Unsubscribe
}

// NewApp builds the backend described by c and a Chat on top of it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	b, err := buildBackend(ctx, c, log)
	if err != nil {
		return nil, err
	}
	return newApp(c, b, log, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, b *backend.Backend, log logging.Logger, in io.Reader, out io.Writer) *App {
	chat := services.NewChat(b, services.Options{
		AppID:     c.AppID,
		GatedRoom: c.GatedRoom,
		InviteURL: c.InviteURL,
	}, log)
	return &App{
		config:  c,
		backend: b,
		chat:    chat,
		log:     log,
		reader:  bufio.NewReader(in),
		out:     out,
		live:    tui.Run,
	}
}

// Run starts the chat, resumes a saved session and serves the REPL until
// the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	a.start(ctx)
	defer a.stop(ctx)

	if ok, err := a.chat.Session.Restore(ctx); err != nil {
		a.log.Warn(ctx, "restore session", "error", err)
	} else if ok {
		printlnFn(a.t(i18n.Welcome), a.chat.Session.Profile().Name())
	}
	if !a.isLoggedIn() {
		printlnFn(a.t(i18n.Welcome))
		printlnFn(a.t(i18n.NotSignedIn))
	}

	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
	return nil
}

func (a *App) start(ctx context.Context) {
	a.chat.Start(ctx)
	a.unsubFeed = a.chat.Feed.OnChange(func(ev services.FeedEvent) {
		a.onFeed(ev)
	})
}

func (a *App) stop(ctx context.Context) {
	if a.unsubFeed != nil {
		a.unsubFeed()
	}
	a.chat.Stop(ctx)
	if err := a.backend.Shutdown(); err != nil {
		a.log.Error(ctx, "backend shutdown", "error", err)
	}
}

// onFeed prints messages other users add while the REPL has the terminal.
func (a *App) onFeed(ev services.FeedEvent) {
	if ev.Reset || ev.Initial || ev.Added == 0 || a.liveActive.Load() {
		return
	}
	if !a.chat.Profile.Notifications().Receive {
		return
	}
	self := a.chat.Session.UserID()
	msgs := a.chat.Feed.Visible(a.chat.Session.Profile())
	if ev.Added < len(msgs) {
		msgs = msgs[len(msgs)-ev.Added:]
	}
	for _, m := range msgs {
		if m.SenderID == self {
			continue
		}
		printlnFn(a.format(m))
	}
}

func (a *App) isLoggedIn() bool {
	return a.chat.Session.UserID() != ""
}

func (a *App) t(key i18n.Key) string {
	return a.chat.Session.T(key)
}

// status is shown inside the prompt: empty when signed out, otherwise the
// active page.
func (a *App) status() string {
	if !a.isLoggedIn() {
		return ""
	}
	v := a.chat.Conversations.View()
	switch v.Page {
	case services.PagePrivate:
		if v.PeerID != "" {
			return fmt.Sprintf("[@%s]", tui.NameResolver(a.chat)(v.PeerID))
		}
	case services.PageGated:
		if !v.Unlocked {
			return "[" + v.Page.String() + " (locked)]"
		}
	}
	return "[" + v.Page.String() + "]"
}
