package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/friendszone/internal/client/i18n"
	"github.com/dmitrijs2005/friendszone/internal/client/models"
	"github.com/dmitrijs2005/friendszone/internal/client/services"
	"github.com/dmitrijs2005/friendszone/internal/client/tui"
	"github.com/dmitrijs2005/friendszone/internal/common"
	"github.com/dmitrijs2005/friendszone/internal/cryptox"
)

var nowFn = time.Now

func (a *App) Home(ctx context.Context) error {
	a.chat.Conversations.Home(ctx)
	printlnFn(a.t(i18n.Welcome))
	printlnFn(a.t(i18n.WelcomeDescription))
	return nil
}

func (a *App) Public(ctx context.Context) error {
	a.chat.Conversations.Public(ctx)
	return a.History(ctx)
}

// Private opens a chat with who: a number from the users list, an id, an
// id prefix, a display name or an email. Without who it lists the users.
func (a *App) Private(ctx context.Context, who string) error {
	if who == "" {
		a.chat.Conversations.Private(ctx, "")
		_ = a.Users(ctx)
		who, _ = getSimpleText(a.reader, a.t(i18n.SelectUser), a.out)
		if who == "" {
			return nil
		}
	}

	p, ok := a.findUser(who)
	if !ok {
		printlnFn(a.t(i18n.SelectUser))
		return common.ErrNoPeerSelected
	}
	a.chat.Conversations.Private(ctx, p.ID)
	return a.History(ctx)
}

func (a *App) findUser(who string) (*models.Profile, bool) {
	others := a.chat.Directory.Others(a.chat.Session.UserID())
	if i, err := strconv.Atoi(who); err == nil {
		if i >= 1 && i <= len(others) {
			return &others[i-1], true
		}
		return nil, false
	}
	return a.chat.Directory.Find(who)
}

// Gated opens the gated room and asks for its password.
func (a *App) Gated(ctx context.Context) error {
	a.chat.Conversations.Gated(ctx)
	printlnFn(a.t(i18n.GatedChat))

	pw, err := getPassword(a.t(i18n.EnterPassword), a.out)
	if err != nil {
		return err
	}
	defer cryptox.Wipe(pw)

	if err := a.chat.Conversations.Unlock(ctx, string(pw)); err != nil {
		if errors.Is(err, common.ErrInvalidPassword) {
			printlnFn(a.t(i18n.InvalidPassword))
		} else {
			printlnFn("Error:", err)
		}
		return err
	}
	printlnFn(a.t(i18n.RoomUnlocked))
	return a.History(ctx)
}

// Users lists everyone but the viewer, numbered for "private <n>".
func (a *App) Users(ctx context.Context) error {
	others := a.chat.Directory.Others(a.chat.Session.UserID())
	printlnFn(a.t(i18n.Users) + ":")
	if len(others) == 0 {
		printlnFn("  " + a.t(i18n.NoOtherUsers))
		return nil
	}
	viewer := a.chat.Session.Profile()
	for i, p := range others {
		line := fmt.Sprintf("  %2d. %s (%s)", i+1, p.Name(), p.ID)
		if viewer.HasBlocked(p.ID) {
			line += " - " + a.t(i18n.UserBlocked)
		}
		printlnFn(line)
	}
	return nil
}

// History prints the active conversation.
func (a *App) History(ctx context.Context) error {
	printlnFn(tui.TitleStyle.Render(tui.Title(a.chat)))

	if _, ok := a.chat.Conversations.View().Conversation(); !ok {
		return nil
	}
	if _, ok := a.chat.Conversations.Locator(); !ok {
		if v := a.chat.Conversations.View(); v.Page == services.PagePrivate {
			printlnFn(a.t(i18n.SelectUser))
		} else {
			printlnFn(a.t(i18n.RoomLocked))
		}
		return nil
	}
	if bg := a.chat.Feed.Background(); bg != "" {
		printlnFn(tui.MutedStyle.Render(a.t(i18n.ChangeBackground) + ": " + bg))
	}
	for _, m := range a.chat.Feed.Visible(a.chat.Session.Profile()) {
		printlnFn(a.format(m))
	}
	return nil
}

func (a *App) format(m models.Message) string {
	return tui.FormatMessage(m, a.chat.Session.UserID(), tui.NameResolver(a.chat), nowFn())
}

// Live hands the terminal to the full-screen chat view.
func (a *App) Live(ctx context.Context) error {
	if _, ok := a.chat.Conversations.View().Conversation(); !ok {
		printlnFn(a.t(i18n.SelectUser))
		return nil
	}
	a.liveActive.Store(true)
	defer a.liveActive.Store(false)

	if err := a.live(ctx, a.chat); err != nil {
		printlnFn("Error:", err)
		return err
	}
	return nil
}

func (a *App) describe(err error) string {
	switch {
	case errors.Is(err, common.ErrNothingToSend):
		return a.t(i18n.NothingToSend)
	case errors.Is(err, common.ErrSendRejected):
		if v := a.chat.Conversations.View(); v.Page == services.PageGated && !v.Unlocked {
			return a.t(i18n.RoomLocked)
		}
		return a.t(i18n.UserBlocked)
	case errors.Is(err, common.ErrNoPeerSelected), errors.Is(err, services.ErrNotInConversation):
		return a.t(i18n.SelectUser)
	}
	return "Error: " + err.Error()
}
