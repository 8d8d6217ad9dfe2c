package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/friendszone/internal/client/i18n"
	"github.com/dmitrijs2005/friendszone/internal/client/models"
	"github.com/dmitrijs2005/friendszone/internal/client/services"
	"github.com/dmitrijs2005/friendszone/internal/common"
	"github.com/dmitrijs2005/friendszone/internal/filex"
)

var readAttachment = filex.ReadAttachment

// Say appends text to the draft and sends it.
func (a *App) Say(ctx context.Context, text string) error {
	c := a.chat.Composer
	if text != "" {
		c.SetText(c.Text() + text)
	}
	return a.send(ctx)
}

func (a *App) send(ctx context.Context) error {
	if err := a.chat.Composer.Send(ctx); err != nil {
		printlnFn(a.describe(err))
		return err
	}
	return nil
}

// Image sends the file at path as an image message. Any typed draft text
// stays in the composer.
func (a *App) Image(ctx context.Context, path string) error {
	if path == "" {
		a.chat.Composer.SelectImage(nil)
		printlnFn(a.t(i18n.UploadImage) + ": image <path>")
		return nil
	}
	f, err := readAttachment(path)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	a.chat.Composer.SelectImage(&models.Attachment{Name: f.Name, ContentType: f.ContentType, Data: f.Data})
	return a.send(ctx)
}

// Emoji appends a palette entry (by number) or any single emoji to the
// draft. Without an argument it prints the palette.
func (a *App) Emoji(ctx context.Context, arg string) error {
	if arg == "" {
		var b strings.Builder
		for i, e := range services.Emojis {
			fmt.Fprintf(&b, "%2d:%s ", i+1, e)
		}
		printlnFn(b.String())
		return nil
	}
	e := arg
	if i, err := strconv.Atoi(arg); err == nil && i >= 1 && i <= len(services.Emojis) {
		e = services.Emojis[i-1]
	}
	if err := a.chat.Composer.AppendEmoji(e); err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn(a.t(i18n.TypeMessage), a.chat.Composer.Display())
	return nil
}

// Background sets the conversation background to a palette entry, or
// clears it with "none". Without an argument it prints the palette.
func (a *App) Background(ctx context.Context, arg string) error {
	if arg == "" {
		printlnFn(a.t(i18n.ChooseBackground))
		printlnFn("   0. " + a.t(i18n.None))
		for i, u := range services.Backgrounds {
			printlnFn(fmt.Sprintf("  %2d. %s", i+1, u))
		}
		return nil
	}

	url := ""
	if arg != "none" && arg != "0" {
		i, err := strconv.Atoi(arg)
		if err != nil || i < 1 || i > len(services.Backgrounds) {
			printlnFn(fmt.Sprintf("bg 1-%d | none", len(services.Backgrounds)))
			return nil
		}
		url = services.Backgrounds[i-1]
	}
	if err := a.chat.Feed.SetBackground(ctx, url); err != nil {
		printlnFn(a.describe(err))
		return err
	}
	printlnFn(a.t(i18n.Saved))
	return nil
}

// Block toggles the block on the peer of the open private chat.
func (a *App) Block(ctx context.Context) error {
	v := a.chat.Conversations.View()
	if v.Page != services.PagePrivate || v.PeerID == "" {
		printlnFn(a.t(i18n.SelectUser))
		return common.ErrNoPeerSelected
	}
	blocked, err := a.chat.Block.Toggle(ctx, v.PeerID)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	if blocked {
		printlnFn(a.t(i18n.UserBlocked))
	} else {
		printlnFn(a.t(i18n.UnblockUser) + ": " + a.t(i18n.Saved))
	}
	return nil
}

// ShowProfile prints who's profile, or the open private chat's peer.
func (a *App) ShowProfile(ctx context.Context, who string) error {
	var (
		p  *models.Profile
		ok bool
	)
	if who == "" {
		v := a.chat.Conversations.View()
		if v.PeerID != "" {
			p, ok = a.chat.Directory.Lookup(v.PeerID)
		}
	} else {
		p, ok = a.findUser(who)
	}
	if !ok {
		printlnFn(a.t(i18n.SelectUser))
		return common.ErrNoPeerSelected
	}
	a.printProfile(a.t(i18n.UserProfile), p)
	return nil
}

func (a *App) printProfile(title string, p *models.Profile) {
	printlnFn(title)
	row := func(k i18n.Key, v string) {
		if v != "" {
			printlnFn(fmt.Sprintf("  %-14s %s", a.t(k)+":", v))
		}
	}
	row(i18n.DisplayName, p.Name())
	row(i18n.Email, p.Email)
	row(i18n.DateOfBirth, p.DOB)
	row(i18n.Bio, p.Bio)
	row(i18n.Profile, p.ProfilePicURL)
}
