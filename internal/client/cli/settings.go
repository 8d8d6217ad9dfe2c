package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/friendszone/internal/client/i18n"
	"github.com/dmitrijs2005/friendszone/internal/client/models"
	"github.com/dmitrijs2005/friendszone/internal/client/services"
	"github.com/dmitrijs2005/friendszone/internal/common"
)

// Settings opens the settings page and prints the viewer's profile and
// local preferences.
func (a *App) Settings(ctx context.Context) error {
	a.chat.Conversations.Settings(ctx)

	printlnFn(a.t(i18n.Settings))
	printlnFn(fmt.Sprintf("  %s: %s", a.t(i18n.UserID), a.chat.Session.UserID()))
	if p := a.chat.Session.Profile(); p != nil {
		a.printProfile(a.t(i18n.Profile), p)
	}
	a.printNotifications()
	printlnFn(fmt.Sprintf("%s: %s", a.t(i18n.Language), a.chat.Session.Language()))
	printlnFn(fmt.Sprintf("%s: %s", a.t(i18n.InviteFriend), a.chat.Profile.InviteURL()))
	return nil
}

// EditProfile walks through the profile fields. Enter keeps a value, "-"
// clears it.
func (a *App) EditProfile(ctx context.Context) error {
	e := a.chat.Profile
	e.Begin()
	d := e.Draft()

	fields := []struct {
		key i18n.Key
		v   *string
	}{
		{i18n.DisplayName, &d.DisplayName},
		{i18n.DateOfBirth, &d.DOB},
		{i18n.Bio, &d.Bio},
		{i18n.Email, &d.Email},
	}
	for _, f := range fields {
		v, err := GetWithDefault(a.reader, a.t(f.key), *f.v, a.out)
		if err != nil {
			return err
		}
		*f.v = v
	}

	pic, err := getSimpleText(a.reader, a.t(i18n.ChangeImage)+" (path, empty to keep)", a.out)
	if err != nil {
		return err
	}
	if pic != "" {
		file, err := readAttachment(pic)
		if err != nil {
			printlnFn("Error:", err)
			return err
		}
		d.Picture = &models.Attachment{Name: file.Name, ContentType: file.ContentType, Data: file.Data}
	}

	e.Edit(func(dst *services.ProfileDraft) { *dst = d })
	if err := e.Save(ctx); err != nil {
		if errors.Is(err, common.ErrEmptyDisplayName) {
			printlnFn(a.t(i18n.DisplayName) + "?")
			return nil
		}
		printlnFn("Error:", err)
		return err
	}
	printlnFn(a.t(i18n.ProfileSaved))
	return nil
}

// VerifyEmail shows the disclaimer; no verification message is sent.
func (a *App) VerifyEmail(ctx context.Context) error {
	a.chat.Profile.VerifyEmail()
	printlnFn(a.t(i18n.EmailDisclaimer))
	return nil
}

// Language switches the UI language. Without a code it lists the choices.
func (a *App) Language(ctx context.Context, code string) error {
	if code == "" {
		printlnFn(a.t(i18n.SelectLanguage))
		current := a.chat.Session.Language()
		for _, l := range i18n.Languages {
			mark := " "
			if l.Code == current {
				mark = "*"
			}
			printlnFn(fmt.Sprintf(" %s %s  %s", mark, l.Code, l.Name))
		}
		return nil
	}

	err := a.chat.Profile.SetLanguage(ctx, code)
	switch {
	case errors.Is(err, services.ErrUnsupportedLanguage):
		printlnFn("Error:", err, code)
		return err
	case err != nil && !errors.Is(err, common.ErrNotSignedIn):
		printlnFn("Error:", err)
		return err
	}
	printlnFn(a.t(i18n.Language) + ": " + code)
	return nil
}

// Notifications prints the local notification preferences, or changes one:
// "notify receive off", "notify sound on".
func (a *App) Notifications(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.printNotifications()
		return nil
	}
	if len(args) != 2 || (args[1] != "on" && args[1] != "off") {
		printlnFn("notify receive|sound on|off")
		return nil
	}

	prefs := a.chat.Profile.Notifications()
	on := args[1] == "on"
	switch strings.ToLower(args[0]) {
	case "receive":
		prefs.Receive = on
	case "sound":
		prefs.Sound = on
	default:
		printlnFn("notify receive|sound on|off")
		return nil
	}
	a.chat.Profile.SetNotifications(prefs)
	a.printNotifications()
	return nil
}

func (a *App) printNotifications() {
	prefs := a.chat.Profile.Notifications()
	onOff := func(b bool) string {
		if b {
			return a.t(i18n.On)
		}
		return a.t(i18n.Off)
	}
	printlnFn(a.t(i18n.NotificationsTitle))
	printlnFn(fmt.Sprintf("  %s: %s", a.t(i18n.ReceiveNotifications), onOff(prefs.Receive)))
	printlnFn(fmt.Sprintf("  %s: %s", a.t(i18n.PlaySound), onOff(prefs.Sound)))
}

func (a *App) Invite(ctx context.Context) error {
	printlnFn(a.t(i18n.InviteTitle))
	printlnFn(a.t(i18n.InviteDescription))
	printlnFn("  " + a.chat.Profile.InviteURL())
	return nil
}

func (a *App) help() string {
	var b strings.Builder
	b.WriteString(a.t(i18n.Help) + ":\n")
	if !a.isLoggedIn() {
		b.WriteString("  register | login | lang [code] | exit\n")
		return b.String()
	}
	b.WriteString("  home | public | private [n|name] | gated | users | history | chat\n")
	b.WriteString("  say <text> | image <path> | emoji [n] | bg [n|none] | block | profile [who]\n")
	b.WriteString("  settings | edit | verify | lang [code] | notify [receive|sound on|off] | invite\n")
	b.WriteString("  logout | exit\n")
	return b.String()
}
