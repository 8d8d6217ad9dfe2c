package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/friendszone/internal/client/i18n"
	"github.com/dmitrijs2005/friendszone/internal/client/services"
	"github.com/dmitrijs2005/friendszone/internal/cryptox"
)

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email and a password and signs up.
func (a *App) Register(ctx context.Context) error {
	return a.authenticate(ctx, a.chat.Session.SignUp)
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	return a.authenticate(ctx, a.chat.Session.SignIn)
}

func (a *App) authenticate(ctx context.Context, fn func(ctx context.Context, email, password string) error) error {
	if a.isLoggedIn() {
		printlnFn("Already signed in as", a.chat.Session.Profile().Name())
		return nil
	}

	email, err := getSimpleText(a.reader, a.t(i18n.EmailAddress), a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.t(i18n.Password), a.out)
	if err != nil {
		return err
	}
	defer cryptox.Wipe(password)

	if err := fn(ctx, strings.TrimSpace(email), string(password)); err != nil {
		var authErr *services.AuthError
		if errors.As(err, &authErr) {
			printlnFn(authErr.Message)
		} else {
			printlnFn("Error:", err)
		}
		return err
	}

	printlnFn(fmt.Sprintf("%s, %s", a.t(i18n.Welcome), a.chat.Session.Profile().Name()))
	return nil
}

// Logout signs out; the chat returns to the home page.
func (a *App) Logout(ctx context.Context) error {
	if err := a.chat.Session.SignOut(ctx); err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn(a.t(i18n.SignOut))
	return nil
}
