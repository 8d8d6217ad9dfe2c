// Package auth implements backend.Identity on top of an AccountStore.
// Passwords are stored as bcrypt hashes; a signed session token is kept in
// a local file so that the next start can resume the session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/dmitrijs2005/friendszone/internal/cryptox"
	"github.com/dmitrijs2005/friendszone/internal/filex"
	"github.com/dmitrijs2005/friendszone/internal/logging"
)

// MinProviderPasswordLength is the provider's own floor; the client asks for more.
const MinProviderPasswordLength = 6

type Options struct {
	SecretKey     []byte
	TokenValidity time.Duration
	// SessionFile stores the session token. Empty disables persistence.
	SessionFile string
}

type Provider struct {
	accounts backend.AccountStore
	opts     Options
	log      logging.Logger

	mu        sync.Mutex
	current   *backend.User
	listeners map[int]func(*backend.User)
	nextID    int
}

var _ backend.Identity = (*Provider)(nil)

func NewProvider(accounts backend.AccountStore, opts Options, log logging.Logger) *Provider {
	return &Provider{
		accounts:  accounts,
		opts:      opts,
		log:       log,
		listeners: map[int]func(*backend.User){},
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", backend.ErrInvalidEmail
	}
	return email, nil
}

func (p *Provider) SignUp(ctx context.Context, email, password string) (*backend.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinProviderPasswordLength {
		return nil, backend.ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, err
	}

	acc, err := p.accounts.CreateAccount(ctx, email, hash)
	if err != nil {
		return nil, err
	}

	u := &backend.User{ID: acc.ID, Email: acc.Email}
	p.signedIn(ctx, u)
	return u, nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*backend.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	acc, err := p.accounts.AccountByEmail(ctx, email)
	if errors.Is(err, backend.ErrNotFound) {
		return nil, backend.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := cryptox.CheckPassword(acc.PasswordHash, password); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return nil, backend.ErrInvalidCredentials
		}
		return nil, err
	}

	u := &backend.User{ID: acc.ID, Email: acc.Email}
	p.signedIn(ctx, u)
	return u, nil
}

func (p *Provider) SignOut(ctx context.Context) error {
	if p.opts.SessionFile != "" {
		if err := os.Remove(p.opts.SessionFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			p.log.Warn(ctx, "remove session file", "error", err)
		}
	}
	p.setCurrent(nil)
	return nil
}

func (p *Provider) Restore(ctx context.Context) (*backend.User, error) {
	if p.opts.SessionFile == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(p.opts.SessionFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	userID, err := GetUserIDFromToken(strings.TrimSpace(string(raw)), p.opts.SecretKey)
	if err != nil {
		p.log.Info(ctx, "discarding stored session", "reason", err)
		_ = os.Remove(p.opts.SessionFile)
		return nil, nil
	}

	acc, err := p.accounts.AccountByID(ctx, userID)
	if errors.Is(err, backend.ErrNotFound) {
		_ = os.Remove(p.opts.SessionFile)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u := &backend.User{ID: acc.ID, Email: acc.Email}
	p.setCurrent(u)
	return u, nil
}

func (p *Provider) CurrentUser() *backend.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	u := *p.current
	return &u
}

func (p *Provider) OnAuthStateChanged(fn func(*backend.User)) backend.Unsubscribe {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.listeners[id] = fn
	p.mu.Unlock()

	fn(p.CurrentUser())

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

func (p *Provider) signedIn(ctx context.Context, u *backend.User) {
	if err := p.persist(u.ID); err != nil {
		p.log.Warn(ctx, "persist session", "error", err)
	}
	p.setCurrent(u)
}

func (p *Provider) persist(userID string) error {
	if p.opts.SessionFile == "" {
		return nil
	}
	tok, err := GenerateToken(userID, p.opts.SecretKey, p.opts.TokenValidity)
	if err != nil {
		return err
	}
	if err := filex.EnsureParentDir(p.opts.SessionFile); err != nil {
		return err
	}
	return os.WriteFile(p.opts.SessionFile, []byte(tok), 0o600)
}

func (p *Provider) setCurrent(u *backend.User) {
	p.mu.Lock()
	p.current = u
	fns := make([]func(*backend.User), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		var c *backend.User
		if u != nil {
			cp := *u
			c = &cp
		}
		fn(c)
	}
}
