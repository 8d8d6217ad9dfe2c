// Package services holds the chat client's state and the operations the
// front-ends invoke. Every durable effect is a direct call on one of the
// backend collaborators; services only keep local UI state.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/dmitrijs2005/friendszone/internal/client/i18n"
	"github.com/dmitrijs2005/friendszone/internal/client/models"
	"github.com/dmitrijs2005/friendszone/internal/common"
	"github.com/dmitrijs2005/friendszone/internal/logging"
	"github.com/dmitrijs2005/friendszone/internal/telemetry"
)

// AuthError is a sign-in or sign-up failure with a localized message.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

// SessionState is what Session observers receive. User is nil when signed out.
type SessionState struct {
	User    *backend.User
	Profile *models.Profile
}

// Session tracks the signed-in identity, the viewer's profile and the UI
// language.
type Session struct {
	identity backend.Identity
	docs     backend.Documents
	loc      Locations
	log      logging.Logger

	mu        sync.Mutex
	user      *backend.User
	profile   *models.Profile
	lang      string
	observers map[int]func(SessionState)
	nextID    int
	unsubAuth backend.Unsubscribe
}

func NewSession(identity backend.Identity, docs backend.Documents, loc Locations, log logging.Logger) *Session {
	return &Session{
		identity:  identity,
		docs:      docs,
		loc:       loc,
		log:       log,
		lang:      common.DefaultLanguage,
		observers: map[int]func(SessionState){},
	}
}

// Start begins observing the identity provider. The current state is
// applied before Start returns.
func (s *Session) Start(ctx context.Context) {
	unsub := s.identity.OnAuthStateChanged(func(u *backend.User) {
		s.onAuthState(ctx, u)
	})

	s.mu.Lock()
	s.unsubAuth = unsub
	s.mu.Unlock()
}

func (s *Session) Stop() {
	s.mu.Lock()
	unsub := s.unsubAuth
	s.unsubAuth = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (s *Session) onAuthState(ctx context.Context, u *backend.User) {
	if u == nil {
		s.mu.Lock()
		wasSignedIn := s.user != nil
		s.user, s.profile = nil, nil
		s.mu.Unlock()
		if wasSignedIn {
			s.log.Info(ctx, "signed out")
		}
		s.notify()
		return
	}

	p := s.loadProfile(ctx, u)

	s.mu.Lock()
	s.user = u
	s.profile = p
	s.lang = p.Language
	s.mu.Unlock()

	s.log.Info(ctx, "signed in", "user", u.ID)
	s.notify()
}

// loadProfile fetches the viewer's profile, creating it when absent.
func (s *Session) loadProfile(ctx context.Context, u *backend.User) *models.Profile {
	ref := s.loc.Profile(u.ID)

	doc, err := s.docs.Get(ctx, ref)
	switch {
	case err == nil:
		var p models.Profile
		if err := doc.DataTo(&p); err != nil {
			s.log.Error(ctx, "decode profile", "user", u.ID, "error", err)
		}
		p.ID = u.ID
		if blank(p.DisplayName) {
			p.DisplayName = models.DefaultDisplayName(u.Email, u.ID)
		}
		if p.Email == "" {
			p.Email = u.Email
		}
		if p.Language == "" {
			p.Language = common.DefaultLanguage
		}
		if p.BlockedUsers == nil {
			p.BlockedUsers = []string{}
		}
		return &p

	case !errors.Is(err, backend.ErrNotFound):
		// treat like a missing profile so the UI still works
		telemetry.BackendError(telemetry.OpRead)
		s.log.Error(ctx, "read profile", "user", u.ID, "error", err)
	}

	p := &models.Profile{
		ID:           u.ID,
		DisplayName:  models.DefaultDisplayName(u.Email, u.ID),
		Email:        u.Email,
		Language:     common.DefaultLanguage,
		BlockedUsers: []string{},
	}
	err = s.docs.Set(ctx, ref, backend.Fields{
		"displayName":   p.DisplayName,
		"email":         p.Email,
		"createdAt":     backend.ServerTimestamp,
		"profilePicUrl": "",
		"bio":           "",
		"blockedUsers":  []string{},
		"language":      common.DefaultLanguage,
	}, true)
	if err != nil {
		telemetry.BackendError(telemetry.OpWrite)
		s.log.Error(ctx, "create profile", "user", u.ID, "error", err)
	}
	return p
}

func (s *Session) authError(err error) *AuthError {
	return &AuthError{Message: s.T(i18n.AuthError) + err.Error(), Err: err}
}

// SignUp creates an account. Passwords shorter than the minimum are
// rejected locally with the localized requirement message.
func (s *Session) SignUp(ctx context.Context, email, password string) error {
	if len(password) < common.MinPasswordLength {
		return &AuthError{Message: s.T(i18n.PasswordRequirement)}
	}

	u, err := s.identity.SignUp(ctx, email, password)
	if err != nil {
		s.log.Warn(ctx, "sign up failed", "error", err)
		return s.authError(err)
	}

	name := models.DefaultDisplayName(u.Email, u.ID)
	err = s.docs.Set(ctx, s.loc.Profile(u.ID), backend.Fields{
		"displayName":   name,
		"email":         u.Email,
		"createdAt":     backend.ServerTimestamp,
		"profilePicUrl": "",
		"bio":           "",
		"blockedUsers":  []string{},
		"language":      common.DefaultLanguage,
	}, false)
	if err != nil {
		telemetry.BackendError(telemetry.OpWrite)
		s.log.Error(ctx, "write initial profile", "user", u.ID, "error", err)
		return s.authError(err)
	}
	return nil
}

func (s *Session) SignIn(ctx context.Context, email, password string) error {
	if _, err := s.identity.SignIn(ctx, email, password); err != nil {
		s.log.Warn(ctx, "sign in failed", "error", err)
		return s.authError(err)
	}
	return nil
}

func (s *Session) SignOut(ctx context.Context) error {
	return s.identity.SignOut(ctx)
}

// Restore resumes a persisted session. It reports whether one was found.
func (s *Session) Restore(ctx context.Context) (bool, error) {
	u, err := s.identity.Restore(ctx)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

func (s *Session) User() *backend.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// UserID is empty when signed out.
func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// Profile returns a copy of the viewer's profile, or nil.
func (s *Session) Profile() *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyProfile(s.profile)
}

func copyProfile(p *models.Profile) *models.Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.BlockedUsers = append([]string(nil), p.BlockedUsers...)
	return &c
}

// updateProfile applies fn to the local profile after a successful write.
func (s *Session) updateProfile(fn func(p *models.Profile)) {
	s.mu.Lock()
	if s.profile == nil {
		s.mu.Unlock()
		return
	}
	fn(s.profile)
	s.mu.Unlock()
	s.notify()
}

func (s *Session) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

func (s *Session) setLanguage(lang string) {
	s.mu.Lock()
	s.lang = lang
	if s.profile != nil {
		s.profile.Language = lang
	}
	s.mu.Unlock()
	s.notify()
}

// T localizes key in the current language.
func (s *Session) T(key i18n.Key) string {
	return i18n.T(s.Language(), key)
}

// Subscribe registers fn for sign-in, sign-out and profile changes.
func (s *Session) Subscribe(fn func(SessionState)) backend.Unsubscribe {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.observers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Session) notify() {
	s.mu.Lock()
	st := SessionState{Profile: copyProfile(s.profile)}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	fns := make([]func(SessionState), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// requireUser returns the signed-in user id.
func (s *Session) requireUser() (string, error) {
	id := s.UserID()
	if id == "" {
		return "", common.ErrNotSignedIn
	}
	return id, nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
