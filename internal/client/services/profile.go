package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"sync"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/dmitrijs2005/friendszone/internal/client/i18n"
	"github.com/dmitrijs2005/friendszone/internal/client/models"
	"github.com/dmitrijs2005/friendszone/internal/common"
	"github.com/dmitrijs2005/friendszone/internal/logging"
	"github.com/dmitrijs2005/friendszone/internal/telemetry"
	"github.com/nfnt/resize"
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

// AvatarBound is the largest avatar edge, in pixels, that gets uploaded.
const AvatarBound = 512

// ProfileDraft holds staged profile edits.
type ProfileDraft struct {
	DisplayName string
	DOB         string
	Bio         string
	Email       string
	Picture     *models.Attachment
}

// NotificationPrefs are kept for the process lifetime only.
type NotificationPrefs struct {
	Receive bool
	Sound   bool
}

// ProfileEditor stages and commits changes to the viewer's profile and
// holds the local settings pages' state.
type ProfileEditor struct {
	session   *Session
	docs      backend.Documents
	blobs     backend.Blobs
	loc       Locations
	log       logging.Logger
	inviteURL string

	mu             sync.Mutex
	draft          ProfileDraft
	verifyNotified bool
	prefs          NotificationPrefs
}

func NewProfileEditor(session *Session, docs backend.Documents, blobs backend.Blobs, loc Locations, inviteURL string, log logging.Logger) *ProfileEditor {
	return &ProfileEditor{
		session:   session,
		docs:      docs,
		blobs:     blobs,
		loc:       loc,
		log:       log,
		inviteURL: inviteURL,
		prefs:     NotificationPrefs{Receive: true, Sound: true},
	}
}

// Begin stages the current profile for editing.
func (e *ProfileEditor) Begin() {
	d := ProfileDraft{}
	if p := e.session.Profile(); p != nil {
		d = ProfileDraft{DisplayName: p.DisplayName, DOB: p.DOB, Bio: p.Bio, Email: p.Email}
	}
	e.mu.Lock()
	e.draft = d
	e.mu.Unlock()
}

func (e *ProfileEditor) Draft() ProfileDraft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Edit applies fn to the staged draft.
func (e *ProfileEditor) Edit(fn func(d *ProfileDraft)) {
	e.mu.Lock()
	fn(&e.draft)
	e.mu.Unlock()
}

// Save commits the draft. A blank display name makes it a no-op.
func (e *ProfileEditor) Save(ctx context.Context) error {
	uid, err := e.session.requireUser()
	if err != nil {
		return err
	}
	d := e.Draft()
	if blank(d.DisplayName) {
		return common.ErrEmptyDisplayName
	}

	fields := backend.Fields{
		"displayName": d.DisplayName,
		"dob":         d.DOB,
		"bio":         d.Bio,
		"email":       d.Email,
	}

	var picURL string
	if d.Picture != nil {
		pic := boundAvatar(ctx, e.log, d.Picture)
		picURL, err = uploadBlob(ctx, e.blobs, e.log, AvatarPath(uid), pic)
		if err != nil {
			return err
		}
		fields["profilePicUrl"] = picURL
	}

	if err := e.docs.Update(ctx, e.loc.Profile(uid), fields); err != nil {
		telemetry.BackendError(telemetry.OpWrite)
		e.log.Error(ctx, "save profile", "user", uid, "error", err)
		return err
	}

	e.session.updateProfile(func(p *models.Profile) {
		p.DisplayName, p.DOB, p.Bio, p.Email = d.DisplayName, d.DOB, d.Bio, d.Email
		if picURL != "" {
			p.ProfilePicURL = picURL
		}
	})

	e.mu.Lock()
	e.draft.Picture = nil
	e.mu.Unlock()
	return nil
}

// boundAvatar scales decodable images down to AvatarBound. Anything else
// is uploaded unchanged.
func boundAvatar(ctx context.Context, log logging.Logger, a *models.Attachment) *models.Attachment {
	img, format, err := image.Decode(bytes.NewReader(a.Data))
	if err != nil {
		log.Debug(ctx, "avatar not decodable, uploading as is", "error", err)
		return a
	}
	b := img.Bounds()
	if b.Dx() <= AvatarBound && b.Dy() <= AvatarBound {
		return a
	}

	thumb := resize.Thumbnail(AvatarBound, AvatarBound, img, resize.Lanczos3)

	var buf bytes.Buffer
	contentType := "image/jpeg"
	if format == "png" {
		contentType = "image/png"
		err = png.Encode(&buf, thumb)
	} else {
		err = jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		log.Warn(ctx, "encode avatar thumbnail", "error", err)
		return a
	}
	return &models.Attachment{Name: a.Name, ContentType: contentType, Data: buf.Bytes()}
}

// VerifyEmail only records that the disclaimer was shown. Nothing is sent.
func (e *ProfileEditor) VerifyEmail() {
	e.mu.Lock()
	e.verifyNotified = true
	e.mu.Unlock()
}

func (e *ProfileEditor) VerifyNotified() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.verifyNotified
}

// SetLanguage switches the UI language at once, then persists it.
func (e *ProfileEditor) SetLanguage(ctx context.Context, code string) error {
	if !i18n.Supported(code) {
		return ErrUnsupportedLanguage
	}
	e.session.setLanguage(code)

	uid, err := e.session.requireUser()
	if err != nil {
		return err
	}
	if err := e.docs.Update(ctx, e.loc.Profile(uid), backend.Fields{"language": code}); err != nil {
		telemetry.BackendError(telemetry.OpWrite)
		e.log.Error(ctx, "save language", "user", uid, "error", err)
		return err
	}
	return nil
}

func (e *ProfileEditor) Notifications() NotificationPrefs {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.prefs
}

func (e *ProfileEditor) SetNotifications(p NotificationPrefs) {
	e.mu.Lock()
	e.prefs = p
	e.mu.Unlock()
}

// InviteURL is the link shown on the invite page.
func (e *ProfileEditor) InviteURL() string {
	return e.inviteURL
}
