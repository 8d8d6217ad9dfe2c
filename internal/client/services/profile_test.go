package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/dmitrijs2005/friendszone/internal/backend/memory"
	"github.com/dmitrijs2005/friendszone/internal/client/i18n"
	"github.com/dmitrijs2005/friendszone/internal/client/models"
	"github.com/dmitrijs2005/friendszone/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProfileEditor_Save(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	a, aid := e.signedUp(t, "abe@example.com")

	a.Profile.Begin()
	assert.Equal(t, "abe", a.Profile.Draft().DisplayName)

	a.Profile.Edit(func(d *ProfileDraft) {
		d.DisplayName = "Abe Lincoln"
		d.DOB = "1809-02-12"
		d.Bio = "tall"
	})
	require.NoError(t, a.Profile.Save(ctx))

	doc, err := e.store.Get(ctx, a.Locations.Profile(aid))
	require.NoError(t, err)
	assert.Equal(t, "Abe Lincoln", doc.Data["displayName"])
	assert.Equal(t, "1809-02-12", doc.Data["dob"])
	assert.Equal(t, "tall", doc.Data["bio"])
	assert.Equal(t, "abe@example.com", doc.Data["email"])
	assert.Equal(t, "", doc.Data["profilePicUrl"])

	p := a.Session.Profile()
	assert.Equal(t, "Abe Lincoln", p.DisplayName)
	assert.Equal(t, "tall", p.Bio)
}

func TestProfileEditor_BlankNameIsNoop(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	a, _ := e.signedUp(t, "bea@example.com")

	a.Profile.Begin()
	a.Profile.Edit(func(d *ProfileDraft) {
		d.DisplayName = "  "
		d.Bio = "ignored"
		d.Picture = &models.Attachment{Name: "a.png", Data: []byte("x")}
	})
	e.docs.reset()

	assert.ErrorIs(t, a.Profile.Save(ctx), common.ErrEmptyDisplayName)
	assert.Equal(t, 0, e.docs.count())
	assert.Equal(t, 0, e.blobs.Len())
	assert.Equal(t, "bea", a.Session.Profile().DisplayName)
}

func TestProfileEditor_AvatarIsBounded(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	a, aid := e.signedUp(t, "cy@example.com")

	a.Profile.Begin()
	a.Profile.Edit(func(d *ProfileDraft) {
		d.Picture = &models.Attachment{Name: "me.png", ContentType: "image/png", Data: pngBytes(t, 1024, 640)}
	})
	require.NoError(t, a.Profile.Save(ctx))
	assert.Nil(t, a.Profile.Draft().Picture)

	data, ct, ok := e.blobs.Object(AvatarPath(aid))
	require.True(t, ok)
	assert.Equal(t, "image/png", ct)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 512, cfg.Width)
	assert.Equal(t, 320, cfg.Height)

	want := memory.URLScheme + AvatarPath(aid)
	assert.Equal(t, want, a.Session.Profile().ProfilePicURL)
	doc, err := e.store.Get(ctx, a.Locations.Profile(aid))
	require.NoError(t, err)
	assert.Equal(t, want, doc.Data["profilePicUrl"])
}

func TestProfileEditor_SmallOrOpaquePictureUploadedAsIs(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	a, aid := e.signedUp(t, "dee@example.com")

	small := pngBytes(t, 64, 64)
	opaque := []byte("not an image")

	for _, data := range [][]byte{small, opaque} {
		a.Profile.Begin()
		a.Profile.Edit(func(d *ProfileDraft) {
			d.Picture = &models.Attachment{Name: "pic", ContentType: "application/octet-stream", Data: data}
		})
		require.NoError(t, a.Profile.Save(ctx))

		got, _, ok := e.blobs.Object(AvatarPath(aid))
		require.True(t, ok)
		assert.Equal(t, data, got)
	}
	assert.Equal(t, 1, e.blobs.Len())
}

func TestProfileEditor_SetLanguage(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	a, aid := e.signedUp(t, "eli@example.com")

	require.NoError(t, a.Profile.SetLanguage(ctx, "hi"))
	assert.Equal(t, "hi", a.Session.Language())
	assert.Equal(t, i18n.T("hi", i18n.Settings), a.Session.T(i18n.Settings))

	doc, err := e.store.Get(ctx, a.Locations.Profile(aid))
	require.NoError(t, err)
	assert.Equal(t, "hi", doc.Data["language"])

	// offered without a catalog: keys render as themselves
	require.NoError(t, a.Profile.SetLanguage(ctx, "de"))
	assert.Equal(t, "settings", a.Session.T(i18n.Settings))

	assert.ErrorIs(t, a.Profile.SetLanguage(ctx, "xx"), ErrUnsupportedLanguage)
	assert.Equal(t, "de", a.Session.Language())
}

func TestProfileEditor_LocalSettings(t *testing.T) {
	e := newEnv()
	a, _ := e.signedUp(t, "fox@example.com")
	e.docs.reset()

	assert.False(t, a.Profile.VerifyNotified())
	a.Profile.VerifyEmail()
	assert.True(t, a.Profile.VerifyNotified())

	assert.Equal(t, NotificationPrefs{Receive: true, Sound: true}, a.Profile.Notifications())
	a.Profile.SetNotifications(NotificationPrefs{Receive: true})
	assert.False(t, a.Profile.Notifications().Sound)

	assert.Equal(t, "https://friendszone.test/invite", a.Profile.InviteURL())
	assert.Equal(t, 0, e.docs.count())
}
