package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/friendszone/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlock_IsLocalToViewer(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	a, _ := e.signedUp(t, "wes@example.com")
	b, bid := e.signedUp(t, "xia@example.com")
	c, _ := e.signedUp(t, "yan@example.com")

	for _, x := range []*Chat{a, b, c} {
		x.Conversations.Public(ctx)
	}
	b.Composer.SetText("from b")
	require.NoError(t, b.Composer.Send(ctx))

	blocked, err := a.Block.Toggle(ctx, bid)
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.True(t, a.Session.Profile().HasBlocked(bid))

	assert.Empty(t, a.Feed.Visible(a.Session.Profile()))
	assert.Len(t, a.Feed.Messages(), 1)
	assert.Len(t, b.Feed.Visible(b.Session.Profile()), 1)
	assert.Len(t, c.Feed.Visible(c.Session.Profile()), 1)
	assert.Empty(t, b.Session.Profile().BlockedUsers)

	doc, err := e.store.Get(ctx, a.Locations.Profile(a.Session.UserID()))
	require.NoError(t, err)
	assert.Equal(t, []any{bid}, doc.Data["blockedUsers"])

	blocked, err = a.Block.Toggle(ctx, bid)
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.Len(t, a.Feed.Visible(a.Session.Profile()), 1)
}

func TestBlock_Errors(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	signedOut := e.client(t)
	_, err := signedOut.Block.Toggle(ctx, "someone")
	assert.ErrorIs(t, err, common.ErrNotSignedIn)

	a, _ := e.signedUp(t, "zoe@example.com")
	e.docs.reset()
	_, err = a.Block.Toggle(ctx, "")
	assert.ErrorIs(t, err, common.ErrNoPeerSelected)
	assert.Equal(t, 0, e.docs.count())
}
