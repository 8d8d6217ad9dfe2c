package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/dmitrijs2005/friendszone/internal/backend/auth"
	"github.com/dmitrijs2005/friendszone/internal/backend/memory"
	"github.com/dmitrijs2005/friendszone/internal/client/models"
	"github.com/dmitrijs2005/friendszone/internal/client/services"
	"github.com/dmitrijs2005/friendszone/internal/common"
	"github.com/dmitrijs2005/friendszone/internal/filex"
	"github.com/dmitrijs2005/friendszone/internal/logging"
)

// world is one shared backend that several clients connect to.
type world struct {
	store    *memory.Store
	accounts *memory.Accounts
	blobs    *memory.Blobs
}

func newWorld() *world {
	return &world{store: memory.NewStore(), accounts: memory.NewAccounts(), blobs: memory.NewBlobs()}
}

func (w *world) app(t *testing.T, input string) *App {
	t.Helper()
	log := logging.NewDiscardLogger()
	b := &backend.Backend{
		Identity:  auth.NewProvider(w.accounts, auth.Options{SecretKey: []byte("test"), TokenValidity: time.Hour}, log),
		Documents: w.store,
		Blobs:     w.blobs,
	}
	a := newApp(memoryConfig(), b, log, strings.NewReader(input), io.Discard)
	a.start(context.Background())
	t.Cleanup(func() { a.stop(context.Background()) })
	return a
}

// prompts replaces the interactive prompts with canned answers.
func prompts(t *testing.T, text []string, passwords []string) {
	t.Helper()
	oldText, oldPw := getSimpleText, getPassword
	t.Cleanup(func() { getSimpleText, getPassword = oldText, oldPw })

	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		require.NotEmpty(t, text, "unexpected text prompt")
		v := text[0]
		text = text[1:]
		return v, nil
	}
	getPassword = func(string, io.Writer) ([]byte, error) {
		require.NotEmpty(t, passwords, "unexpected password prompt")
		v := passwords[0]
		passwords = passwords[1:]
		return []byte(v), nil
	}
}

func register(t *testing.T, a *App, email string) {
	t.Helper()
	prompts(t, []string{email}, []string{"password123"})
	require.NoError(t, a.Register(context.Background()))
	require.True(t, a.isLoggedIn())
}

func contains(lines []string, sub string) bool {
	for _, l := range lines {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

func TestApp_RegisterShortPassword(t *testing.T) {
	lines := silence(t)
	a := newWorld().app(t, "")

	prompts(t, []string{"ann@example.com"}, []string{"short"})
	err := a.Register(context.Background())
	require.Error(t, err)
	assert.False(t, a.isLoggedIn())
	assert.True(t, contains(*lines, "8 characters"))
}

func TestApp_PublicChatBetweenClients(t *testing.T) {
	lines := silence(t)
	ctx := context.Background()
	w := newWorld()
	alice, bob := w.app(t, ""), w.app(t, "")
	register(t, alice, "alice@example.com")
	register(t, bob, "bob@example.com")

	require.NoError(t, alice.Public(ctx))
	require.NoError(t, bob.Public(ctx))
	assert.Equal(t, "[public]", bob.status())

	*lines = nil
	require.NoError(t, alice.Say(ctx, "hello bob"))
	assert.True(t, contains(*lines, "hello bob"), "bob's REPL prints the incoming message")
	assert.Len(t, bob.chat.Feed.Messages(), 1)

	*lines = nil
	require.NoError(t, bob.History(ctx))
	assert.True(t, contains(*lines, "alice"))
	assert.True(t, contains(*lines, "hello bob"))

	*lines = nil
	bob.chat.Profile.SetNotifications(services.NotificationPrefs{Receive: false})
	require.NoError(t, alice.Say(ctx, "quiet"))
	assert.False(t, contains(*lines, "quiet"))
}

func TestApp_SayNothing(t *testing.T) {
	lines := silence(t)
	a := newWorld().app(t, "")
	register(t, a, "ann@example.com")
	require.NoError(t, a.Public(context.Background()))

	err := a.Say(context.Background(), "   ")
	assert.ErrorIs(t, err, common.ErrNothingToSend)
	assert.True(t, contains(*lines, "Nothing was sent."))
}

func TestApp_GatedRoom(t *testing.T) {
	lines := silence(t)
	ctx := context.Background()
	a := newWorld().app(t, "")
	register(t, a, "ann@example.com")

	prompts(t, nil, []string{"wrong"})
	assert.ErrorIs(t, a.Gated(ctx), common.ErrInvalidPassword)
	assert.True(t, contains(*lines, "Invalid password"))
	assert.Equal(t, "[gated (locked)]", a.status())

	err := a.Say(ctx, "let me in")
	assert.ErrorIs(t, err, common.ErrSendRejected)
	assert.True(t, contains(*lines, "This room is locked."))

	prompts(t, nil, []string{common.DefaultGatePassword})
	require.NoError(t, a.Gated(ctx))
	assert.Equal(t, "[gated]", a.status())
	require.NoError(t, a.Say(ctx, "hi all"))
	assert.Len(t, a.chat.Feed.Messages(), 1)

	require.NoError(t, a.Home(ctx))
	prompts(t, nil, []string{"wrong"})
	_ = a.Gated(ctx)
	assert.Equal(t, "[gated (locked)]", a.status(), "unlock does not survive leaving the room")
}

func TestApp_PrivateChatAndBlock(t *testing.T) {
	lines := silence(t)
	ctx := context.Background()
	w := newWorld()
	alice, bob := w.app(t, ""), w.app(t, "")
	register(t, alice, "alice@example.com")
	register(t, bob, "bob@example.com")

	require.NoError(t, alice.Private(ctx, "bob"))
	assert.Equal(t, "[@bob]", alice.status())
	require.NoError(t, bob.Private(ctx, "1"))
	assert.Equal(t, "[@alice]", bob.status())

	require.NoError(t, alice.Say(ctx, "psst"))
	assert.Len(t, bob.chat.Feed.Messages(), 1)

	*lines = nil
	require.NoError(t, bob.Block(ctx))
	assert.True(t, contains(*lines, "User is blocked."))
	assert.Empty(t, bob.chat.Feed.Visible(bob.chat.Session.Profile()))
	assert.ErrorIs(t, bob.Say(ctx, "hey"), common.ErrSendRejected)

	require.NoError(t, bob.Block(ctx))
	assert.Len(t, bob.chat.Feed.Visible(bob.chat.Session.Profile()), 1)

	assert.ErrorIs(t, alice.Private(ctx, "nobody"), common.ErrNoPeerSelected)
}

func TestApp_PrivatePicksFromList(t *testing.T) {
	silence(t)
	ctx := context.Background()
	w := newWorld()
	alice, bob := w.app(t, ""), w.app(t, "")
	register(t, alice, "alice@example.com")
	register(t, bob, "bob@example.com")

	prompts(t, []string{"1"}, nil)
	require.NoError(t, alice.Private(ctx, ""))
	v := alice.chat.Conversations.View()
	assert.Equal(t, bob.chat.Session.UserID(), v.PeerID)
}

func TestApp_ImageAndEmoji(t *testing.T) {
	silence(t)
	ctx := context.Background()
	a := newWorld().app(t, "")
	register(t, a, "ann@example.com")
	require.NoError(t, a.Public(ctx))

	old := readAttachment
	t.Cleanup(func() { readAttachment = old })
	readAttachment = func(path string) (*filex.File, error) {
		return &filex.File{Name: "cat.png", ContentType: "image/png", Data: []byte("png")}, nil
	}

	require.NoError(t, a.Emoji(ctx, "1"))
	assert.Equal(t, services.Emojis[0], a.chat.Composer.Text())
	require.NoError(t, a.Image(ctx, "/tmp/cat.png"))

	msgs := a.chat.Feed.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, models.MessageImage, msgs[0].Type)
	assert.Equal(t, services.Emojis[0], a.chat.Composer.Text(), "typed text survives an image send")

	require.NoError(t, a.Say(ctx, "!"))
	msgs = a.chat.Feed.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, services.Emojis[0]+"!", msgs[1].Content)

	assert.Error(t, a.Emoji(ctx, "abc"))
}

func TestApp_Background(t *testing.T) {
	silence(t)
	ctx := context.Background()
	w := newWorld()
	alice, bob := w.app(t, ""), w.app(t, "")
	register(t, alice, "alice@example.com")
	register(t, bob, "bob@example.com")
	require.NoError(t, alice.Public(ctx))
	require.NoError(t, bob.Public(ctx))

	require.NoError(t, alice.Background(ctx, "2"))
	assert.Equal(t, services.Backgrounds[1], bob.chat.Feed.Background())

	require.NoError(t, bob.Background(ctx, "none"))
	assert.Equal(t, "", alice.chat.Feed.Background())

	require.NoError(t, alice.Background(ctx, "99"))
	assert.Equal(t, "", alice.chat.Feed.Background())

	require.NoError(t, alice.Home(ctx))
	assert.ErrorIs(t, alice.Background(ctx, "1"), services.ErrNotInConversation)
}

func TestApp_EditProfile(t *testing.T) {
	silence(t)
	ctx := context.Background()
	a := newWorld().app(t, "Ann A\n\nmy bio\n-\n")
	register(t, a, "ann@example.com")

	oldText := getSimpleText
	t.Cleanup(func() { getSimpleText = oldText })
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return "", nil }

	require.NoError(t, a.EditProfile(ctx))
	p := a.chat.Session.Profile()
	assert.Equal(t, "Ann A", p.DisplayName)
	assert.Equal(t, "my bio", p.Bio)
	assert.Equal(t, "", p.Email)

	require.NoError(t, a.ShowProfile(ctx, "Ann A"))
}

func TestApp_SettingsPages(t *testing.T) {
	lines := silence(t)
	ctx := context.Background()
	a := newWorld().app(t, "")

	require.NoError(t, a.Language(ctx, "hi"), "language can change before signing in")
	assert.Equal(t, "hi", a.chat.Session.Language())
	assert.ErrorIs(t, a.Language(ctx, "xx"), services.ErrUnsupportedLanguage)
	require.NoError(t, a.Language(ctx, "en"))

	register(t, a, "ann@example.com")
	require.NoError(t, a.Settings(ctx))
	assert.Equal(t, "[settings]", a.status())
	assert.True(t, contains(*lines, a.chat.Session.UserID()))

	require.NoError(t, a.Notifications(ctx, []string{"sound", "off"}))
	assert.Equal(t, services.NotificationPrefs{Receive: true, Sound: false}, a.chat.Profile.Notifications())
	require.NoError(t, a.Notifications(ctx, []string{"receive", "maybe"}))
	assert.True(t, a.chat.Profile.Notifications().Receive)

	*lines = nil
	require.NoError(t, a.VerifyEmail(ctx))
	assert.True(t, contains(*lines, "verification link cannot be sent"))

	*lines = nil
	require.NoError(t, a.Invite(ctx))
	assert.True(t, contains(*lines, a.config.InviteURL))
}

func TestApp_Live(t *testing.T) {
	silence(t)
	ctx := context.Background()
	a := newWorld().app(t, "")
	register(t, a, "ann@example.com")

	calls := 0
	a.live = func(ctx context.Context, chat *services.Chat) error {
		calls++
		assert.True(t, a.liveActive.Load())
		return nil
	}

	require.NoError(t, a.Live(ctx))
	assert.Equal(t, 0, calls, "home has no conversation to show")

	require.NoError(t, a.Public(ctx))
	require.NoError(t, a.Live(ctx))
	assert.Equal(t, 1, calls)
	assert.False(t, a.liveActive.Load())
}

func TestApp_RunUntilExit(t *testing.T) {
	lines := silence(t)
	w := newWorld()
	a := newApp(memoryConfig(), &backend.Backend{
		Identity:  auth.NewProvider(w.accounts, auth.Options{SecretKey: []byte("k"), TokenValidity: time.Hour}, logging.NewDiscardLogger()),
		Documents: w.store,
		Blobs:     w.blobs,
	}, logging.NewDiscardLogger(), strings.NewReader("help\nexit\n"), &bytes.Buffer{})

	require.NoError(t, a.Run(context.Background()))
	assert.True(t, contains(*lines, "register | login"))
	assert.True(t, contains(*lines, "Bye!"))
}
