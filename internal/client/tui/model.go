// Package tui is the live chat view for the active conversation. It
// re-renders on every feed update and sends through the composer.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/dmitrijs2005/friendszone/internal/client/i18n"
	"github.com/dmitrijs2005/friendszone/internal/client/models"
	"github.com/dmitrijs2005/friendszone/internal/client/services"
	"github.com/dmitrijs2005/friendszone/internal/common"
	"github.com/dmitrijs2005/friendszone/internal/filex"
)

// ringBell is a test seam for the terminal bell.
var ringBell = func() { fmt.Fprint(os.Stderr, "\a") }

type feedMsg struct{}

type sentMsg struct{ err error }

// Model is the bubbletea model of the live view.
type Model struct {
	ctx  context.Context
	chat *services.Chat

	// pending is set by the feed observer; added accumulates new messages
	// for the bell.
	pending chan struct{}
	added   atomic.Int64
	unsub   backend.Unsubscribe

	// done ends the feed wait once the view is closed.
	done context.Context
	stop context.CancelFunc

	viewport viewport.Model
	input    textinput.Model
	width    int
	status   string
	now      func() time.Time
}

// New builds the view over chat. Close releases the feed observer.
func New(ctx context.Context, chat *services.Chat) *Model {
	in := textinput.New()
	in.Placeholder = chat.Session.T(i18n.TypeMessage)
	in.SetValue(chat.Composer.Display())
	in.Focus()

	done, stop := context.WithCancel(ctx)
	m := &Model{
		ctx:      ctx,
		done:     done,
		stop:     stop,
		chat:     chat,
		pending:  make(chan struct{}, 1),
		viewport: viewport.New(80, 20),
		input:    in,
		width:    80,
		now:      time.Now,
	}
	m.unsub = chat.Feed.OnChange(func(ev services.FeedEvent) {
		if ev.Added > 0 && !ev.Initial {
			m.added.Add(int64(ev.Added))
		}
		select {
		case m.pending <- struct{}{}:
		default:
		}
	})
	m.refresh()
	return m
}

func (m *Model) Close() {
	if m.unsub != nil {
		m.unsub()
	}
	m.stop()
}

func (m *Model) waitForFeed() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.pending:
			return feedMsg{}
		case <-m.done.Done():
			return nil
		}
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForFeed())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport = viewport.New(msg.Width, max(msg.Height-5, 3))
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			// with an image selected the input shows its name, not the draft
			if m.chat.Composer.Image() == nil {
				m.chat.Composer.SetText(m.input.Value())
			}
			return m, tea.Quit
		case tea.KeyEnter:
			cmd, quit := m.submit(strings.TrimRight(m.input.Value(), "\r\n"))
			if quit {
				return m, tea.Quit
			}
			return m, cmd
		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case feedMsg:
		if n := m.added.Swap(0); n > 0 {
			prefs := m.chat.Profile.Notifications()
			if prefs.Receive && prefs.Sound {
				ringBell()
			}
		}
		m.refresh()
		return m, m.waitForFeed()

	case sentMsg:
		m.status = ""
		if msg.err != nil {
			m.status = m.describe(msg.err)
		}
		m.input.SetValue(m.chat.Composer.Display())
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit handles the input line: slash commands locally, anything else is
// sent as text. quit is set for /quit.
func (m *Model) submit(line string) (tea.Cmd, bool) {
	composer := m.chat.Composer
	m.status = ""

	if !strings.HasPrefix(line, "/") {
		if composer.Image() == nil {
			composer.SetText(line)
		}
		return m.send(), false
	}

	name, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "quit", "q":
		return nil, true

	case "emoji", "e":
		e := arg
		if i, err := strconv.Atoi(arg); err == nil && i >= 1 && i <= len(services.Emojis) {
			e = services.Emojis[i-1]
		}
		if err := composer.AppendEmoji(e); err != nil {
			m.status = m.emojiHelp()
		}
		m.input.SetValue(composer.Display())

	case "img", "image":
		if arg == "" {
			composer.SelectImage(nil)
			m.input.SetValue(composer.Display())
			return nil, false
		}
		f, err := filex.ReadAttachment(arg)
		if err != nil {
			m.status = err.Error()
			return nil, false
		}
		composer.SelectImage(&models.Attachment{Name: f.Name, ContentType: f.ContentType, Data: f.Data})
		m.input.SetValue(composer.Display())

	case "bg":
		bg := ""
		if i, err := strconv.Atoi(arg); err == nil && i >= 1 && i <= len(services.Backgrounds) {
			bg = services.Backgrounds[i-1]
		} else if arg != "none" && arg != "" {
			m.status = m.backgroundHelp()
			return nil, false
		}
		ctx := m.ctx
		feed := m.chat.Feed
		return func() tea.Msg { return sentMsg{err: feed.SetBackground(ctx, bg)} }, false

	default:
		m.status = m.chat.Session.T(i18n.UnknownCommand) + ": /" + name
	}
	return nil, false
}

func (m *Model) send() tea.Cmd {
	ctx := m.ctx
	composer := m.chat.Composer
	m.input.SetValue("")
	return func() tea.Msg { return sentMsg{err: composer.Send(ctx)} }
}

func (m *Model) describe(err error) string {
	t := m.chat.Session.T
	switch {
	case errors.Is(err, common.ErrNothingToSend):
		return t(i18n.NothingToSend)
	case errors.Is(err, common.ErrSendRejected):
		if v := m.chat.Conversations.View(); v.Page == services.PageGated && !v.Unlocked {
			return t(i18n.RoomLocked)
		}
		return t(i18n.UserBlocked)
	case errors.Is(err, common.ErrNoPeerSelected):
		return t(i18n.SelectUser)
	}
	return err.Error()
}

func (m *Model) emojiHelp() string {
	var b strings.Builder
	for i, e := range services.Emojis {
		fmt.Fprintf(&b, "%d:%s ", i+1, e)
	}
	return b.String()
}

func (m *Model) backgroundHelp() string {
	return fmt.Sprintf("/bg 1-%d | none", len(services.Backgrounds))
}

// Title names the active conversation.
func Title(chat *services.Chat) string {
	t := chat.Session.T
	v := chat.Conversations.View()
	switch v.Page {
	case services.PagePublic:
		return t(i18n.PublicChat)
	case services.PageGated:
		return t(i18n.GatedChat)
	case services.PagePrivate:
		if v.PeerID == "" {
			return t(i18n.SelectUser)
		}
		return t(i18n.ChatWith) + " " + NameResolver(chat)(v.PeerID)
	}
	return t(i18n.Home)
}

// NameResolver looks senders up in the directory, falling back to a short id.
func NameResolver(chat *services.Chat) Names {
	self := chat.Session.UserID()
	you := chat.Session.T(i18n.You)
	return func(id string) string {
		if id == self && self != "" {
			return you
		}
		if p, ok := chat.Directory.Lookup(id); ok {
			return p.Name()
		}
		if len(id) > 8 {
			return id[:8]
		}
		return id
	}
}

func (m *Model) refresh() {
	viewer := m.chat.Session.Profile()
	names := NameResolver(m.chat)
	self := m.chat.Session.UserID()
	now := m.now()

	var b strings.Builder
	for _, msg := range m.chat.Feed.Visible(viewer) {
		b.WriteString(FormatMessage(msg, self, names, now))
		b.WriteByte('\n')
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *Model) View() string {
	header := BackgroundStyle(m.chat.Feed.Background()).
		Width(max(m.width-2, 10)).
		Render(TitleStyle.Render(Title(m.chat)))

	status := MutedStyle.Render("enter: send  /emoji  /img  /bg  esc: back")
	if m.status != "" {
		status = ErrorStyle.Render(m.status)
	}

	input := m.input.View()
	if v := m.chat.Conversations.View(); v.Page == services.PagePrivate {
		if m.chat.Session.Profile().HasBlocked(v.PeerID) {
			input = MutedStyle.Render(m.chat.Session.T(i18n.UserBlocked))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), input, status)
}

// Run shows the live view until the user leaves it.
func Run(ctx context.Context, chat *services.Chat) error {
	m := New(ctx, chat)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
