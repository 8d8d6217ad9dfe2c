package tui

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/friendszone/internal/client/models"
	"github.com/dmitrijs2005/friendszone/internal/timex"
)

var (
	primaryColor = lipgloss.Color("#7C3AED")
	selfColor    = lipgloss.Color("#10B981")
	mutedColor   = lipgloss.Color("#9CA3AF")
	errorColor   = lipgloss.Color("#EF4444")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	ownMessageStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(selfColor)

	otherMessageStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#60A5FA"))

	imageStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#F59E0B"))

	headerStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(primaryColor).
			Padding(0, 1)
)

// Names resolves a sender id to a display name.
type Names func(id string) string

// FormatStamp renders an epoch-millisecond timestamp. Zero means the server
// has not assigned one yet.
func FormatStamp(ms int64, now time.Time) string {
	t := timex.UnixMillis(ms)
	if t.IsZero() {
		return "--:--"
	}
	y1, m1, d1 := t.Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return t.Format("15:04")
	}
	return t.Format("Jan 2 15:04")
}

// FormatMessage renders one feed line.
func FormatMessage(m models.Message, selfID string, names Names, now time.Time) string {
	style := otherMessageStyle
	if m.SenderID == selfID {
		style = ownMessageStyle
	}

	body := m.Content
	if m.Type == models.MessageImage {
		body = imageStyle.Render("[image] " + m.Content)
	}

	return fmt.Sprintf("%s %s: %s",
		MutedStyle.Render(FormatStamp(m.Timestamp, now)),
		style.Render(names(m.SenderID)),
		body,
	)
}

// BackgroundStyle turns a palette placeholder URL of the form
// https://placehold.co/WxH/<bg>/<fg>?text= into header colors. Other
// URLs and the empty background give the plain header.
func BackgroundStyle(raw string) lipgloss.Style {
	if raw == "" {
		return headerStyle
	}
	u, err := url.Parse(raw)
	if err != nil {
		return headerStyle
	}

	var hex []string
	for _, seg := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if isHexColor(seg) {
			hex = append(hex, seg)
		}
	}
	if len(hex) < 2 {
		return headerStyle
	}
	return headerStyle.
		Background(lipgloss.Color("#" + hex[0])).
		Foreground(lipgloss.Color("#" + hex[1]))
}

func isHexColor(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
