package models

import "slices"

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
)

// Message is an immutable chat message. Content is the text or, for image
// messages, the download URL.
type Message struct {
	ID        string      `json:"-"`
	SenderID  string      `json:"senderId"`
	Timestamp int64       `json:"timestamp"` // epoch ms, 0 when not yet resolved
	Type      MessageType `json:"type"`
	Content   string      `json:"content"`
}

// SortByTimestamp orders messages ascending by timestamp. Equal timestamps
// keep their relative order.
func SortByTimestamp(msgs []Message) {
	slices.SortStableFunc(msgs, func(a, b Message) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		}
		return 0
	})
}

// VisibleTo drops messages whose sender the viewer has blocked.
func VisibleTo(msgs []Message, viewer *Profile) []Message {
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if viewer.HasBlocked(m.SenderID) {
			continue
		}
		out = append(out, m)
	}
	return out
}
