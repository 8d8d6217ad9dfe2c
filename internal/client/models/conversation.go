package models

// ConversationSettings is the per-conversation settings document.
type ConversationSettings struct {
	BackgroundURL string `json:"backgroundUrl"`
}

// SharedSecret guards the gated room. Stored and compared in plaintext.
type SharedSecret struct {
	Password string `json:"password"`
}

type ConversationKind int

const (
	ConversationPublic ConversationKind = iota
	ConversationPrivate
	ConversationGated
)

func (k ConversationKind) String() string {
	switch k {
	case ConversationPublic:
		return "public"
	case ConversationPrivate:
		return "private"
	case ConversationGated:
		return "gated"
	}
	return "unknown"
}

// Conversation identifies one message stream. PeerID is set for private chats only.
type Conversation struct {
	Kind   ConversationKind
	PeerID string
}

// Attachment is an image picked for sending or as a new avatar.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

func (a *Attachment) Size() int64 {
	if a == nil {
		return 0
	}
	return int64(len(a.Data))
}
