package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/dmitrijs2005/friendszone/internal/client/models"
	"github.com/dmitrijs2005/friendszone/internal/common"
)

// Locations derives every document and blob path from the app id.
type Locations struct {
	AppID     string
	GatedRoom string
}

func NewLocations(appID, gatedRoom string) Locations {
	if appID == "" {
		appID = common.DefaultAppID
	}
	if gatedRoom == "" {
		gatedRoom = common.DefaultGatedRoom
	}
	return Locations{AppID: appID, GatedRoom: gatedRoom}
}

func (l Locations) public() string {
	return "artifacts/" + l.AppID + "/public/data"
}

// Users is the profiles collection.
func (l Locations) Users() string {
	return l.public() + "/users"
}

func (l Locations) Profile(uid string) backend.DocumentRef {
	return backend.DocumentRef{Collection: l.Users(), ID: uid}
}

// Secret is the gated room's shared password document.
func (l Locations) Secret() backend.DocumentRef {
	return backend.DocumentRef{
		Collection: "artifacts/" + l.AppID + "/private/" + l.GatedRoom + "-passwords",
		ID:         "password-doc",
	}
}

// ChatID is the symmetric key of a private conversation.
func ChatID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}

// Locator addresses one conversation's messages and settings.
type Locator struct {
	Messages string
	Settings backend.DocumentRef
}

// Resolve returns the locator of c as seen by selfID. A private
// conversation without a peer has no locator.
func (l Locations) Resolve(c models.Conversation, selfID string) (Locator, bool) {
	switch c.Kind {
	case models.ConversationPublic:
		return Locator{
			Messages: l.public() + "/public-chat-messages",
			Settings: backend.DocumentRef{Collection: l.public() + "/public-chat-settings", ID: "settings"},
		}, true
	case models.ConversationGated:
		return Locator{
			Messages: l.public() + "/" + l.GatedRoom + "-messages",
			Settings: backend.DocumentRef{Collection: l.public() + "/" + l.GatedRoom + "-settings", ID: "settings"},
		}, true
	case models.ConversationPrivate:
		if c.PeerID == "" || selfID == "" {
			return Locator{}, false
		}
		id := ChatID(selfID, c.PeerID)
		return Locator{
			Messages: l.public() + "/chats/" + id + "/messages",
			Settings: backend.DocumentRef{Collection: l.public() + "/chats", ID: id},
		}, true
	}
	return Locator{}, false
}

// ImagePath is where a message image is uploaded.
func ImagePath(uid string, at time.Time, fileName string) string {
	return fmt.Sprintf("images/%s/%d_%s", uid, at.UnixMilli(), fileName)
}

// AvatarPath is overwritten on every profile picture change.
func AvatarPath(uid string) string {
	return "avatars/" + uid + "/profile-pic"
}
