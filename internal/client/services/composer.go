package services

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/dmitrijs2005/friendszone/internal/client/models"
	"github.com/dmitrijs2005/friendszone/internal/common"
	"github.com/dmitrijs2005/friendszone/internal/logging"
	"github.com/dmitrijs2005/friendszone/internal/telemetry"
)

// Composer holds the draft of the active conversation and writes it.
type Composer struct {
	session *Session
	conv    *Conversations
	docs    backend.Documents
	blobs   backend.Blobs
	log     logging.Logger
	now     func() time.Time

	mu    sync.Mutex
	text  string
	image *models.Attachment
}

func NewComposer(session *Session, conv *Conversations, docs backend.Documents, blobs backend.Blobs, log logging.Logger) *Composer {
	return &Composer{
		session: session,
		conv:    conv,
		docs:    docs,
		blobs:   blobs,
		log:     log,
		now:     time.Now,
	}
}

func (c *Composer) SetText(s string) {
	c.mu.Lock()
	c.text = s
	c.mu.Unlock()
}

func (c *Composer) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// AppendEmoji adds e to the draft text.
func (c *Composer) AppendEmoji(e string) error {
	if err := ValidateEmoji(e); err != nil {
		return err
	}
	c.mu.Lock()
	c.text += e
	c.mu.Unlock()
	return nil
}

// SelectImage attaches img to the draft. Nil clears the selection.
func (c *Composer) SelectImage(img *models.Attachment) {
	c.mu.Lock()
	c.image = img
	c.mu.Unlock()
}

func (c *Composer) Image() *models.Attachment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.image
}

// Display is what the input line shows: the image name while one is
// selected, the text otherwise.
func (c *Composer) Display() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.image != nil {
		return c.image.Name
	}
	return c.text
}

// Clear drops the draft.
func (c *Composer) Clear() {
	c.mu.Lock()
	c.text, c.image = "", nil
	c.mu.Unlock()
}

// check returns the message collection to write to, or the reason the
// send is rejected.
func (c *Composer) check(text string, image *models.Attachment) (string, error) {
	v := c.conv.View()
	conv, ok := v.Conversation()
	if !ok {
		return "", ErrNotInConversation
	}

	switch conv.Kind {
	case models.ConversationPrivate:
		if conv.PeerID == "" {
			return "", common.ErrNoPeerSelected
		}
		if c.session.Profile().HasBlocked(conv.PeerID) {
			return "", common.ErrSendRejected
		}
	case models.ConversationGated:
		if !v.Unlocked {
			return "", common.ErrSendRejected
		}
		fallthrough
	default:
		if blank(text) && image == nil {
			return "", common.ErrNothingToSend
		}
	}

	loc, ok := c.conv.Locator()
	if !ok {
		return "", ErrNotInConversation
	}
	return loc.Messages, nil
}

// Send writes the draft to the active conversation. A selected image is
// sent instead of the text, which stays in the draft.
func (c *Composer) Send(ctx context.Context) error {
	uid, err := c.session.requireUser()
	if err != nil {
		telemetry.SendRejected()
		return err
	}

	c.mu.Lock()
	text, image := c.text, c.image
	c.mu.Unlock()

	collection, err := c.check(text, image)
	if err != nil {
		telemetry.SendRejected()
		c.log.Debug(ctx, "send rejected", "reason", err)
		return err
	}

	msg := backend.Fields{
		"senderId":  uid,
		"timestamp": backend.ServerTimestamp,
	}

	if image != nil {
		url, err := c.upload(ctx, ImagePath(uid, c.now(), image.Name), image)
		if err != nil {
			return err
		}
		c.mu.Lock()
		if c.image == image {
			c.image = nil
		}
		c.mu.Unlock()
		msg["type"] = string(models.MessageImage)
		msg["content"] = url
	} else {
		c.mu.Lock()
		c.text = ""
		c.mu.Unlock()
		msg["type"] = string(models.MessageText)
		msg["content"] = text
	}

	if _, err := c.docs.Add(ctx, collection, msg); err != nil {
		telemetry.BackendError(telemetry.OpWrite)
		c.log.Error(ctx, "send message", "collection", collection, "error", err)
		return err
	}
	telemetry.MessageSent(msg["type"].(string))
	return nil
}

func (c *Composer) upload(ctx context.Context, path string, img *models.Attachment) (string, error) {
	return uploadBlob(ctx, c.blobs, c.log, path, img)
}

// uploadBlob stores img at path and resolves its download URL.
func uploadBlob(ctx context.Context, blobs backend.Blobs, log logging.Logger, path string, img *models.Attachment) (string, error) {
	start := time.Now()
	err := blobs.Upload(ctx, path, bytes.NewReader(img.Data), img.Size(), img.ContentType)
	telemetry.ObserveUpload(start, err)
	if err != nil {
		telemetry.BackendError(telemetry.OpUpload)
		log.Error(ctx, "upload", "path", path, "error", err)
		return "", err
	}

	url, err := blobs.DownloadURL(ctx, path)
	if err != nil {
		telemetry.BackendError(telemetry.OpRead)
		log.Error(ctx, "resolve download url", "path", path, "error", err)
		return "", err
	}
	return url, nil
}
