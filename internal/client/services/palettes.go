package services

import (
	"errors"

	"github.com/forPelevin/gomoji"
)

var ErrInvalidEmoji = errors.New("not a single emoji")

// Emojis is the composer's fixed emoji palette.
var Emojis = []string{
	"😊", "😂", "👍", "❤️", "🎉",
	"🔥", "👋", "👏", "🥳", "😎",
	"🤩", "🚀", "🌟", "🤯", "💯",
}

// Backgrounds is the conversation background palette. The empty choice
// (none) is offered separately.
var Backgrounds = []string{
	"https://placehold.co/1920x1080/0e1b2f/ffffff?text=",
	"https://placehold.co/1920x1080/2f2e2e/ffffff?text=",
	"https://placehold.co/1920x1080/a1e6a1/000000?text=",
	"https://placehold.co/1920x1080/d3d3d3/000000?text=",
	"https://placehold.co/1920x1080/1a1a1a/ffffff?text=",
}

func inPalette(e string) bool {
	for _, p := range Emojis {
		if p == e {
			return true
		}
	}
	return false
}

// ValidateEmoji accepts palette entries and any input that is exactly one
// emoji.
func ValidateEmoji(e string) error {
	if inPalette(e) {
		return nil
	}
	if len(gomoji.RemoveEmojis(e)) > 0 {
		return ErrInvalidEmoji
	}
	if len(gomoji.FindAll(e)) != 1 {
		return ErrInvalidEmoji
	}
	return nil
}

// EmojiName returns the emoji's slug, or the emoji itself when unknown.
func EmojiName(e string) string {
	found := gomoji.FindAll(e)
	if len(found) == 0 {
		return e
	}
	return found[0].Slug
}
