// Package models defines the chat documents the client reads and writes.
package models

import (
	"slices"
	"strings"
)

// Profile is the per-user document under the users collection.
type Profile struct {
	// ID is the identity key; it is the document id, not a field.
	ID string `json:"-"`

	DisplayName   string   `json:"displayName"`
	DOB           string   `json:"dob,omitempty"`
	ProfilePicURL string   `json:"profilePicUrl"`
	Bio           string   `json:"bio"`
	Email         string   `json:"email"`
	Language      string   `json:"language"`
	BlockedUsers  []string `json:"blockedUsers"`
	CreatedAt     int64    `json:"createdAt,omitempty"`
}

// HasBlocked reports whether id is in the profile's block list.
func (p *Profile) HasBlocked(id string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.BlockedUsers, id)
}

// Name returns the display name, falling back to the email and then the id.
func (p *Profile) Name() string {
	switch {
	case p == nil:
		return ""
	case strings.TrimSpace(p.DisplayName) != "":
		return p.DisplayName
	case p.Email != "":
		return p.Email
	default:
		return p.ID
	}
}

// Initial is the avatar placeholder letter.
func (p *Profile) Initial() string {
	n := []rune(p.Name())
	if len(n) == 0 {
		return "?"
	}
	return strings.ToUpper(string(n[0]))
}

// DefaultDisplayName derives a name for a new profile.
func DefaultDisplayName(email, id string) string {
	if local, _, ok := strings.Cut(email, "@"); ok && local != "" {
		return local
	}
	if email != "" && !strings.Contains(email, "@") {
		return email
	}
	if len(id) > 8 {
		id = id[:8]
	}
	return "User-" + id
}
