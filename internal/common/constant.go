// Package common contains shared constants and sentinel errors used across
// Friendszone components.
package common

const (
	// DefaultAppID namespaces every document path when no app id is configured.
	DefaultAppID = "default-app-app-id"

	// DefaultGatedRoom is the slug of the password-gated group room.
	DefaultGatedRoom = "ipec-chat"

	// DefaultGatePassword is written to the shared secret document when it
	// does not exist yet.
	DefaultGatePassword = "myipec@12"

	// DefaultLanguage is used until a profile says otherwise.
	DefaultLanguage = "en"

	// MinPasswordLength is the shortest password accepted on sign-up.
	MinPasswordLength = 8
)
