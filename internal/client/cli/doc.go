// Package cli is the interactive Friendszone command-line client.
//
// It wires configuration, the backend drivers and the chat services, then
// runs a REPL. The REPL covers account commands, navigation between the
// public room, private chats and the gated room, sending, the settings
// pages, and hands off to the live chat view (package tui) on "chat".
//
// While the REPL is in a conversation, messages arriving from others are
// printed as they come in.
package cli
