package domain

import (
	"regexp"
	"strings"
)

// ChatMessage is a single user turn sent to the assistant.
type ChatMessage struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatReply is the assistant's answer. SessionID continues the conversation.
type ChatReply struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	Speech    string `json:"speech,omitempty"`
}

var (
	speechSymbols = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}\x{FE0F}\x{200D}•]`)
	speechBold    = regexp.MustCompile(`\*\*(.*?)\*\*`)
	speechItalic  = regexp.MustCompile(`\*(.*?)\*`)
	speechSpace   = regexp.MustCompile(`\s+`)
)

// SpeechText strips emoji and markdown emphasis from text and collapses
// whitespace so the reply can be read aloud.
func SpeechText(text string) string {
	s := speechSymbols.ReplaceAllString(text, "")
	s = speechBold.ReplaceAllString(s, "$1")
	s = speechItalic.ReplaceAllString(s, "$1")
	s = speechSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
