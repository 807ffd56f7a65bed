package model

import "strings"

// Role identifies who authored a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn represents one role-tagged utterance in a conversation
type ChatTurn struct {
	Role    Role
	Content string
}

// UserTurn builds a user turn.
func UserTurn(content string) ChatTurn {
	return ChatTurn{Role: RoleUser, Content: content}
}

// AssistantTurn builds an assistant turn.
func AssistantTurn(content string) ChatTurn {
	return ChatTurn{Role: RoleAssistant, Content: content}
}

// NormalizeRole maps a role to one the backends accept.
//
// Matching is case-insensitive. Anything other than "assistant" is sent as a
// user turn, including "system" and "tool"; recognized reports whether the input
// was one of the two known roles so callers can log the coercion.
func NormalizeRole(r Role) (normalized Role, recognized bool) {
	switch Role(strings.ToLower(strings.TrimSpace(string(r)))) {
	case RoleUser:
		return RoleUser, true
	case RoleAssistant:
		return RoleAssistant, true
	default:
		return RoleUser, false
	}
}
