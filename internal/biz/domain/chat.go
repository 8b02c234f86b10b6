package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Role is the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole validates a wire role
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAssistant:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid message role %q", s)
}

// UnmarshalJSON accepts only known roles
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid message role %s", bytes.TrimSpace(data))
	}
	role, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// ChatMessage is one entry of a visitor conversation. An empty Role means
// the widget sent none.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UnmarshalJSON decodes a message sent by the widget. Non-string content
// decodes as empty and a missing role stays empty; an unknown role is an error.
func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var raw struct {
		Role    json.RawMessage `json:"role"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	var role Role
	if len(raw.Role) > 0 && string(raw.Role) != "null" {
		if err := json.Unmarshal(raw.Role, &role); err != nil {
			return &ValidationError{Message: err.Error()}
		}
	}

	m.Role = role
	m.Content = looseString(raw.Content)
	return nil
}

// looseString returns the string held by a raw JSON value, or "" for any
// other kind of value.
func looseString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// ChatMessages is a message list as sent by the widget. A value that is not
// a list decodes as empty, and null or non-object entries are dropped.
type ChatMessages []ChatMessage

func (ms *ChatMessages) UnmarshalJSON(data []byte) error {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		*ms = nil
		return nil
	}

	out := make(ChatMessages, 0, len(entries))
	for _, entry := range entries {
		entry = bytes.TrimSpace(entry)
		if len(entry) == 0 || entry[0] != '{' {
			continue
		}
		var m ChatMessage
		if err := json.Unmarshal(entry, &m); err != nil {
			return err
		}
		out = append(out, m)
	}
	*ms = out
	return nil
}

// HasContent reports whether the message carries non-blank text
func (m ChatMessage) HasContent() bool {
	return strings.TrimSpace(m.Content) != ""
}

// ChatProxyRequest is the body of a chat proxy call
type ChatProxyRequest struct {
	Messages ChatMessages `json:"messages"`
}

// DecodeChatProxyRequest parses a chat proxy body. A body that is not an
// object, or whose messages field is not a list, decodes as an empty request.
func DecodeChatProxyRequest(body []byte) (*ChatProxyRequest, error) {
	if !json.Valid(body) {
		return nil, ErrInvalidPayload
	}

	var req ChatProxyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return nil, ve
		}
		return &ChatProxyRequest{}, nil
	}
	return &req, nil
}

// TurnRole is the provider-side role of a conversation turn
type TurnRole string

const (
	TurnRoleUser  TurnRole = "user"
	TurnRoleModel TurnRole = "model"
)

// ChatTurn is one provider conversation turn
type ChatTurn struct {
	Role TurnRole
	Text string
}

// TurnRoleFor maps a widget role onto the provider role. Anything but
// assistant is sent as user.
func TurnRoleFor(r Role) TurnRole {
	if r == RoleAssistant {
		return TurnRoleModel
	}
	return TurnRoleUser
}

// ChatReply is the text extracted from a provider answer
type ChatReply struct {
	Text         string
	FinishReason string
}
