package types

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Chat message roles.
const (
	ChatRoleUser  = "user"
	ChatRoleAgent = "agent"
)

// ChatMessage is one simulator bubble. Immutable once created.
type ChatMessage struct {
	ID      string `json:"id"`
	Author  string `json:"author"`
	Role    string `json:"role"`
	Message string `json:"message"`
}

// NewChatMessage creates a message with a timestamp+random id.
func NewChatMessage(author, role, message string) ChatMessage {
	return ChatMessage{
		ID:      newMessageID(),
		Author:  author,
		Role:    role,
		Message: message,
	}
}

func newMessageID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// Timestamp alone still tells messages apart in practice.
		return fmt.Sprintf("%d", time.Now().UnixMilli())
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(buf))
}
