// Package domain holds the value types shared by the notification surface,
// the conversation flow and the avatar chat.
package domain

import "time"

// InboundMessage is a simulated notification from a messaging app.
// Values are never mutated after construction, only superseded.
type InboundMessage struct {
	ID     string `json:"id"`
	Sender string `json:"sender"`
	App    string `json:"app"`
	Time   string `json:"time"`
	Text   string `json:"text"`
	Emojis string `json:"emojis,omitempty"`
}

// RawText returns the body plus its symbolic suffix, separated by a space.
func (m InboundMessage) RawText() string {
	if m.Emojis == "" {
		return m.Text
	}
	return m.Text + " " + m.Emojis
}

// Sender identifies who wrote a conversation message.
type Sender string

const (
	SenderMe    Sender = "me"
	SenderOther Sender = "other"
)

// ConversationMessage is one entry in an opened conversation. Entries are
// append-only and kept in display order.
type ConversationMessage struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Sender Sender `json:"sender"`
	Time   string `json:"time"`
}

// OpenPayload is handed to the host when the user opens a notification.
type OpenPayload struct {
	SenderID     string `json:"senderId"`
	Time         string `json:"time"`
	DisplayText  string `json:"displayText"`
	IsHateSpeech bool   `json:"isHateSpeech"`
}

// ClockTime formats t the way message timestamps are shown ("15:04").
func ClockTime(t time.Time) string {
	return t.Format("15:04")
}
