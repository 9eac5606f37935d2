package remote

import (
	"encoding/json"
	"time"
)

// MessageType identifies a console message
type MessageType string

const (
	// Server to operator
	MessageTypeLine     MessageType = "line"
	MessageTypeSnapshot MessageType = "snapshot"
	MessageTypeError    MessageType = "error"

	// Operator to server
	MessageTypeKey    MessageType = "key"
	MessageTypeButton MessageType = "button"
	MessageTypeState  MessageType = "state"
	MessageTypeKnob   MessageType = "knob"
)

// Message is the envelope for everything sent over the console socket
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// LineData carries one operator status line
type LineData struct {
	Text string `json:"text"`
}

// KeyData is a character typed by the operator, e.g. the y/n buy-in answer
type KeyData struct {
	Key string `json:"key"`
}

// ButtonData names a table button: all-in, fold, call or raise
type ButtonData struct {
	Button string `json:"button"`
}

// KnobData is an absolute bet-knob position in [0, 1023]
type KnobData struct {
	Position int `json:"position"`
}

// ErrorData reports a rejected operator message
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMessage creates a new message with the given timestamp
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return &Message{Type: messageType, Data: raw, Timestamp: now}, nil
}
