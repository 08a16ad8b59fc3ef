package models

import "time"

// Speaker values for Turn.Sender.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Turn represents one speaker-attributed message in a conversation.
// The JSON field names match the widget's wire format.
type Turn struct {
	Sender string `json:"sender"` // "user" or "assistant"
	Text   string `json:"text"`
}

// ChatRequest represents an incoming widget chat request
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse represents the stylist's reply to the widget
type ChatResponse struct {
	Message   string        `json:"message"`
	SessionID string        `json:"session_id"`
	Products  []CatalogItem `json:"products,omitempty"` // Catalog items matching the message's style
	Status    string        `json:"status"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// RelayRequest is the body accepted by the server-side relay endpoint
type RelayRequest struct {
	Messages []Turn `json:"messages"`
}

// RelayResponse is the relay endpoint's success body
type RelayResponse struct {
	Reply string `json:"reply"`
}

// RelayError is the relay endpoint's failure body
type RelayError struct {
	Error string `json:"error"`
}
