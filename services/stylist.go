package services

import (
	"context"
	"strings"
	"time"

	"kova/models"

	"github.com/rs/zerolog/log"
)

// Stylist runs the per-message pipeline: record the user turn, match catalog
// styles, relay the full conversation for a reply, record the reply.
type Stylist struct {
	catalog  *CatalogService
	relay    CompletionRelay
	sessions *SessionManager
}

// NewStylist creates a new stylist pipeline
func NewStylist(catalog *CatalogService, relay CompletionRelay, sessions *SessionManager) *Stylist {
	return &Stylist{
		catalog:  catalog,
		relay:    relay,
		sessions: sessions,
	}
}

// Sessions exposes the session manager for handlers.
func (s *Stylist) Sessions() *SessionManager {
	return s.sessions
}

// ProcessMessage handles one user message for a session. A whitespace-only
// message is ignored entirely: nothing is appended and no relay call is made.
func (s *Stylist) ProcessMessage(ctx context.Context, session *Session, message string) models.ChatResponse {
	message = strings.TrimSpace(message)

	response := models.ChatResponse{
		SessionID: session.ID,
		Status:    models.StatusSuccess,
		Timestamp: time.Now(),
	}
	if message == "" {
		return response
	}

	session.Store.Append(models.Turn{Sender: models.SenderUser, Text: message})

	// A message racing the startup fetch matches against the fallback snapshot.
	matches := MatchStyles(message, s.catalog.Current())

	reply := s.relay.Complete(ctx, session.Store.All())
	session.Store.Append(models.Turn{Sender: models.SenderAssistant, Text: reply})

	log.Info().
		Str("session", session.ID).
		Int("products", len(matches)).
		Int("turns", session.Store.Len()).
		Msg("Stylist reply generated")

	response.Message = reply
	response.Products = matches
	return response
}

// GetStatus returns the current status of the stylist pipeline
func (s *Stylist) GetStatus() map[string]interface{} {
	return map[string]interface{}{
		"status":   "active",
		"catalog":  s.catalog.GetStatus(),
		"sessions": s.sessions.Count(),
	}
}
