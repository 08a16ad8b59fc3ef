package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"kova/models"

	"github.com/rs/zerolog/log"
)

// ChatHandler processes widget chat requests through the stylist pipeline
func (c *Controller) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ChatResponse{
			Message: "Invalid JSON format",
			Status:  models.StatusError,
		})
		return
	}

	// Validate message
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, models.ChatResponse{
			Message: "Message cannot be empty",
			Status:  models.StatusError,
		})
		return
	}

	session := c.stylist.Sessions().GetOrCreate(req.SessionID)
	response := c.stylist.ProcessMessage(r.Context(), session, req.Message)

	writeJSON(w, http.StatusOK, response)
}

// RelayHandler is the server-intermediary surface: the browser widget sends
// its full turn log and gets back the completion text. The credential stays
// on this side; upstream failure detail is logged here and never returned.
func (c *Controller) RelayHandler(w http.ResponseWriter, r *http.Request) {
	var req models.RelayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.RelayError{Error: "Invalid message format."})
		return
	}

	// A missing messages field is rejected before any upstream call.
	if req.Messages == nil {
		writeJSON(w, http.StatusBadRequest, models.RelayError{Error: "Invalid message format."})
		return
	}

	reply, err := c.relay.GenerateReply(r.Context(), req.Messages)
	if err != nil {
		log.Error().Err(err).Msg("Relay upstream call failed")
		writeJSON(w, http.StatusInternalServerError, models.RelayError{Error: "Server error."})
		return
	}

	writeJSON(w, http.StatusOK, models.RelayResponse{Reply: reply})
}
