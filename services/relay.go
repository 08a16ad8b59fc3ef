package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kova/models"

	"github.com/rs/zerolog/log"
)

// FallbackReply is returned whenever a completion cannot be produced.
const FallbackReply = "Something glitched — say that again."

// personaPrompt is the fixed instruction record prepended to every
// completion request.
const personaPrompt = `You are Kova — an AI fashion stylist. Speak naturally like a real stylist, not a chatbot.

Tone:
Confident, warm, short when clear, longer only when helpful.
No emojis. No robotic phrasing.

Rules:
- Recommend 2–4 items at a time.
- Ask one clarifying question if needed.
- If the user changes direction or asks random questions, adapt smoothly.
- Never mention body type, weight, sizing judgment.
- If user asks, offer boutique-specific fit or size guidance.

Memory:
If user asks: "remember that," respond: "I can save your style for this boutique — want me to?"
Never assume consent.

Ending responses:
Neutral choices like:
"Want more options, a different vibe, or should I pull the last set again?"`

// CompletionRelay turns a conversation log into a single assistant reply.
// Implementations never fail: any transport or upstream problem yields
// FallbackReply instead of an error.
type CompletionRelay interface {
	Complete(ctx context.Context, turns []models.Turn) string
}

// completionMessage represents a message in the chat-completions format
type completionMessage struct {
	Role    string `json:"role"` // "system", "user", or "assistant"
	Content string `json:"content"`
}

// completionRequest represents a request to the chat-completions API
type completionRequest struct {
	Model    string              `json:"model"`
	Messages []completionMessage `json:"messages"`
}

// completionResponse represents a response from the chat-completions API
type completionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// buildMessages maps the turn log into the completion role vocabulary, with
// the persona instruction first. Any sender other than "user" is treated as
// the assistant.
func buildMessages(turns []models.Turn) []completionMessage {
	messages := make([]completionMessage, 0, len(turns)+1)
	messages = append(messages, completionMessage{
		Role:    "system",
		Content: personaPrompt,
	})

	for _, turn := range turns {
		role := models.SenderAssistant
		if turn.Sender == models.SenderUser {
			role = models.SenderUser
		}
		messages = append(messages, completionMessage{
			Role:    role,
			Content: turn.Text,
		})
	}

	return messages
}

// OpenAIRelay calls a chat-completions endpoint directly with a server-held
// credential.
type OpenAIRelay struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOpenAIRelay creates a new relay against a chat-completions endpoint
func NewOpenAIRelay(apiKey, baseURL, model string) *OpenAIRelay {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "gpt-4.1-mini"
	}

	return &OpenAIRelay{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GenerateReply issues exactly one completion request for the full turn log
// and returns the first choice's text verbatim.
func (r *OpenAIRelay) GenerateReply(ctx context.Context, turns []models.Turn) (string, error) {
	if r.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not set")
	}

	request := completionRequest{
		Model:    r.model,
		Messages: buildMessages(turns),
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request to completion endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var completionResp completionResponse
	if err := json.Unmarshal(body, &completionResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if completionResp.Error != nil {
		return "", fmt.Errorf("completion API error: %s", completionResp.Error.Message)
	}
	if len(completionResp.Choices) == 0 {
		return "", fmt.Errorf("no response choices from completion endpoint")
	}

	return completionResp.Choices[0].Message.Content, nil
}

// Complete implements CompletionRelay.
func (r *OpenAIRelay) Complete(ctx context.Context, turns []models.Turn) string {
	reply, err := r.GenerateReply(ctx, turns)
	if err != nil {
		log.Warn().Err(err).Msg("Completion request failed")
		return FallbackReply
	}
	return reply
}

// GetStatus returns the status of the direct relay
func (r *OpenAIRelay) GetStatus() map[string]interface{} {
	status := map[string]interface{}{
		"mode":     "direct",
		"base_url": r.baseURL,
		"model":    r.model,
		"timeout":  r.httpClient.Timeout.String(),
	}

	if r.apiKey == "" {
		status["status"] = "unavailable"
		status["error"] = "OPENAI_API_KEY not set"
		return status
	}

	status["status"] = "available"
	// Mask API key for security
	if len(r.apiKey) > 8 {
		status["api_key"] = r.apiKey[:4] + "..." + r.apiKey[len(r.apiKey)-4:]
	} else {
		status["api_key"] = "***"
	}

	return status
}

// ProxyRelay forwards the turn log to a separately deployed relay server
// that holds the credential. No key is sent from this side.
type ProxyRelay struct {
	relayURL   string
	httpClient *http.Client
}

// NewProxyRelay creates a new relay client against a remote relay server
func NewProxyRelay(relayURL string) *ProxyRelay {
	return &ProxyRelay{
		relayURL: strings.TrimRight(relayURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Complete implements CompletionRelay by calling POST {relay}/api/chat.
func (r *ProxyRelay) Complete(ctx context.Context, turns []models.Turn) string {
	jsonData, err := json.Marshal(models.RelayRequest{Messages: turns})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to encode relay request")
		return FallbackReply
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.relayURL+"/api/chat", bytes.NewBuffer(jsonData))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create relay request")
		return FallbackReply
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("Relay request failed")
		return FallbackReply
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read relay response")
		return FallbackReply
	}

	var relayResp models.RelayResponse
	if err := json.Unmarshal(body, &relayResp); err != nil || relayResp.Reply == "" {
		log.Warn().Int("status", resp.StatusCode).Msg("Relay returned no reply")
		return FallbackReply
	}

	return relayResp.Reply
}

// GetStatus returns the status of the proxied relay
func (r *ProxyRelay) GetStatus() map[string]interface{} {
	return map[string]interface{}{
		"mode":      "proxy",
		"relay_url": r.relayURL,
		"timeout":   r.httpClient.Timeout.String(),
	}
}
