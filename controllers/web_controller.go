package controllers

import (
	"fmt"
	"net/http"
)

// IndexHandler serves a minimal landing page describing the API. The actual
// chat widget lives in the boutique theme and talks to /chat and /api/chat.
func (c *Controller) IndexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)

	html := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>Kova Stylist</title>
		<style>
			body { font-family: Arial, sans-serif; margin: 40px; }
			.container { max-width: 600px; }
			h1 { color: #333; }
			.endpoint { background: #f5f5f5; padding: 15px; margin: 10px 0; border-radius: 5px; }
		</style>
	</head>
	<body>
		<div class="container">
			<h1>Kova Stylist</h1>
			<p>Conversational shopping assistant backend</p>

			<h2>Available Endpoints:</h2>
			<div class="endpoint">
				<strong>POST /chat</strong> - Widget chat endpoint (JSON)
			</div>
			<div class="endpoint">
				<strong>POST /api/chat</strong> - Relay endpoint for the browser widget
			</div>
			<div class="endpoint">
				<strong>GET /health</strong> - Health check
			</div>

			<h2>Test the Chat Endpoint:</h2>
			<p>Send a POST request to <code>/chat</code> with JSON:</p>
			<pre>{"message": "show me something cozy"}</pre>
		</div>
	</body>
	</html>`

	fmt.Fprint(w, html)
}

// HealthHandler provides a health check endpoint
func (c *Controller) HealthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"service":   "kova-stylist",
		"endpoints": []string{"/", "/chat", "/api/chat", "/health"},
		"stylist":   c.stylist.GetStatus(),
		"relay":     c.relay.GetStatus(),
	}

	writeJSON(w, http.StatusOK, health)
}
