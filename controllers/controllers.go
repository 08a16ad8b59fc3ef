package controllers

import (
	"encoding/json"
	"net/http"

	"kova/services"
)

// Controller wires the HTTP surface to the stylist pipeline and the
// server-side relay.
type Controller struct {
	stylist *services.Stylist
	relay   *services.OpenAIRelay
}

// NewController creates a new controller instance
func NewController(stylist *services.Stylist, relay *services.OpenAIRelay) *Controller {
	return &Controller{
		stylist: stylist,
		relay:   relay,
	}
}

// writeJSON writes a JSON body with the given status code
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
