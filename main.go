package main

import (
	"net/http"
	"os"
	"strings"

	"kova/controllers"
	"kova/services"
	"kova/utils"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Server holds the router and listen address
type Server struct {
	router     *mux.Router
	controller *controllers.Controller
	port       string
}

// NewServer creates a new server instance
func NewServer(port string, controller *controllers.Controller) *Server {
	return &Server{
		router:     mux.NewRouter(),
		controller: controller,
		port:       port,
	}
}

// setupRoutes configures all our endpoints
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/", s.controller.IndexHandler).Methods("GET")
	s.router.HandleFunc("/chat", s.controller.ChatHandler).Methods("POST")
	s.router.HandleFunc("/api/chat", s.controller.RelayHandler).Methods("POST")
	s.router.HandleFunc("/health", s.controller.HealthHandler).Methods("GET")
}

// Start configures and starts the HTTP server
func (s *Server) Start() error {
	s.setupRoutes()

	// The widget is served from the storefront origin, so CORS stays open.
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	handler := c.Handler(s.router)

	if !strings.HasPrefix(s.port, ":") {
		s.port = ":" + s.port
	}

	log.Info().Msgf("Kova stylist server starting on port %s", s.port)
	return http.ListenAndServe(s.port, handler)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := utils.LoadEnvWithFallback(); err != nil {
		log.Warn().Err(err).Msg("Could not load .env file")
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Warn().Msg("OPENAI_API_KEY is missing, completion calls will return the fallback reply")
	}

	catalog := services.NewCatalogService(
		os.Getenv("SHOPIFY_STORE_URL"),
		os.Getenv("SHOPIFY_STOREFRONT_TOKEN"),
	)
	catalog.LoadAsync()

	openai := services.NewOpenAIRelay(apiKey, os.Getenv("OPENAI_BASE_URL"), os.Getenv("OPENAI_MODEL"))

	// The stylist pipeline either calls the completion endpoint directly or
	// goes through a separately deployed relay that holds the credential.
	var relay services.CompletionRelay = openai
	if os.Getenv("RELAY_MODE") == "proxy" {
		relayURL := os.Getenv("RELAY_URL")
		if relayURL == "" {
			log.Fatal().Msg("RELAY_MODE=proxy requires RELAY_URL")
		}
		relay = services.NewProxyRelay(relayURL)
		log.Info().Str("relay_url", relayURL).Msg("Using proxied completion relay")
	}

	sessions := services.NewSessionManager(services.NewMemoryStorage())
	stylist := services.NewStylist(catalog, relay, sessions)
	controller := controllers.NewController(stylist, openai)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := NewServer(port, controller)
	if err := server.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
