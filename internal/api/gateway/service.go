package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"github.com/trustlane/identity-gateway/internal/agent"
	"github.com/trustlane/identity-gateway/internal/api/schema"
	"github.com/trustlane/identity-gateway/internal/config"
	"github.com/trustlane/identity-gateway/internal/connection"
	"github.com/trustlane/identity-gateway/internal/session"
	"github.com/trustlane/identity-gateway/internal/token"
)

// Service represents the gateway API service
type Service struct {
	server *http.Server

	Config *config.Config

	Agents   *agent.Client
	Sessions session.Storage
	Registry *connection.Registry
	Issuer   *token.Issuer

	writer *schema.Writer
}

// Startup starts up the gateway API
func (service *Service) Startup() error {
	server := &http.Server{
		Addr:    service.Config.APIListenAddress,
		Handler: service.Handler(),
	}
	service.server = server
	return server.ListenAndServe()
}

// Handler builds the HTTP handler serving the gateway API
func (service *Service) Handler() http.Handler {
	// Create the HTTP schema writer
	service.writer = &schema.Writer{
		InternalErrorHook: func(err error) {
			log.Error().Err(err).Msg("the gateway API experienced an unexpected error")
		},
	}

	// Create the HTTP router
	router := chi.NewRouter()
	router.Use(middleware.RedirectSlashes)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{service.Config.APIAllowedOrigin},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	router.NotFound(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
	})
	router.MethodNotAllowed(func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteErrors(writer, http.StatusMethodNotAllowed, schema.ErrMethodNotAllowed)
	})

	// Register the login controller endpoints
	router.Post("/v1/login/request/{role}", service.EndpointRequestLogin)
	router.Post("/v1/login/direct", service.EndpointDirectLogin)
	router.Get("/v1/login/sessions/{invitation_id}", service.EndpointGetLoginSession)

	// Register the lifecycle notification endpoint
	router.Post("/v1/webhooks/topic/{topic}", service.EndpointWebhook)

	router.Get("/health", func(writer http.ResponseWriter, _ *http.Request) {
		service.writer.WriteJSON(writer, map[string]string{"status": "ok"})
	})

	return router
}

// Shutdown shuts down the gateway API
func (service *Service) Shutdown() {
	if service.server != nil {
		service.server.Close()
		service.server = nil
	}
}
