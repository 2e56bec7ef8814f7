package api

import (
	"errors"
	"net/http"

	"github.com/trustlane/identity-gateway/internal/agent"
	"github.com/trustlane/identity-gateway/internal/api/gateway"
	"github.com/trustlane/identity-gateway/internal/config"
	"github.com/trustlane/identity-gateway/internal/connection"
	"github.com/trustlane/identity-gateway/internal/session"
	"github.com/trustlane/identity-gateway/internal/token"
)

// Service represents the gateway API service
type Service struct {
	Config   *config.Config
	Agents   *agent.Client
	Sessions session.Storage
	Registry *connection.Registry
	Issuer   *token.Issuer

	gateway *gateway.Service
}

// Startup starts up the gateway API
func (service *Service) Startup(errs chan<- error) {
	gatewayService := &gateway.Service{
		Config:   service.Config,
		Agents:   service.Agents,
		Sessions: service.Sessions,
		Registry: service.Registry,
		Issuer:   service.Issuer,
	}
	service.gateway = gatewayService
	go func() {
		if err := gatewayService.Startup(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
}

// Shutdown shuts down the gateway API
func (service *Service) Shutdown() {
	if service.gateway != nil {
		service.gateway.Shutdown()
		service.gateway = nil
	}
}
