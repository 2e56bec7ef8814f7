package gateway

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/trustlane/identity-gateway/internal/agent"
	"github.com/trustlane/identity-gateway/internal/api/schema"
	"github.com/trustlane/identity-gateway/internal/session"
)

type requestLoginResponse struct {
	InvitationID  string `json:"invitation_id"`
	InvitationURL string `json:"invitation_url"`
}

// EndpointRequestLogin handles the 'POST /v1/login/request/{role}' endpoint.
// It creates an out-of-band handshake invitation against the developer provider
// and stores a pending login session correlated by the invitation ID.
func (service *Service) EndpointRequestLogin(writer http.ResponseWriter, request *http.Request) {
	role := chi.URLParam(request, "role")

	invitation, err := service.Agents.CreateInvitation(request.Context(), role)
	if err != nil {
		log.Error().Err(err).Str("role", role).Msg("could not create a handshake invitation")
		service.writer.WriteErrors(writer, http.StatusInternalServerError, schema.ErrInvitationFailed)
		return
	}

	if _, err := service.Sessions.Create(request.Context(), invitation.InvitationID, role); err != nil {
		// A provider handing out an already-used invitation ID is a provider fault
		log.Error().Err(err).Str("invitation_id", invitation.InvitationID).Msg("could not store the login session")
		service.writer.WriteErrors(writer, http.StatusInternalServerError, schema.ErrInvitationFailed)
		return
	}

	log.Debug().Str("invitation_id", invitation.InvitationID).Str("role", role).Msg("created a login invitation")
	service.writer.WriteJSON(writer, requestLoginResponse{
		InvitationID:  invitation.InvitationID,
		InvitationURL: invitation.InvitationURL,
	})
}

type directLoginRequest struct {
	ConnectionID string `json:"connection_id" required:"true"`
	Agent        string `json:"agent" required:"true"`
}

type directLoginResponse struct {
	ConnectionID string `json:"connection_id"`
	Token        string `json:"token"`
	Role         string `json:"role"`
}

// EndpointDirectLogin handles the 'POST /v1/login/direct' endpoint.
// It validates a provider-reported connection and issues a session token for it.
func (service *Service) EndpointDirectLogin(writer http.ResponseWriter, request *http.Request) {
	body, validationErrs, err := schema.UnmarshalBody[directLoginRequest](request)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if len(validationErrs) > 0 {
		service.writer.WriteErrors(writer, http.StatusBadRequest, validationErrs...)
		return
	}

	provider, err := agent.ParseProvider(body.Agent)
	if err != nil {
		service.writer.WriteErrors(writer, http.StatusBadRequest, schema.ErrInvalidProvider)
		return
	}

	conn, err := service.Agents.GetConnection(request.Context(), provider, body.ConnectionID)
	if err != nil {
		if errors.Is(err, agent.ErrConnectionNotFound) {
			log.Debug().Err(err).Str("connection_id", body.ConnectionID).Str("provider", string(provider)).
				Msg("direct login against an unknown connection")
			service.writer.WriteErrors(writer, http.StatusBadRequest, schema.ErrConnectionNotFound)
			return
		}
		log.Error().Err(err).Str("connection_id", body.ConnectionID).Msg("direct login failed unexpectedly")
		service.writer.WriteErrors(writer, http.StatusInternalServerError, schema.ErrLoginFailed)
		return
	}
	if !conn.IsActive() {
		service.writer.WriteErrors(writer, http.StatusBadRequest, schema.ErrConnectionNotActive)
		return
	}

	// Fall back to the provider name if no lifecycle notification recorded a role yet;
	// a login racing ahead of its webhook is expected and not an error
	role, ok := service.Registry.Lookup(body.ConnectionID)
	if !ok {
		role = string(provider)
	}

	signed, err := service.Issuer.Issue(body.ConnectionID, role)
	if err != nil {
		log.Error().Err(err).Str("connection_id", body.ConnectionID).Msg("could not issue a session token")
		service.writer.WriteErrors(writer, http.StatusInternalServerError, schema.ErrLoginFailed)
		return
	}

	log.Info().Str("connection_id", body.ConnectionID).Str("role", role).Msg("direct login succeeded")
	service.writer.WriteJSON(writer, directLoginResponse{
		ConnectionID: body.ConnectionID,
		Token:        signed,
		Role:         role,
	})
}

type loginSessionResponse struct {
	InvitationID string         `json:"invitation_id"`
	Status       session.Status `json:"status"`
	Role         string         `json:"role"`
	ConnectionID string         `json:"connection_id,omitempty"`
	Token        string         `json:"token,omitempty"`
}

// EndpointGetLoginSession handles the 'GET /v1/login/sessions/{invitation_id}' endpoint.
// Clients poll it after requesting an invitation; once the corresponding connection
// was reported active, the response carries the issued session token.
func (service *Service) EndpointGetLoginSession(writer http.ResponseWriter, request *http.Request) {
	invitationID := chi.URLParam(request, "invitation_id")

	ses, err := service.Sessions.Get(request.Context(), invitationID)
	if err != nil {
		service.writer.WriteInternalError(writer, err)
		return
	}
	if ses == nil {
		service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
		return
	}

	service.writer.WriteJSON(writer, loginSessionResponse{
		InvitationID: ses.InvitationID,
		Status:       ses.Status,
		Role:         ses.Role,
		ConnectionID: ses.ConnectionID,
		Token:        ses.Token,
	})
}
