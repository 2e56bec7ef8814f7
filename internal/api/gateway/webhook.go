package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/trustlane/identity-gateway/internal/session"
)

type connectionNotification struct {
	ConnectionID    string `json:"connection_id"`
	State           string `json:"state"`
	TheirLabel      string `json:"their_label"`
	InvitationMsgID string `json:"invitation_msg_id"`
}

var webhookAck = map[string]bool{"ok": true}

// EndpointWebhook handles the 'POST /v1/webhooks/topic/{topic}' endpoint.
// Lifecycle notifications are absorbed fire-and-forget: the endpoint always
// acknowledges receipt so the provider never retries or backs up, and malformed
// or unrecognized payloads produce no state change.
func (service *Service) EndpointWebhook(writer http.ResponseWriter, request *http.Request) {
	topic := chi.URLParam(request, "topic")

	notification := new(connectionNotification)
	if err := json.NewDecoder(request.Body).Decode(notification); err != nil {
		log.Debug().Err(err).Str("topic", topic).Msg("ignoring a malformed lifecycle notification")
		service.writer.WriteJSON(writer, webhookAck)
		return
	}

	log.Debug().Str("topic", topic).Str("connection_id", notification.ConnectionID).
		Str("state", notification.State).Msg("received a lifecycle notification")

	if topic == "connections" && notification.ConnectionID != "" {
		switch notification.State {
		case "active":
			service.absorbActivation(request, notification)
		case "abandoned", "error":
			service.absorbFailure(request, notification)
		}
	}

	service.writer.WriteJSON(writer, webhookAck)
}

// absorbActivation records the role a freshly activated connection asserted and
// completes the pending login session the connection originated from, if any.
func (service *Service) absorbActivation(request *http.Request, notification *connectionNotification) {
	label := notification.TheirLabel
	if label == "" {
		label = "unknown"
	}
	service.Registry.Record(notification.ConnectionID, label)

	if notification.InvitationMsgID == "" {
		return
	}

	ses, err := service.Sessions.Get(request.Context(), notification.InvitationMsgID)
	if err != nil {
		log.Error().Err(err).Str("invitation_id", notification.InvitationMsgID).Msg("could not look up the login session")
		return
	}
	if ses == nil || ses.Status != session.StatusPending {
		return
	}

	signed, err := service.Issuer.Issue(notification.ConnectionID, ses.Role)
	if err != nil {
		log.Error().Err(err).Str("invitation_id", ses.InvitationID).Msg("could not issue a session token")
		return
	}
	if _, err := service.Sessions.Activate(request.Context(), ses.InvitationID, notification.ConnectionID, signed); err != nil {
		// A concurrent notification won the transition; the session stays as-is
		if !errors.Is(err, session.ErrNotPending) {
			log.Error().Err(err).Str("invitation_id", ses.InvitationID).Msg("could not activate the login session")
		}
		return
	}

	log.Info().Str("invitation_id", ses.InvitationID).Str("connection_id", notification.ConnectionID).
		Msg("completed an invitation-based login")
}

// absorbFailure marks the login session of a terminally failed connection as failed
func (service *Service) absorbFailure(request *http.Request, notification *connectionNotification) {
	if notification.InvitationMsgID == "" {
		return
	}
	ses, err := service.Sessions.Fail(request.Context(), notification.InvitationMsgID)
	if err != nil {
		if !errors.Is(err, session.ErrNotPending) {
			log.Error().Err(err).Str("invitation_id", notification.InvitationMsgID).Msg("could not fail the login session")
		}
		return
	}
	if ses != nil {
		log.Info().Str("invitation_id", ses.InvitationID).Str("connection_id", notification.ConnectionID).
			Msg("an invitation-based login terminally failed")
	}
}
