package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateInvitation(t *testing.T) {
	invitationID := uuid.NewString()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, http.MethodPost, request.Method)
		require.Equal(t, "/out-of-band/create-invitation", request.URL.Path)

		body := new(createInvitationRequest)
		require.NoError(t, json.NewDecoder(request.Body).Decode(body))
		assert.Equal(t, []string{didExchangeProtocol}, body.HandshakeProtocols)
		assert.Equal(t, "supervisor", body.Label)

		json.NewEncoder(writer).Encode(map[string]string{
			"invi_msg_id":    invitationID,
			"invitation_url": "https://example.com?oob=abc",
		})
	}))
	defer server.Close()

	client := NewClient(Directory{ProviderDeveloper: server.URL})
	invitation, err := client.CreateInvitation(context.Background(), "supervisor")
	require.NoError(t, err)
	assert.Equal(t, invitationID, invitation.InvitationID)
	assert.Equal(t, "https://example.com?oob=abc", invitation.InvitationURL)
}

func TestClient_CreateInvitationProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(Directory{ProviderDeveloper: server.URL})
	_, err := client.CreateInvitation(context.Background(), "developer")
	assert.Error(t, err)
}

func TestClient_CreateInvitationIncompleteResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(writer).Encode(map[string]string{"invi_msg_id": "abc"})
	}))
	defer server.Close()

	client := NewClient(Directory{ProviderDeveloper: server.URL})
	_, err := client.CreateInvitation(context.Background(), "developer")
	assert.Error(t, err)
}

func TestClient_GetConnection(t *testing.T) {
	connectionID := uuid.NewString()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, "/connections/"+connectionID, request.URL.Path)
		json.NewEncoder(writer).Encode(map[string]string{
			"connection_id":     connectionID,
			"state":             "active",
			"their_label":       "Regulator",
			"invitation_msg_id": "inv-1",
		})
	}))
	defer server.Close()

	client := NewClient(Directory{ProviderRegulator: server.URL})
	conn, err := client.GetConnection(context.Background(), ProviderRegulator, connectionID)
	require.NoError(t, err)
	assert.Equal(t, connectionID, conn.ConnectionID)
	assert.True(t, conn.IsActive())
	assert.Equal(t, "Regulator", conn.TheirLabel)
	assert.Equal(t, "inv-1", conn.InvitationMsgID)
}

func TestClient_GetConnectionNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(Directory{ProviderDeveloper: server.URL})
	_, err := client.GetConnection(context.Background(), ProviderDeveloper, "nope")
	assert.ErrorIs(t, err, ErrConnectionNotFound)
}

func TestClient_GetConnectionUnreachable(t *testing.T) {
	server := httptest.NewServer(nil)
	server.Close()

	client := NewClient(Directory{ProviderDeveloper: server.URL})
	_, err := client.GetConnection(context.Background(), ProviderDeveloper, "c1")
	assert.ErrorIs(t, err, ErrConnectionNotFound)
}

func TestClient_GetConnectionPending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(writer).Encode(map[string]string{
			"connection_id": "c1",
			"state":         "request",
		})
	}))
	defer server.Close()

	client := NewClient(Directory{ProviderSupervisor: server.URL})
	conn, err := client.GetConnection(context.Background(), ProviderSupervisor, "c1")
	require.NoError(t, err)
	assert.False(t, conn.IsActive())
}
