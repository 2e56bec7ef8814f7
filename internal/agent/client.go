package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// didExchangeProtocol is the handshake protocol requested on invitation creation
const didExchangeProtocol = "https://didcomm.org/didexchange/1.0"

// requestTimeout bounds every single admin API call; the client never retries
const requestTimeout = 30 * time.Second

// ErrConnectionNotFound is returned when a provider does not report a definitive result for a connection ID
var ErrConnectionNotFound = errors.New("the provider did not report the requested connection")

// Invitation represents a freshly created out-of-band handshake invitation
type Invitation struct {
	InvitationID  string `json:"invi_msg_id"`
	InvitationURL string `json:"invitation_url"`
}

// Connection represents the provider-reported state of a handshake connection
type Connection struct {
	ConnectionID    string `json:"connection_id"`
	State           string `json:"state"`
	TheirLabel      string `json:"their_label"`
	InvitationMsgID string `json:"invitation_msg_id"`
}

// IsActive returns whether the connection has reached the active state
func (conn *Connection) IsActive() bool {
	return conn.State == "active"
}

// Client issues calls against the admin APIs of the known handshake providers.
// All calls are single-attempt and fail fast; retrying is left to the caller.
type Client struct {
	directory Directory
	http      *http.Client
}

// NewClient creates a new handshake provider admin API client
func NewClient(directory Directory) *Client {
	return &Client{
		directory: directory,
		http: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type createInvitationRequest struct {
	HandshakeProtocols []string `json:"handshake_protocols"`
	Label              string   `json:"label"`
}

// CreateInvitation requests a new out-of-band handshake invitation labeled with
// the given role. Invitations are always created against the developer provider.
func (client *Client) CreateInvitation(ctx context.Context, role string) (*Invitation, error) {
	body, err := json.Marshal(createInvitationRequest{
		HandshakeProtocols: []string{didExchangeProtocol},
		Label:              role,
	})
	if err != nil {
		return nil, err
	}

	endpoint := client.directory[ProviderDeveloper] + "/out-of-band/create-invitation"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := client.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("could not reach the developer provider: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invitation creation failed with status %d", response.StatusCode)
	}

	invitation := new(Invitation)
	if err := json.NewDecoder(response.Body).Decode(invitation); err != nil {
		return nil, fmt.Errorf("malformed invitation response: %w", err)
	}
	if invitation.InvitationID == "" || invitation.InvitationURL == "" {
		return nil, errors.New("incomplete invitation response")
	}
	return invitation, nil
}

// GetConnection fetches the current state of a connection from the given provider.
// It returns ErrConnectionNotFound whenever the provider does not answer with a
// definitive success, regardless of the underlying cause.
func (client *Client) GetConnection(ctx context.Context, provider Provider, connectionID string) (*Connection, error) {
	endpoint := fmt.Sprintf("%s/connections/%s", client.directory[provider], connectionID)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	response, err := client.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConnectionNotFound, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, ErrConnectionNotFound
	}

	conn := new(Connection)
	if err := json.NewDecoder(response.Body).Decode(conn); err != nil {
		return nil, fmt.Errorf("%w: malformed connection response", ErrConnectionNotFound)
	}
	return conn, nil
}
