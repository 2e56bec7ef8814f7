package agent

import (
	"errors"
	"strings"

	"github.com/trustlane/identity-gateway/internal/config"
)

// Provider represents one of the named handshake providers the gateway talks to
type Provider string

const (
	// ProviderDeveloper is the provider that also creates out-of-band login invitations
	ProviderDeveloper Provider = "developer"
	// ProviderRegulator is the regulator provider
	ProviderRegulator Provider = "regulator"
	// ProviderSupervisor is the supervisor provider
	ProviderSupervisor Provider = "supervisor"
)

// ErrUnknownProvider is returned when a provider name outside the enumerated set is supplied
var ErrUnknownProvider = errors.New("unknown provider name")

// ParseProvider normalizes the given provider name to lowercase and validates it
// against the enumerated set
func ParseProvider(name string) (Provider, error) {
	switch Provider(strings.ToLower(name)) {
	case ProviderDeveloper:
		return ProviderDeveloper, nil
	case ProviderRegulator:
		return ProviderRegulator, nil
	case ProviderSupervisor:
		return ProviderSupervisor, nil
	default:
		return "", ErrUnknownProvider
	}
}

// Directory maps every known provider to the base address of its admin API
type Directory map[Provider]string

// NewDirectory builds the provider directory out of the application configuration
func NewDirectory(cfg *config.Config) Directory {
	return Directory{
		ProviderDeveloper:  strings.TrimSuffix(cfg.DeveloperAgentURL, "/"),
		ProviderRegulator:  strings.TrimSuffix(cfg.RegulatorAgentURL, "/"),
		ProviderSupervisor: strings.TrimSuffix(cfg.SupervisorAgentURL, "/"),
	}
}
