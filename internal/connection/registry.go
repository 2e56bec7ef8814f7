package connection

import (
	"strings"
	"time"

	"github.com/trustlane/identity-gateway/internal/hashmap"
)

// Registry records the last-known role label asserted by a DID connection.
// It is fed exclusively by lifecycle notifications and read by direct logins;
// repeated notifications for the same connection follow last-write-wins.
// Entries expire after a fixed lifetime as the registry is only a lookup cache:
// a miss falls back to the provider name on the login path.
type Registry struct {
	roles *hashmap.ExpiringMap[string, string]
}

// NewRegistry creates a new connection role registry whose entries exist for the given lifetime
func NewRegistry(lifetime time.Duration) *Registry {
	return &Registry{
		roles: hashmap.NewExpiring[string, string](lifetime),
	}
}

// ScheduleCleanupTask schedules the task that removes expired entries in the given interval
func (registry *Registry) ScheduleCleanupTask(tick time.Duration) {
	registry.roles.ScheduleCleanupTask(tick)
}

// StopCleanupTask stops the cleanup task
func (registry *Registry) StopCleanupTask() {
	registry.roles.StopCleanupTask()
}

// Record registers the role label of a connection, overwriting any prior one.
// The role is normalized to lowercase.
func (registry *Registry) Record(connectionID, role string) {
	registry.roles.Set(connectionID, strings.ToLower(role))
}

// Lookup returns the recorded role of a connection and a boolean indicating whether one was recorded
func (registry *Registry) Lookup(connectionID string) (string, bool) {
	return registry.roles.Lookup(connectionID)
}

// Size returns the amount of recorded connections
func (registry *Registry) Size() int {
	return registry.roles.Size()
}
