package hashmap

import (
	"time"

	"github.com/trustlane/identity-gateway/internal/task"
)

type expiringEntry[V any] struct {
	raw      V
	inserted time.Time
}

// ExpiringMap wraps a NormalMap in order to implement value expiration.
// Expired values are hidden from Lookup immediately but only removed from memory
// once the cleanup task runs.
type ExpiringMap[K comparable, V any] struct {
	normal      *NormalMap[K, *expiringEntry[V]]
	lifetime    time.Duration
	cleanupTask *task.RepeatingTask
}

// NewExpiring creates a new expiring map whose values exist for the given lifetime
func NewExpiring[K comparable, V any](lifetime time.Duration) *ExpiringMap[K, V] {
	return &ExpiringMap[K, V]{
		normal:   NewNormal[K, *expiringEntry[V]](),
		lifetime: lifetime,
	}
}

// ScheduleCleanupTask schedules the task that removes expired values in the given interval.
// Call StopCleanupTask as soon as the map is no longer needed as the map would not be
// garbage collected otherwise.
func (obj *ExpiringMap[K, V]) ScheduleCleanupTask(tick time.Duration) {
	if obj.cleanupTask != nil {
		return
	}
	obj.cleanupTask = task.NewRepeating(func() {
		obj.normal.WithLock(func(raw map[K]*expiringEntry[V]) {
			for key, val := range raw {
				if time.Since(val.inserted) > obj.lifetime {
					delete(raw, key)
				}
			}
		})
	}, tick)
	obj.cleanupTask.Start()
}

// StopCleanupTask stops the cleanup task
func (obj *ExpiringMap[K, V]) StopCleanupTask() {
	if obj.cleanupTask == nil {
		return
	}
	obj.cleanupTask.Stop(true)
	obj.cleanupTask = nil
}

// Size returns the amount of stored key-value pairs, including expired but not yet removed ones
func (obj *ExpiringMap[K, V]) Size() int {
	return obj.normal.Size()
}

// Lookup returns the value assigned to the given key and a boolean indicating whether it was
// present and not yet expired
func (obj *ExpiringMap[K, V]) Lookup(key K) (V, bool) {
	val, ok := obj.normal.Lookup(key)
	if !ok || time.Since(val.inserted) > obj.lifetime {
		var zero V
		return zero, false
	}
	return val.raw, true
}

// Set sets a key-value pair, resetting the value's lifetime if the key was already present
func (obj *ExpiringMap[K, V]) Set(key K, value V) {
	obj.normal.Set(key, &expiringEntry[V]{
		raw:      value,
		inserted: time.Now(),
	})
}

// Unset deletes the value assigned to the given key
func (obj *ExpiringMap[K, V]) Unset(key K) {
	obj.normal.Unset(key)
}
