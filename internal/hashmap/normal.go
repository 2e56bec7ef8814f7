package hashmap

import "sync"

// NormalMap wraps the builtin map type with a mutex in order to make it safe for concurrent use
type NormalMap[K comparable, V any] struct {
	mtx        sync.RWMutex
	underlying map[K]V
}

// NewNormal creates a new normal thread safe map
func NewNormal[K comparable, V any]() *NormalMap[K, V] {
	return &NormalMap[K, V]{
		underlying: make(map[K]V),
	}
}

// Size returns the amount of stored key-value pairs
func (obj *NormalMap[K, V]) Size() int {
	obj.mtx.RLock()
	defer obj.mtx.RUnlock()
	return len(obj.underlying)
}

// Lookup returns the value assigned to the given key and a boolean indicating whether it was present
func (obj *NormalMap[K, V]) Lookup(key K) (V, bool) {
	obj.mtx.RLock()
	defer obj.mtx.RUnlock()
	val, ok := obj.underlying[key]
	return val, ok
}

// Set sets a key-value pair
func (obj *NormalMap[K, V]) Set(key K, value V) {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	obj.underlying[key] = value
}

// Unset deletes the value assigned to the given key
func (obj *NormalMap[K, V]) Unset(key K) {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	delete(obj.underlying, key)
}

// WithLock runs the given function on the underlying map while holding the write lock
func (obj *NormalMap[K, V]) WithLock(action func(underlying map[K]V)) {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	action(obj.underlying)
}
