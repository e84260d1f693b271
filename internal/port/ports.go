// Package port defines the interfaces the services depend on. Concrete
// implementations live under internal/infra; services never import those
// directly.
package port

// Cache is a generic TTL cache (implemented by infra/cache.InMemory).
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string) bool
}
