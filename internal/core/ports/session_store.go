package ports

// SessionStore persists a single opaque bearer token outside process memory
// so it survives a restart. No format validation, no expiry logic.
type SessionStore interface {
	// Get returns the stored token, or "" when none is stored.
	Get() (string, error)
	Set(token string) error
	Clear() error
}
