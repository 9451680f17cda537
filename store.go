package jsondict

// Store is the remote key-value store a document is mirrored to. Each call
// is assumed to be atomic on its own; nothing spans calls.
type Store interface {
	// Load returns the record under key, or found=false if there is none.
	Load(key string) (data []byte, found bool, err error)

	// Save replaces the record under key.
	Save(key string, data []byte) error
}
