package state

// Store defines the interface for session persistence. The session manager
// depends on this so the on-disk format can change without touching the
// playback logic.
type Store interface {
	Read() (Session, bool, error)
	Write(Session) error
	Clear() error
}

// Ensure FileStore implements Store at compile time.
var _ Store = (*FileStore)(nil)
