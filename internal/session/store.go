package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/pawlingo/pawlingo-server/internal/models"
)

// The store keeps a single named entry holding the serialized user
// record: written on login and profile updates, removed on logout,
// read once at startup.
const sessionKey = "pawlingo_user"

var (
	// ErrNoSession means no user record is stored
	ErrNoSession = errors.New("no stored session")
	// ErrCorruptSession means the stored record could not be parsed.
	// Callers treat this the same as no session; the entry is removed.
	ErrCorruptSession = errors.New("stored session is corrupt")
)

// Store persists the current user record
type Store interface {
	Save(ctx context.Context, user *models.User) error
	Load(ctx context.Context) (*models.User, error)
	Clear(ctx context.Context) error
	Close() error
}

// StoreType selects a session store backend
type StoreType string

const (
	FileStoreType StoreType = "file"
	RedisStore    StoreType = "redis"
	PostgresStore StoreType = "postgres"
)

// Options carries backend-specific settings for the store factory
type Options struct {
	FilePath    string
	RedisAddr   string
	RedisDB     int
	PostgresURL string
}

// NewStore creates a session store of the requested type
func NewStore(storeType StoreType, opts Options) (Store, error) {
	switch storeType {
	case FileStoreType:
		return NewFileStore(opts.FilePath), nil
	case RedisStore:
		return NewRedisStore(opts.RedisAddr, opts.RedisDB)
	case PostgresStore:
		return NewPostgresDB(opts.PostgresURL)
	default:
		return nil, fmt.Errorf("unsupported session store type: %s", storeType)
	}
}
