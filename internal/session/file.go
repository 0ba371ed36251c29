package session

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pawlingo/pawlingo-server/internal/models"
)

// FileStore keeps the user record in a single JSON file, the server-side
// analog of the browser's local storage entry.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed session store at the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Save(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

func (s *FileStore) Load(ctx context.Context) (*models.User, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		// Unparseable record is discarded, not surfaced
		os.Remove(s.path)
		return nil, ErrCorruptSession
	}
	return &user, nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *FileStore) Close() error {
	return nil
}
