package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/bilalattari/kaacib-company-dashboard-sub000/pkg/token"
)

// File is a durable credential store backed by a JSON file.
// The file is written atomically (temp file + rename) with 0600
// permissions, so a crash mid-write never leaves a truncated pair
// and other local users cannot read the tokens.
type File struct {
	path string
}

// NewFile creates a file-backed store at the given path.
// Parent directories are created on first Save.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load reads the persisted pair. A missing file returns ErrNotFound.
// A file that cannot be parsed, or that holds no tokens, is removed
// and reported as ErrNotFound.
func (f *File) Load(_ context.Context) (*token.TokenPair, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrNotFound, err)
	}

	var pair token.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		_ = os.Remove(f.path)
		return nil, errors.Join(ErrNotFound, err)
	}

	if pair.AccessToken == "" && pair.RefreshToken == "" {
		_ = os.Remove(f.path)
		return nil, ErrNotFound
	}

	return &pair, nil
}

// Save writes the pair atomically with owner-only permissions.
func (f *File) Save(_ context.Context, pair *token.TokenPair) error {
	data, err := json.Marshal(pair)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, f.path)
}

// Clear removes the credentials file if present.
func (f *File) Clear(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

var _ Store = (*File)(nil)
