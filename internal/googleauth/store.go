package googleauth

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

// Store persists the OAuth2 token bundle as JSON in a local file. The file is
// rewritten atomically (tmp + rename) whenever the token is issued or rotated.
type Store struct {
	path string
}

// NewStore constructs a token store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the stored token. A missing or unreadable file returns an error;
// callers treat that as "no credential" and fall back to the interactive flow.
func (s *Store) Load() (*oauth2.Token, error) {
	if s == nil || s.path == "" {
		return nil, errors.New("token store not configured")
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tok oauth2.Token
	if err := json.NewDecoder(f).Decode(&tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Save writes the token to disk. The file is created 0600 since it holds a
// live credential.
func (s *Store) Save(tok *oauth2.Token) error {
	if s == nil || s.path == "" {
		return errors.New("token store not configured")
	}
	if tok == nil {
		return errors.New("nil token")
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
