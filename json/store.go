package json

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fwojciec/relay"
)

const ext = ".json"

// Store keeps one file per session in a directory, named after the session ID.
type Store struct {
	Dir string
}

// NewStore returns a Store rooted at dir. The directory is created on the
// first Save.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Summary describes a stored session without its turns.
type Summary struct {
	ID        string
	Path      string
	Model     string
	Turns     int
	Usage     relay.Usage
	Preview   string // the first user turn
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Path returns the file a session ID is stored in.
func (s *Store) Path(id string) string {
	return filepath.Join(s.Dir, id+ext)
}

// Save writes the session to its file.
func (s *Store) Save(sess relay.Session) error {
	if err := validateID(sess.ID); err != nil {
		return err
	}
	return Save(s.Path(sess.ID), sess)
}

// Load reads a session by ID. A ref that looks like a path (it contains a
// separator or ends in .json) is read from that path instead.
func (s *Store) Load(ref string) (relay.Session, error) {
	if strings.ContainsRune(ref, filepath.Separator) || strings.HasSuffix(ref, ext) {
		return Load(ref)
	}
	if err := validateID(ref); err != nil {
		return relay.Session{}, err
	}
	return Load(s.Path(ref))
}

// List summarizes every readable session in the directory, most recently
// updated first. Files that fail to parse are skipped. A missing directory
// lists nothing.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session directory: %w", err)
	}

	var out []Summary
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}
		path := filepath.Join(s.Dir, e.Name())
		sess, err := Load(path)
		if err != nil {
			continue
		}
		out = append(out, summarize(path, sess))
	}
	slices.SortFunc(out, func(a, b Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func summarize(path string, sess relay.Session) Summary {
	var preview string
	if inputs := sess.UserInputs(); len(inputs) > 0 {
		preview = inputs[0]
	}
	return Summary{
		ID:        sess.ID,
		Path:      path,
		Model:     sess.Model,
		Turns:     len(sess.Turns),
		Usage:     sess.Usage,
		Preview:   preview,
		CreatedAt: sess.CreatedAt,
		UpdatedAt: sess.UpdatedAt,
	}
}

func validateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("invalid session id %q: %w", id, relay.ErrValidation)
	}
	return nil
}
