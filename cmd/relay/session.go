package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/json"
	"github.com/google/uuid"
)

// sessionFile ties a session to the place it is saved.
type sessionFile struct {
	session relay.Session
	path    string // explicit file, or "" to save by ID in the store
	store   *json.Store
}

func (a *app) store() (*json.Store, error) {
	dir, err := a.cfg.SessionPath()
	if err != nil {
		return nil, err
	}
	return json.NewStore(dir), nil
}

// openSession resumes the session named by --session or starts a new one.
// A --session value that is not an existing ID or file starts a new session
// saved under that name.
func (a *app) openSession(store *json.Store) (*sessionFile, bool, error) {
	ref := a.flags.session
	if ref == "" {
		return &sessionFile{session: a.newSession(), store: store}, false, nil
	}
	var path string
	if isPathRef(ref) {
		path = ref
	}
	s, err := store.Load(ref)
	if err == nil {
		return &sessionFile{session: s, path: path, store: store}, true, nil
	}
	if !isNotExist(err) {
		return nil, false, fmt.Errorf("load session: %w", err)
	}
	sess := a.newSession()
	if path == "" {
		sess.ID = ref
	} else {
		sess.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &sessionFile{session: sess, path: path, store: store}, false, nil
}

func (a *app) newSession() relay.Session {
	now := time.Now()
	return relay.Session{
		ID:           uuid.NewString(),
		SystemPrompt: a.cfg.SystemPrompt,
		Model:        a.cfg.Model,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// save writes the session. Sessions without turns are not written.
func (f *sessionFile) save() error {
	if len(f.session.Turns) == 0 {
		return nil
	}
	var err error
	if f.path != "" {
		err = json.Save(f.path, f.session)
	} else {
		err = f.store.Save(f.session)
	}
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// location returns where the session is saved.
func (f *sessionFile) location() string {
	if f.path != "" {
		return f.path
	}
	return f.store.Path(f.session.ID)
}

func isPathRef(ref string) bool {
	return strings.ContainsRune(ref, filepath.Separator) || strings.HasSuffix(ref, ".json")
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
