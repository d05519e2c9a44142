package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// SessionsDir returns the directory holding per-session subdirectories
// (~/.vtcore/sessions/).
func SessionsDir() string {
	return filepath.Join(ConfigDir(), "sessions")
}

// SessionDir returns the session directory for a given session name.
func SessionDir(name string) string {
	return filepath.Join(SessionsDir(), name)
}

// NewSessionID generates a fresh session identifier.
func NewSessionID() string {
	return uuid.New().String()
}

// SessionMetadata is the record written to session.metadata.json,
// describing one PTY session for inspection by other tools (e.g. a
// future `vtcore ls`/`vtcore peek`).
type SessionMetadata struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Shell     string `json:"shell"`
	PID       int    `json:"pid"`
	Rows      int    `json:"rows"`
	Cols      int    `json:"cols"`
	StartedAt string `json:"started_at"`
}

// WriteSessionMetadata writes session.metadata.json to the session
// directory, stamping StartedAt if unset.
func WriteSessionMetadata(sessionDir string, meta SessionMetadata) error {
	if meta.StartedAt == "" {
		meta.StartedAt = time.Now().UTC().Format(time.RFC3339)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session metadata: %w", err)
	}
	path := filepath.Join(sessionDir, "session.metadata.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write session metadata: %w", err)
	}
	return nil
}

// ReadSessionMetadata reads session.metadata.json from a session
// directory.
func ReadSessionMetadata(sessionDir string) (*SessionMetadata, error) {
	path := filepath.Join(sessionDir, "session.metadata.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var meta SessionMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse session metadata: %w", err)
	}
	return &meta, nil
}

// SessionLock guards a session directory's metadata file against a second
// concurrent `vtcore run` against the same session name.
type SessionLock struct {
	fl *flock.Flock
}

// Lock creates the session directory and takes an exclusive, non-blocking
// lock on session.lock within it. ErrSessionInUse is returned if another
// process already holds the lock.
func Lock(sessionDir string) (*SessionLock, error) {
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	fl := flock.New(filepath.Join(sessionDir, "session.lock"))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock session dir: %w", err)
	}
	if !ok {
		return nil, ErrSessionInUse
	}
	return &SessionLock{fl: fl}, nil
}

// Unlock releases the session lock. Safe to call on a nil *SessionLock.
func (l *SessionLock) Unlock() error {
	if l == nil {
		return nil
	}
	return l.fl.Unlock()
}

// ErrSessionInUse is returned by Lock when another process holds the
// session's lock file.
var ErrSessionInUse = fmt.Errorf("config: session is already running")

// SetupSessionDir creates (or reuses) a session directory and takes its
// lock, returning both the directory and the lock to release on exit.
func SetupSessionDir(name string) (dir string, lock *SessionLock, err error) {
	dir = SessionDir(name)
	lock, err = Lock(dir)
	if err != nil {
		return "", nil, err
	}
	return dir, lock, nil
}
