// Package store persists one JSON document per user key.
//
// Writes replace the whole file atomically (temp file + rename), so a
// concurrent reader never observes a torn document. Read-modify-write
// sequences run under a per-key exclusive lock: an in-process mutex keyed by
// user plus an flock(2) on a sibling .lock file, so two concurrent requests
// for the same user cannot lose an update while different users never
// contend.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/natefinch/atomic"
	"golang.org/x/sys/unix"

	"studyhub/internal/document"
)

// ErrCorruptDocument is the error reported when a stored file exists but
// cannot be parsed. A corrupt file is surfaced, never silently replaced
// with defaults.
var ErrCorruptDocument = document.ErrCorrupt

// Lock errors.
var (
	errLockTimeout  = errors.New("lock timeout")
	errLockFileOpen = errors.New("failed to open lock file")
)

// lockTimeout bounds how long an operation waits for another writer on the
// same key.
const lockTimeout = 5 * time.Second

const (
	dirPerms  = 0o750
	filePerms = 0o600
)

// Store is a per-user document store rooted at a data directory.
// The zero value is not usable; call [New].
type Store struct {
	dir string

	mu    sync.Mutex
	byKey map[string]*sync.Mutex
}

// New creates the data directory if needed and returns a store rooted there.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("open store: data directory is empty")
	}

	err := os.MkdirAll(dir, dirPerms)
	if err != nil {
		return nil, fmt.Errorf("open store: create data directory: %w", err)
	}

	return &Store{
		dir:   filepath.Clean(dir),
		byKey: make(map[string]*sync.Mutex),
	}, nil
}

// Path returns the file backing a user key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// keyMutex returns the in-process mutex for a key, creating it on first use.
func (s *Store) keyMutex(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.byKey[key]
	if !ok {
		m = &sync.Mutex{}
		s.byKey[key] = m
	}

	return m
}

// Load returns the document for key, creating and persisting the default
// template on first access. A file that exists but fails to parse is
// reported via [ErrCorruptDocument]; the stored bytes are left untouched.
func (s *Store) Load(key string) (*document.UserDocument, error) {
	m := s.keyMutex(key)
	m.Lock()
	defer m.Unlock()

	lock, err := acquireLock(s.Path(key))
	if err != nil {
		return nil, err
	}
	defer lock.release()

	return s.loadLocked(key)
}

// Save persists the full document for key, replacing the prior version.
func (s *Store) Save(key string, doc *document.UserDocument) error {
	m := s.keyMutex(key)
	m.Lock()
	defer m.Unlock()

	lock, err := acquireLock(s.Path(key))
	if err != nil {
		return err
	}
	defer lock.release()

	return s.saveLocked(key, doc)
}

// Update runs load → transform → save as one unit under the key's lock.
// If transform returns an error the document is not written and the error
// is returned unmodified. The persisted document is returned on success.
func (s *Store) Update(key string, transform func(*document.UserDocument) error) (*document.UserDocument, error) {
	m := s.keyMutex(key)
	m.Lock()
	defer m.Unlock()

	lock, err := acquireLock(s.Path(key))
	if err != nil {
		return nil, err
	}
	defer lock.release()

	doc, err := s.loadLocked(key)
	if err != nil {
		return nil, err
	}

	err = transform(doc)
	if err != nil {
		return nil, err
	}

	err = s.saveLocked(key, doc)
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func (s *Store) loadLocked(key string) (*document.UserDocument, error) {
	path := s.Path(key)

	data, readErr := os.ReadFile(path) //nolint:gosec // key is resolved by userkey
	if readErr != nil {
		if !os.IsNotExist(readErr) {
			return nil, fmt.Errorf("reading document %s: %w", key, readErr)
		}

		doc := document.Default()

		writeErr := s.saveLocked(key, doc)
		if writeErr != nil {
			return nil, writeErr
		}

		return doc, nil
	}

	doc, decodeErr := document.Decode(data)
	if decodeErr != nil {
		return nil, fmt.Errorf("document %s: %w", key, decodeErr)
	}

	return doc, nil
}

func (s *Store) saveLocked(key string, doc *document.UserDocument) error {
	data, err := document.Encode(doc)
	if err != nil {
		return err
	}

	path := s.Path(key)

	writeErr := atomic.WriteFile(path, bytes.NewReader(data))
	if writeErr != nil {
		return fmt.Errorf("writing document %s: %w", key, writeErr)
	}

	// atomic.WriteFile doesn't set permissions for new files.
	chmodErr := os.Chmod(path, filePerms)
	if chmodErr != nil {
		return fmt.Errorf("setting document permissions: %w", chmodErr)
	}

	return nil
}

// fileLock is an flock held on a document's sibling .lock file. It guards
// the load-transform-save window against writers in other processes.
type fileLock struct {
	file *os.File
}

func acquireLock(path string) (*fileLock, error) {
	lockPath := path + ".lock"

	file, openErr := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, filePerms) //nolint:gosec // path derives from the data dir
	if openErr != nil {
		return nil, fmt.Errorf("%w: %w", errLockFileOpen, openErr)
	}

	deadline := time.Now().Add(lockTimeout)

	const retryInterval = 10 * time.Millisecond

	for {
		flockErr := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if flockErr == nil {
			return &fileLock{file: file}, nil
		}

		if time.Now().After(deadline) {
			_ = file.Close()

			return nil, fmt.Errorf("%w: %s", errLockTimeout, path)
		}

		time.Sleep(retryInterval)
	}
}

func (l *fileLock) release() {
	if l.file != nil {
		_ = unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
		_ = l.file.Close()
		l.file = nil
	}
}
