package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"sauna_automation/internal/logger"
	"sauna_automation/internal/models"
)

// PersistenceError is a failed marker file operation. The marker is advisory,
// so callers log it and carry on.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("marker %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// MarkerFile keeps the automation marker in a small JSON file. Writes go
// through a temp file and a rename, so readers see either the old or the new
// marker, never a partial one.
type MarkerFile struct {
	path string
	now  func() time.Time
	log  *logger.Logger
}

func NewMarkerFile(path string, now func() time.Time, log *logger.Logger) *MarkerFile {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &MarkerFile{path: path, now: now, log: log}
}

// Path returns the marker file location.
func (m *MarkerFile) Path() string { return m.path }

// Record writes the marker stamped with the current UTC time. Failures are
// logged and returned as *PersistenceError.
func (m *MarkerFile) Record(automatic bool) error {
	marker := models.AutomationMarker{Automatic: automatic, Timestamp: m.now().UTC()}
	if err := m.write(marker); err != nil {
		m.log.Warnw("Automation marker write failed", "path", m.path, "err", err)
		return err
	}
	m.log.Infow("Automation marker recorded", "path", m.path, "automatic", automatic)
	return nil
}

func (m *MarkerFile) write(marker models.AutomationMarker) error {
	b, err := json.Marshal(marker)
	if err != nil {
		return &PersistenceError{Op: "encode", Path: m.path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(m.path), "."+filepath.Base(m.path)+".*")
	if err != nil {
		return &PersistenceError{Op: "write", Path: m.path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return &PersistenceError{Op: "write", Path: m.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &PersistenceError{Op: "write", Path: m.path, Err: err}
	}
	if err := os.Rename(tmpName, m.path); err != nil {
		return &PersistenceError{Op: "write", Path: m.path, Err: err}
	}
	return nil
}

// Clear removes the marker. A missing marker is not an error. Quiet suppresses
// the informational log line.
func (m *MarkerFile) Clear(quiet bool) error {
	err := os.Remove(m.path)
	switch {
	case err == nil:
		if !quiet {
			m.log.Infow("Automation marker removed", "path", m.path)
		}
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		perr := &PersistenceError{Op: "remove", Path: m.path, Err: err}
		m.log.Warnw("Automation marker removal failed", "path", m.path, "err", err)
		return perr
	}
}

// Read returns the marker, or nil when it is absent or unreadable.
func (m *MarkerFile) Read() *models.AutomationMarker {
	b, err := os.ReadFile(m.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			m.log.Debugw("Automation marker unreadable", "path", m.path, "err", err)
		}
		return nil
	}
	var marker models.AutomationMarker
	if err := json.Unmarshal(b, &marker); err != nil {
		m.log.Debugw("Automation marker unparsable", "path", m.path, "err", err)
		return nil
	}
	if marker.Timestamp.IsZero() {
		return nil
	}
	marker.Timestamp = marker.Timestamp.UTC()
	return &marker
}
