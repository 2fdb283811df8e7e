package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"vnbcrawler/internal/model"
)

// Task is a background write whose outcome is observed on its own.
type Task struct {
	done chan struct{}
	err  error
}

// Wait blocks until the write has finished and returns its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

// MirrorJSON writes store as JSON to path in the background. Failures are
// logged and reported through the returned Task only. The store must not be
// modified until the task is done.
func MirrorJSON(path string, store *model.Store) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.err = writeJSON(path, store)
		if t.err != nil {
			log.WithField("file", path).WithError(t.err).Error("failed to save json mirror")
			return
		}
		log.WithField("file", path).Info("json mirror saved")
	}()
	return t
}

func writeJSON(path string, store *model.Store) error {
	data, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
