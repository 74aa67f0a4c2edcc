package watcher

import (
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/minhtran4102/slidecast/internal/logger"
)

// New creates a Watcher monitoring inboxDir for dropped documents.
// Documents are handled one at a time: the generative backend is
// rate-limited, so there is nothing to gain from concurrency.
func New(inboxDir string, handler EventHandler, log logger.Logger) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(inboxDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implWatcher{
		inboxDir: inboxDir,
		handler:  handler,
		logger:   log,
		watcher:  fsw,
	}, nil
}
