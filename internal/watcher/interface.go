// internal/watcher/interface.go
package watcher

import (
	"context"
	"time"

	"github.com/jackchuka/gp/internal/model"
)

// RepoWatcher reports repositories whose prompt may need re-rendering.
type RepoWatcher interface {
	Events() <-chan Event
	Watch(repo *model.Repository) error
	Unwatch(root string)
	Run(ctx context.Context)
	Close() error
}

type Event struct {
	RepoPath string // Working tree root
	Time     time.Time
}
