package noteservice

import (
	"context"
	"log/slog"
	"sync"
)

// Change kinds reported by Changes.Filter.
const (
	ChangeCreated = "created"
	ChangeUpdated = "updated"
	ChangeDeleted = "deleted"
)

// Changes turns raw file events into changes of the published view. It
// remembers which notes were published after the previous event, so files
// that are hidden or not published never surface, and a note that stops
// being published is reported as deleted.
type Changes struct {
	svc *Service

	mu        sync.Mutex
	published map[string]struct{}
}

// Changes returns a tracker seeded with the currently published notes.
func (s *Service) Changes(ctx context.Context) (*Changes, error) {
	res, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	c := &Changes{svc: s, published: make(map[string]struct{}, res.Files.Len())}
	for _, p := range res.Files.Paths() {
		c.published[p] = struct{}{}
	}
	return c, nil
}

// Filter reloads the vault after a file event on path and reports the
// resulting change to the published view. ok is false when the published
// state of path did not change in a visible way.
func (c *Changes) Filter(ctx context.Context, path string) (kind string, ok bool) {
	res, err := c.svc.Load(ctx)
	if err != nil {
		c.svc.logger.Warn("changes: reload failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return "", false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, was := c.published[path]
	_, is := res.Files.Get(path)

	c.published = make(map[string]struct{}, res.Files.Len())
	for _, p := range res.Files.Paths() {
		c.published[p] = struct{}{}
	}

	switch {
	case is && was:
		return ChangeUpdated, true
	case is:
		return ChangeCreated, true
	case was:
		return ChangeDeleted, true
	}
	return "", false
}
