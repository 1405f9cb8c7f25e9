// Package player sits between the playback surface and the progress
// repository. Playback emits position ticks far more often than is worth
// persisting; the coalescer turns that stream into at most one durable
// write per coalescing window.
package player

import (
	"math"
	"sync"

	"github.com/rnovais/coursetrack/internal/database/progress"
	"github.com/rnovais/coursetrack/internal/entities"
)

// DefaultWindowSeconds is the default coalescing window: the playback
// position must advance into a new window before the next durable write.
const DefaultWindowSeconds = 5.0

// ProgressStore is the write path the coalescer persists through.
type ProgressStore interface {
	Upsert(p progress.UpsertParams) (*progress.UpsertResult, error)
}

type session struct {
	started       bool
	lastPersisted float64
	lastCompleted bool
	pending       *progress.UpsertParams
}

// Coalescer decides which playback ticks become durable writes. The window
// is keyed on the reported position, not wall-clock time, so seeking never
// starves writes. Sessions are tracked in memory: the first persisted tick
// for a video without live state counts as a fresh play session and is the
// only write that bumps watch_count.
type Coalescer struct {
	store  ProgressStore
	window float64

	mu       sync.Mutex
	sessions map[string]*session
}

// NewCoalescer creates a coalescer over the given store. windowSeconds
// falls back to DefaultWindowSeconds when zero or negative.
func NewCoalescer(store ProgressStore, windowSeconds float64) *Coalescer {
	if windowSeconds <= 0 {
		windowSeconds = DefaultWindowSeconds
	}
	return &Coalescer{
		store:    store,
		window:   windowSeconds,
		sessions: make(map[string]*session),
	}
}

// Tick handles one periodic playback position event. It persists when the
// position crosses a window boundary, when the completion flag would
// change, or on the first tick of a session; otherwise the tick is kept
// pending so Flush can persist it later. A persisted tick returns the
// repository's result, a coalesced one returns (nil, nil).
func (c *Coalescer) Tick(videoID string, currentTime, duration float64) (*progress.UpsertResult, error) {
	return c.tick(videoID, currentTime, duration, false)
}

// Seek handles a deliberate user time-jump. It bypasses the window and
// persists unconditionally.
func (c *Coalescer) Seek(videoID string, currentTime, duration float64) (*progress.UpsertResult, error) {
	return c.tick(videoID, currentTime, duration, true)
}

func (c *Coalescer) tick(videoID string, currentTime, duration float64, force bool) (*progress.UpsertResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[videoID]
	if !ok {
		s = &session{}
		c.sessions[videoID] = s
	}

	auto := entities.AutoCompleted(currentTime, duration)
	write := force ||
		!s.started ||
		c.windowCrossed(s.lastPersisted, currentTime) ||
		(s.lastCompleted || auto) != s.lastCompleted

	params := progress.UpsertParams{
		VideoID:     videoID,
		CurrentTime: currentTime,
		Duration:    duration,
		NewSession:  !s.started,
	}
	if !write {
		p := params
		s.pending = &p
		return nil, nil
	}

	return c.persist(s, params)
}

// EndSession flushes any pending position for the video and forgets its
// session, so the next tick counts as a fresh play.
func (c *Coalescer) EndSession(videoID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[videoID]
	if !ok {
		return nil
	}
	delete(c.sessions, videoID)

	if s.pending == nil {
		return nil
	}
	_, err := c.store.Upsert(*s.pending)
	return err
}

// Flush persists every pending position. Called on shutdown so the last
// coalesced tick of each video is not lost.
func (c *Coalescer) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for _, s := range c.sessions {
		if s.pending == nil {
			continue
		}
		if _, err := c.persist(s, *s.pending); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *Coalescer) persist(s *session, params progress.UpsertParams) (*progress.UpsertResult, error) {
	result, err := c.store.Upsert(params)
	if err != nil {
		return nil, err
	}
	s.started = true
	s.lastPersisted = result.Progress.CurrentTime
	s.lastCompleted = result.Progress.Completed
	s.pending = nil
	return result, nil
}

func (c *Coalescer) windowCrossed(last, current float64) bool {
	return math.Floor(last/c.window) != math.Floor(current/c.window)
}
