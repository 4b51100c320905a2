package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"pitchclerk/internal/logging"
	"pitchclerk/internal/services"
	adminsvc "pitchclerk/internal/services/admin"
)

var (
	// ErrRowBusy is returned when a mutation for the same row is in flight.
	ErrRowBusy = errors.New("an update for this record is already in progress")
	// ErrNotFound is returned when the id is not in the loaded list.
	ErrNotFound = errors.New("record not found")
)

// PitchSource is the subset of the admin service PitchList needs.
type PitchSource interface {
	ListPitches(ctx context.Context) (*adminsvc.PitchesResponse, error)
	UpdatePitchStatus(ctx context.Context, id string, status adminsvc.PitchStatus) (*adminsvc.StatusResponse, error)
}

// PitchList is the administrator's pitch table.
type PitchList struct {
	source PitchSource
	logger *slog.Logger

	mu       sync.Mutex
	items    []adminsvc.Pitch
	inFlight map[string]struct{}
}

// NewPitchList builds an empty list over source. Call Load to populate it.
func NewPitchList(source PitchSource, logger *slog.Logger) *PitchList {
	return &PitchList{
		source:   source,
		logger:   logging.NewComponentLogger(logger, "admin-pitches"),
		inFlight: make(map[string]struct{}),
	}
}

// Load replaces the list with a fresh fetch. On failure the previous contents
// are kept.
func (l *PitchList) Load(ctx context.Context) error {
	resp, err := l.source.ListPitches(ctx)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.items = append([]adminsvc.Pitch(nil), resp.Data...)
	l.mu.Unlock()
	return nil
}

// Items returns a copy of the loaded pitches.
func (l *PitchList) Items() []adminsvc.Pitch {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]adminsvc.Pitch(nil), l.items...)
}

// Filter returns the pitches matching term, in list order.
func (l *PitchList) Filter(term string) []adminsvc.Pitch {
	items := l.Items()
	m := newMatcher(term)
	if m.empty() {
		return items
	}
	out := make([]adminsvc.Pitch, 0, len(items))
	for _, p := range items {
		if m.matchPitch(p) {
			out = append(out, p)
		}
	}
	return out
}

// Find returns the pitch with id.
func (l *PitchList) Find(id string) (adminsvc.Pitch, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexLocked(id); i >= 0 {
		return l.items[i], true
	}
	return adminsvc.Pitch{}, false
}

// Busy reports whether a mutation for id is in flight.
func (l *PitchList) Busy(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.inFlight[id]
	return ok
}

// UpdateStatus sets the row's status locally, asks the API to apply it and
// then re-fetches the list. A failed API call restores the previous status.
// A failed re-fetch is logged and leaves the optimistic value in place.
func (l *PitchList) UpdateStatus(ctx context.Context, id string, status adminsvc.PitchStatus) error {
	id = strings.TrimSpace(id)
	parsed, err := adminsvc.ParsePitchStatus(string(status))
	if err != nil {
		return services.NewValidationError("update pitch status", err.Error())
	}

	l.mu.Lock()
	if _, busy := l.inFlight[id]; busy {
		l.mu.Unlock()
		return ErrRowBusy
	}
	i := l.indexLocked(id)
	if i < 0 {
		l.mu.Unlock()
		return fmt.Errorf("pitch %s: %w", id, ErrNotFound)
	}
	previous := l.items[i].Status
	l.items[i].Status = parsed
	l.inFlight[id] = struct{}{}
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.inFlight, id)
		l.mu.Unlock()
	}()

	logger := logging.WithContext(ctx, l.logger).With(logging.String("pitch_id", id))
	if _, err := l.source.UpdatePitchStatus(ctx, id, parsed); err != nil {
		l.mu.Lock()
		if j := l.indexLocked(id); j >= 0 && l.items[j].Status == parsed {
			l.items[j].Status = previous
		}
		l.mu.Unlock()
		logger.Warn("status update failed; rolled back", logging.Error(err))
		return err
	}

	if err := l.Load(ctx); err != nil {
		logger.Warn("re-fetch after status update failed", logging.Error(err))
	}
	return nil
}

func (l *PitchList) indexLocked(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}
