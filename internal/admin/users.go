package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"pitchclerk/internal/logging"
	adminsvc "pitchclerk/internal/services/admin"
)

const approvedStatus = "approved"

// UserSource is the subset of the admin service UserList needs.
type UserSource interface {
	ListUsers(ctx context.Context) (*adminsvc.UsersResponse, error)
	ApproveUser(ctx context.Context, id string) (*adminsvc.StatusResponse, error)
}

// UserList is the administrator's user table.
type UserList struct {
	source UserSource
	logger *slog.Logger

	mu       sync.Mutex
	items    []adminsvc.Account
	total    int
	inFlight map[string]struct{}
}

// NewUserList builds an empty list over source. Call Load to populate it.
func NewUserList(source UserSource, logger *slog.Logger) *UserList {
	return &UserList{
		source:   source,
		logger:   logging.NewComponentLogger(logger, "admin-users"),
		inFlight: make(map[string]struct{}),
	}
}

// Load replaces the list with a fresh fetch. On failure the previous contents
// are kept.
func (l *UserList) Load(ctx context.Context) error {
	resp, err := l.source.ListUsers(ctx)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.items = append([]adminsvc.Account(nil), resp.Data...)
	l.total = len(resp.Data)
	if resp.TotalUsers != nil {
		l.total = *resp.TotalUsers
	}
	l.mu.Unlock()
	return nil
}

// Items returns a copy of the loaded accounts.
func (l *UserList) Items() []adminsvc.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]adminsvc.Account(nil), l.items...)
}

// Total is the server-reported user count, or the list length when the
// server did not report one.
func (l *UserList) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// Filter returns the accounts matching term, in list order.
func (l *UserList) Filter(term string) []adminsvc.Account {
	items := l.Items()
	m := newMatcher(term)
	if m.empty() {
		return items
	}
	out := make([]adminsvc.Account, 0, len(items))
	for _, a := range items {
		if m.matchUser(a) {
			out = append(out, a)
		}
	}
	return out
}

// Find returns the account with id.
func (l *UserList) Find(id string) (adminsvc.Account, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexLocked(id); i >= 0 {
		return l.items[i], true
	}
	return adminsvc.Account{}, false
}

// Busy reports whether an approval for id is in flight.
func (l *UserList) Busy(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.inFlight[id]
	return ok
}

// Approve marks the account approved locally, asks the API to approve it and
// then re-fetches the list. A failed API call restores the previous state.
func (l *UserList) Approve(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)

	l.mu.Lock()
	if _, busy := l.inFlight[id]; busy {
		l.mu.Unlock()
		return ErrRowBusy
	}
	i := l.indexLocked(id)
	if i < 0 {
		l.mu.Unlock()
		return fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	previous := l.items[i]
	l.items[i].Status = approvedStatus
	l.items[i].IsApproved = true
	l.inFlight[id] = struct{}{}
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.inFlight, id)
		l.mu.Unlock()
	}()

	logger := logging.WithContext(ctx, l.logger).With(logging.String("user_id", id))
	if _, err := l.source.ApproveUser(ctx, id); err != nil {
		l.mu.Lock()
		if j := l.indexLocked(id); j >= 0 {
			l.items[j].Status = previous.Status
			l.items[j].IsApproved = previous.IsApproved
		}
		l.mu.Unlock()
		logger.Warn("approval failed; rolled back", logging.Error(err))
		return err
	}

	if err := l.Load(ctx); err != nil {
		logger.Warn("re-fetch after approval failed", logging.Error(err))
	}
	return nil
}

func (l *UserList) indexLocked(id string) int {
	for i := range l.items {
		if l.items[i].ID == id {
			return i
		}
	}
	return -1
}

// NeedsApproval reports whether a is awaiting approval: not approved and not
// an administrator.
func NeedsApproval(a adminsvc.Account) bool {
	return !strings.EqualFold(a.Status, approvedStatus) && !a.IsAdmin()
}
