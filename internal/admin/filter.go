package admin

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	adminsvc "pitchclerk/internal/services/admin"
)

// matcher folds case once per filter pass. A Caser must not be shared between
// goroutines, so each pass builds its own.
type matcher struct {
	fold cases.Caser
	term string
}

// newMatcher trims the term, so a blank or whitespace-only search matches
// every row.
func newMatcher(term string) *matcher {
	fold := cases.Fold()
	return &matcher{fold: fold, term: fold.String(strings.TrimSpace(term))}
}

func (m *matcher) empty() bool {
	return m.term == ""
}

// matchAny reports whether any field contains the term.
func (m *matcher) matchAny(fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(m.fold.String(f), m.term) {
			return true
		}
	}
	return false
}

// matchPitch checks title, primary artist, submitter email, pitch type and status.
func (m *matcher) matchPitch(p adminsvc.Pitch) bool {
	return m.matchAny(p.ReleaseInfo.Title, p.ReleaseInfo.PrimaryArtist, p.User.Email, p.PitchType, string(p.Status))
}

// matchUser checks email, first name, last name and role.
func (m *matcher) matchUser(a adminsvc.Account) bool {
	return m.matchAny(a.Email, a.FirstName, a.LastName, a.Role)
}

// StatusLabel renders a pitch status for display, treating empty as pending.
func StatusLabel(s adminsvc.PitchStatus) string {
	return cases.Upper(language.English).String(string(s.Effective()))
}

// ApprovalLabel renders an account's approval state for display.
func ApprovalLabel(a adminsvc.Account) string {
	switch {
	case strings.EqualFold(a.Status, "approved"):
		return "Approved"
	case strings.EqualFold(a.Status, "pending"):
		return "Pending"
	case strings.TrimSpace(a.Status) == "":
		return "Not set"
	default:
		return cases.Title(language.English).String(a.Status)
	}
}
