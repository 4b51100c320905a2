package admin

import adminsvc "pitchclerk/internal/services/admin"

// Stats are the dashboard counters.
type Stats struct {
	TotalUsers       int `json:"totalUsers"`
	AdminUsers       int `json:"adminUsers"`
	PendingApprovals int `json:"pendingApprovals"`
	TotalPitches     int `json:"totalPitches"`
	PendingPitches   int `json:"pendingPitches"`
}

// ComputeStats counts users and pitches. A user is pending approval when the
// isApproved flag is unset and the role is not admin; a pitch is pending when
// its status is pending or empty.
func ComputeStats(users []adminsvc.Account, pitches []adminsvc.Pitch) Stats {
	s := Stats{TotalUsers: len(users), TotalPitches: len(pitches)}
	for _, u := range users {
		if u.IsAdmin() {
			s.AdminUsers++
			continue
		}
		if !u.IsApproved {
			s.PendingApprovals++
		}
	}
	for _, p := range pitches {
		if p.Status.Effective() == adminsvc.StatusPending {
			s.PendingPitches++
		}
	}
	return s
}
