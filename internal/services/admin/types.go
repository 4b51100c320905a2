package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// PitchStatus is the review state of a pitch.
type PitchStatus string

const (
	StatusPending  PitchStatus = "pending"
	StatusApproved PitchStatus = "approved"
	StatusDeclined PitchStatus = "declined"
	StatusInReview PitchStatus = "in review"
)

// ParsePitchStatus accepts a status an administrator may request. Only
// approved and declined are settable.
func ParsePitchStatus(raw string) (PitchStatus, error) {
	switch status := PitchStatus(strings.ToLower(strings.TrimSpace(raw))); status {
	case StatusApproved, StatusDeclined:
		return status, nil
	default:
		return "", fmt.Errorf("status %q cannot be set; use %q or %q", raw, StatusApproved, StatusDeclined)
	}
}

// Effective returns the status, treating an empty value as pending.
func (s PitchStatus) Effective() PitchStatus {
	if strings.TrimSpace(string(s)) == "" {
		return StatusPending
	}
	return s
}

// Account is a user record as seen by an administrator.
type Account struct {
	ID         string `json:"_id"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Role       string `json:"role"`
	Status     string `json:"status,omitempty"`
	IsApproved bool   `json:"isApproved"`
	AuthMethod string `json:"authMethod"`
	CreatedAt  string `json:"createdAt"`
}

// IsAdmin reports whether the account holds the admin role.
func (a Account) IsAdmin() bool {
	return strings.EqualFold(a.Role, "admin")
}

// FullName joins the name parts.
func (a Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Pitch is a submitted pitch as returned by pitch/admin/all.
type Pitch struct {
	ID          string      `json:"_id"`
	PitchType   string      `json:"pitchType"`
	Status      PitchStatus `json:"status"`
	PackagePlan string      `json:"packagePlan"`
	Territory   string      `json:"territory"`
	PaymentLink string      `json:"paymentLink,omitempty"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
	User        PitchOwner  `json:"user"`
	ReleaseInfo ReleaseInfo `json:"releaseInfo"`
	Links       Links       `json:"links"`
	Uploads     Uploads     `json:"uploads"`
}

// ReleaseInfo mirrors the releaseInfo[...] submission fields.
type ReleaseInfo struct {
	Title           string `json:"title"`
	Version         string `json:"version"`
	PrimaryArtist   string `json:"primaryArtist"`
	FeaturingArtist string `json:"featuringArtist"`
	Genre           string `json:"genre"`
	SubGenre        string `json:"subGenre"`
	RecordName      string `json:"recordName"`
	UpsEan          string `json:"upsEan"`
}

// Links mirrors the links[...] submission fields.
type Links struct {
	PitchLocation      string `json:"pitchLocation"`
	AppleMusic         string `json:"appleMusic"`
	MusicLink          string `json:"musicLink"`
	ReleaseDate        string `json:"releaseDate"`
	PromotionStartDate string `json:"promotionStartDate"`
	Language           string `json:"language"`
	Country            string `json:"country"`
}

// Uploads holds the server-side URLs of the submitted media.
type Uploads struct {
	MusicFile  string `json:"musicFile"`
	CoverPhoto string `json:"coverPhoto"`
}

// PitchOwner is the submitting user. The API sends either the populated
// account or its id.
type PitchOwner struct {
	ID        string `json:"_id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

func (o *PitchOwner) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = PitchOwner{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*o = PitchOwner{ID: id}
		return nil
	}
	type plain PitchOwner
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*o = PitchOwner(decoded)
	return nil
}

// UsersResponse is the envelope of account/users.
type UsersResponse struct {
	Status     string    `json:"status"`
	Message    string    `json:"message,omitempty"`
	Data       []Account `json:"data"`
	TotalUsers *int      `json:"totalUsers,omitempty"`
}

// PitchesResponse is the envelope of pitch/admin/all.
type PitchesResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message,omitempty"`
	Data    []Pitch `json:"data"`
}

// StatusResponse is the envelope of the mutating admin endpoints.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
