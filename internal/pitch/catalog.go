package pitch

import (
	"fmt"
	"strings"
)

// ReleaseType is the kind of release being pitched.
type ReleaseType string

const (
	ReleaseSingle ReleaseType = "Single"
	ReleaseEP     ReleaseType = "EP"
	ReleaseAlbum  ReleaseType = "Album"
)

// ReleaseTypes lists the accepted release types in display order.
func ReleaseTypes() []ReleaseType {
	return []ReleaseType{ReleaseSingle, ReleaseEP, ReleaseAlbum}
}

// ParseReleaseType matches raw case-insensitively.
func ParseReleaseType(raw string) (ReleaseType, error) {
	for _, rt := range ReleaseTypes() {
		if strings.EqualFold(strings.TrimSpace(raw), string(rt)) {
			return rt, nil
		}
	}
	return "", fmt.Errorf("unknown release type %q", raw)
}

// PackageID identifies a service tier. It is sent verbatim as packagePlan.
type PackageID string

const (
	PackagePro     PackageID = "Pro"
	PackageAdvance PackageID = "Advance"
	PackageCurator PackageID = "Curator"
)

// Package describes a service tier.
type Package struct {
	ID            PackageID
	Name          string
	Price         string
	OriginalPrice string
	Period        string
	Recommended   bool
	Features      []string
}

var packages = []Package{
	{
		ID:            PackageCurator,
		Name:          "Advance Pitch",
		Price:         "$35",
		OriginalPrice: "$55",
		Period:        "/ Pitch",
		Features: []string{
			"Advanced Curator pitch & Playlist placement across DSPs",
			"No pitch evaluation",
			"Limited Pitch exposure (Audiomack, Boomplay, Mdundo)",
			"Press Feature",
			"Limited feedback or suggestion",
			"Email Support",
		},
	},
	{
		ID:          PackageAdvance,
		Name:        "Pitch Boast",
		Price:       "$155",
		Period:      "/ Pitch",
		Recommended: true,
		Features: []string{
			"Limited Editorial Playlist Pitch & placements across DSPs",
			"Advanced Pitch Evaluation",
			"Advance Pitch Exposure (Tidal, Apple Music, Deezer, YouTube Music, Spotify)",
			"Access to basic educational resources on pitching, marketing and distribution",
			"Curator Playlist Placement",
			"Pro feedback and suggestion",
			"Priority email support",
			"Customizable pitch templates",
			"Editorial Press Feature",
		},
	},
	{
		ID:     PackagePro,
		Name:   "Pitch Pro",
		Price:  "$500",
		Period: "/ Pitch",
		Features: []string{
			"Guaranteed Editorial & Curator playlist & Pitch Placement across All DSPs",
			"Pro search, filtering, and analytics tools",
			"Access to all educational resources, including advanced pitching strategies",
			"Priority email support",
			"Editorial Press Feature",
			"Unlimited number of pitch and placement",
			"Customizable pitch templates",
			"Full Pitch Asset Optimization",
		},
	},
}

// Packages returns the service tiers in display order.
func Packages() []Package {
	out := make([]Package, len(packages))
	for i, p := range packages {
		p.Features = append([]string(nil), p.Features...)
		out[i] = p
	}
	return out
}

// LookupPackage resolves a package by id or display name, case-insensitively.
func LookupPackage(raw string) (Package, bool) {
	raw = strings.TrimSpace(raw)
	for _, p := range Packages() {
		if strings.EqualFold(raw, string(p.ID)) || strings.EqualFold(raw, p.Name) {
			return p, true
		}
	}
	return Package{}, false
}

// Platforms is the fixed set of streaming platforms a pitch can target.
var Platforms = []string{
	"Apple Music",
	"Spotify",
	"Amazon Music",
	"YouTube Music",
	"Deezer",
	"Tidal",
	"Audiomack",
	"Boomplay",
	"Mdundo",
}

// CanonicalPlatform returns the catalog spelling of raw.
func CanonicalPlatform(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, p := range Platforms {
		if strings.EqualFold(raw, p) {
			return p, true
		}
	}
	return "", false
}

// PitchType maps a URL slug onto the value the API expects.
type PitchType struct {
	Slug  string
	Value string
	Title string
}

// DefaultPitchType is used for unrecognised slugs.
const DefaultPitchType = "Pitch to distribution"

var pitchTypes = []PitchType{
	{Slug: "distribution", Value: "Pitch to distribution", Title: "Pitch for Playlist placement"},
	{Slug: "distributor-aggregator", Value: "Pitch to distributor aggregator", Title: "Pitch to distributor aggregator"},
	{Slug: "publishing", Value: "Pitch for publishing", Title: "Pitch for publishing"},
	{Slug: "advance", Value: "Pitch for advance", Title: "Pitch for advance"},
}

// PitchTypes returns the known pitch types.
func PitchTypes() []PitchType {
	return append([]PitchType(nil), pitchTypes...)
}

// ResolvePitchType returns the API value for slug, falling back to
// DefaultPitchType.
func ResolvePitchType(slug string) string {
	slug = strings.ToLower(strings.TrimSpace(slug))
	for _, pt := range pitchTypes {
		if pt.Slug == slug {
			return pt.Value
		}
	}
	return DefaultPitchType
}
