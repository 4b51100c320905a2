package pitch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"pitchclerk/internal/services"
)

// DraftFile is a pitch described on disk for non-interactive submission.
type DraftFile struct {
	PitchType string
	Draft     *Draft
}

type draftDocument struct {
	PitchType string `toml:"pitch_type"`
	Release   struct {
		Title           string `toml:"title"`
		Version         string `toml:"version"`
		Type            string `toml:"type"`
		PrimaryArtist   string `toml:"primary_artist"`
		FeaturingArtist string `toml:"featuring_artist"`
		Genre           string `toml:"genre"`
		SubGenre        string `toml:"sub_genre"`
		RecordName      string `toml:"record_name"`
		UpcEan          string `toml:"upc_ean"`
		Description     string `toml:"description"`
		MarketingPlan   string `toml:"marketing_plan"`
	} `toml:"release"`
	Media struct {
		MusicFile  string `toml:"music_file"`
		CoverPhoto string `toml:"cover_photo"`
	} `toml:"media"`
	Links struct {
		Platforms     []string `toml:"platforms"`
		PitchLocation string   `toml:"pitch_location"`
		AppleMusic    string   `toml:"apple_music"`
		MusicLink     string   `toml:"music_link"`
		ListenLink    string   `toml:"listen_link"`
		ReleaseDate   string   `toml:"release_date"`
		PromotionDate string   `toml:"promotion_date"`
		Language      string   `toml:"language"`
		Country       string   `toml:"country"`
	} `toml:"links"`
	Territories []string `toml:"territories"`
	Package     string   `toml:"package"`
}

// LoadDraftFile reads a TOML draft. Media paths are resolved relative to the
// file and checked with OpenMedia; territories and platforms are matched
// against the catalog case-insensitively. Unset fields keep NewDraft's
// defaults.
func LoadDraftFile(path string) (*DraftFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open draft file: %w", err)
	}
	defer file.Close()

	var doc draftDocument
	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, services.Wrap(services.ErrValidation, "load draft", "Unknown keys in draft file:\n"+strict.String(), err)
		}
		return nil, fmt.Errorf("parse draft file: %w", err)
	}

	draft := NewDraft()
	patch := Patch{
		Title:           optional(doc.Release.Title),
		Version:         optional(doc.Release.Version),
		PrimaryArtist:   optional(doc.Release.PrimaryArtist),
		FeaturingArtist: optional(doc.Release.FeaturingArtist),
		Genre:           optional(doc.Release.Genre),
		SubGenre:        optional(doc.Release.SubGenre),
		RecordName:      optional(doc.Release.RecordName),
		UpcEan:          optional(doc.Release.UpcEan),
		Description:     optional(doc.Release.Description),
		MarketingPlan:   optional(doc.Release.MarketingPlan),
		PitchLocation:   optional(doc.Links.PitchLocation),
		AppleMusic:      optional(doc.Links.AppleMusic),
		MusicLink:       optional(doc.Links.MusicLink),
		ListenLink:      optional(doc.Links.ListenLink),
		ReleaseDate:     optional(doc.Links.ReleaseDate),
		PromotionDate:   optional(doc.Links.PromotionDate),
		Language:        optional(doc.Links.Language),
		Country:         optional(doc.Links.Country),
	}

	if raw := strings.TrimSpace(doc.Release.Type); raw != "" {
		rt, err := ParseReleaseType(raw)
		if err != nil {
			return nil, services.NewValidationError("load draft", err.Error())
		}
		patch.Type = &rt
	}
	if len(doc.Links.Platforms) > 0 {
		platforms := make([]string, 0, len(doc.Links.Platforms))
		for _, p := range doc.Links.Platforms {
			if canonical, ok := CanonicalPlatform(p); ok {
				p = canonical
			}
			platforms = append(platforms, p)
		}
		patch.Platforms = platforms
	}
	if len(doc.Territories) > 0 {
		territories := make([]string, 0, len(doc.Territories))
		for _, t := range doc.Territories {
			canonical, ok := CanonicalCountry(t)
			if !ok {
				return nil, services.NewValidationError("load draft", fmt.Sprintf("Unknown territory %q.", t))
			}
			territories = append(territories, canonical)
		}
		patch.Territories = territories
	}
	if raw := strings.TrimSpace(doc.Package); raw != "" {
		pkg, ok := LookupPackage(raw)
		if !ok {
			return nil, services.NewValidationError("load draft", fmt.Sprintf("Unknown package %q.", raw))
		}
		patch.Package = &pkg.ID
	}

	base := filepath.Dir(path)
	if p := strings.TrimSpace(doc.Media.MusicFile); p != "" {
		m, err := OpenMedia(resolveRelative(base, p), MediaMusic)
		if err != nil {
			return nil, err
		}
		patch.MusicFile = m
	}
	if p := strings.TrimSpace(doc.Media.CoverPhoto); p != "" {
		m, err := OpenMedia(resolveRelative(base, p), MediaCover)
		if err != nil {
			return nil, err
		}
		patch.CoverPhoto = m
	}

	draft.Apply(patch)
	return &DraftFile{PitchType: strings.TrimSpace(doc.PitchType), Draft: draft}, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func resolveRelative(base, path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
