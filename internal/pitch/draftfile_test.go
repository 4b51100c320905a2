package pitch

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"pitchclerk/internal/services"
)

func writeDraft(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "draft.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write draft: %v", err)
	}
	return path
}

func TestLoadDraftFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "song.flac", 32)
	writeFile(t, dir, "cover.jpeg", 16)
	path := writeDraft(t, dir, `
pitch_type = "advance"
territories = ["nigeria", "Ghana"]
package = "pitch pro"

[release]
title = "Midnight"
type = "ep"
primary_artist = "Ada"
genre = "Afrobeats"
description = "Debut"

[media]
music_file = "song.flac"
cover_photo = "cover.jpeg"

[links]
platforms = ["spotify", "Apple Music"]
release_date = "2026-11-20"
language = "English"
country = "Nigeria"
`)

	df, err := LoadDraftFile(path)
	if err != nil {
		t.Fatalf("LoadDraftFile: %v", err)
	}
	d := df.Draft
	if df.PitchType != "advance" {
		t.Fatalf("pitch type = %q", df.PitchType)
	}
	if d.Title != "Midnight" || d.Type != ReleaseEP || d.Version != "Original" {
		t.Fatalf("release fields = %+v", d)
	}
	if !reflect.DeepEqual(d.Platforms, []string{"Spotify", "Apple Music"}) {
		t.Fatalf("platforms = %v", d.Platforms)
	}
	if !reflect.DeepEqual(d.Territories.List(), []string{"Nigeria", "Ghana"}) {
		t.Fatalf("territories = %v", d.Territories.List())
	}
	if d.Package != PackagePro {
		t.Fatalf("package = %q", d.Package)
	}
	if d.MusicFile == nil || d.MusicFile.Path != filepath.Join(dir, "song.flac") {
		t.Fatalf("music file = %+v", d.MusicFile)
	}
	if err := Validate(d); err != nil {
		t.Fatalf("loaded draft should validate: %v", err)
	}
}

func TestLoadDraftFileRejections(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown key", body: "colour = \"red\"\n"},
		{name: "unknown territory", body: "territories = [\"Atlantis\"]\n"},
		{name: "unknown package", body: "package = \"Gold\"\n"},
		{name: "bad release type", body: "[release]\ntype = \"Mixtape\"\n"},
		{name: "missing media", body: "[media]\nmusic_file = \"nope.mp3\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDraft(t, t.TempDir(), tt.body)
			if _, err := LoadDraftFile(path); !errors.Is(err, services.ErrValidation) {
				t.Fatalf("error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestLoadDraftFileMissing(t *testing.T) {
	if _, err := LoadDraftFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
