package pitch

import (
	"testing"

	"pitchclerk/internal/testsupport"
)

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	return testsupport.WriteMedia(t, dir, name, int64(size))
}

// completeDraft returns a draft that passes Validate.
func completeDraft(t *testing.T) *Draft {
	t.Helper()
	dir := t.TempDir()
	music, err := OpenMedia(writeFile(t, dir, "song.mp3", 128), MediaMusic)
	if err != nil {
		t.Fatalf("open music: %v", err)
	}
	cover, err := OpenMedia(writeFile(t, dir, "cover.png", 64), MediaCover)
	if err != nil {
		t.Fatalf("open cover: %v", err)
	}

	pkg := PackagePro
	d := NewDraft()
	d.Apply(Patch{
		Title:         String("Midnight"),
		PrimaryArtist: String("Ada"),
		Genre:         String("Afrobeats"),
		SubGenre:      String("Amapiano"),
		Description:   String("Debut single"),
		ReleaseDate:   String("2026-11-20"),
		PromotionDate: String("2026-11-01"),
		Language:      String("English"),
		Country:       String("Nigeria"),
		ListenLink:    String("https://soundcloud.com/ada/midnight"),
		MusicFile:     music,
		CoverPhoto:    cover,
		Territories:   []string{"Nigeria", "Ghana"},
		Package:       &pkg,
	})
	return d
}
