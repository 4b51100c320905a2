package pitch

import (
	"errors"
	"strings"
	"testing"

	"pitchclerk/internal/services"
)

func TestValidateAcceptsCompleteDraft(t *testing.T) {
	if err := Validate(completeDraft(t)); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateListsMissingFields(t *testing.T) {
	err := Validate(NewDraft())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	msg := services.UserMessage(err, "")
	for _, want := range []string{"release title", "primary artist", "music file", "cover photo", "territory", "package"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not mention %q", msg, want)
		}
	}
}

func TestValidateRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		name  string
		patch Patch
		want  string
	}{
		{name: "release date", patch: Patch{ReleaseDate: String("20/11/2026")}, want: "release date (use YYYY-MM-DD)"},
		{name: "link", patch: Patch{AppleMusic: String("not a link")}, want: "Apple Music link (not a URL)"},
		{name: "platform", patch: Patch{Platforms: []string{"Napster"}}, want: `platform "Napster"`},
		{name: "no platforms", patch: Patch{Platforms: []string{}}, want: "Missing platforms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := completeDraft(t)
			d.Apply(tt.patch)
			err := Validate(d)
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("error = %v, want ErrValidation", err)
			}
			if msg := services.UserMessage(err, ""); !strings.Contains(msg, tt.want) {
				t.Fatalf("message %q does not contain %q", msg, tt.want)
			}
		})
	}
}
